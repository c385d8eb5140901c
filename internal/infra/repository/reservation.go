package repository

import (
	"context"
	"encoding/json"
	"time"

	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db infra.DBTX
}

func NewReservationRepository(db infra.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `
	id, customer_name, customer_email, customer_phone,
	pickup_at, return_at, pickup_location, return_location,
	vehicles, licenses, extras, identity,
	coupon_code, breakdown, status, current_step,
	created_at, updated_at`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	row, err := toRow(res)
	if err != nil {
		return infra.WrapRepoErr("failed to encode reservation", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		row.id, row.customerName, row.customerEmail, row.customerPhone,
		row.pickupAt, row.returnAt, row.pickupLocation, row.returnLocation,
		row.vehicles, row.licenses, row.extras, row.identity,
		row.couponCode, row.breakdown, row.status, row.currentStep,
		row.createdAt, row.updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	row, err := toRow(res)
	if err != nil {
		return infra.WrapRepoErr("failed to encode reservation", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE reservations SET
			customer_name = $2, customer_email = $3, customer_phone = $4,
			pickup_at = $5, return_at = $6, pickup_location = $7, return_location = $8,
			vehicles = $9, licenses = $10, extras = $11, identity = $12,
			coupon_code = $13, breakdown = $14, status = $15, current_step = $16,
			updated_at = $17
		WHERE id = $1`,
		row.id, row.customerName, row.customerEmail, row.customerPhone,
		row.pickupAt, row.returnAt, row.pickupLocation, row.returnLocation,
		row.vehicles, row.licenses, row.extras, row.identity,
		row.couponCode, row.breakdown, row.status, row.currentStep,
		row.updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.scanOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.scanOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepository) scanOne(ctx context.Context, sql string, id uuid.UUID) (*reservation.Reservation, error) {
	var row reservationRow
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&row.id, &row.customerName, &row.customerEmail, &row.customerPhone,
		&row.pickupAt, &row.returnAt, &row.pickupLocation, &row.returnLocation,
		&row.vehicles, &row.licenses, &row.extras, &row.identity,
		&row.couponCode, &row.breakdown, &row.status, &row.currentStep,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	res, err := fromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reservation row", err)
	}
	return res, nil
}

type reservationRow struct {
	id             uuid.UUID
	customerName   string
	customerEmail  string
	customerPhone  string
	pickupAt       time.Time
	returnAt       time.Time
	pickupLocation string
	returnLocation string
	vehicles       int
	licenses       int
	extras         []byte
	identity       []byte
	couponCode     pgtype.Text
	breakdown      []byte
	status         string
	currentStep    int
	createdAt      time.Time
	updatedAt      time.Time
}

func toRow(res *reservation.Reservation) (reservationRow, error) {
	extras, err := json.Marshal(res.Extras())
	if err != nil {
		return reservationRow{}, err
	}
	identity, err := json.Marshal(res.Identity())
	if err != nil {
		return reservationRow{}, err
	}
	var breakdown []byte
	if res.Breakdown() != nil {
		breakdown, err = json.Marshal(res.Breakdown())
		if err != nil {
			return reservationRow{}, err
		}
	}

	return reservationRow{
		id:             res.ID(),
		customerName:   res.Contact().Name(),
		customerEmail:  res.Contact().Email(),
		customerPhone:  res.Contact().Phone(),
		pickupAt:       res.TripWindow().PickupAt(),
		returnAt:       res.TripWindow().ReturnAt(),
		pickupLocation: res.Locations().Pickup(),
		returnLocation: res.Locations().Return(),
		vehicles:       res.Vehicles(),
		licenses:       res.Licenses(),
		extras:         extras,
		identity:       identity,
		couponCode:     pgconv.StringPtrToPgtype(res.CouponCode()),
		breakdown:      breakdown,
		status:         res.Status().String(),
		currentStep:    int(res.CurrentStep()),
		createdAt:      res.CreatedAt(),
		updatedAt:      res.UpdatedAt(),
	}, nil
}

func fromRow(row reservationRow) (*reservation.Reservation, error) {
	contact, err := reservation.NewContact(row.customerName, row.customerEmail, row.customerPhone)
	if err != nil {
		return nil, err
	}
	window, err := reservation.NewTripWindow(row.pickupAt, row.returnAt)
	if err != nil {
		return nil, err
	}
	locations, err := reservation.NewLocationPair(row.pickupLocation, row.returnLocation)
	if err != nil {
		return nil, err
	}

	var extras reservation.ExtrasSelection
	if err := json.Unmarshal(row.extras, &extras); err != nil {
		return nil, err
	}
	var identity reservation.Identity
	if err := json.Unmarshal(row.identity, &identity); err != nil {
		return nil, err
	}
	var breakdown *pricing.Breakdown
	if len(row.breakdown) > 0 {
		breakdown = &pricing.Breakdown{}
		if err := json.Unmarshal(row.breakdown, breakdown); err != nil {
			return nil, err
		}
	}

	return reservation.Reconstruct(
		row.id,
		contact,
		window,
		locations,
		row.vehicles, row.licenses,
		extras,
		identity,
		pgconv.StringPtrFromPgtype(row.couponCode),
		breakdown,
		reservation.Status(row.status),
		reservation.Step(row.currentStep),
		row.createdAt, row.updatedAt,
	), nil
}
