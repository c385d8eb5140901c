package commands

import (
	"context"
	"errors"

	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/pkg/metrics"
	"vehicle-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrValidation              = errs.New("validation failed")
	ErrStepOutOfOrder          = errs.New("step cannot be reached yet")
	ErrNotDraft                = errs.New("reservation is no longer editable")
	ErrInvalidCoupon           = errs.New("invalid coupon")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReservationCommands interface {
	StartReservation(ctx context.Context, input TripDetailsInput) (*StartReservationResult, error)
	UpdateTripDetails(ctx context.Context, id uuid.UUID, input TripDetailsInput) error
	SubmitExtras(ctx context.Context, id uuid.UUID, extras map[string]int) error
	SubmitIdentity(ctx context.Context, id uuid.UUID, input IdentityInput) error
	Confirm(ctx context.Context, id uuid.UUID, couponCode *string) (*ConfirmResult, error)
}

type reservationCommandsImpl struct {
	uow     shared.UnitOfWork
	catalog shared.CatalogProvider
	rates   pricing.RateTable
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	catalogProvider shared.CatalogProvider,
	rates pricing.RateTable,
	clk clock.Clock,
	m *metrics.Metrics,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:     uow,
		catalog: catalogProvider,
		rates:   rates,
		clock:   clk,
		metrics: m,
	}
}

// StartReservation is step 0: validate trip parameters, persist the draft and
// hand back an initial quote.
func (u *reservationCommandsImpl) StartReservation(ctx context.Context, input TripDetailsInput) (*StartReservationResult, error) {
	contact, window, locations, err := buildTripValues(input)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	res, err := reservation.NewDraft(contact, window, locations, input.Vehicles, input.Licenses, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	// Catalog first: a draft persisted without a quote would be orphaned,
	// since the caller only receives the draft token on success.
	cat, err := u.catalog.Load(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, res)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	u.metrics.ReservationsStarted.Inc()

	return &StartReservationResult{
		ReservationID: res.ID(),
		Breakdown:     pricing.Compute(res.PricingQuote(), u.rates, cat, nil),
	}, nil
}

// UpdateTripDetails re-runs step 0 against an existing draft (backward edit).
func (u *reservationCommandsImpl) UpdateTripDetails(ctx context.Context, id uuid.UUID, input TripDetailsInput) error {
	contact, window, locations, err := buildTripValues(input)
	if err != nil {
		return errs.Mark(err, ErrValidation)
	}

	return u.mutateDraft(ctx, id, func(res *reservation.Reservation) error {
		return res.UpdateTripDetails(contact, window, locations, input.Vehicles, input.Licenses, u.clock.Now())
	})
}

// SubmitExtras is step 1.
func (u *reservationCommandsImpl) SubmitExtras(ctx context.Context, id uuid.UUID, extras map[string]int) error {
	selection, err := reservation.NewExtrasSelection(extras)
	if err != nil {
		return errs.Mark(err, ErrValidation)
	}

	return u.mutateDraft(ctx, id, func(res *reservation.Reservation) error {
		return res.SubmitExtras(selection, u.clock.Now())
	})
}

// SubmitIdentity is step 2. The identity fields are free-form and optional.
func (u *reservationCommandsImpl) SubmitIdentity(ctx context.Context, id uuid.UUID, input IdentityInput) error {
	identity := reservation.Identity{
		HolderName:     input.HolderName,
		Address:        input.Address,
		Country:        input.Country,
		PostalCode:     input.PostalCode,
		LicenseNumber:  input.LicenseNumber,
		PassportNumber: input.PassportNumber,
		HasPermit:      input.HasPermit,
	}

	return u.mutateDraft(ctx, id, func(res *reservation.Reservation) error {
		return res.SubmitIdentity(identity, u.clock.Now())
	})
}

// mutateDraft loads the reservation, applies the step mutation and persists
// the result before the step is considered complete. Persistence failure
// leaves the stored record on its previous step.
func (u *reservationCommandsImpl) mutateDraft(ctx context.Context, id uuid.UUID, mutate func(*reservation.Reservation) error) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			return markLoadErr(err)
		}

		if err := mutate(res); err != nil {
			return markDomainErr(err)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func buildTripValues(input TripDetailsInput) (reservation.Contact, reservation.TripWindow, reservation.LocationPair, error) {
	contact, err := reservation.NewContact(input.Name, input.Email, input.Phone)
	if err != nil {
		return reservation.Contact{}, reservation.TripWindow{}, reservation.LocationPair{}, err
	}

	window, err := reservation.NewTripWindow(input.PickupAt, input.ReturnAt)
	if err != nil {
		return reservation.Contact{}, reservation.TripWindow{}, reservation.LocationPair{}, err
	}

	locations, err := reservation.NewLocationPair(input.PickupLocation, input.ReturnLocation)
	if err != nil {
		return reservation.Contact{}, reservation.TripWindow{}, reservation.LocationPair{}, err
	}

	return contact, window, locations, nil
}

// markLoadErr keeps driver failures out of the not-found path: a DB outage
// during the load must stay a retryable failure, not a missing reservation.
func markLoadErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrReservationNotFound)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func markDomainErr(err error) error {
	switch {
	case errors.Is(err, reservation.ErrStepOutOfOrder):
		return errs.Mark(err, ErrStepOutOfOrder)
	case errors.Is(err, reservation.ErrNotDraft), errors.Is(err, reservation.ErrAlreadyConfirmed):
		return errs.Mark(err, ErrNotDraft)
	default:
		return errs.Mark(err, ErrValidation)
	}
}
