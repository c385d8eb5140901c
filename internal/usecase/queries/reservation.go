package queries

import (
	"context"

	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidCoupon       = errs.New("invalid coupon")
	ErrCatalogUnavailable  = errs.New("catalog unavailable")
	ErrStoreUnavailable    = errs.New("reservation store unavailable")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// Quote recomputes the breakdown from current trip parameters, optionally
	// previewing a coupon. Validation here is side-effect free and safe to
	// call on every keystroke in the code field.
	Quote(ctx context.Context, id uuid.UUID, couponCode *string) (*pricing.Breakdown, error)
	GetCatalog(ctx context.Context) (*CatalogView, error)
}

type reservationQueriesImpl struct {
	reads   shared.CommandReads
	catalog shared.CatalogProvider
	rates   pricing.RateTable
	clock   clock.Clock
}

func NewReservationQueries(
	reads shared.CommandReads,
	catalogProvider shared.CatalogProvider,
	rates pricing.RateTable,
	clk clock.Clock,
) ReservationQueries {
	return &reservationQueriesImpl{
		reads:   reads,
		catalog: catalogProvider,
		rates:   rates,
		clock:   clk,
	}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	res, err := q.reads.ReservationByID(ctx, id)
	if err != nil {
		return nil, markLoadErr(err)
	}

	breakdown, err := q.breakdownFor(ctx, res)
	if err != nil {
		return nil, err
	}

	return toReservationView(res, breakdown), nil
}

func (q *reservationQueriesImpl) Quote(ctx context.Context, id uuid.UUID, couponCode *string) (*pricing.Breakdown, error) {
	res, err := q.reads.ReservationByID(ctx, id)
	if err != nil {
		return nil, markLoadErr(err)
	}

	var coup *coupon.Coupon
	if couponCode != nil {
		coup, err = q.reads.CouponByCode(ctx, *couponCode)
		if err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, ErrStoreUnavailable)
			}
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}
		if err := coup.ValidateUsage(q.clock.Now()); err != nil {
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}
	}

	cat, err := q.catalog.Load(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrCatalogUnavailable)
	}

	breakdown := pricing.Compute(res.PricingQuote(), q.rates, cat, coup)
	return &breakdown, nil
}

func (q *reservationQueriesImpl) GetCatalog(ctx context.Context) (*CatalogView, error) {
	cat, err := q.catalog.Load(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrCatalogUnavailable)
	}
	return &CatalogView{
		Locations: cat.Locations(),
		Extras:    cat.Extras(),
	}, nil
}

// markLoadErr separates a missing row from a failing store so outages do not
// masquerade as 404s.
func markLoadErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrReservationNotFound)
	}
	return errs.Mark(err, ErrStoreUnavailable)
}

// breakdownFor serves the frozen snapshot once the reservation is confirmed
// and a fresh recomputation while it is still a draft.
func (q *reservationQueriesImpl) breakdownFor(ctx context.Context, res *reservation.Reservation) (pricing.Breakdown, error) {
	if res.Breakdown() != nil {
		return *res.Breakdown(), nil
	}

	cat, err := q.catalog.Load(ctx)
	if err != nil {
		return pricing.Breakdown{}, errs.Mark(err, ErrCatalogUnavailable)
	}
	return pricing.Compute(res.PricingQuote(), q.rates, cat, nil), nil
}

func toReservationView(res *reservation.Reservation, breakdown pricing.Breakdown) *ReservationView {
	return &ReservationView{
		ID:             res.ID(),
		Status:         res.Status().String(),
		CurrentStep:    int(res.CurrentStep()),
		CustomerName:   res.Contact().Name(),
		CustomerEmail:  res.Contact().Email(),
		CustomerPhone:  res.Contact().Phone(),
		PickupAt:       res.TripWindow().PickupAt(),
		ReturnAt:       res.TripWindow().ReturnAt(),
		PickupLocation: res.Locations().Pickup(),
		ReturnLocation: res.Locations().Return(),
		Vehicles:       res.Vehicles(),
		Licenses:       res.Licenses(),
		Extras:         res.Extras(),
		CouponCode:     res.CouponCode(),
		Breakdown:      breakdown,
		CreatedAt:      res.CreatedAt(),
		UpdatedAt:      res.UpdatedAt(),
	}
}
