//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/pkg/ptr"
	"vehicle-rental/internal/usecase/queries"
	"vehicle-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReads struct {
	reservations map[uuid.UUID]*reservation.Reservation
	coupons      map[string]*coupon.Coupon
	couponReads  int
	failReads    bool
	failCoupons  bool
}

func (r *stubReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	if r.failReads {
		return nil, infra.WrapRepoErr("connection reset by peer", errs.New("broken pipe"))
	}
	res, ok := r.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
	}
	return res, nil
}

func (r *stubReads) CouponByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.couponReads++
	if r.failCoupons {
		return nil, infra.WrapRepoErr("connection reset by peer", errs.New("broken pipe"))
	}
	coup, ok := r.coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
	}
	return coup, nil
}

type stubCatalog struct {
	cat catalog.Catalog
}

func (p *stubCatalog) Load(context.Context) (catalog.Catalog, error) {
	return p.cat, nil
}

type queriesFixture struct {
	queries queries.ReservationQueries
	reads   *stubReads
}

func newQueriesFixture(t *testing.T) *queriesFixture {
	t.Helper()

	rates, err := pricing.NewRateTable([]pricing.Tier{
		{ThresholdDays: 1, DailyRateCents: 6500},
	}, 3000, 35000)
	require.NoError(t, err)

	cat := catalog.New(
		[]catalog.Location{{Name: "Airport", SurchargeCents: 2500}},
		[]catalog.Extra{{Name: "Cooler Box", UnitPriceCents: 500, BillingUnit: "per_rental"}},
	)

	reads := &stubReads{
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		coupons:      make(map[string]*coupon.Coupon),
	}

	return &queriesFixture{
		queries: queries.NewReservationQueries(
			reads,
			&stubCatalog{cat: cat},
			rates,
			clock.NewMockClock(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)),
		),
		reads: reads,
	}
}

func (f *queriesFixture) addDraft(t *testing.T) *reservation.Reservation {
	t.Helper()
	res, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)
	f.reads.reservations[res.ID()] = res
	return res
}

func TestGetByID(t *testing.T) {
	t.Run("draft view recomputes the breakdown", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)

		view, err := f.queries.GetByID(context.Background(), res.ID())
		require.NoError(t, err)

		assert.Equal(t, "DRAFT", view.Status)
		// 3 days x 6500, Airport pickup surcharge, deposit.
		assert.Equal(t, int64(3*6500+2500+35000), view.Breakdown.TotalCents)
	})

	t.Run("confirmed view serves the frozen snapshot", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)

		now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
		require.NoError(t, res.SubmitExtras(reservation.ExtrasSelection{}, now))
		require.NoError(t, res.SubmitIdentity(reservation.Identity{}, now))
		snapshot := pricing.Breakdown{RentalDays: 3, TotalCents: 42}
		require.NoError(t, res.Confirm(nil, snapshot, now))

		view, err := f.queries.GetByID(context.Background(), res.ID())
		require.NoError(t, err)
		assert.Equal(t, snapshot, view.Breakdown)
		assert.Equal(t, "PENDING_PAYMENT", view.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newQueriesFixture(t)
		_, err := f.queries.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, queries.ErrReservationNotFound)
	})

	t.Run("store failure is not a missing reservation", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)
		f.reads.failReads = true

		_, err := f.queries.GetByID(context.Background(), res.ID())
		assert.ErrorIs(t, err, queries.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, queries.ErrReservationNotFound)
	})
}

func TestQuote(t *testing.T) {
	newCoupon := func(t *testing.T) *coupon.Coupon {
		t.Helper()
		coup, err := coupon.New(uuid.New(), "WELCOME10", nil, ptr.To(10.0), true, nil, nil, 0, 100)
		require.NoError(t, err)
		return coup
	}

	t.Run("coupon preview discounts without redeeming", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)
		f.reads.coupons["WELCOME10"] = newCoupon(t)

		subtotal := int64(3*6500 + 2500 + 35000)

		quoted, err := f.queries.Quote(context.Background(), res.ID(), ptr.To("WELCOME10"))
		require.NoError(t, err)
		assert.Equal(t, subtotal-subtotal/10, quoted.TotalCents)

		// Preview twice; the counter never moves because Quote only reads.
		again, err := f.queries.Quote(context.Background(), res.ID(), ptr.To("WELCOME10"))
		require.NoError(t, err)
		assert.Equal(t, quoted.TotalCents, again.TotalCents)
		assert.Equal(t, 2, f.reads.couponReads)
	})

	t.Run("unknown coupon collapses to the generic rejection", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)

		_, err := f.queries.Quote(context.Background(), res.ID(), ptr.To("NOSUCHCODE"))
		assert.ErrorIs(t, err, queries.ErrInvalidCoupon)
	})

	t.Run("exhausted coupon collapses to the generic rejection", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)
		coup, err := coupon.New(uuid.New(), "BURNED99", nil, ptr.To(10.0), true, nil, nil, 5, 5)
		require.NoError(t, err)
		f.reads.coupons["BURNED99"] = coup

		_, err = f.queries.Quote(context.Background(), res.ID(), ptr.To("BURNED99"))
		assert.ErrorIs(t, err, queries.ErrInvalidCoupon)
	})

	t.Run("ledger failure is not an invalid coupon", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)
		f.reads.failCoupons = true

		_, err := f.queries.Quote(context.Background(), res.ID(), ptr.To("WELCOME10"))
		assert.ErrorIs(t, err, queries.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, queries.ErrInvalidCoupon)
	})

	t.Run("no coupon quotes the plain subtotal", func(t *testing.T) {
		f := newQueriesFixture(t)
		res := f.addDraft(t)

		quoted, err := f.queries.Quote(context.Background(), res.ID(), nil)
		require.NoError(t, err)
		assert.Zero(t, quoted.DiscountCents)
	})
}

func TestGetCatalog(t *testing.T) {
	f := newQueriesFixture(t)

	view, err := f.queries.GetCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Locations, 1)
	assert.Equal(t, "Airport", view.Locations[0].Name)
	require.Len(t, view.Extras, 1)
	assert.Equal(t, int64(500), view.Extras[0].UnitPriceCents)
}
