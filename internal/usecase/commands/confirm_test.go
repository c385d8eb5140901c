//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/metrics"
	"vehicle-rental/internal/pkg/ptr"
	"vehicle-rental/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandsFixture struct {
	commands commands.ReservationCommands
	store    *fakeStore
	uow      *fakeUoW
	catalog  *staticCatalog
	metrics  *metrics.Metrics
	clock    *clock.MockClock
}

func newCommandsFixture(t *testing.T) *commandsFixture {
	t.Helper()

	rates, err := pricing.NewRateTable([]pricing.Tier{
		{ThresholdDays: 1, DailyRateCents: 6500},
		{ThresholdDays: 5, DailyRateCents: 6000},
	}, 3000, 35000)
	require.NoError(t, err)

	cat := catalog.New(
		[]catalog.Location{
			{Name: "Airport", SurchargeCents: 2500},
			{Name: "Downtown", SurchargeCents: 0},
		},
		[]catalog.Extra{
			{Name: "Cooler Box", UnitPriceCents: 500, BillingUnit: "per_rental"},
		},
	)

	store := newFakeStore()
	uow := &fakeUoW{store: store}
	catalogProvider := &staticCatalog{cat: cat}
	m := metrics.New(prometheus.NewRegistry())
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	return &commandsFixture{
		commands: commands.NewReservationCommands(uow, catalogProvider, rates, clk, m),
		store:    store,
		uow:      uow,
		catalog:  catalogProvider,
		metrics:  m,
		clock:    clk,
	}
}

func validTripInput() commands.TripDetailsInput {
	return commands.TripDetailsInput{
		Name:           "Maria Santos",
		Email:          "maria@example.com",
		Phone:          "+351911222333",
		PickupAt:       time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		ReturnAt:       time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC),
		PickupLocation: "Downtown",
		ReturnLocation: "Downtown",
		Vehicles:       1,
	}
}

// startConfirmable walks a fresh draft through extras and identity so the
// confirm step is reachable.
func (f *commandsFixture) startConfirmable(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	result, err := f.commands.StartReservation(ctx, validTripInput())
	require.NoError(t, err)
	require.NoError(t, f.commands.SubmitExtras(ctx, result.ReservationID, map[string]int{"Cooler Box": 2}))
	require.NoError(t, f.commands.SubmitIdentity(ctx, result.ReservationID, commands.IdentityInput{HolderName: "Maria Santos"}))
	return result.ReservationID
}

func (f *commandsFixture) addOpenCoupon(code string, percentOff float64, maxUsers int32) uuid.UUID {
	id := uuid.New()
	f.store.addCoupon(&couponRecord{
		id:         id,
		code:       code,
		percentOff: ptr.To(percentOff),
		active:     true,
		maxUsers:   maxUsers,
	})
	return id
}

func TestConfirm(t *testing.T) {
	t.Run("without coupon", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)

		result, err := f.commands.Confirm(context.Background(), id, nil)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)

		// 3 days x 6500 + 2 x 500 extras + 35000 deposit
		assert.Equal(t, int64(3*6500+1000+35000), result.Breakdown.TotalCents)
		assert.Zero(t, result.Breakdown.DiscountCents)

		stored := f.store.reservationByID(id)
		assert.Equal(t, reservation.StatusPendingPayment, stored.Status())
		require.NotNil(t, stored.Breakdown())
		assert.Equal(t, result.Breakdown, *stored.Breakdown())

		assert.ElementsMatch(t, []string{
			commands.ChannelEmail, commands.ChannelWhatsApp, commands.ChannelOps,
		}, f.store.jobChannels())
	})

	t.Run("with valid coupon", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		couponID := f.addOpenCoupon("WELCOME10", 10, 100)

		result, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
		require.NoError(t, err)

		subtotal := int64(3*6500 + 1000 + 35000)
		assert.Equal(t, subtotal, result.Breakdown.SubtotalCents)
		assert.Equal(t, subtotal-subtotal/10, result.Breakdown.TotalCents)
		assert.Equal(t, "WELCOME10", result.Breakdown.CouponCode)
		assert.Equal(t, int32(1), f.store.couponUsage(couponID))
	})

	t.Run("coupon code matching is case-insensitive", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		f.addOpenCoupon("WELCOME10", 10, 100)

		result, err := f.commands.Confirm(context.Background(), id, ptr.To("welcome10"))
		require.NoError(t, err)
		assert.Equal(t, "WELCOME10", result.Breakdown.CouponCode)
	})

	t.Run("unknown coupon fails closed", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("NOSUCHCODE"))
		assert.ErrorIs(t, err, commands.ErrInvalidCoupon)

		stored := f.store.reservationByID(id)
		assert.Equal(t, reservation.StatusDraft, stored.Status())
		assert.Zero(t, f.store.jobCount())
	})

	t.Run("exhausted coupon fails closed", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		couponID := uuid.New()
		f.store.addCoupon(&couponRecord{
			id:           couponID,
			code:         "BURNED",
			percentOff:   ptr.To(10.0),
			active:       true,
			currentUsers: 5,
			maxUsers:     5,
		})

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("BURNED"))
		assert.ErrorIs(t, err, commands.ErrInvalidCoupon)

		stored := f.store.reservationByID(id)
		assert.Equal(t, reservation.StatusDraft, stored.Status())
		assert.Equal(t, int32(5), f.store.couponUsage(couponID))
	})

	t.Run("inactive coupon fails closed", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		f.store.addCoupon(&couponRecord{
			id:         uuid.New(),
			code:       "DISABLED",
			percentOff: ptr.To(10.0),
			active:     false,
			maxUsers:   100,
		})

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("DISABLED"))
		assert.ErrorIs(t, err, commands.ErrInvalidCoupon)
	})

	t.Run("confirm before identity step is out of order", func(t *testing.T) {
		f := newCommandsFixture(t)
		result, err := f.commands.StartReservation(context.Background(), validTripInput())
		require.NoError(t, err)

		_, err = f.commands.Confirm(context.Background(), result.ReservationID, nil)
		assert.ErrorIs(t, err, commands.ErrStepOutOfOrder)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newCommandsFixture(t)
		_, err := f.commands.Confirm(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("store failure is not a missing reservation", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		f.store.failFind = true

		_, err := f.commands.Confirm(context.Background(), id, nil)
		assert.ErrorIs(t, err, commands.ErrDatabaseOperationFailed)
		assert.NotErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("coupon store failure is not an invalid coupon", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		f.addOpenCoupon("WELCOME10", 10, 100)
		f.store.failCouponRead = true

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
		assert.ErrorIs(t, err, commands.ErrDatabaseOperationFailed)
		assert.NotErrorIs(t, err, commands.ErrInvalidCoupon)
		assert.Zero(t, promtestutil.ToFloat64(f.metrics.CouponRejections))
	})

	t.Run("serialization retry counts the redemption once", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		couponID := f.addOpenCoupon("WELCOME10", 10, 100)
		f.uow.rerunFirst = true

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
		require.NoError(t, err)

		assert.Equal(t, int32(1), f.store.couponUsage(couponID))
		assert.Equal(t, 3, f.store.jobCount())
		assert.Equal(t, 1.0, promtestutil.ToFloat64(f.metrics.CouponRedemptions))
		assert.Equal(t, 1.0, promtestutil.ToFloat64(f.metrics.ReservationsConfirmed))
		assert.Zero(t, promtestutil.ToFloat64(f.metrics.CouponRejections))
	})

	t.Run("rejection is counted once", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("NOSUCHCODE"))
		require.ErrorIs(t, err, commands.ErrInvalidCoupon)

		assert.Equal(t, 1.0, promtestutil.ToFloat64(f.metrics.CouponRejections))
		assert.Zero(t, promtestutil.ToFloat64(f.metrics.CouponRedemptions))
	})

	t.Run("persistence failure rolls back redemption and jobs", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.startConfirmable(t)
		couponID := f.addOpenCoupon("WELCOME10", 10, 100)
		f.store.failUpdate = true

		_, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
		require.Error(t, err)

		assert.Equal(t, int32(0), f.store.couponUsage(couponID))
		assert.Zero(t, f.store.jobCount())
		assert.Equal(t, reservation.StatusDraft, f.store.reservationByID(id).Status())
	})
}

func TestConfirm_Replay(t *testing.T) {
	f := newCommandsFixture(t)
	id := f.startConfirmable(t)
	couponID := f.addOpenCoupon("WELCOME10", 10, 100)

	first, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
	require.NoError(t, err)
	require.False(t, first.IsReplayed)

	t.Run("returns the stored snapshot", func(t *testing.T) {
		second, err := f.commands.Confirm(context.Background(), id, ptr.To("WELCOME10"))
		require.NoError(t, err)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Breakdown, second.Breakdown)
	})

	t.Run("does not redeem again", func(t *testing.T) {
		assert.Equal(t, int32(1), f.store.couponUsage(couponID))
	})

	t.Run("does not enqueue again", func(t *testing.T) {
		assert.Equal(t, 3, f.store.jobCount())
	})

	t.Run("ignores a different coupon on replay", func(t *testing.T) {
		otherID := f.addOpenCoupon("SAVEMORE", 50, 100)

		replayed, err := f.commands.Confirm(context.Background(), id, ptr.To("SAVEMORE"))
		require.NoError(t, err)
		assert.True(t, replayed.IsReplayed)
		assert.Equal(t, first.Breakdown, replayed.Breakdown)
		assert.Equal(t, int32(0), f.store.couponUsage(otherID))
	})
}

func TestConfirm_ExactlyOnceUnderContention(t *testing.T) {
	f := newCommandsFixture(t)
	couponID := f.addOpenCoupon("LASTONE", 10, 1)

	const contenders = 8
	ids := make([]uuid.UUID, contenders)
	for i := range ids {
		ids[i] = f.startConfirmable(t)
	}

	var wg sync.WaitGroup
	errsCh := make(chan error, contenders)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.commands.Confirm(context.Background(), id, ptr.To("LASTONE"))
			errsCh <- err
		}()
	}
	wg.Wait()
	close(errsCh)

	var succeeded, rejected int
	for err := range errsCh {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, commands.ErrInvalidCoupon)
			rejected++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one contender may redeem the last use")
	assert.Equal(t, contenders-1, rejected)
	assert.Equal(t, int32(1), f.store.couponUsage(couponID))
}
