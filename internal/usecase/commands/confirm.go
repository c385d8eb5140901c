package commands

import (
	"context"
	"encoding/json"
	"errors"

	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

// Confirm is step 3, the only step with side effects beyond storage. The
// whole commit runs in one transaction:
//
//	lock row -> replay gate -> validate coupon -> compute breakdown ->
//	conditional redemption -> status + snapshot write -> outbox inserts
//
// A failed redemption rolls everything back, so the reservation stays DRAFT
// (fail closed). A re-issued confirm against an already confirmed reservation
// returns the stored snapshot without redeeming or enqueueing anything.
func (u *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, couponCode *string) (*ConfirmResult, error) {
	cat, err := u.catalog.Load(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var result *ConfirmResult
	var redeemed bool
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		redeemed = false
		res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			return markLoadErr(err)
		}

		if res.Status() == reservation.StatusPendingPayment || res.Status() == reservation.StatusConfirmed {
			if res.Breakdown() == nil {
				return errs.New("confirmed reservation missing breakdown snapshot")
			}
			result = &ConfirmResult{
				ReservationID: res.ID(),
				Breakdown:     *res.Breakdown(),
				IsReplayed:    true,
			}
			return nil
		}

		coup, err := u.resolveCoupon(ctx, tx, couponCode)
		if err != nil {
			return err
		}

		breakdown := pricing.Compute(res.PricingQuote(), u.rates, cat, coup)

		if coup != nil {
			if err := tx.Coupons().RedeemOnce(ctx, coup.ID()); err != nil {
				// Exhausted between validation and redemption, or any
				// other ledger failure: the confirm fails closed.
				return errs.Mark(err, ErrInvalidCoupon)
			}
			redeemed = true
		}

		var code *string
		if coup != nil {
			c := coup.Code().String()
			code = &c
		}
		if err := res.Confirm(code, breakdown, u.clock.Now()); err != nil {
			return markDomainErr(err)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := u.enqueueConfirmationJobs(ctx, tx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &ConfirmResult{
			ReservationID: res.ID(),
			Breakdown:     breakdown,
		}
		return nil
	})
	// Counters move only after the transaction settles; a serialization
	// retry re-runs the closure and must not double-count.
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			u.metrics.CouponRejections.Inc()
		}
		return nil, err
	}

	if !result.IsReplayed {
		u.metrics.ReservationsConfirmed.Inc()
		if redeemed {
			u.metrics.CouponRedemptions.Inc()
		}
	}
	return result, nil
}

// resolveCoupon validates the code inside the confirm transaction so the
// usage counter read is as fresh as possible. Every failed predicate
// collapses into the same generic rejection; leaking which one failed would
// let callers enumerate valid codes.
func (u *reservationCommandsImpl) resolveCoupon(ctx context.Context, tx shared.Tx, couponCode *string) (*coupon.Coupon, error) {
	if couponCode == nil {
		return nil, nil
	}

	coup, err := tx.Reads().CouponByCode(ctx, *couponCode)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	if err := coup.ValidateUsage(u.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	return coup, nil
}

// enqueueConfirmationJobs publishes the confirmation event once, fanned out
// as one outbox job per channel. The worker retries each job independently;
// none of them can fail the booking.
func (u *reservationCommandsImpl) enqueueConfirmationJobs(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
	now := u.clock.Now()

	jobs := []struct {
		channel     string
		messageType string
	}{
		{ChannelEmail, MessageTypeCustomerConfirmation},
		{ChannelWhatsApp, MessageTypeCustomerConfirmation},
		{ChannelOps, MessageTypeOpsAlert},
	}

	for _, job := range jobs {
		payload, err := json.Marshal(buildConfirmationPayload(res, job.messageType))
		if err != nil {
			return err
		}
		if err := tx.Notifications().Enqueue(ctx, job.channel, job.messageType, payload, now); err != nil {
			return err
		}
	}
	return nil
}

func buildConfirmationPayload(res *reservation.Reservation, messageType string) ConfirmationPayload {
	return ConfirmationPayload{
		MessageType:    messageType,
		ReservationID:  res.ID(),
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
		Breakdown:      *res.Breakdown(),
	}
}
