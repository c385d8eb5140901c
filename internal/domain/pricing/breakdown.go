package pricing

import (
	"math"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/coupon"
)

// Quote carries every trip parameter the engine needs. It is deliberately a
// plain value so Compute stays a pure function of its arguments.
type Quote struct {
	PickupAt       time.Time
	ReturnAt       time.Time
	PickupLocation string
	ReturnLocation string
	Vehicles       int
	Licenses       int
	Extras         map[string]int
}

// Breakdown is the itemized computation behind the final total. It is derived
// state: recomputed from the reservation on every read and persisted only as
// a snapshot at confirmation time.
type Breakdown struct {
	RentalDays           int    `json:"rental_days"`
	DailyRateCents       int64  `json:"daily_rate_cents"`
	RentalSubtotalCents  int64  `json:"rental_subtotal_cents"`
	LicenseSubtotalCents int64  `json:"license_subtotal_cents"`
	ExtrasSubtotalCents  int64  `json:"extras_subtotal_cents"`
	PickupSurchargeCents int64  `json:"pickup_surcharge_cents"`
	ReturnSurchargeCents int64  `json:"return_surcharge_cents"`
	DepositCents         int64  `json:"deposit_cents"`
	SubtotalCents        int64  `json:"subtotal_cents"`
	DiscountCents        int64  `json:"discount_cents"`
	TotalCents           int64  `json:"total_cents"`
	CouponCode           string `json:"coupon_code,omitempty"`
}

// RentalDays counts chargeable days as ceil of the trip span plus one, so a
// same-day rental still bills a full day. Non-positive spans fall back to 1;
// rejecting inverted windows is the state machine's job, not the engine's.
func RentalDays(pickupAt, returnAt time.Time) int {
	span := returnAt.Sub(pickupAt)
	if span <= 0 {
		return 1
	}
	days := int(math.Ceil(span.Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Compute turns trip parameters, the rate table, the catalog and an optional
// coupon into a breakdown. It has no side effects and no hidden inputs:
// identical arguments always produce an identical breakdown.
func Compute(q Quote, rates RateTable, cat catalog.Catalog, coup *coupon.Coupon) Breakdown {
	days := RentalDays(q.PickupAt, q.ReturnAt)
	dailyRate := rates.DailyRateCents(days)

	b := Breakdown{
		RentalDays:           days,
		DailyRateCents:       dailyRate,
		RentalSubtotalCents:  dailyRate * int64(days) * int64(q.Vehicles),
		LicenseSubtotalCents: rates.LicenseRateCents() * int64(q.Licenses),
		ExtrasSubtotalCents:  cat.ExtrasSubtotalCents(q.Extras),
		PickupSurchargeCents: cat.SurchargeCents(q.PickupLocation),
		ReturnSurchargeCents: cat.SurchargeCents(q.ReturnLocation),
		DepositCents:         rates.DepositCents(),
	}

	b.SubtotalCents = b.RentalSubtotalCents + b.LicenseSubtotalCents +
		b.ExtrasSubtotalCents + b.PickupSurchargeCents + b.ReturnSurchargeCents +
		b.DepositCents

	b.TotalCents = b.SubtotalCents
	if coup != nil {
		// The deposit participates in the discount base.
		b.TotalCents = coup.Discount().Apply(b.SubtotalCents)
		b.DiscountCents = b.SubtotalCents - b.TotalCents
		b.CouponCode = coup.Code().String()
	}

	return b
}
