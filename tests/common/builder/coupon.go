package builder

import (
	"time"

	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/pkg/ptr"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	id             uuid.UUID
	code           string
	amountOffCents *int64
	percentOff     *float64
	active         bool
	validFrom      *time.Time
	validTo        *time.Time
	currentUsers   int32
	maxUsers       int32
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		id:           uuid.New(),
		code:         "WELCOME10",
		percentOff:   ptr.To(10.0),
		active:       true,
		validFrom:    ptr.To(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		validTo:      ptr.To(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		currentUsers: 0,
		maxUsers:     100,
	}
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.code = code
	return b
}

func (b *CouponBuilder) WithFixedDiscount(amountOffCents int64) *CouponBuilder {
	b.amountOffCents = ptr.To(amountOffCents)
	b.percentOff = nil
	return b
}

func (b *CouponBuilder) WithPercentDiscount(percentOff float64) *CouponBuilder {
	b.percentOff = ptr.To(percentOff)
	b.amountOffCents = nil
	return b
}

func (b *CouponBuilder) Inactive() *CouponBuilder {
	b.active = false
	return b
}

func (b *CouponBuilder) WithWindow(from, to time.Time) *CouponBuilder {
	b.validFrom = &from
	b.validTo = &to
	return b
}

func (b *CouponBuilder) WithUsage(current, max int32) *CouponBuilder {
	b.currentUsers = current
	b.maxUsers = max
	return b
}

func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.New(b.id, b.code, b.amountOffCents, b.percentOff, b.active,
		b.validFrom, b.validTo, b.currentUsers, b.maxUsers)
}
