package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive   = errors.New("coupon is not active")
	ErrCouponExpired    = errors.New("coupon has expired")
	ErrCouponNotStarted = errors.New("coupon is not yet valid")
	ErrCouponExhausted  = errors.New("coupon usage cap reached")
)

// Coupon is immutable except for the redemption counter, which only the
// confirmation commit may increment, and then only through the ledger's
// conditional update.
type Coupon struct {
	id           uuid.UUID
	code         Code
	discount     Discount
	active       bool
	validFrom    *time.Time
	validTo      *time.Time
	currentUsers int32
	maxUsers     int32
}

func New(
	id uuid.UUID,
	code string,
	amountOffCents *int64,
	percentOff *float64,
	active bool,
	validFrom, validTo *time.Time,
	currentUsers, maxUsers int32,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:           id,
		code:         couponCode,
		discount:     discount,
		active:       active,
		validFrom:    validFrom,
		validTo:      validTo,
		currentUsers: currentUsers,
		maxUsers:     maxUsers,
	}, nil
}

// ValidateUsage checks every redemption predicate at the given instant. The
// validity window is inclusive on both ends. Callers presenting the result to
// a customer must collapse the reason to a generic rejection so valid codes
// cannot be enumerated.
func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.active {
		return ErrCouponInactive
	}
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return ErrCouponNotStarted
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return ErrCouponExpired
	}
	if c.currentUsers >= c.maxUsers {
		return ErrCouponExhausted
	}
	return nil
}

func (c *Coupon) IsUsableAt(t time.Time) bool {
	return c.ValidateUsage(t) == nil
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Discount() Discount    { return c.discount }
func (c *Coupon) Active() bool          { return c.active }
func (c *Coupon) ValidFrom() *time.Time { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time   { return c.validTo }
func (c *Coupon) CurrentUsers() int32   { return c.currentUsers }
func (c *Coupon) MaxUsers() int32       { return c.maxUsers }
