package reservation

import (
	"errors"
	"time"

	"vehicle-rental/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrNotDraft         = errors.New("reservation is not a draft")
	ErrAlreadyConfirmed = errors.New("reservation is already confirmed")
	ErrStepOutOfOrder   = errors.New("step cannot be reached from the current step")
	ErrInvalidStatus    = errors.New("invalid reservation status")
)

// Reservation is the central draft record mutated step by step. currentStep
// tracks the furthest completed step: submitting step n requires n to be at
// most currentStep+1 (forward one at a time, backward edits always allowed).
type Reservation struct {
	id          uuid.UUID
	contact     Contact
	tripWindow  TripWindow
	locations   LocationPair
	vehicles    int
	licenses    int
	extras      ExtrasSelection
	identity    Identity
	couponCode  *string
	breakdown   *pricing.Breakdown
	status      Status
	currentStep Step
	createdAt   time.Time
	updatedAt   time.Time
}

// NewDraft builds the step-0 reservation. All trip parameters are validated
// by their value-object constructors before this is called.
func NewDraft(
	contact Contact,
	window TripWindow,
	locations LocationPair,
	vehicles, licenses int,
	now time.Time,
) (*Reservation, error) {
	if vehicles < 0 || licenses < 0 {
		return nil, ErrNegativeCount
	}

	return &Reservation{
		id:          uuid.New(),
		contact:     contact,
		tripWindow:  window,
		locations:   locations,
		vehicles:    vehicles,
		licenses:    licenses,
		extras:      ExtrasSelection{},
		status:      StatusDraft,
		currentStep: StepTripDetails,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	contact Contact,
	window TripWindow,
	locations LocationPair,
	vehicles, licenses int,
	extras ExtrasSelection,
	identity Identity,
	couponCode *string,
	breakdown *pricing.Breakdown,
	status Status,
	currentStep Step,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		contact:     contact,
		tripWindow:  window,
		locations:   locations,
		vehicles:    vehicles,
		licenses:    licenses,
		extras:      extras,
		identity:    identity,
		couponCode:  couponCode,
		breakdown:   breakdown,
		status:      status,
		currentStep: currentStep,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// UpdateTripDetails re-runs step 0 on an existing draft (backward edit).
func (r *Reservation) UpdateTripDetails(
	contact Contact,
	window TripWindow,
	locations LocationPair,
	vehicles, licenses int,
	now time.Time,
) error {
	if r.status != StatusDraft {
		return ErrNotDraft
	}
	if vehicles < 0 || licenses < 0 {
		return ErrNegativeCount
	}
	r.contact = contact
	r.tripWindow = window
	r.locations = locations
	r.vehicles = vehicles
	r.licenses = licenses
	r.updatedAt = now
	return nil
}

func (r *Reservation) SubmitExtras(extras ExtrasSelection, now time.Time) error {
	if err := r.enterStep(StepExtras); err != nil {
		return err
	}
	r.extras = extras
	r.advanceTo(StepExtras)
	r.updatedAt = now
	return nil
}

func (r *Reservation) SubmitIdentity(identity Identity, now time.Time) error {
	if err := r.enterStep(StepIdentity); err != nil {
		return err
	}
	r.identity = identity
	r.advanceTo(StepIdentity)
	r.updatedAt = now
	return nil
}

// Confirm finalizes the workflow: the breakdown snapshot is frozen and the
// status moves to pending payment. Coupon redemption and notification
// dispatch are the usecase layer's side effects, gated on the stored status
// so a replayed confirm cannot repeat them.
func (r *Reservation) Confirm(couponCode *string, breakdown pricing.Breakdown, now time.Time) error {
	if r.status == StatusPendingPayment || r.status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}
	if err := r.enterStep(StepConfirm); err != nil {
		return err
	}
	r.couponCode = couponCode
	r.breakdown = &breakdown
	r.status = StatusPendingPayment
	r.currentStep = StepConfirm
	r.updatedAt = now
	return nil
}

// PricingQuote projects the current trip parameters into the pricing
// engine's input shape.
func (r *Reservation) PricingQuote() pricing.Quote {
	return pricing.Quote{
		PickupAt:       r.tripWindow.PickupAt(),
		ReturnAt:       r.tripWindow.ReturnAt(),
		PickupLocation: r.locations.Pickup(),
		ReturnLocation: r.locations.Return(),
		Vehicles:       r.vehicles,
		Licenses:       r.licenses,
		Extras:         r.extras,
	}
}

func (r *Reservation) enterStep(target Step) error {
	if r.status != StatusDraft {
		return ErrNotDraft
	}
	if target > r.currentStep+1 {
		return ErrStepOutOfOrder
	}
	return nil
}

func (r *Reservation) advanceTo(target Step) {
	if target > r.currentStep {
		r.currentStep = target
	}
}

func (r *Reservation) IsDraft() bool {
	return r.status == StatusDraft
}

func (r *Reservation) ID() uuid.UUID                 { return r.id }
func (r *Reservation) Contact() Contact              { return r.contact }
func (r *Reservation) TripWindow() TripWindow        { return r.tripWindow }
func (r *Reservation) Locations() LocationPair       { return r.locations }
func (r *Reservation) Vehicles() int                 { return r.vehicles }
func (r *Reservation) Licenses() int                 { return r.licenses }
func (r *Reservation) Extras() ExtrasSelection       { return r.extras }
func (r *Reservation) Identity() Identity            { return r.identity }
func (r *Reservation) CouponCode() *string           { return r.couponCode }
func (r *Reservation) Breakdown() *pricing.Breakdown { return r.breakdown }
func (r *Reservation) Status() Status                { return r.status }
func (r *Reservation) CurrentStep() Step             { return r.currentStep }
func (r *Reservation) CreatedAt() time.Time          { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time          { return r.updatedAt }
