package reservation

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName         = errors.New("customer name is required")
	ErrEmptyEmail        = errors.New("customer email is required")
	ErrEmptyPhone        = errors.New("customer phone is required")
	ErrEmptyLocation     = errors.New("pickup and return locations are required")
	ErrInvalidTripWindow = errors.New("return must be after pickup")
	ErrNegativeCount     = errors.New("counts cannot be negative")
	ErrNegativeQuantity  = errors.New("extras quantities cannot be negative")
)

// Contact is the customer's reachable identity for the anonymous workflow.
type Contact struct {
	name  string
	email string
	phone string
}

func NewContact(name, email, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if name == "" {
		return Contact{}, ErrEmptyName
	}
	if email == "" || !strings.Contains(email, "@") {
		return Contact{}, ErrEmptyEmail
	}
	if phone == "" {
		return Contact{}, ErrEmptyPhone
	}
	return Contact{name: name, email: email, phone: phone}, nil
}

func (c Contact) Name() string  { return c.name }
func (c Contact) Email() string { return c.email }
func (c Contact) Phone() string { return c.phone }

// TripWindow is the pickup/return pair. The return instant must be strictly
// after pickup; equal instants are a validation error at step 0.
type TripWindow struct {
	pickupAt time.Time
	returnAt time.Time
}

func NewTripWindow(pickupAt, returnAt time.Time) (TripWindow, error) {
	if !returnAt.After(pickupAt) {
		return TripWindow{}, ErrInvalidTripWindow
	}
	return TripWindow{pickupAt: pickupAt, returnAt: returnAt}, nil
}

func (w TripWindow) PickupAt() time.Time { return w.pickupAt }
func (w TripWindow) ReturnAt() time.Time { return w.returnAt }

// LocationPair names where the vehicle is collected and dropped off.
// Surcharges live in the catalog, not here.
type LocationPair struct {
	pickup string
	ret    string
}

func NewLocationPair(pickup, ret string) (LocationPair, error) {
	pickup = strings.TrimSpace(pickup)
	ret = strings.TrimSpace(ret)
	if pickup == "" || ret == "" {
		return LocationPair{}, ErrEmptyLocation
	}
	return LocationPair{pickup: pickup, ret: ret}, nil
}

func (p LocationPair) Pickup() string { return p.pickup }
func (p LocationPair) Return() string { return p.ret }

// ExtrasSelection maps add-on names to non-negative quantities.
type ExtrasSelection map[string]int

func NewExtrasSelection(quantities map[string]int) (ExtrasSelection, error) {
	selection := make(ExtrasSelection, len(quantities))
	for name, qty := range quantities {
		if qty < 0 {
			return nil, ErrNegativeQuantity
		}
		name = strings.TrimSpace(name)
		if name == "" || qty == 0 {
			continue
		}
		selection[name] = qty
	}
	return selection, nil
}

// Identity holds the licence/passport details collected at step 2. All fields
// are free-form and optional; validation happens out of band by operations.
type Identity struct {
	HolderName     string
	Address        string
	Country        string
	PostalCode     string
	LicenseNumber  string
	PassportNumber string
	HasPermit      bool
}
