package builder

import (
	"time"

	"vehicle-rental/internal/domain/reservation"
)

// ReservationBuilder assembles a valid step-0 draft and lets individual tests
// break exactly one field at a time.
type ReservationBuilder struct {
	name           string
	email          string
	phone          string
	pickupAt       time.Time
	returnAt       time.Time
	pickupLocation string
	returnLocation string
	vehicles       int
	licenses       int
	now            time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	pickup := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		name:           "Maria Santos",
		email:          "maria@example.com",
		phone:          "+351911222333",
		pickupAt:       pickup,
		returnAt:       pickup.Add(48 * time.Hour),
		pickupLocation: "Airport",
		returnLocation: "Downtown",
		vehicles:       1,
		licenses:       0,
		now:            pickup.Add(-72 * time.Hour),
	}
}

func (b *ReservationBuilder) WithName(name string) *ReservationBuilder {
	b.name = name
	return b
}

func (b *ReservationBuilder) WithEmail(email string) *ReservationBuilder {
	b.email = email
	return b
}

func (b *ReservationBuilder) WithPhone(phone string) *ReservationBuilder {
	b.phone = phone
	return b
}

func (b *ReservationBuilder) WithWindow(pickupAt, returnAt time.Time) *ReservationBuilder {
	b.pickupAt = pickupAt
	b.returnAt = returnAt
	return b
}

func (b *ReservationBuilder) WithLocations(pickup, ret string) *ReservationBuilder {
	b.pickupLocation = pickup
	b.returnLocation = ret
	return b
}

func (b *ReservationBuilder) WithVehicles(vehicles int) *ReservationBuilder {
	b.vehicles = vehicles
	return b
}

func (b *ReservationBuilder) WithLicenses(licenses int) *ReservationBuilder {
	b.licenses = licenses
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	contact, err := reservation.NewContact(b.name, b.email, b.phone)
	if err != nil {
		return nil, err
	}
	window, err := reservation.NewTripWindow(b.pickupAt, b.returnAt)
	if err != nil {
		return nil, err
	}
	locations, err := reservation.NewLocationPair(b.pickupLocation, b.returnLocation)
	if err != nil {
		return nil, err
	}
	return reservation.NewDraft(contact, window, locations, b.vehicles, b.licenses, b.now)
}
