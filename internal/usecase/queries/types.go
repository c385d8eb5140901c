package queries

import (
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/pricing"

	"github.com/google/uuid"
)

// ReservationView is the read model served to the customer while stepping
// through the workflow. Its breakdown is recomputed on every read until
// confirmation freezes a snapshot.
type ReservationView struct {
	ID             uuid.UUID         `json:"id"`
	Status         string            `json:"status"`
	CurrentStep    int               `json:"current_step"`
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerPhone  string            `json:"customer_phone"`
	PickupAt       time.Time         `json:"pickup_at"`
	ReturnAt       time.Time         `json:"return_at"`
	PickupLocation string            `json:"pickup_location"`
	ReturnLocation string            `json:"return_location"`
	Vehicles       int               `json:"vehicles"`
	Licenses       int               `json:"licenses"`
	Extras         map[string]int    `json:"extras"`
	CouponCode     *string           `json:"coupon_code,omitempty"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type CatalogView struct {
	Locations []catalog.Location `json:"locations"`
	Extras    []catalog.Extra    `json:"extras"`
}
