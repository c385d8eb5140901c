package commands

import (
	"time"

	"vehicle-rental/internal/domain/pricing"

	"github.com/google/uuid"
)

type TripDetailsInput struct {
	Name           string
	Email          string
	Phone          string
	PickupAt       time.Time
	ReturnAt       time.Time
	PickupLocation string
	ReturnLocation string
	Vehicles       int
	Licenses       int
}

type IdentityInput struct {
	HolderName     string
	Address        string
	Country        string
	PostalCode     string
	LicenseNumber  string
	PassportNumber string
	HasPermit      bool
}

type StartReservationResult struct {
	ReservationID uuid.UUID
	Breakdown     pricing.Breakdown
}

type ConfirmResult struct {
	ReservationID uuid.UUID
	Breakdown     pricing.Breakdown
	// IsReplayed marks a confirm re-issued against an already confirmed
	// reservation: no coupon was redeemed and no notifications were enqueued.
	IsReplayed bool
}

// Message types carried by outbox jobs so subscribers can tell a
// customer-facing confirmation from an internal operational alert.
const (
	MessageTypeCustomerConfirmation = "customer_confirmation"
	MessageTypeOpsAlert             = "ops_alert"
)

// Notification channels; each one is an independent, individually retryable
// subscriber of the confirmation event.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelOps      = "ops"
)

// ConfirmationPayload is the full notification contract: customer contact,
// trip fields, the billing breakdown snapshot and the coupon code, if any.
type ConfirmationPayload struct {
	MessageType    string            `json:"message_type"`
	ReservationID  uuid.UUID         `json:"reservation_id"`
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerPhone  string            `json:"customer_phone"`
	PickupAt       time.Time         `json:"pickup_at"`
	ReturnAt       time.Time         `json:"return_at"`
	PickupLocation string            `json:"pickup_location"`
	ReturnLocation string            `json:"return_location"`
	Vehicles       int               `json:"vehicles"`
	Licenses       int               `json:"licenses"`
	Extras         map[string]int    `json:"extras,omitempty"`
	CouponCode     *string           `json:"coupon_code,omitempty"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
}
