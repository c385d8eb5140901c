package request

import (
	"strings"
	"time"

	"vehicle-rental/internal/usecase/commands"
)

type TripDetailsRequest struct {
	Name           string    `json:"name" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Phone          string    `json:"phone" binding:"required"`
	PickupAt       time.Time `json:"pickup_at" binding:"required"`
	ReturnAt       time.Time `json:"return_at" binding:"required"`
	PickupLocation string    `json:"pickup_location" binding:"required"`
	ReturnLocation string    `json:"return_location" binding:"required"`
	Vehicles       int       `json:"vehicles" binding:"required,min=1"`
	Licenses       int       `json:"licenses" binding:"min=0"`
}

func (r TripDetailsRequest) ToInput() commands.TripDetailsInput {
	return commands.TripDetailsInput{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		PickupAt:       r.PickupAt,
		ReturnAt:       r.ReturnAt,
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
		Vehicles:       r.Vehicles,
		Licenses:       r.Licenses,
	}
}

type ExtrasRequest struct {
	Extras map[string]int `json:"extras" binding:"required"`
}

type IdentityRequest struct {
	HolderName     string `json:"holder_name"`
	Address        string `json:"address"`
	Country        string `json:"country"`
	PostalCode     string `json:"postal_code"`
	LicenseNumber  string `json:"license_number"`
	PassportNumber string `json:"passport_number"`
	HasPermit      bool   `json:"has_permit"`
}

func (r IdentityRequest) ToInput() commands.IdentityInput {
	return commands.IdentityInput{
		HolderName:     r.HolderName,
		Address:        r.Address,
		Country:        r.Country,
		PostalCode:     r.PostalCode,
		LicenseNumber:  r.LicenseNumber,
		PassportNumber: r.PassportNumber,
		HasPermit:      r.HasPermit,
	}
}

type ConfirmRequest struct {
	CouponCode *string `json:"coupon_code,omitempty"`
}

func (r ConfirmRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
