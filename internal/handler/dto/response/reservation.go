package response

import (
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/usecase/commands"
	"vehicle-rental/internal/usecase/queries"

	"github.com/google/uuid"
)

type StartReservationResponse struct {
	ID         uuid.UUID         `json:"id"`
	DraftToken string            `json:"draft_token"`
	Breakdown  pricing.Breakdown `json:"breakdown"`
}

type ConfirmResponse struct {
	ID         uuid.UUID         `json:"id"`
	Status     string            `json:"status"`
	Breakdown  pricing.Breakdown `json:"breakdown"`
	IsReplayed bool              `json:"is_replayed"`
}

func FromConfirmResult(result *commands.ConfirmResult, status string) *ConfirmResponse {
	return &ConfirmResponse{
		ID:         result.ReservationID,
		Status:     status,
		Breakdown:  result.Breakdown,
		IsReplayed: result.IsReplayed,
	}
}

type QuoteResponse struct {
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// ReservationResponse mirrors the read model; the breakdown inside is always
// current because the query side recomputes it for drafts.
type ReservationResponse = queries.ReservationView

type CatalogResponse = queries.CatalogView
