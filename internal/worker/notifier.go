package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/pkg/ptr"
	"vehicle-rental/internal/usecase/commands"
)

// Notifier is one outbound channel. Implementations are fire-and-forget from
// the reservation's point of view: a send failure never rolls back a confirm,
// it only leaves the job queued for retry.
type Notifier interface {
	Channel() string
	Send(ctx context.Context, messageType string, payload []byte) error
}

func decodePayload(payload []byte) (commands.ConfirmationPayload, error) {
	var p commands.ConfirmationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return commands.ConfirmationPayload{}, errs.Wrap(err, "failed to decode confirmation payload")
	}
	return p, nil
}

// EmailNotifier renders the customer confirmation for the email channel.
// The actual SMTP/provider integration is deployment-specific; this
// implementation logs the rendered message so the pipeline is observable
// end to end.
type EmailNotifier struct {
	logger *slog.Logger
}

func NewEmailNotifier(logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{logger: logger}
}

func (n *EmailNotifier) Channel() string {
	return commands.ChannelEmail
}

func (n *EmailNotifier) Send(ctx context.Context, messageType string, payload []byte) error {
	p, err := decodePayload(payload)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "email notification dispatched",
		slog.String("message_type", messageType),
		slog.String("reservation_id", p.ReservationID.String()),
		slog.String("to", p.CustomerEmail),
		slog.Int64("total_cents", p.Breakdown.TotalCents),
	)
	return nil
}

type WhatsAppNotifier struct {
	logger *slog.Logger
}

func NewWhatsAppNotifier(logger *slog.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{logger: logger}
}

func (n *WhatsAppNotifier) Channel() string {
	return commands.ChannelWhatsApp
}

func (n *WhatsAppNotifier) Send(ctx context.Context, messageType string, payload []byte) error {
	p, err := decodePayload(payload)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "whatsapp notification dispatched",
		slog.String("message_type", messageType),
		slog.String("reservation_id", p.ReservationID.String()),
		slog.String("to", p.CustomerPhone),
		slog.Int64("total_cents", p.Breakdown.TotalCents),
	)
	return nil
}

// OpsNotifier alerts the operations channel about a new confirmed booking.
type OpsNotifier struct {
	logger *slog.Logger
}

func NewOpsNotifier(logger *slog.Logger) *OpsNotifier {
	return &OpsNotifier{logger: logger}
}

func (n *OpsNotifier) Channel() string {
	return commands.ChannelOps
}

func (n *OpsNotifier) Send(ctx context.Context, messageType string, payload []byte) error {
	p, err := decodePayload(payload)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "ops alert dispatched",
		slog.String("message_type", messageType),
		slog.String("reservation_id", p.ReservationID.String()),
		slog.Time("pickup_at", p.PickupAt),
		slog.String("pickup_location", p.PickupLocation),
		slog.Int("vehicles", p.Vehicles),
		slog.String("coupon_code", ptr.Deref(p.CouponCode)),
	)
	return nil
}
