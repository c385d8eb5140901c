//go:build unit

package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"vehicle-rental/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryBackoff(t *testing.T) {
	tests := []struct {
		attempts int32
		want     time.Duration
	}{
		{1, 30 * time.Second},
		{2, time.Minute},
		{3, 2 * time.Minute},
		{4, 4 * time.Minute},
		{10, time.Hour},
		{100, time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, retryBackoff(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestNotifiers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	payload, err := json.Marshal(commands.ConfirmationPayload{
		MessageType:   commands.MessageTypeCustomerConfirmation,
		ReservationID: uuid.New(),
		CustomerName:  "Maria Santos",
		CustomerEmail: "maria@example.com",
		CustomerPhone: "+351911222333",
	})
	require.NoError(t, err)

	notifiers := []Notifier{
		NewEmailNotifier(logger),
		NewWhatsAppNotifier(logger),
		NewOpsNotifier(logger),
	}

	t.Run("each notifier owns a distinct channel", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, n := range notifiers {
			assert.False(t, seen[n.Channel()], "duplicate channel %s", n.Channel())
			seen[n.Channel()] = true
		}
		assert.Len(t, seen, 3)
	})

	t.Run("well-formed payload is accepted", func(t *testing.T) {
		for _, n := range notifiers {
			assert.NoError(t, n.Send(context.Background(), commands.MessageTypeCustomerConfirmation, payload), n.Channel())
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		for _, n := range notifiers {
			assert.Error(t, n.Send(context.Background(), commands.MessageTypeCustomerConfirmation, []byte("{broken")), n.Channel())
		}
	})
}
