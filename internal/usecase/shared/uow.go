package shared

import (
	"context"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/domain/reservation"

	"github.com/google/uuid"
)

// UnitOfWork scopes repository access to one transaction. Step persistence is
// a single-statement write, but the confirmation commit needs the status
// gate, coupon redemption, snapshot write and outbox inserts to land
// together, so it runs inside Within.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: direct access to command reads outside a transaction
	Reads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Coupons() CouponLedger
	Notifications() NotificationOutbox
	Reads() CommandReads
}

type CommandReads interface {
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	CouponByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	Update(ctx context.Context, res *reservation.Reservation) error
	// FindByIDForUpdate locks the row so a replayed confirm observes the
	// committed status, not a concurrent in-flight one.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}

// CouponLedger mutates the shared usage counter. RedeemOnce must be a
// conditional atomic increment: it fails instead of overrunning the cap when
// concurrent confirmations race on the same code.
type CouponLedger interface {
	RedeemOnce(ctx context.Context, couponID uuid.UUID) error
}

type NotificationOutbox interface {
	Enqueue(ctx context.Context, channel, messageType string, payload []byte, runAt time.Time) error
}

// CatalogProvider supplies the read-only location and add-on tables; fetched
// once per session and safe to cache.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}
