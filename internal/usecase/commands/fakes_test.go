//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/domain/reservation"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the persistence layer. Within holds
// the store lock for the whole transaction and restores a snapshot on error,
// so transactional atomicity and exactly-once redemption hold exactly as they
// do against Postgres.
type fakeStore struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*reservation.Reservation
	coupons      map[uuid.UUID]*couponRecord
	jobs         []fakeJob

	failUpdate     bool
	failFind       bool
	failCouponRead bool
}

type couponRecord struct {
	id             uuid.UUID
	code           string
	amountOffCents *int64
	percentOff     *float64
	active         bool
	validFrom      *time.Time
	validTo        *time.Time
	currentUsers   int32
	maxUsers       int32
}

type fakeJob struct {
	channel     string
	messageType string
	payload     []byte
	runAt       time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		coupons:      make(map[uuid.UUID]*couponRecord),
	}
}

func (s *fakeStore) addCoupon(rec *couponRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[rec.id] = rec
}

func (s *fakeStore) couponUsage(id uuid.UUID) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupons[id].currentUsers
}

func (s *fakeStore) reservationByID(id uuid.UUID) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyReservation(s.reservations[id])
}

func (s *fakeStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *fakeStore) jobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *fakeStore) jobChannels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	channels := make([]string, len(s.jobs))
	for i, j := range s.jobs {
		channels[i] = j.channel
	}
	return channels
}

func copyReservation(res *reservation.Reservation) *reservation.Reservation {
	if res == nil {
		return nil
	}
	extras := make(reservation.ExtrasSelection, len(res.Extras()))
	for k, v := range res.Extras() {
		extras[k] = v
	}
	breakdown := res.Breakdown()
	if breakdown != nil {
		b := *breakdown
		breakdown = &b
	}
	return reservation.Reconstruct(
		res.ID(), res.Contact(), res.TripWindow(), res.Locations(),
		res.Vehicles(), res.Licenses(), extras, res.Identity(),
		res.CouponCode(), breakdown, res.Status(), res.CurrentStep(),
		res.CreatedAt(), res.UpdatedAt(),
	)
}

// fakeUoW implements shared.UnitOfWork over fakeStore.
type fakeUoW struct {
	store *fakeStore

	// rerunFirst mimics a serialization-failure retry: the first attempt is
	// rolled back and the closure runs again against the restored state.
	rerunFirst bool
}

func (u *fakeUoW) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if u.rerunFirst {
		u.rerunFirst = false
		snapshot := u.snapshot()
		_ = fn(context.Background(), &fakeTx{store: u.store})
		u.restore(snapshot)
	}

	snapshot := u.snapshot()
	if err := fn(context.Background(), &fakeTx{store: u.store}); err != nil {
		u.restore(snapshot)
		return err
	}
	return nil
}

func (u *fakeUoW) Reads() shared.CommandReads {
	return &lockedReads{store: u.store}
}

type storeSnapshot struct {
	reservations map[uuid.UUID]*reservation.Reservation
	coupons      map[uuid.UUID]couponRecord
	jobCount     int
}

func (u *fakeUoW) snapshot() storeSnapshot {
	snap := storeSnapshot{
		reservations: make(map[uuid.UUID]*reservation.Reservation, len(u.store.reservations)),
		coupons:      make(map[uuid.UUID]couponRecord, len(u.store.coupons)),
		jobCount:     len(u.store.jobs),
	}
	for id, res := range u.store.reservations {
		snap.reservations[id] = copyReservation(res)
	}
	for id, rec := range u.store.coupons {
		snap.coupons[id] = *rec
	}
	return snap
}

func (u *fakeUoW) restore(snap storeSnapshot) {
	u.store.reservations = snap.reservations
	for id, rec := range snap.coupons {
		stored := rec
		u.store.coupons[id] = &stored
	}
	u.store.jobs = u.store.jobs[:snap.jobCount]
}

// fakeTx assumes the store lock is already held by Within.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{t.store} }
func (t *fakeTx) Coupons() shared.CouponLedger               { return &fakeCouponLedger{t.store} }
func (t *fakeTx) Notifications() shared.NotificationOutbox   { return &fakeOutbox{t.store} }
func (t *fakeTx) Reads() shared.CommandReads                 { return &unlockedReads{t.store} }

type fakeReservationRepo struct {
	store *fakeStore
}

var (
	errFakeNotFound  = infra.WrapRepoErr("not found", nil, infra.KindNotFound)
	errFakeDBFailure = infra.WrapRepoErr("connection reset by peer", errors.New("broken pipe"))
)

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	r.store.reservations[res.ID()] = copyReservation(res)
	return nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if r.store.failUpdate {
		return errors.New("simulated write failure")
	}
	if _, ok := r.store.reservations[res.ID()]; !ok {
		return errFakeNotFound
	}
	r.store.reservations[res.ID()] = copyReservation(res)
	return nil
}

func (r *fakeReservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	if r.store.failFind {
		return nil, errFakeDBFailure
	}
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return copyReservation(res), nil
}

type fakeCouponLedger struct {
	store *fakeStore
}

var errFakeRedeemConflict = infra.WrapRepoErr("coupon no longer redeemable", nil, infra.KindConflict)

func (l *fakeCouponLedger) RedeemOnce(_ context.Context, couponID uuid.UUID) error {
	rec, ok := l.store.coupons[couponID]
	if !ok {
		return errFakeRedeemConflict
	}
	now := time.Now()
	if !rec.active ||
		(rec.validFrom != nil && now.Before(*rec.validFrom)) ||
		(rec.validTo != nil && now.After(*rec.validTo)) ||
		rec.currentUsers >= rec.maxUsers {
		return errFakeRedeemConflict
	}
	rec.currentUsers++
	return nil
}

type fakeOutbox struct {
	store *fakeStore
}

func (o *fakeOutbox) Enqueue(_ context.Context, channel, messageType string, payload []byte, runAt time.Time) error {
	o.store.jobs = append(o.store.jobs, fakeJob{
		channel:     channel,
		messageType: messageType,
		payload:     payload,
		runAt:       runAt,
	})
	return nil
}

// unlockedReads serves reads inside Within, where the lock is held.
type unlockedReads struct {
	store *fakeStore
}

func (r *unlockedReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return copyReservation(res), nil
}

func (r *unlockedReads) CouponByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	if r.store.failCouponRead {
		return nil, errFakeDBFailure
	}
	for _, rec := range r.store.coupons {
		if strings.EqualFold(rec.code, code) {
			return coupon.New(rec.id, rec.code, rec.amountOffCents, rec.percentOff,
				rec.active, rec.validFrom, rec.validTo, rec.currentUsers, rec.maxUsers)
		}
	}
	return nil, errFakeNotFound
}

type lockedReads struct {
	store *fakeStore
}

func (r *lockedReads) ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&unlockedReads{r.store}).ReservationByID(ctx, id)
}

func (r *lockedReads) CouponByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&unlockedReads{r.store}).CouponByCode(ctx, code)
}

type staticCatalog struct {
	cat catalog.Catalog
	err error
}

func (p *staticCatalog) Load(context.Context) (catalog.Catalog, error) {
	if p.err != nil {
		return catalog.Catalog{}, p.err
	}
	return p.cat, nil
}
