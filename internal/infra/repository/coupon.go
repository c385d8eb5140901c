package repository

import (
	"context"
	"time"

	"vehicle-rental/internal/domain/coupon"
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db infra.DBTX
}

func NewCouponRepository(db infra.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindByCode matches case-insensitively. Code uniqueness is enforced
// upstream; if duplicates slip in, the oldest record wins.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, code, amount_off_cents, percent_off, active,
		       valid_from, valid_to, current_users, max_users
		FROM coupons
		WHERE lower(code) = lower($1)
		ORDER BY created_at
		LIMIT 1`,
		code,
	)

	var (
		id             uuid.UUID
		storedCode     string
		amountOffCents *int64
		percentOff     *float64
		active         bool
		validFrom      *time.Time
		validTo        *time.Time
		currentUsers   int32
		maxUsers       int32
	)
	err := row.Scan(&id, &storedCode, &amountOffCents, &percentOff, &active,
		&validFrom, &validTo, &currentUsers, &maxUsers)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	coup, err := coupon.New(id, storedCode, amountOffCents, percentOff, active,
		validFrom, validTo, currentUsers, maxUsers)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build coupon from row", err)
	}
	return coup, nil
}

// RedeemOnce performs the conditional atomic increment. The guard re-checks
// active, window and cap at write time, so two racing confirmations cannot
// push current_users past max_users; the loser sees zero rows affected.
func (r *CouponRepository) RedeemOnce(ctx context.Context, couponID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET current_users = current_users + 1
		WHERE id = $1
		  AND active
		  AND (valid_from IS NULL OR valid_from <= now())
		  AND (valid_to IS NULL OR valid_to >= now())
		  AND current_users < max_users`,
		couponID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to redeem coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon no longer redeemable", nil, infra.KindConflict)
	}
	return nil
}
