package pricing

import (
	"errors"
	"sort"
)

var (
	ErrNoTiers               = errors.New("rate table has no tiers")
	ErrTierOrder             = errors.New("tier thresholds must be strictly increasing")
	ErrTierRateNotDecreasing = errors.New("tier rates must be strictly decreasing")
)

// Tier maps a minimum rental length in days to the per-day rate charged for
// stays at least that long. Longer stays land on cheaper tiers.
type Tier struct {
	ThresholdDays  int
	DailyRateCents int64
}

// RateTable is the explicit pricing configuration consumed by Compute.
// It is passed in, never read from package-level state.
type RateTable struct {
	tiers            []Tier
	licenseRateCents int64
	depositCents     int64
}

func NewRateTable(tiers []Tier, licenseRateCents, depositCents int64) (RateTable, error) {
	if len(tiers) == 0 {
		return RateTable{}, ErrNoTiers
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ThresholdDays < sorted[j].ThresholdDays
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ThresholdDays == sorted[i-1].ThresholdDays {
			return RateTable{}, ErrTierOrder
		}
		if sorted[i].DailyRateCents >= sorted[i-1].DailyRateCents {
			return RateTable{}, ErrTierRateNotDecreasing
		}
	}

	return RateTable{
		tiers:            sorted,
		licenseRateCents: licenseRateCents,
		depositCents:     depositCents,
	}, nil
}

// DailyRateCents scans thresholds in descending order and returns the rate of
// the largest threshold not exceeding rentalDays. Day counts below the lowest
// threshold fall back to the most expensive tier.
func (t RateTable) DailyRateCents(rentalDays int) int64 {
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if rentalDays >= t.tiers[i].ThresholdDays {
			return t.tiers[i].DailyRateCents
		}
	}
	return t.tiers[0].DailyRateCents
}

func (t RateTable) LicenseRateCents() int64 { return t.licenseRateCents }
func (t RateTable) DepositCents() int64     { return t.depositCents }
