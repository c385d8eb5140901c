package components

import (
	"vehicle-rental/internal/domain/pricing"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/config"
	"vehicle-rental/internal/usecase/commands"
	"vehicle-rental/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewRateTable,
		commands.NewReservationCommands,
		queries.NewReservationQueries,
	),
)

func NewRateTable(cfg config.Config) (pricing.RateTable, error) {
	if err := cfg.Pricing.Validate(); err != nil {
		return pricing.RateTable{}, err
	}

	tiers := make([]pricing.Tier, len(cfg.Pricing.TierThresholdDays))
	for i, threshold := range cfg.Pricing.TierThresholdDays {
		tiers[i] = pricing.Tier{
			ThresholdDays:  threshold,
			DailyRateCents: cfg.Pricing.TierRateCents[i],
		}
	}

	return pricing.NewRateTable(tiers, cfg.Pricing.LicenseRateCents, cfg.Pricing.DepositCents)
}
