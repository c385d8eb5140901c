package bootstrap

import (
	"vehicle-rental/internal/pkg/config"
	"vehicle-rental/internal/pkg/token"

	"go.uber.org/fx"
)

var TokenModule = fx.Module("token",
	fx.Provide(
		NewTokenService,
	),
)

func NewTokenService(cfg config.Config) *token.Service {
	return token.NewService(cfg.Session.Secret, cfg.Session.Duration)
}
