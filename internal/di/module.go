package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/habittracker/internal/app"
	"github.com/polkiloo/habittracker/internal/config"
	"github.com/polkiloo/habittracker/internal/logger"
	"github.com/polkiloo/habittracker/internal/metrics"
	"github.com/polkiloo/habittracker/internal/pkg/auth"
	"github.com/polkiloo/habittracker/internal/server/http/router"
	"github.com/polkiloo/habittracker/internal/storage"
	"github.com/polkiloo/habittracker/internal/usecase"
)

// Module assembles the full application graph. Extra options are applied last,
// so callers can fx.Replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
