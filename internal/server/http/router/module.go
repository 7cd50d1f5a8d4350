package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/habittracker/internal/app"
	"github.com/polkiloo/habittracker/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.TrackerFacade) handlers.TrackerFacade { return f }),
	fx.Provide(Setup),
)
