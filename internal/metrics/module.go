package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/usecase"
)

// Module provides the prometheus registry and binds it as use case metrics.
var Module = fx.Options(
	fx.Provide(NewRegistry),
	fx.Provide(func(r *Registry) usecase.Metrics { return r }),
)
