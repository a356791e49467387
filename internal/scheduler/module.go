package scheduler

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/config"
)

// Module provides the overdue invoice sweep. Its start and stop are driven by the app lifecycle.
var Module = fx.Provide(newOverdueSweep)

type sweepParams struct {
	fx.In

	Config  *config.Config
	Sweeper InvoiceSweeper
	Logger  *slog.Logger
}

func newOverdueSweep(p sweepParams) (*OverdueSweep, error) {
	return NewOverdueSweep(p.Config.InvoiceSweepSchedule, p.Sweeper, p.Logger)
}
