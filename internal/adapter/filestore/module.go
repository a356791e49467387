package filestore

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/config"
	"github.com/polkiloo/letterdesk/internal/usecase"
)

// Module exposes the disk blob store to fx graph.
var Module = fx.Provide(newBlobStore)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newBlobStore(p storeParams) (usecase.BlobStore, error) {
	return NewDiskStore(p.Config.StorageDir, p.Logger)
}
