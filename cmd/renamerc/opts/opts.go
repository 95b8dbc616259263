package opts

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/cmd/renamerc/ui"
	"github.com/walteh/renamerc/pkg/config"
	"github.com/walteh/renamerc/pkg/fsys"
	"github.com/walteh/renamerc/pkg/log"
	"github.com/walteh/renamerc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool

	Logger     *log.Logger
	UserLogger *ui.UserLogger
	Provider   fsys.Provider
	Runner     *operation.OperationRunner
}

// LoadConfig reads the config named by --config. Without the flag a
// .renamerc in the working directory is used when present, otherwise an
// empty config that the command flags fill in. The config is not validated.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		if _, err := os.Stat(config.DefaultFilename); err != nil {
			zerolog.Ctx(ctx).Debug().Msg("no config file, using flags only")
			return config.New(), nil
		}
		path = config.DefaultFilename
	}

	cfg, err := config.Read(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
