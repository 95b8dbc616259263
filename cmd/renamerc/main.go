package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/cmd/renamerc/opts"
	"github.com/walteh/renamerc/cmd/renamerc/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := &opts.RootOpts{}
	if err := newRootCmd(o).ExecuteContext(ctx); err != nil {
		userLogger := o.UserLogger
		if userLogger == nil {
			userLogger = ui.NewUserLogger(zerolog.Nop())
		}
		userLogger.LogValidation(false, "renamerc failed", err)
		stop()
		os.Exit(1)
	}
}
