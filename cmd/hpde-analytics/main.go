package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tartampluch/hpde-analytics/internal/cli"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
)

// main delegates to runMain so deferred calls (flushing the logger) run
// before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain executes the command tree and maps its error to an exit code.
func runMain() int {
	// Cancel on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := cli.NewApp()
	defer app.Close()

	err := cli.NewRootCmd(app).ExecuteContext(ctx)
	if err != nil {
		cli.PrintError(os.Stderr, err)
		zap.L().Error(config.ErrAppFailed,
			zap.String(config.LogKeyComponent, config.CompMain),
			zap.Error(err),
		)
		return cli.ExitCode(err)
	}

	zap.L().Info(config.MsgAppStop, zap.String(config.LogKeyComponent, config.CompMain))
	return config.ExitCodeSuccess
}
