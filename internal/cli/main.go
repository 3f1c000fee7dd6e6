package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/services"
)

// Version is set at build time with -ldflags "-X studyledger/internal/cli.Version=...".
var Version = "dev"

// Main runs one invocation and returns the exit code. The store is opened
// once and released on every path.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("studyledger", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "configuration file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stdout, usageMain)
			return ExitOK
		}
		return report(stderr, usageErr(usageMain, "%v", err))
	}
	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		app := &App{Out: stdout}
		if err := app.runHelp(context.Background(), tail(rest)); err != nil {
			return report(stderr, err)
		}
		if len(rest) == 0 {
			return ExitError
		}
		return ExitOK
	}

	LoadEnvFile()
	cfg, err := LoadAndValidateConfig(*configPath)
	if err != nil {
		return report(stderr, err)
	}
	logger := SetupLogger(cfg.LogLevel, stderr)

	ctx, stop := SignalContext(context.Background())
	defer stop()

	res, err := OpenStore(ctx, logger, cfg)
	if err != nil {
		return report(stderr, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err)
		}
	}()

	engine := services.NewEngine(res.Store, cfg.Weekday(), logger)
	app := NewApp(engine, cfg, stdin, stdout, logger)
	app.Version = Version
	return report(stderr, app.Run(ctx, rest))
}

func tail(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args[1:]
}

// report prints err for the user and returns its exit code.
func report(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		if !usage.Help {
			fmt.Fprintf(w, "error: %s\n\n", usage.Msg)
		}
		fmt.Fprint(w, usage.Usage)
		return ExitCode(err)
	}
	if errors.Is(err, core.ErrStore) {
		fmt.Fprintf(w, "storage error: %v\n", err)
		return ExitCode(err)
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return ExitCode(err)
}
