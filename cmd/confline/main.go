package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/confline/confline/internal/application"
	"github.com/confline/confline/internal/config"
	"github.com/confline/confline/internal/logging"
	"github.com/confline/confline/internal/watch"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("confline", "Typed line-oriented configuration loader - resolves declaration files with includes, merges, and variable expansion")
	settingsFile := kingpinApp.Flag("settings", "Path to YAML settings file").String()
	configFile := kingpinApp.Flag("config", "Base configuration file to load").String()
	extraFiles := kingpinApp.Flag("add-config", "Additional configuration file merged after the base file (repeatable)").Strings()
	defines := kingpinApp.Flag("define", "User-set binding \"<type> <name> = <value>\", applied last (repeatable)").Short('D').Strings()
	logLevel := kingpinApp.Flag("log-level", "Log level: debug, info, warn, error").String()
	maxDepth := kingpinApp.Flag("max-include-depth", "Maximum include recursion depth").Default("0").Int()
	checkOnly := kingpinApp.Flag("check", "Validate the configuration and exit").Bool()
	watchMode := kingpinApp.Flag("watch", "Keep running and re-resolve when a source file changes").Bool()
	getName := kingpinApp.Flag("get", "Print a single variable instead of the whole table").String()
	getType := kingpinApp.Flag("type", "Type name used with --get").Default("string").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		SettingsFile: *settingsFile,
		ExtraFiles:   *extraFiles,
		Defines:      *defines,
	}

	if *configFile != "" {
		overrides.ConfigFile = configFile
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *maxDepth > 0 {
		overrides.MaxIncludeDepth = maxDepth
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load settings: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app := application.New(cfg, logger)

	switch {
	case *checkOnly:
		if err := app.Check(); err != nil {
			logger.Fatal("configuration invalid", zap.Error(err))
		}
		logger.Info("configuration valid",
			zap.String("config", cfg.ConfigFile),
			zap.Strings("extra", cfg.ExtraFiles),
		)

	case *getName != "":
		out, err := app.Get(*getName, *getType)
		if err != nil {
			logger.Fatal("lookup failed",
				zap.String("name", *getName),
				zap.String("type", *getType),
				zap.Error(err),
			)
		}
		fmt.Println(out)

	default:
		out, err := app.Resolve()
		if err != nil {
			logger.Fatal("failed to resolve configuration", zap.Error(err))
		}
		fmt.Print(out)
	}

	if *watchMode {
		watcher := app.Watcher(func() {
			out, err := app.Resolve()
			if err != nil {
				logger.Error("failed to resolve configuration after reload", zap.Error(err))
				return
			}
			fmt.Print(out)
		})
		runWatch(watcher, logger)
	}
}

// runWatch polls in the background until an interrupt or termination signal
// arrives.
func runWatch(watcher *watch.Watcher, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watcher.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("stopping watch mode")
}
