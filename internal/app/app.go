// Package app wires the scriptbind CLI together: it configures logging,
// loads the tool configuration, builds an Engine, merges the configured
// packages into its function table and reports the result.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/vk/scriptbind"
	"github.com/vk/scriptbind/internal/config"
	"github.com/vk/scriptbind/internal/ctxlog"
)

// Config holds all the necessary configuration for an App instance to
// run.
type Config struct {
	ConfigPath string // optional HCL tool configuration file
	LogFormat  string
	LogLevel   string
}

// NewConfig validates and returns the application configuration.
func NewConfig(cfg Config) (*Config, error) {
	// All fields are optional; an empty config dumps the default
	// package set with default logging.
	return &cfg, nil
}

// App encapsulates the tool's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	engine *scriptbind.Engine
	model  *config.Model
}

// NewApp is the constructor for the main application. It returns a
// fully initialized App with its own isolated logger and engine. It
// panics on configuration errors; the CLI boundary recovers and turns
// the panic into a clean exit.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(pick(appConfig.LogLevel, "info"), pick(appConfig.LogFormat, "text"), outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	model := &config.Model{}
	if appConfig.ConfigPath != "" {
		m, err := config.DecodeFile(ctx, appConfig.ConfigPath)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model = m
	}

	// Flags win over the config file; the file wins over defaults.
	level := pick(appConfig.LogLevel, model.LogLevel, "info")
	format := pick(appConfig.LogFormat, model.LogFormat, "text")
	logger = newLogger(level, format, outW)
	logger.Debug("Logger configured successfully.")

	engine := scriptbind.New()
	for _, pkg := range resolvePackages(model) {
		engine.ImportPackage(pkg)
	}
	logger.Debug("All packages merged into the function table.", "entries", engine.Table().Len())

	return &App{
		outW:   outW,
		logger: logger,
		engine: engine,
		model:  model,
	}
}

// Engine returns the application's engine. This is primarily for
// testing.
func (a *App) Engine() *scriptbind.Engine { return a.engine }

// Run writes the function-table listing to the application's output.
func (a *App) Run(ctx context.Context) error {
	table := a.engine.Table()

	for _, pkg := range resolvePackages(a.model) {
		fmt.Fprintf(a.outW, "package %s: %s\n", pkg.Name(), pkg.Description())
	}
	fmt.Fprintf(a.outW, "%d registered entries:\n", table.Len())

	keys := table.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		f, _ := table.Get(key)
		marker := ""
		if f.IsMethod() {
			marker += " [method]"
		}
		if f.IsFallible() {
			marker += " [fallible]"
		}
		fmt.Fprintf(a.outW, "  %s%s\n", key, marker)
	}
	return nil
}

// pick returns the first non-empty string.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
