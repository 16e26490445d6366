package main

import (
	"strings"

	"go.uber.org/zap"

	"github.com/macrolens/platescan/config"
	"github.com/macrolens/platescan/internal/app"
	"github.com/macrolens/platescan/internal/logging"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	return config.LoadFile(path)
}

func (c *commandContext) newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := "warn"
	if c.verboseFlag != nil && *c.verboseFlag {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Log.Format,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		Development:      true,
	})
}

// withApp builds the services for one command and releases them afterwards.
func (c *commandContext) withApp(fn func(*app.App) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
