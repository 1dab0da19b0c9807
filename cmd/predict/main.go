package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"scorecast/config"
	"scorecast/logging"
)

const appConfigKey = "app-config"

var (
	version = "v0.0.1-default"

	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to the config file",
		Value:   "config.yaml",
		EnvVars: []string{"SCORECAST_CONFIG"},
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Logger *logging.Logger
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "scorecast",
		Version:         version,
		Compiled:        time.Now(),
		HideHelpCommand: true,
		Usage:           "Predict exam scores with the fitted regression ensemble",
		Flags: []cli.Flag{
			configFlag,
			debugFlag,
		},
		Metadata: map[string]interface{}{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String(configFlag.Name))
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if c.Bool(debugFlag.Name) {
				level = "debug"
			}
			logger := logging.New(logging.Options{
				Level:      level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			})
			c.App.Metadata[appConfigKey] = &appConfig{Config: cfg, Logger: logger}
			logger.Debug("config loaded", zap.String("path", c.String(configFlag.Name)))
			return nil
		},
		After: func(c *cli.Context) error {
			if ac, ok := c.App.Metadata[appConfigKey].(*appConfig); ok {
				return ac.Logger.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			predictCmd,
			modelsCmd,
			artifactsCmd,
		},
	}
}
