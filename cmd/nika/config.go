package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/supernovae-st/nika/pkg/config"
	"github.com/supernovae-st/nika/pkg/logger"
)

// loadConfig resolves this invocation's Config from --config's YAML file
// (if any) layered under the --log-level/--log-json flags, matching the
// default < env < yaml < cli precedence pkg/config.Service implements.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	yamlSrc, err := config.LoadYAMLFile(configPath)
	if err != nil {
		return nil, err
	}

	logLayer := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		logLayer["level"] = logLevel
	}
	if cmd.Flags().Changed("log-json") {
		logLayer["json"] = logJSON
	}
	cliSrc := config.NewCLISource(map[string]any{"log": logLayer})

	return config.NewService().Load(yamlSrc, cliSrc)
}

// newLogger builds the process logger from a resolved Config's log layer.
func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
}
