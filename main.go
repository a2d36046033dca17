package main

//go:generate swag init -g main.go -o docs

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/labcollective/memberhub/config"
	_ "github.com/labcollective/memberhub/docs"
)

const programName = "memberhub"

var globalFlags = struct {
	debug bool
}{}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

func commonRun() *slog.Logger {
	level := slog.LevelInfo
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: globalFlags.debug,
		Level:     level,
	}))
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		logger.Error("failed to set GOMAXPROCS", "error", err)
		os.Exit(1)
	}
	return logger
}

// initialize loads configuration and opens the database for any subcommand.
func initialize() (*config.Config, *slog.Logger) {
	logger := commonRun()
	if err := config.Initialize(); err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	return config.GetConfig(), logger
}

// @title                      LAB Member Hub API
// @version                    1.0
// @description                Member directory, skill assignments and lab calendar.
// @host                       localhost:8088
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the session token.
func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "LAB member hub API server",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(adminCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
