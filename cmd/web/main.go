package main

import (
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fiscal-tools/cfdi-atlas/pkg/server"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/config"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
)

var (
	settingsPath string
	profilesPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the CFDI Atlas web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to the server settings file (optional, env vars override)")
	rootCmd.Flags().StringVarP(&profilesPath, "profiles", "p", "",
		"Path to the company profile registry (optional)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if profilesPath != "" {
		registry, err := config.NewRegistry(profilesPath)
		if err != nil {
			return fmt.Errorf("failed to load profile registry: %w", err)
		}
		logger.Info().Msgf("Profile registry `%s` loaded.", profilesPath)
		for _, profile := range registry.Profiles() {
			logger.Info().Msgf("Name: `%s`, RFC: `%s`", profile.Name, profile.RFC)
		}
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(settings.Host, settings.Port),
		ShutdownTimeout: settings.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Store: dataset.NewStore(),
		},
	})

	return webAPI.Start()
}
