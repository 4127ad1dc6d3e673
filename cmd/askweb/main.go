package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"askweb/internal/app"
	"askweb/internal/cli"
	"askweb/internal/config"
	"askweb/internal/logger"
	"askweb/internal/server"
)

var (
	version = "0.1.0"
)

func main() {
	// Missing .env is fine; keys can come from config or the environment
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "askweb",
		Short: "askweb - ask questions, get answers grounded in web search",
		Long: `askweb answers natural-language questions.

It decides per question whether live web information is needed:
  • Time-sensitive questions go through web search
  • The top result pages are fetched and summarized
  • The answer cites the pages it was grounded in
  • General-knowledge questions are answered directly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return cli.Run(cfg)
		},
	}

	// ask subcommand: one question, one answer, exit
	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer a.Close()

			candidate, err := a.Pipeline.Run(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(candidate.Answer)
			if len(candidate.Sources) > 0 {
				fmt.Println("\nSources:")
				for i, url := range candidate.Sources {
					fmt.Printf("  %d. %s\n", i+1, url)
				}
			}
			return nil
		},
	}

	// serve subcommand
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ask API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer a.Close()

			srv := server.New(cfg.Server.Addr, a.Pipeline)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				logger.Info("shutting down")
				if err := srv.Shutdown(context.Background()); err != nil {
					logger.Error("shutdown failed: %v", err)
				}
			}()

			return srv.ListenAndServe()
		},
	}

	// config subcommand
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println(cfg.String())

			path, _ := config.ConfigPath()
			fmt.Printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	// version subcommand
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("askweb v%s\n", version)
		},
	}

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates config, and points the logger at the
// configured log directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Init(logger.Config{LogDir: config.LogDir(), Level: logger.INFO}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
