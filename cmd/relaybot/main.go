// File: cmd/relaybot/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/infra/web"
	"telegram-relay-bot/internal/usecase"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	devMode    bool
)

func main() {
	root := &cobra.Command{
		Use:           "relaybot",
		Short:         "Telegram relay bot: forwards user requests to a single operator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBot,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file (default: "+config.DefaultPath+" when present)")
	root.PersistentFlags().BoolVar(&devMode, "dev", false, "developer mode: console logs, message bodies in debug output")

	root.AddCommand(runCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot (default)",
		RunE:  runBot,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "relaybot %s (%s)\n", version, commit)
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the operator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Admin.JWTSecret == "" {
				return errors.New("admin.jwt_secret is not set; the operator API is disabled")
			}
			op := usecase.NewOperatorIdentity(cfg.Bot.OperatorID)
			if !op.Valid() {
				return errors.New("bot.operator_id is missing or invalid")
			}
			tok, err := web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL).Mint(op.ChatID())
			if err != nil {
				return fmt.Errorf("mint token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, configPath != "")
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = devMode
	return cfg, nil
}
