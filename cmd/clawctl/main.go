package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kledx/mbc20-claw/internal/config"
	"github.com/kledx/mbc20-claw/internal/mbc20"
	"github.com/kledx/mbc20-claw/internal/moltbook"
	"github.com/kledx/mbc20-claw/pkg/logx"
)

const helperTimeout = 20 * time.Second

var errRequestFailed = errors.New("request failed")

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logx.NewConsole("warn")

	var cfgPath string
	root := &cobra.Command{
		Use:           "clawctl",
		Short:         "Moltbook binding + MBC-20 helper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultAgentPath, "path to agent config json")

	root.AddCommand(
		newBindCmd(&cfgPath),
		newAuthURLCmd(),
		newIdentityTokenCmd(&cfgPath, log),
		newVerifyIdentityCmd(&cfgPath, log),
		newMintCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newBindCmd(cfgPath *string) *cobra.Command {
	var appKey, apiBase, botAPIKey string
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "bind Moltbook app config",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.ValidateAppKey(appKey)
			if err != nil {
				return err
			}
			base, err := config.NormalizeAPIBase(apiBase)
			if err != nil {
				return err
			}

			cfg := config.LoadAgent(*cfgPath)
			cfg.AppKey = key
			cfg.APIBase = base
			if strings.TrimSpace(botAPIKey) != "" {
				cfg.BotAPIKey = strings.TrimSpace(botAPIKey)
			}
			if err := config.SaveAgent(*cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Printf("bound Moltbook config in %s\n", *cfgPath)
			fmt.Printf("api_base=%s\n", base)
			fmt.Printf("app_key=%s...\n", firstN(key, 12))
			return nil
		},
	}
	cmd.Flags().StringVar(&appKey, "app-key", "", "your Moltbook app key (moltdev_...)")
	cmd.Flags().StringVar(&apiBase, "api-base", config.DefaultAPIBase, "Moltbook API base URL")
	cmd.Flags().StringVar(&botAPIKey, "bot-api-key", "", "optional bot API key for identity-token calls")
	_ = cmd.MarkFlagRequired("app-key")
	return cmd
}

func newAuthURLCmd() *cobra.Command {
	var appName, endpoint, header string
	cmd := &cobra.Command{
		Use:   "auth-url",
		Short: "generate hosted auth instructions URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(moltbook.AuthInstructionsURL(appName, endpoint, header))
			return nil
		},
	}
	cmd.Flags().StringVar(&appName, "app-name", "", "shown app name")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "your API endpoint")
	cmd.Flags().StringVar(&header, "header", "", "custom header name (default X-Moltbook-Identity)")
	_ = cmd.MarkFlagRequired("app-name")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

func newIdentityTokenCmd(cfgPath *string, log logx.Logger) *cobra.Command {
	var botAPIKey string
	cmd := &cobra.Command{
		Use:   "identity-token",
		Short: "generate temporary identity token using bot API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadAgent(*cfgPath)
			base, err := cfg.ResolveAPIBase()
			if err != nil {
				return err
			}

			key := firstNonEmpty(botAPIKey, cfg.BotAPIKey, os.Getenv("MOLTBOOK_API_KEY"))
			if key == "" {
				return errors.New("missing bot api key. set --bot-api-key, bind --bot-api-key, or MOLTBOOK_API_KEY")
			}

			client := moltbook.New(base, moltbook.Options{Timeout: helperTimeout, Log: log})
			status, body, err := client.IdentityToken(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Printf("status=%d\n", status)
			fmt.Println(body)
			if status < 200 || status >= 300 {
				return errRequestFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&botAPIKey, "bot-api-key", "", "bot API key; optional if bound/env exists")
	return cmd
}

func newVerifyIdentityCmd(cfgPath *string, log logx.Logger) *cobra.Command {
	var token, appKey string
	cmd := &cobra.Command{
		Use:   "verify-identity",
		Short: "verify identity token with app key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadAgent(*cfgPath)

			key := firstNonEmpty(appKey, cfg.AppKey, os.Getenv("MOLTBOOK_APP_KEY"))
			if key == "" {
				return errors.New("missing app key. run bind --app-key or pass --app-key")
			}
			key, err := config.ValidateAppKey(key)
			if err != nil {
				return err
			}
			base, err := cfg.ResolveAPIBase()
			if err != nil {
				return err
			}

			client := moltbook.New(base, moltbook.Options{Timeout: helperTimeout, Log: log})
			status, body, err := client.VerifyIdentity(cmd.Context(), key, token)
			if err != nil {
				return err
			}
			fmt.Printf("status=%d\n", status)
			fmt.Println(body)
			if status < 200 || status >= 300 {
				return errRequestFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "identity token from bot")
	cmd.Flags().StringVar(&appKey, "app-key", "", "override bound app key")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newMintCmd() *cobra.Command {
	var tick, amt string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "generate MBC-20 mint post content",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mbc20.NormalizeTick(tick)
			if err != nil {
				return err
			}
			a, err := mbc20.NormalizeAmt(amt)
			if err != nil {
				return err
			}
			fmt.Println(mbc20.HelperContent(t, a))
			return nil
		},
	}
	cmd.Flags().StringVar(&tick, "tick", "", "token ticker, e.g. CLAW")
	cmd.Flags().StringVar(&amt, "amt", "", "mint amount, e.g. 100")
	_ = cmd.MarkFlagRequired("tick")
	_ = cmd.MarkFlagRequired("amt")
	return cmd
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
