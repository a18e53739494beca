package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kledx/mbc20-claw/internal/config"
	"github.com/kledx/mbc20-claw/internal/mbc20"
	"github.com/kledx/mbc20-claw/internal/moltbook"
	"github.com/kledx/mbc20-claw/internal/notify"
	"github.com/kledx/mbc20-claw/internal/scheduler"
	"github.com/kledx/mbc20-claw/internal/store"
	"github.com/kledx/mbc20-claw/pkg/logx"
)

type flags struct {
	tick            string
	amt             string
	submolt         string
	title           string
	intervalMinutes int
	count           int
	credentials     string
	noNonce         bool
	apiBase         string
	startAt         string

	logLevel      string
	logFile       string
	historyDriver string
	historyPath   string
	notifyChat    int64
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var f flags
	root := &cobra.Command{
		Use:           "clawmintd",
		Short:         "Safe Moltbook MBC-20 mint scheduler",
		Long:          "Posts MBC-20 mint operations to Moltbook at a platform-compliant interval.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	fs := root.Flags()
	fs.StringVar(&f.tick, "tick", "", "ticker, e.g. CLAW")
	fs.StringVar(&f.amt, "amt", "", "mint amount, e.g. 100")
	fs.StringVar(&f.submolt, "submolt", "general", "target submolt")
	fs.StringVar(&f.title, "title", "mint {tick}", "post title; supports {tick}")
	fs.IntVar(&f.intervalMinutes, "interval-minutes", 30, "desired interval; platform minimum is enforced")
	fs.IntVar(&f.count, "count", 0, "how many successful posts to send (0 = run forever)")
	fs.StringVar(&f.credentials, "credentials", config.DefaultCredentialsPath(), "path to moltbook credentials json")
	fs.BoolVar(&f.noNonce, "no-nonce", false, "disable default nonce suffix in content (not recommended)")
	fs.StringVar(&f.apiBase, "api-base", config.DefaultAPIBase, "Moltbook API base URL")
	fs.StringVar(&f.startAt, "start-at", "", "optional cron expression; wait for its next activation before posting")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	fs.StringVar(&f.logFile, "log-file", "", "append logs to this file in addition to the console")
	fs.StringVar(&f.historyDriver, "history-driver", "none", "attempt history driver (none|file|sqlite)")
	fs.StringVar(&f.historyPath, "history-path", "", "attempt history path")
	fs.Int64Var(&f.notifyChat, "notify-chat", 0, "Telegram chat id for result notifications (needs MOLTBOOK_TG_TOKEN)")
	_ = root.MarkFlagRequired("tick")
	_ = root.MarkFlagRequired("amt")

	if err := root.ExecuteContext(ctx); err != nil {
		// Operator interrupt is a clean stop, not a failure to report.
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	log, closeLog := logx.New(logx.Config{
		Level: f.logLevel,
		File:  logx.FileConfig{Enabled: strings.TrimSpace(f.logFile) != "", Path: f.logFile},
	})
	defer func() { _ = closeLog() }()

	tick, err := mbc20.NormalizeTick(f.tick)
	if err != nil {
		return err
	}
	amt, err := mbc20.NormalizeAmt(f.amt)
	if err != nil {
		return err
	}
	if f.intervalMinutes <= 0 {
		return errors.New("interval-minutes must be > 0")
	}
	if f.count < 0 {
		return errors.New("count must be >= 0")
	}
	if strings.TrimSpace(f.submolt) == "" {
		return errors.New("submolt must not be empty")
	}
	base, err := config.NormalizeAPIBase(f.apiBase)
	if err != nil {
		return err
	}

	apiKey, err := config.LoadAPIKey(f.credentials)
	if err != nil {
		return err
	}

	client := moltbook.New(base, moltbook.Options{APIKey: apiKey, Log: log})

	history, err := store.Open(store.Config{Driver: f.historyDriver, Path: f.historyPath}, log)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if history != nil {
		defer func() { _ = history.Close() }()
	}

	notifier, err := notify.New(os.Getenv("MOLTBOOK_TG_TOKEN"), f.notifyChat, log)
	if err != nil {
		// Notifications are best-effort extras; a bad token should not
		// keep the scheduler from posting.
		log.Warn("telegram notifier unavailable", logx.Err(err))
		notifier = nil
	}

	svc := scheduler.New(
		scheduler.Config{
			Tick:            tick,
			Amt:             amt,
			Submolt:         strings.TrimSpace(f.submolt),
			Title:           f.title,
			IntervalMinutes: f.intervalMinutes,
			Count:           f.count,
			NoNonce:         f.noNonce,
			Link:            mbc20.DefaultLink,
			StartAt:         strings.TrimSpace(f.startAt),
		},
		client,
		scheduler.Options{
			Prompter: scheduler.NewTerminalPrompter(os.Stdin, os.Stdout),
			History:  history,
			Notifier: notifier,
			Log:      log,
			Out:      os.Stdout,
		},
	)

	// Under systemd these report lifecycle; elsewhere they are no-ops.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	return svc.Run(ctx)
}
