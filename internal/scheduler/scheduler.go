package scheduler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kledx/mbc20-claw/internal/mbc20"
	"github.com/kledx/mbc20-claw/internal/moltbook"
	"github.com/kledx/mbc20-claw/internal/notify"
	"github.com/kledx/mbc20-claw/internal/store"
	"github.com/kledx/mbc20-claw/pkg/logx"
)

// defaultRetryWait applies when a 429 carries no usable retry hints.
const defaultRetryWait = 1800 * time.Second

// API is the slice of the Moltbook client the loop needs.
type API interface {
	Me(ctx context.Context) (*moltbook.Account, error)
	CreatePost(ctx context.Context, post moltbook.PostRequest) (*moltbook.PostResult, error)
	VerifyChallenge(ctx context.Context, code, answer string) (*moltbook.VerifyResult, error)
}

// Config is one posting session. All fields are validated by the CLI
// before Run is called.
type Config struct {
	Tick    string
	Amt     string
	Submolt string
	// Title may contain "{tick}", substituted once at session start.
	Title           string
	IntervalMinutes int
	// Count is the target number of successful posts; 0 runs forever.
	Count   int
	NoNonce bool
	Link    string
	// StartAt optionally delays loop entry until the next activation
	// of a standard cron expression.
	StartAt string
}

type Service struct {
	cfg      Config
	api      API
	clock    Clock
	prompter Prompter
	history  store.Store
	notifier *notify.Service
	log      logx.Logger
	out      io.Writer
}

// Options carries the injectable collaborators. History and Notifier
// may be nil; Clock and Out default to the real ones.
type Options struct {
	Clock    Clock
	Prompter Prompter
	History  store.Store
	Notifier *notify.Service
	Log      logx.Logger
	Out      io.Writer
}

func New(cfg Config, api API, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Log.IsZero() {
		opts.Log = logx.Nop()
	}
	return &Service{
		cfg:      cfg,
		api:      api,
		clock:    opts.Clock,
		prompter: opts.Prompter,
		history:  opts.History,
		notifier: opts.Notifier,
		log:      opts.Log,
		out:      opts.Out,
	}
}

// Run executes one posting session. It returns nil when a bounded run
// completes, and an error for fatal setup failures or cancellation.
func (s *Service) Run(ctx context.Context) error {
	me, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	if !me.IsClaimed {
		return fmt.Errorf("agent is not claimed yet; cannot post")
	}
	created, err := me.CreatedTime()
	if err != nil {
		return err
	}

	// The floor is fixed at session start; crossing the 24h age
	// threshold mid-run does not relax it.
	floor := PlatformMinIntervalMinutes(created, s.clock.Now())
	interval := EffectiveIntervalMinutes(s.cfg.IntervalMinutes, floor)
	if s.cfg.IntervalMinutes < floor {
		fmt.Fprintf(s.out, "requested %dm is too fast; enforced %dm to match platform rules\n", s.cfg.IntervalMinutes, interval)
		s.log.Warn("requested interval below platform floor",
			logx.Int("requested_m", s.cfg.IntervalMinutes),
			logx.Int("floor_m", floor),
		)
	} else {
		fmt.Fprintf(s.out, "using interval %dm\n", interval)
	}
	s.log.Info("session start",
		logx.String("tick", s.cfg.Tick),
		logx.String("amt", s.cfg.Amt),
		logx.String("submolt", s.cfg.Submolt),
		logx.Int("interval_m", interval),
		logx.Int("count", s.cfg.Count),
	)

	if err := WaitForWindow(ctx, s.clock, s.cfg.StartAt, s.log); err != nil {
		return err
	}

	title := strings.ReplaceAll(s.cfg.Title, "{tick}", s.cfg.Tick)
	sent := 0

	for {
		ok, err := s.attempt(ctx, title)
		if err != nil {
			return err
		}
		if ok {
			sent++
			fmt.Fprintf(s.out, "posted count=%d\n", sent)
			s.notify(ctx, fmt.Sprintf("minted %s x%s (%d%s)", s.cfg.Tick, s.cfg.Amt, sent, ofTarget(s.cfg.Count)))
		} else {
			s.notify(ctx, fmt.Sprintf("mint attempt for %s failed", s.cfg.Tick))
		}

		if s.cfg.Count > 0 && sent >= s.cfg.Count {
			fmt.Fprintln(s.out, "done")
			s.log.Info("session complete", logx.Int("sent", sent))
			s.notify(ctx, fmt.Sprintf("mint session for %s complete: %d posted", s.cfg.Tick, sent))
			return nil
		}

		sleep := time.Duration(interval) * time.Minute
		fmt.Fprintf(s.out, "sleeping %d seconds...\n", int(sleep.Seconds()))
		if err := s.clock.Sleep(ctx, sleep); err != nil {
			return err
		}
	}
}

func ofTarget(count int) string {
	if count <= 0 {
		return ""
	}
	return fmt.Sprintf("/%d", count)
}

// attempt drives one attempt to conclusion. Rate limiting re-enters the
// POST after the server-directed wait; everything else concludes the
// attempt as ok or failed.
func (s *Service) attempt(ctx context.Context, title string) (bool, error) {
	for {
		nonce := ""
		if !s.cfg.NoNonce {
			nonce = mbc20.Nonce(s.clock.Now())
		}
		content := mbc20.MintContent(s.cfg.Tick, s.cfg.Amt, s.cfg.Link, nonce)

		res, err := s.api.CreatePost(ctx, moltbook.PostRequest{
			Submolt: s.cfg.Submolt,
			Title:   title,
			Content: content,
		})
		if err != nil {
			return false, err
		}

		if res.Status == 429 {
			wait := RetryWait(res)
			fmt.Fprintf(s.out, "rate limited; sleeping %d seconds\n", int(wait.Seconds()))
			s.log.Warn("rate limited", logx.Duration("wait", wait))
			if err := s.clock.Sleep(ctx, wait); err != nil {
				return false, err
			}
			continue
		}

		if res.Status < 200 || res.Status >= 300 || !res.Success {
			detail := failureDetail(res)
			fmt.Fprintf(s.out, "post failed (%d): %s\n", res.Status, detail)
			s.log.Warn("post failed", logx.Int("status", res.Status), logx.String("detail", detail))
			s.record(ctx, store.Attempt{Status: res.Status, OK: false, Error: detail})
			return false, nil
		}

		var postID, postURL string
		if res.Post != nil {
			postID = res.Post.ID
			postURL = res.Post.URL
		}
		fmt.Fprintf(s.out, "created post: %s https://www.moltbook.com%s\n", postID, postURL)

		ok, err := s.resolveVerification(ctx, res)
		if err != nil {
			return false, err
		}
		if !ok {
			s.record(ctx, store.Attempt{Status: res.Status, OK: false, PostID: postID, Error: "verification failed"})
			return false, nil
		}
		s.record(ctx, store.Attempt{Status: res.Status, OK: true, PostID: postID})
		return true, nil
	}
}

// resolveVerification handles a human-verification challenge on an
// otherwise accepted post. Missing code, empty answer, or a rejected
// answer all downgrade the attempt to failed without stopping the loop.
func (s *Service) resolveVerification(ctx context.Context, res *moltbook.PostResult) (bool, error) {
	if !res.VerificationRequired {
		return true, nil
	}
	v := res.Verification
	if v == nil || strings.TrimSpace(v.Code) == "" {
		fmt.Fprintln(s.out, "verification required but code missing; cannot continue")
		return false, nil
	}

	fmt.Fprintln(s.out, "\nVerification required by Moltbook.")
	if v.Challenge != "" {
		fmt.Fprintf(s.out, "Challenge: %s\n", v.Challenge)
	}
	if s.prompter == nil {
		fmt.Fprintln(s.out, "no way to answer verification; treating attempt as failed")
		return false, nil
	}
	answer, err := s.prompter.Ask(ctx, "Enter verification answer (example 525.00): ")
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		fmt.Fprintf(s.out, "could not read answer: %v\n", err)
		return false, nil
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		fmt.Fprintln(s.out, "empty answer, stop")
		return false, nil
	}

	vr, err := s.api.VerifyChallenge(ctx, v.Code, answer)
	if err != nil {
		return false, err
	}
	if vr.Status >= 200 && vr.Status < 300 && vr.Success {
		msg := vr.Message
		if msg == "" {
			msg = "ok"
		}
		fmt.Fprintf(s.out, "verified: %s\n", msg)
		return true, nil
	}
	detail := vr.Error
	if detail == "" {
		detail = vr.Message
	}
	fmt.Fprintf(s.out, "verify failed (%d): %s\n", vr.Status, detail)
	return false, nil
}

// RetryWait derives the 429 backoff: the larger of the two server
// hints, defaulting when both are absent or zero.
func RetryWait(res *moltbook.PostResult) time.Duration {
	wait := time.Duration(res.RetryAfterSeconds) * time.Second
	if m := time.Duration(res.RetryAfterMinutes) * time.Minute; m > wait {
		wait = m
	}
	if wait <= 0 {
		wait = defaultRetryWait
	}
	return wait
}

func failureDetail(res *moltbook.PostResult) string {
	if res.Error != "" {
		return res.Error
	}
	if res.Message != "" {
		return res.Message
	}
	return "request rejected"
}

func (s *Service) record(ctx context.Context, a store.Attempt) {
	if s.history == nil {
		return
	}
	a.At = s.clock.Now()
	a.Tick = s.cfg.Tick
	a.Amt = s.cfg.Amt
	a.Submolt = s.cfg.Submolt
	if err := s.history.AppendAttempt(ctx, a); err != nil {
		s.log.Warn("history append failed", logx.Err(err))
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, text)
}
