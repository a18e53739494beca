// Package moltbook is a thin client for the Moltbook agent REST API.
package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kledx/mbc20-claw/pkg/logx"
)

const apiPrefix = "/api/v1"

// Options tunes a Client. Zero values pick safe defaults.
type Options struct {
	// APIKey is the bearer token used by the agent endpoints
	// (Me, CreatePost, VerifyChallenge). Helper endpoints take their
	// keys per call.
	APIKey string

	// Timeout bounds each request. Default 30s.
	Timeout time.Duration

	// RequestsPerSec paces outgoing calls client-side. Default 1.
	RequestsPerSec int

	HTTPClient *http.Client
	Log        logx.Logger
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     logx.Logger
}

// New builds a client for the given site base URL (no /api/v1 suffix).
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	rps := opts.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	log := opts.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  opts.APIKey,
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     log,
	}
}

func (c *Client) url(path string) string { return c.baseURL + apiPrefix + path }

// doJSON performs one paced request and returns the status plus raw
// body. Transport-level failures return err; HTTP error statuses do not.
func (c *Client) doJSON(ctx context.Context, method, path string, header http.Header, payload any) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	c.log.Debug("api request", logx.String("method", method), logx.String("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func bearer(key string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+key)
	return h
}

// decodeEnvelope unmarshals raw into out; a non-JSON body degrades to a
// success=false envelope carrying the raw text, matching the server's
// plain-text error pages.
func decodeEnvelope(raw []byte, out any) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		fallback, _ := json.Marshal(map[string]any{
			"success": false,
			"error":   string(raw),
		})
		_ = json.Unmarshal(fallback, out)
	}
}

// Me fetches the authenticated account snapshot. Anything but a
// success=true 200 is an error; the caller treats it as fatal.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	status, raw, err := c.doJSON(ctx, http.MethodGet, "/agents/me", bearer(c.apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("/agents/me: %w", err)
	}
	var me meResponse
	decodeEnvelope(raw, &me)
	if status != http.StatusOK || !me.Success {
		return nil, fmt.Errorf("/agents/me failed (%d): %s", status, strings.TrimSpace(string(raw)))
	}
	return &me.Agent, nil
}

// CreatePost submits a post. Non-2xx statuses and network failures come
// back inside the PostResult (Status 0 means no HTTP code was obtained);
// err is only returned when ctx is done.
func (c *Client) CreatePost(ctx context.Context, post PostRequest) (*PostResult, error) {
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/posts", bearer(c.apiKey), post)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &PostResult{Status: 0, Success: false, Error: "network error: " + err.Error()}, nil
	}
	res := &PostResult{Status: status}
	decodeEnvelope(raw, res)
	return res, nil
}

// VerifyChallenge answers a human-verification challenge.
func (c *Client) VerifyChallenge(ctx context.Context, code, answer string) (*VerifyResult, error) {
	payload := map[string]string{"verification_code": code, "answer": answer}
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/verify", bearer(c.apiKey), payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &VerifyResult{Status: 0, Success: false, Error: "network error: " + err.Error()}, nil
	}
	res := &VerifyResult{Status: status}
	decodeEnvelope(raw, res)
	return res, nil
}

// IdentityToken requests a temporary identity token with a bot API key.
// The raw body is returned for display.
func (c *Client) IdentityToken(ctx context.Context, botAPIKey string) (int, string, error) {
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/agents/me/identity-token", bearer(botAPIKey), map[string]any{})
	if err != nil {
		if ctx.Err() != nil {
			return 0, "", ctx.Err()
		}
		return 0, "network error: " + err.Error(), nil
	}
	return status, string(raw), nil
}

// VerifyIdentity checks an identity token using the developer app key.
func (c *Client) VerifyIdentity(ctx context.Context, appKey, token string) (int, string, error) {
	h := http.Header{}
	h.Set("X-Moltbook-App-Key", appKey)
	payload := map[string]string{"token": strings.TrimSpace(token)}
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/agents/verify-identity", h, payload)
	if err != nil {
		if ctx.Err() != nil {
			return 0, "", ctx.Err()
		}
		return 0, "network error: " + err.Error(), nil
	}
	return status, string(raw), nil
}

// AuthInstructionsURL renders the hosted auth instructions URL shown to
// app developers. header is optional; the platform default applies when
// it is empty.
func AuthInstructionsURL(appName, endpoint, header string) string {
	q := url.Values{}
	q.Set("app", strings.TrimSpace(appName))
	q.Set("endpoint", strings.TrimSpace(endpoint))
	if strings.TrimSpace(header) != "" {
		q.Set("header", strings.TrimSpace(header))
	}
	return "https://moltbook.com/auth.md?" + q.Encode()
}
