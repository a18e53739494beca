package moltbook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, Options{APIKey: "moltbook_k1", RequestsPerSec: 1000})
}

func TestMe(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/agents/me" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer moltbook_k1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"success":true,"agent":{"id":"a1","name":"claw","is_claimed":true,"created_at":"2026-08-30T10:00:00Z"}}`))
	})

	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.ID != "a1" || me.Name != "claw" || !me.IsClaimed {
		t.Fatalf("account = %+v", me)
	}
	created, err := me.CreatedTime()
	if err != nil {
		t.Fatalf("CreatedTime: %v", err)
	}
	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if !created.Equal(want) {
		t.Fatalf("created = %v, want %v", created, want)
	}
}

func TestMeUnauthorized(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"invalid api key"}`))
	})
	_, err := c.Me(context.Background())
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("want 401 error, got %v", err)
	}
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/posts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Submolt != "general" || req.Title != "mint CLAW" {
			t.Errorf("request = %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"post":{"id":"p1","url":"/post/p1"}}`))
	})

	res, err := c.CreatePost(context.Background(), PostRequest{Submolt: "general", Title: "mint CLAW", Content: "x"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if res.Status != 201 || !res.Success || res.Post == nil || res.Post.ID != "p1" {
		t.Fatalf("result = %+v", res)
	}
}

func TestCreatePostRateLimited(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"success":false,"error":"slow down","retry_after_minutes":2,"retry_after_seconds":45}`))
	})

	res, err := c.CreatePost(context.Background(), PostRequest{})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if res.Status != 429 || res.RetryAfterMinutes != 2 || res.RetryAfterSeconds != 45 {
		t.Fatalf("result = %+v", res)
	}
}

func TestCreatePostNonJSONBody(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	res, err := c.CreatePost(context.Background(), PostRequest{})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if res.Status != 502 || res.Success || res.Error != "upstream timeout" {
		t.Fatalf("result = %+v", res)
	}
}

func TestCreatePostNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := New(srv.URL, Options{RequestsPerSec: 1000})

	res, err := c.CreatePost(context.Background(), PostRequest{})
	if err != nil {
		t.Fatalf("network failures must come back in the result, got err %v", err)
	}
	if res.Status != 0 || res.Success || !strings.HasPrefix(res.Error, "network error: ") {
		t.Fatalf("result = %+v", res)
	}
}

func TestCreatePostCanceledContext(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CreatePost(ctx, PostRequest{}); err == nil {
		t.Fatal("want error for canceled context")
	}
}

func TestVerifyChallenge(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/verify" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["verification_code"] != "vc1" || body["answer"] != "525.00" {
			t.Errorf("body = %v", body)
		}
		w.Write([]byte(`{"success":true,"message":"looks right"}`))
	})

	res, err := c.VerifyChallenge(context.Background(), "vc1", "525.00")
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if res.Status != 200 || !res.Success || res.Message != "looks right" {
		t.Fatalf("result = %+v", res)
	}
}

func TestIdentityToken(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/agents/me/identity-token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer bot_k" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"success":true,"token":"idt_1"}`))
	})

	status, body, err := c.IdentityToken(context.Background(), "bot_k")
	if err != nil {
		t.Fatalf("IdentityToken: %v", err)
	}
	if status != 200 || !strings.Contains(body, "idt_1") {
		t.Fatalf("status=%d body=%q", status, body)
	}
}

func TestVerifyIdentity(t *testing.T) {
	t.Parallel()
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/agents/verify-identity" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Moltbook-App-Key"); got != "moltdev_abc" {
			t.Errorf("X-Moltbook-App-Key = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["token"] != "idt_1" {
			t.Errorf("token = %q", body["token"])
		}
		w.Write([]byte(`{"success":true,"agent":{"name":"claw"}}`))
	})

	status, _, err := c.VerifyIdentity(context.Background(), "moltdev_abc", "  idt_1\n")
	if err != nil {
		t.Fatalf("VerifyIdentity: %v", err)
	}
	if status != 200 {
		t.Fatalf("status = %d", status)
	}
}

func TestAuthInstructionsURL(t *testing.T) {
	t.Parallel()
	got := AuthInstructionsURL(" My App ", "https://api.example.com/hook", "")
	want := "https://moltbook.com/auth.md?app=My+App&endpoint=https%3A%2F%2Fapi.example.com%2Fhook"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}

	got = AuthInstructionsURL("My App", "https://api.example.com/hook", "X-Custom-Key")
	if !strings.Contains(got, "header=X-Custom-Key") {
		t.Fatalf("custom header missing from %q", got)
	}
}

func TestCreatedTimeFormats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-08-30T10:00:00Z", want: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
		{in: "2026-08-30T10:00:00.123456Z", want: time.Date(2026, 8, 30, 10, 0, 0, 123456000, time.UTC)},
		{in: "2026-08-30T10:00:00", want: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := (Account{CreatedAt: tt.in}).CreatedTime()
		if err != nil {
			t.Fatalf("CreatedTime(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("CreatedTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := (Account{CreatedAt: "yesterday"}).CreatedTime(); err == nil {
		t.Fatal("want error for unparseable timestamp")
	}
}
