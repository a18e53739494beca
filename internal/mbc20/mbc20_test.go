package mbc20

import (
	"testing"
	"time"
)

func TestNormalizeTick(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "lowercase", in: "claw", want: "CLAW"},
		{name: "mixed case", in: "cLaW9", want: "CLAW9"},
		{name: "already normal", in: "CLAW", want: "CLAW"},
		{name: "surrounding space", in: "  mbc  ", want: "MBC"},
		{name: "max length", in: "a234567890", want: "A234567890"},
		{name: "too long", in: "a2345678901", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "punctuation", in: "CL-AW", wantErr: true},
		{name: "unicode", in: "CLÄW", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTick(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeTick(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTick(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeTick(%q) = %q, want %q", tt.in, got, tt.want)
			}
			again, err := NormalizeTick(got)
			if err != nil || again != got {
				t.Fatalf("normalization not idempotent: %q -> %q (%v)", got, again, err)
			}
		})
	}
}

func TestNormalizeAmt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "100", want: "100"},
		{name: "leading zeros", in: "00042", want: "42"},
		{name: "one", in: "1", want: "1"},
		{name: "beyond uint64", in: "100000000000000000000", want: "100000000000000000000"},
		{name: "beyond uint64 with zeros", in: "0018446744073709551616", want: "18446744073709551616"},
		{name: "zero", in: "0", wantErr: true},
		{name: "all zeros", in: "0000", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "float", in: "1.5", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "spaces inside", in: "1 0", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmt(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeAmt(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeAmt(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeAmt(%q) = %q, want %q", tt.in, got, tt.want)
			}
			again, err := NormalizeAmt(got)
			if err != nil || again != got {
				t.Fatalf("normalization not idempotent: %q -> %q (%v)", got, again, err)
			}
		})
	}
}

func TestMintContent(t *testing.T) {
	t.Parallel()

	got := MintContent("CLAW", "100", "", "")
	want := `{"p":"mbc-20","op":"mint","tick":"CLAW","amt":"100"} mbc20.xyz`
	if got != want {
		t.Fatalf("MintContent = %q, want %q", got, want)
	}

	got = MintContent("CLAW", "100", "", "20260831120000")
	want = `{"p":"mbc-20","op":"mint","tick":"CLAW","amt":"100"} mbc20.xyz` + "\n\nnonce:20260831120000"
	if got != want {
		t.Fatalf("MintContent with nonce = %q, want %q", got, want)
	}
}

func TestHelperContent(t *testing.T) {
	t.Parallel()
	got := HelperContent("MBC", "42")
	want := `{"p":"mbc-20","op":"mint","tick":"MBC","amt":"42"}` + "\n\nmbc20.xyz"
	if got != want {
		t.Fatalf("HelperContent = %q, want %q", got, want)
	}
}

func TestNonce(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 8, 31, 9, 5, 7, 999_000_000, time.FixedZone("UTC+7", 7*3600))
	if got := Nonce(at); got != "20260831020507" {
		t.Fatalf("Nonce = %q, want 20260831020507", got)
	}
}
