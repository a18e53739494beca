package scheduler

import (
	"testing"
	"time"
)

func TestPlatformMinIntervalMinutes(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		age  time.Duration
		want int
	}{
		{name: "brand new", age: time.Hour, want: 120},
		{name: "just under a day", age: 24*time.Hour - time.Second, want: 120},
		{name: "exactly a day", age: 24 * time.Hour, want: 30},
		{name: "just over a day", age: 24*time.Hour + time.Second, want: 30},
		{name: "old account", age: 90 * 24 * time.Hour, want: 30},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := PlatformMinIntervalMinutes(now.Add(-tt.age), now)
			if got != tt.want {
				t.Fatalf("PlatformMinIntervalMinutes(age=%v) = %d, want %d", tt.age, got, tt.want)
			}
		})
	}
}

func TestEffectiveIntervalMinutes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		requested, floor, want int
	}{
		{requested: 10, floor: 30, want: 30},
		{requested: 10, floor: 120, want: 120},
		{requested: 30, floor: 30, want: 30},
		{requested: 45, floor: 30, want: 45},
		{requested: 200, floor: 120, want: 200},
		{requested: 1, floor: 30, want: 30},
	}
	for _, tt := range tests {
		got := EffectiveIntervalMinutes(tt.requested, tt.floor)
		if got != tt.want {
			t.Fatalf("EffectiveIntervalMinutes(%d, %d) = %d, want %d", tt.requested, tt.floor, got, tt.want)
		}
	}
}
