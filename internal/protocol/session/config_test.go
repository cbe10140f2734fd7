package session

import (
	"math/rand"
	"testing"
	"time"
)

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	cfg := Config{PingInterval: 2 * time.Second}.WithDefaults()
	def := DefaultConfig()
	if cfg.PingInterval != 2*time.Second {
		t.Fatalf("explicit value overwritten: %s", cfg.PingInterval)
	}
	if cfg.SilenceWarnAfter != def.SilenceWarnAfter {
		t.Fatalf("silence warn: got=%s want=%s", cfg.SilenceWarnAfter, def.SilenceWarnAfter)
	}
	if cfg.MaxBodyBytes != def.MaxBodyBytes {
		t.Fatalf("max body: got=%d want=%d", cfg.MaxBodyBytes, def.MaxBodyBytes)
	}
	if cfg.Backoff.InitialDelay != def.Backoff.InitialDelay {
		t.Fatalf("backoff: got=%+v", cfg.Backoff)
	}
}

func TestFrameLimits(t *testing.T) {
	cfg := Config{MaxBodyBytes: 4096}
	if got := cfg.FrameLimits().MaxBodyBytes; got != 4096 {
		t.Fatalf("limits: got=%d want=4096", got)
	}
}

func TestNextBackoffDelayGrowthAndCap(t *testing.T) {
	cfg := BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     500 * time.Millisecond,
	}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 500 * time.Millisecond},
		{10, 500 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := NextBackoffDelay(cfg, tc.attempt, nil); got != tc.want {
			t.Errorf("attempt %d: got=%s want=%s", tc.attempt, got, tc.want)
		}
	}
}

func TestNextBackoffDelayJitterBounds(t *testing.T) {
	cfg := BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     10 * time.Second,
		Jitter:       true,
	}
	rng := rand.New(rand.NewSource(1))
	for attempt := 2; attempt <= 6; attempt++ {
		base := NextBackoffDelay(BackoffConfig{
			InitialDelay: cfg.InitialDelay,
			Multiplier:   cfg.Multiplier,
			MaxDelay:     cfg.MaxDelay,
		}, attempt, nil)
		got := NextBackoffDelay(cfg, attempt, rng)
		if got < base/2 || got > base*3/2 {
			t.Fatalf("attempt %d: jittered %s outside [%s, %s]", attempt, got, base/2, base*3/2)
		}
	}
}
