package connection

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("DefaultSequence", func(t *testing.T) {
		b := NewBackoff(Policy{})

		// Expected base sequence (without jitter): 1s, 2s, 4s, 8s, 16s, 32s, 60s, 60s...
		expected := []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			16 * time.Second,
			32 * time.Second,
			60 * time.Second,
			60 * time.Second, // Should stay at cap
		}

		for i, exp := range expected {
			base := b.Current()
			_ = b.Next() // Advance

			if base < exp-time.Millisecond || base > exp+time.Millisecond {
				t.Errorf("Attempt %d: base = %v, want %v", i, base, exp)
			}
		}
	})

	t.Run("Jitter", func(t *testing.T) {
		b := NewBackoff(Policy{})

		samples := make([]time.Duration, 10)
		for i := range samples {
			samples[i] = b.Peek()
		}

		// All samples should sit in [1s, 1.25s] with the default jitter
		for i, s := range samples {
			if s < 1*time.Second || s > time.Duration(float64(1*time.Second)*1.25)+time.Millisecond {
				t.Errorf("Sample %d: %v out of expected range [1s, 1.25s]", i, s)
			}
		}

		allSame := true
		for i := 1; i < len(samples); i++ {
			if samples[i] != samples[0] {
				allSame = false
				break
			}
		}
		if allSame {
			t.Error("All jittered samples are identical - jitter may not be working")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		b := NewBackoff(Policy{})

		for i := 0; i < 5; i++ {
			b.Next()
		}

		if b.Current() <= DefaultBase {
			t.Error("Backoff should have increased")
		}

		b.Reset()

		if b.Current() != DefaultBase {
			t.Errorf("Current() = %v after reset, want %v", b.Current(), DefaultBase)
		}
		if b.Attempts() != 0 {
			t.Errorf("Attempts() = %d after reset, want 0", b.Attempts())
		}
	})

	t.Run("Attempts", func(t *testing.T) {
		b := NewBackoff(Policy{})

		if b.Attempts() != 0 {
			t.Errorf("Initial Attempts() = %d, want 0", b.Attempts())
		}

		for i := 1; i <= 5; i++ {
			b.Next()
			if b.Attempts() != i {
				t.Errorf("After %d calls, Attempts() = %d", i, b.Attempts())
			}
		}
	})

	t.Run("CustomPolicy", func(t *testing.T) {
		b := NewBackoff(Policy{
			Base:       100 * time.Millisecond,
			Cap:        500 * time.Millisecond,
			Multiplier: 2.0,
			Jitter:     0, // No jitter for deterministic test
		})

		expected := []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
			500 * time.Millisecond, // Cap
			500 * time.Millisecond,
		}

		for i, exp := range expected {
			got := b.Next()
			if got != exp {
				t.Errorf("Attempt %d: got %v, want %v", i, got, exp)
			}
		}
	})
}

func TestPolicySchedule(t *testing.T) {
	p := Policy{
		Base:       1 * time.Second,
		Cap:        10 * time.Second,
		Multiplier: 2.0,
	}

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
	}

	got := p.Schedule()
	if len(got) != len(expected) {
		t.Fatalf("Schedule() has %d entries, want %d: %v", len(got), len(expected), got)
	}
	for i, exp := range expected {
		if got[i] != exp {
			t.Errorf("Schedule()[%d] = %v, want %v", i, got[i], exp)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateConnecting, "CONNECTING"},
		{StateConnected, "CONNECTED"},
		{StateReconnecting, "RECONNECTING"},
		{StateClosed, "CLOSED"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
