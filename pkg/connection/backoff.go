package connection

import (
	"math/rand"
	"sync"
	"time"
)

// Default reconnection policy values.
const (
	// DefaultBase is the initial reconnection delay.
	DefaultBase = 1 * time.Second

	// DefaultCap is the maximum reconnection delay.
	DefaultCap = 60 * time.Second

	// DefaultMultiplier is the factor by which the delay grows.
	DefaultMultiplier = 2.0

	// DefaultJitter is the maximum jitter as a fraction of the base delay.
	DefaultJitter = 0.25

	// DefaultWindow bounds the total time spent reconnecting before the
	// manager gives up and transitions to Closed.
	DefaultWindow = 60 * time.Second

	// DefaultAttemptTimeout bounds each individual reconnection attempt.
	DefaultAttemptTimeout = 15 * time.Second
)

// Policy configures the reconnection behavior. The zero value is usable;
// unset fields take the package defaults. Policy parameters are explicit so
// tests can run the backoff schedule deterministically.
type Policy struct {
	// Base is the first retry delay.
	Base time.Duration

	// Cap is the maximum retry delay.
	Cap time.Duration

	// Multiplier grows the delay between attempts.
	Multiplier float64

	// Jitter adds random(0, delay*Jitter) to each delay. Set to zero for
	// deterministic schedules.
	Jitter float64

	// Window bounds the cumulative time spent in one reconnection episode.
	Window time.Duration

	// AttemptTimeout bounds each individual reconnection attempt.
	AttemptTimeout time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Base <= 0 {
		p.Base = DefaultBase
	}
	if p.Cap <= 0 {
		p.Cap = DefaultCap
	}
	if p.Multiplier <= 1 {
		p.Multiplier = DefaultMultiplier
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = DefaultAttemptTimeout
	}
	return p
}

// Schedule returns the base delay sequence (without jitter) the policy
// produces until it reaches the cap. Useful for documentation and tests.
func (p Policy) Schedule() []time.Duration {
	p = p.withDefaults()
	var seq []time.Duration
	d := p.Base
	for {
		seq = append(seq, d)
		if d >= p.Cap {
			return seq
		}
		d = time.Duration(float64(d) * p.Multiplier)
		if d > p.Cap {
			d = p.Cap
		}
	}
}

// Backoff calculates exponential backoff delays with jitter.
type Backoff struct {
	mu sync.Mutex

	policy  Policy
	current time.Duration

	attempts int

	rng *rand.Rand
}

// NewBackoff creates a backoff calculator for the given policy.
func NewBackoff(policy Policy) *Backoff {
	policy = policy.withDefaults()
	return &Backoff{
		policy:  policy,
		current: policy.Base,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.addJitter(b.current)

	b.attempts++
	next := time.Duration(float64(b.current) * b.policy.Multiplier)
	if next > b.policy.Cap {
		next = b.policy.Cap
	}
	b.current = next

	return delay
}

// Peek returns the current delay (with jitter) without advancing.
func (b *Backoff) Peek() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addJitter(b.current)
}

// Current returns the current base delay (without jitter).
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Reset restores the initial delay and attempt counter. Called after a
// successful connection.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.policy.Base
	b.attempts = 0
}

func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.policy.Jitter <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.policy.Jitter*b.rng.Float64())
}
