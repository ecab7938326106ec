package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"sealchat/internal/domain"
)

const (
	// DefaultForegroundInterval is the tick period while interactive.
	DefaultForegroundInterval = 30 * time.Second
	// DefaultBackgroundInterval is the coarse tick period otherwise.
	DefaultBackgroundInterval = 5 * time.Minute
	// MinBackgroundInterval is the finest granularity the background
	// ticker supports; anything smaller is clamped up.
	MinBackgroundInterval = time.Minute
	// DefaultPollTimeout bounds a single fetch-and-merge pass.
	DefaultPollTimeout = 45 * time.Second
)

// Poller runs periodic sync passes for registered identities.
type Poller struct {
	sync       domain.SyncService
	foreground time.Duration
	background time.Duration
	timeout    time.Duration
	log        *logrus.Entry

	mu      sync.Mutex
	running map[string]*identityLoop
}

type identityLoop struct {
	cancel     context.CancelFunc
	done       chan struct{}
	interactiv atomic.Bool
}

// Option adjusts poller timing.
type Option func(*Poller)

// WithForegroundInterval overrides the interactive tick period.
func WithForegroundInterval(d time.Duration) Option {
	return func(p *Poller) { p.foreground = d }
}

// WithBackgroundInterval overrides the background tick period, clamped to
// MinBackgroundInterval.
func WithBackgroundInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d < MinBackgroundInterval {
			d = MinBackgroundInterval
		}
		p.background = d
	}
}

// WithPollTimeout overrides the per-pass deadline.
func WithPollTimeout(d time.Duration) Option {
	return func(p *Poller) { p.timeout = d }
}

// NewPoller constructs a poller over the sync service.
func NewPoller(svc domain.SyncService, opts ...Option) *Poller {
	p := &Poller{
		sync:       svc,
		foreground: DefaultForegroundInterval,
		background: DefaultBackgroundInterval,
		timeout:    DefaultPollTimeout,
		log:        logrus.WithField("component", "poller"),
		running:    make(map[string]*identityLoop),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins ticking for an identity. The identity id travels
// explicitly through every pass. Starting an already-registered identity
// is an error.
func (p *Poller) Start(keyID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.running[keyID]; ok {
		return fmt.Errorf("poller already started for identity %q", keyID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	loop := &identityLoop{cancel: cancel, done: make(chan struct{})}
	loop.interactiv.Store(true)
	p.running[keyID] = loop
	go p.run(ctx, keyID, loop)
	return nil
}

// Stop cancels ticking for an identity and waits for its loop to exit.
func (p *Poller) Stop(keyID string) {
	p.mu.Lock()
	loop, ok := p.running[keyID]
	if ok {
		delete(p.running, keyID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	loop.cancel()
	<-loop.done
}

// Close stops every registered identity.
func (p *Poller) Close() {
	p.mu.Lock()
	loops := make(map[string]*identityLoop, len(p.running))
	for id, l := range p.running {
		loops[id] = l
	}
	p.running = make(map[string]*identityLoop)
	p.mu.Unlock()
	for _, l := range loops {
		l.cancel()
		<-l.done
	}
}

// SetForeground toggles the short interactive ticker for an identity.
// The background ticker keeps running either way.
func (p *Poller) SetForeground(keyID string, fg bool) {
	p.mu.Lock()
	loop, ok := p.running[keyID]
	p.mu.Unlock()
	if ok {
		loop.interactiv.Store(fg)
	}
}

func (p *Poller) run(ctx context.Context, keyID string, loop *identityLoop) {
	defer close(loop.done)

	fg := time.NewTicker(p.foreground)
	defer fg.Stop()
	bg := time.NewTicker(p.background)
	defer bg.Stop()

	// First pass right away so a fresh start does not wait a full tick.
	p.pollOnce(ctx, keyID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-fg.C:
			if loop.interactiv.Load() {
				p.pollOnce(ctx, keyID)
			}
		case <-bg.C:
			p.pollOnce(ctx, keyID)
		}
	}
}

// pollOnce runs one bounded sync pass. Failures are logged and left for
// the next tick; they never escalate.
func (p *Poller) pollOnce(ctx context.Context, keyID string) {
	passCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	merged, err := p.sync.Sync(passCtx, keyID)
	if err != nil {
		if ctx.Err() != nil {
			return // shutting down
		}
		p.log.WithError(err).WithField("identity", keyID).
			Warn("poll failed; retrying on next tick")
		return
	}
	if merged > 0 {
		p.log.WithFields(logrus.Fields{
			"identity": keyID,
			"merged":   merged,
		}).Info("merged new messages")
	}
}
