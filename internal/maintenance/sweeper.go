package maintenance

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/localcommit/tinyco/internal/mvcc"
)

// Config tunes the sweeper, in the same small-literal-struct-with-defaults
// style as internal/storage/concurrency.go's ConcurrencyConfig.
type Config struct {
	// Schedule is a standard 5-field cron expression, or one of the
	// robfig/cron descriptors ("@every 30s", "@hourly").
	Schedule string

	// WarnChainDepth logs a warning for any page whose version chain is at
	// least this deep, a sign something is pinning old versions.
	WarnChainDepth int
}

// DefaultConfig sweeps once a minute and warns on chains 8 versions deep.
func DefaultConfig() Config {
	return Config{
		Schedule:       "@every 1m",
		WarnChainDepth: 8,
	}
}

// Sweeper periodically reprobes a page pool and the transactions the host
// still holds references to, logging anything that looks stuck.
type Sweeper struct {
	cfg   Config
	cron  *cron.Cron
	actor *mvcc.Actor

	mu      sync.Mutex
	pages   []*mvcc.Page
	watched []*mvcc.Transaction

	lastSweep time.Time
}

// New builds a Sweeper over pages, routing every sweep through actor so it
// never races the host's own coordinator calls.
func New(cfg Config, actor *mvcc.Actor, pages []*mvcc.Page) *Sweeper {
	return &Sweeper{
		cfg:   cfg,
		cron:  cron.New(),
		actor: actor,
		pages: pages,
	}
}

// Watch adds a transaction to the set the sweeper re-probes for removal
// each cycle. Call it for any transaction whose Hooks might not reliably
// observe Removed (e.g. the vote service's distributed transactions).
func (s *Sweeper) Watch(t *mvcc.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched = append(s.watched, t)
}

// Start registers the sweep job and starts the cron scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, s.sweepOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("maintenance: sweeper started (%s)", s.cfg.Schedule)
	return nil
}

// Stop halts the scheduler and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("maintenance: sweeper stopped")
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.actor.Do(ctx, func() error {
		s.reprobeWatched()
		s.reportChainDepths()
		return nil
	})
	if err != nil {
		log.Printf("maintenance: sweep skipped: %v", err)
		return
	}

	s.mu.Lock()
	s.lastSweep = time.Now()
	s.mu.Unlock()
}

func (s *Sweeper) reprobeWatched() {
	s.mu.Lock()
	live := s.watched[:0]
	for _, t := range s.watched {
		t.Reprobe()
		if t.Removed() {
			continue // finally collectible, stop tracking it
		}
		live = append(live, t)
	}
	s.watched = live
	s.mu.Unlock()
}

func (s *Sweeper) reportChainDepths() {
	for _, p := range s.pages {
		depth := p.ChainDepth()
		if depth >= s.cfg.WarnChainDepth {
			log.Printf("maintenance: page %d has a %d-version chain, at or above the %d warning threshold", p.Ordinal(), depth, s.cfg.WarnChainDepth)
		}
	}
}
