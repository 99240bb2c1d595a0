package worker

// persister.go
// Background writer that keeps the persisted snapshot in step with the
// store. Snapshots published by the store are coalesced (only the newest
// revision is kept), debounced, and saved through the circuit breaker.
// A failed save keeps its snapshot pending and is retried later; Flush
// writes whatever is pending on shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"

	"paulinepos/internal/infra"
	"paulinepos/internal/store"

	"github.com/rs/zerolog/log"
)

// Saver is the write half of a snapshot repository.
type Saver interface {
	Save(ctx context.Context, snap store.Snapshot) error
}

// PersisterConfig holds the persister's timings.
type PersisterConfig struct {
	Debounce      time.Duration // quiet time before a save (default: 250ms)
	RetryInterval time.Duration // delay before retrying a failed save (default: 2s)
	SaveTimeout   time.Duration // per-save deadline (default: 5s)
	// Breaker is optional; local file backends run without one.
	Breaker *infra.CircuitBreaker
}

func (c *PersisterConfig) applyDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = 250 * time.Millisecond
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = 5 * time.Second
	}
}

// PersisterStatus is reported by /health.
type PersisterStatus struct {
	Pending       bool   `json:"pending"`
	SavedRevision uint64 `json:"savedRevision"`
	Saves         int    `json:"saves"`
	LastError     string `json:"lastError,omitempty"`
	Breaker       string `json:"breaker,omitempty"`
}

type Persister struct {
	saver Saver
	cfg   PersisterConfig

	// saveMu serializes saves so an older snapshot never lands after a
	// newer one.
	saveMu sync.Mutex

	mu       sync.Mutex
	pending  *store.Snapshot
	savedRev uint64
	saves    int
	lastErr  error
	notify   chan struct{}
}

func NewPersister(saver Saver, cfg PersisterConfig) *Persister {
	cfg.applyDefaults()
	return &Persister{
		saver:  saver,
		cfg:    cfg,
		notify: make(chan struct{}, 1),
	}
}

// Attach subscribes the persister to every snapshot published by s.
func (p *Persister) Attach(s *store.Store) (detach func()) {
	return s.Subscribe(p.Enqueue)
}

// Enqueue records snap as the next state to save unless a newer one is
// already pending or saved. It never blocks.
func (p *Persister) Enqueue(snap store.Snapshot) {
	p.mu.Lock()
	if snap.Revision <= p.savedRev || (p.pending != nil && snap.Revision <= p.pending.Revision) {
		p.mu.Unlock()
		return
	}
	p.pending = &snap
	p.mu.Unlock()
	p.signal()
}

func (p *Persister) signal() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Run saves pending snapshots until ctx is done. It returns nil on
// cancellation; call Flush afterwards to write the final state.
func (p *Persister) Run(ctx context.Context) error {
	log.Info().Dur("debounce", p.cfg.Debounce).Msg("persister: started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("persister: shutting down")
			return nil
		case <-p.notify:
		}

		// let a burst of mutations settle into one write
		timer := time.NewTimer(p.cfg.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("persister: shutting down")
			return nil
		case <-timer.C:
		}

		if err := p.flush(ctx, true); err != nil {
			if errors.Is(err, infra.ErrCircuitOpen) {
				log.Debug().Msg("persister: backend circuit open, save deferred")
			} else {
				log.Error().Err(err).Msg("persister: save failed")
			}
			time.AfterFunc(p.cfg.RetryInterval, p.signal)
		}
	}
}

// Flush saves the pending snapshot now, bypassing the debounce and the
// circuit breaker.
func (p *Persister) Flush(ctx context.Context) error {
	return p.flush(ctx, false)
}

func (p *Persister) flush(ctx context.Context, guarded bool) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	snap := p.pending
	p.pending = nil
	p.mu.Unlock()
	if snap == nil {
		return nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, p.cfg.SaveTimeout)
	defer cancel()
	save := func() error { return p.saver.Save(saveCtx, *snap) }

	var err error
	if guarded && p.cfg.Breaker != nil {
		err = p.cfg.Breaker.Execute(save)
	} else {
		err = save()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err
		// keep it unless a newer snapshot arrived meanwhile
		if p.pending == nil {
			p.pending = snap
		}
		return err
	}
	p.lastErr = nil
	p.saves++
	if snap.Revision > p.savedRev {
		p.savedRev = snap.Revision
	}
	log.Debug().Uint64("revision", snap.Revision).Msg("persister: snapshot saved")
	return nil
}

// Status returns a point-in-time view for health reporting.
func (p *Persister) Status() PersisterStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PersisterStatus{
		Pending:       p.pending != nil,
		SavedRevision: p.savedRev,
		Saves:         p.saves,
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	if p.cfg.Breaker != nil {
		st.Breaker = p.cfg.Breaker.State().String()
	}
	return st
}
