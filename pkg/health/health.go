// Package health implements liveness and readiness probes for the API
// server. Probes run periodically in the background and expose their
// aggregate state over /livez and /readyz style endpoints.
//
// Each probe carries fail/pass thresholds so a single slow database
// round trip does not flip the service to unready: a probe must fail
// failAfter consecutive times before it is reported down, and pass
// passAfter consecutive times before it is reported up again.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes a single component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// probe is one registered check plus its runtime state.
//
// tick() only ever runs from the probe's own goroutine, so fails and
// passes need no locking. ok and lastErr are read by HTTP handlers
// from arbitrary goroutines and use atomics.
type probe struct {
	name      string
	timeout   time.Duration
	fn        CheckFunc
	failAfter int
	passAfter int

	ok      atomic.Bool
	lastErr atomic.Pointer[error]

	fails  int
	passes int
}

func (p *probe) up() bool {
	return p.ok.Load()
}

func (p *probe) err() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

// tick runs the check once and applies the thresholds.
func (p *probe) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.fn(ctx)
	p.lastErr.Store(&err)

	if err != nil {
		p.passes = 0
		p.fails++
		if p.fails >= p.failAfter {
			p.ok.Store(false)
		}
		return
	}
	p.fails = 0
	p.passes++
	if p.passes >= p.passAfter {
		p.ok.Store(true)
	}
}

// Service aggregates liveness and readiness probes. The zero state is
// not ready; call SetReady(true) once startup finishes and
// SetReady(false) to drain before shutdown.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	readiness []*probe
	stop      context.CancelFunc
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) register(dst *[]*probe, name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &probe{
		name:      name,
		timeout:   timeout,
		fn:        fn,
		failAfter: 3,
		passAfter: 1,
	}
	p.ok.Store(true) // healthy until proven otherwise
	*dst = append(*dst, p)
}

// AddLiveness registers a liveness probe. Liveness answers "is the
// process wedged", e.g. goroutine leaks.
func (s *Service) AddLiveness(name string, timeout time.Duration, fn CheckFunc) {
	s.register(&s.liveness, name, timeout, fn)
}

// AddReadiness registers a readiness probe. Readiness answers "can
// this instance serve traffic", e.g. database connectivity.
func (s *Service) AddReadiness(name string, timeout time.Duration, fn CheckFunc) {
	s.register(&s.readiness, name, timeout, fn)
}

// Start launches one goroutine per registered probe, each ticking at
// the given interval until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	probes := make([]*probe, 0, len(s.liveness)+len(s.readiness))
	probes = append(probes, s.liveness...)
	probes = append(probes, s.readiness...)
	s.mu.Unlock()

	for _, p := range probes {
		go func(p *probe) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			p.tick(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.tick(ctx)
				}
			}
		}(p)
	}
}

// Stop cancels all probe goroutines. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// SetReady flips the manual readiness gate.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness
// probe is up.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}

	s.mu.RLock()
	probes := s.readiness
	s.mu.RUnlock()

	for _, p := range probes {
		if !p.up() {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveHandler serves the liveness endpoint: 200 when every liveness
// probe is up, otherwise 503 listing the failed probes.
func (s *Service) LiveHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	probes := make([]*probe, len(s.liveness))
	copy(probes, s.liveness)
	s.mu.RUnlock()

	writeProbeResponse(w, failures(probes))
}

// ReadyHandler serves the readiness endpoint: 200 when the manual gate
// is open and every readiness probe is up, otherwise 503.
func (s *Service) ReadyHandler(w http.ResponseWriter, _ *http.Request) {
	ready := s.ready.Load()

	s.mu.RLock()
	probes := make([]*probe, len(s.readiness))
	copy(probes, s.readiness)
	s.mu.RUnlock()

	down := failures(probes)
	if !ready {
		down["_gate"] = "service is not accepting traffic"
	}
	writeProbeResponse(w, down)
}

// failures maps probe name to last error message for every down probe.
// It reads the stored state instead of re-running checks, so the
// endpoints stay cheap under load balancer polling.
func failures(probes []*probe) map[string]string {
	down := make(map[string]string)
	for _, p := range probes {
		if p.up() {
			continue
		}
		if err := p.err(); err != nil {
			down[p.name] = err.Error()
		} else {
			down[p.name] = "probe is down"
		}
	}
	return down
}

func writeProbeResponse(w http.ResponseWriter, down map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := probeResponse{Status: "ok"}
	code := http.StatusOK
	if len(down) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = down
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
