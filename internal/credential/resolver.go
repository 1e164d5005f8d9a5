// SPDX-License-Identifier: Apache-2.0

// Package credential resolves the OpenFEC API key from a configured source,
// caches it for the life of the process, and keeps it out of every message
// the process emits.
package credential

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the resolution state of a Resolver.
type State int

const (
	StateUnresolved State = iota
	StateResolving
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Resolver resolves a credential from its Source once and caches it.
// Concurrent callers share a single in-flight lookup. After a failure the
// next call tries the source again.
type Resolver struct {
	source   Source
	redactor *Redactor
	logger   *zap.Logger
	group    singleflight.Group

	mu     sync.RWMutex
	state  State
	secret Secret
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRedactor shares a redactor with other components; resolved secrets are
// registered with it.
func WithRedactor(r *Redactor) Option {
	return func(res *Resolver) {
		if r != nil {
			res.redactor = r
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(res *Resolver) {
		if logger != nil {
			res.logger = logger
		}
	}
}

// NewResolver creates a Resolver over src.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:   src,
		redactor: NewRedactor(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the configured source.
func (r *Resolver) Source() Source { return r.source }

// Redactor returns the redactor that knows the resolved secret.
func (r *Resolver) Redactor() *Redactor { return r.redactor }

// State returns the current resolution state.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Resolve returns the credential, consulting the source only if nothing is
// cached. A caller whose ctx ends while another caller's lookup is in flight
// returns ctx.Err() without cancelling that lookup.
func (r *Resolver) Resolve(ctx context.Context) (Secret, error) {
	if s, ok := r.cached(); ok {
		return s, nil
	}

	lookupCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("resolve", func() (interface{}, error) {
		if s, ok := r.cached(); ok {
			return s, nil
		}
		r.setState(StateResolving)
		r.logger.Debug("resolving credential", zap.String("source", r.source.Describe()))

		s, err := r.source.Fetch(lookupCtx)
		if err != nil {
			r.setState(StateFailed)
			r.logger.Warn("credential resolution failed",
				zap.String("source", r.source.Describe()),
				r.redactor.ErrorField(err))
			return nil, err
		}

		r.redactor.Add(s)
		r.mu.Lock()
		r.secret = s
		r.state = StateResolved
		r.mu.Unlock()
		r.logger.Info("credential resolved", zap.String("source", r.source.Describe()))
		return s, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Secret{}, r.redactor.Error(res.Err)
		}
		return res.Val.(Secret), nil
	case <-ctx.Done():
		return Secret{}, ctx.Err()
	}
}

func (r *Resolver) cached() (Secret, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.secret, r.state == StateResolved
}

func (r *Resolver) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
