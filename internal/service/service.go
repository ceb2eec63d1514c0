// Package service implements the conversation session, messaging and lead
// business rules on top of the store, broker and policy engine.
package service

import (
	"sync"

	"github.com/imoveisai/leadhub/internal/config"
	store "github.com/imoveisai/leadhub/internal/repository"
	"github.com/imoveisai/leadhub/internal/stream"
	"github.com/imoveisai/leadhub/policy"
)

type Service struct {
	store  store.Store
	broker *stream.Broker
	policy *policy.Engine
	config *config.Config

	// leadLocks serializes ownership transitions and gated sends per lead,
	// so concurrent take-over requests for the same lead cannot interleave.
	mu        sync.Mutex
	leadLocks map[string]*sync.Mutex
}

func New(st store.Store, broker *stream.Broker, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:     st,
		broker:    broker,
		policy:    policyEngine,
		config:    cfg,
		leadLocks: map[string]*sync.Mutex{},
	}
}

// Broker exposes the event broker for stream subscriptions.
func (s *Service) Broker() *stream.Broker {
	return s.broker
}

// lockLead returns the mutex guarding one lead's conversation state.
func (s *Service) lockLead(leadID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leadLocks[leadID] == nil {
		s.leadLocks[leadID] = &sync.Mutex{}
	}
	return s.leadLocks[leadID]
}
