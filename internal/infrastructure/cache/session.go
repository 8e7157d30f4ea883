package cache

import (
	"context"
	"fmt"
	"time"

	"legal-literacy-portal/internal/domain/models"
)

// SessionStore keeps will wizard state in Redis. Every save refreshes the TTL.
type SessionStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewSessionStore creates a Redis backed wizard session store
func NewSessionStore(cache *RedisCache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

// Load returns the state for a session, or models.ErrNotFound
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	var state models.WizardState
	found, err := s.cache.loadJSON(ctx, s.cache.key(KeySessionPrefix, sessionID), &state)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	if !found {
		return nil, models.ErrNotFound
	}
	return &state, nil
}

// Save stores the state
func (s *SessionStore) Save(ctx context.Context, state *models.WizardState) error {
	if err := s.cache.storeJSON(ctx, s.cache.key(KeySessionPrefix, state.SessionID), state, s.ttl); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

// Delete forgets a session
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.forget(ctx, s.cache.key(KeySessionPrefix, sessionID)); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}
