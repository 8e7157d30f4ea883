package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services/will"
	"legal-literacy-portal/pkg/logger"
)

// SessionStore persists will wizard state between requests
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*models.WizardState, error)
	Save(ctx context.Context, state *models.WizardState) error
	Delete(ctx context.Context, sessionID string) error
}

type personalStep struct {
	TestatorName  string `json:"testator_name" validate:"required,max=200"`
	Address       string `json:"address" validate:"required,max=500"`
	IDNumber      string `json:"id_number" validate:"omitempty,numeric,len=13"`
	MaritalStatus string `json:"marital_status" validate:"omitempty,oneof=single married divorced widowed"`
}

type assetsStep struct {
	Assets []string `json:"assets" validate:"dive,required,max=500"`
}

type beneficiariesStep struct {
	Beneficiaries []models.Beneficiary `json:"beneficiaries" validate:"min=1,dive"`
}

type executorStep struct {
	ExecutorName string   `json:"executor_name" validate:"required,max=200"`
	Witnesses    []string `json:"witnesses" validate:"min=2,dive,required,max=200"`
}

// WizardService drives the will wizard: Submit moves forward, Back moves back, Reset starts over
type WizardService struct {
	store     SessionStore
	validator *validator.Validate
	now       func() time.Time
	logger    *logger.Logger
}

// NewWizardService creates a wizard service on top of a session store
func NewWizardService(store SessionStore, log *logger.Logger) *WizardService {
	return &WizardService{
		store:     store,
		validator: newValidator(),
		now:       time.Now,
		logger:    log.WithComponent("will-wizard"),
	}
}

// Current returns the session state, starting a new session at step 1 when the id is empty or unknown
func (s *WizardService) Current(ctx context.Context, sessionID string) (*models.WizardState, error) {
	if sessionID != "" {
		state, err := s.store.Load(ctx, sessionID)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, models.NewStorageFailed(err)
		}
	} else {
		sessionID = uuid.NewString()
	}

	state := s.fresh(sessionID)
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Submit validates the payload for the current step, stores it and advances one step.
// An invalid payload leaves the state unchanged.
func (s *WizardService) Submit(ctx context.Context, sessionID string, in models.WizardStepInput) (*models.WizardState, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := *state
	switch state.Step {
	case models.WizardStepPersonal:
		step := personalStep{
			TestatorName:  in.TestatorName,
			Address:       in.Address,
			IDNumber:      in.IDNumber,
			MaritalStatus: strings.ToLower(strings.TrimSpace(in.MaritalStatus)),
		}
		if err := validate(s.validator, step); err != nil {
			return nil, err
		}
		next.Will.TestatorName = in.TestatorName
		next.Will.Address = in.Address
		next.Will.IDNumber = in.IDNumber
		next.Will.MaritalStatus = step.MaritalStatus
	case models.WizardStepAssets:
		if err := validate(s.validator, assetsStep{Assets: in.Assets}); err != nil {
			return nil, err
		}
		next.Will.Assets = slices.Clone(in.Assets)
	case models.WizardStepBeneficiaries:
		if err := validate(s.validator, beneficiariesStep{Beneficiaries: in.Beneficiaries}); err != nil {
			return nil, err
		}
		next.Will.Beneficiaries = slices.Clone(in.Beneficiaries)
	case models.WizardStepExecutor:
		step := executorStep{ExecutorName: in.ExecutorName, Witnesses: in.Witnesses}
		if err := validate(s.validator, step); err != nil {
			return nil, err
		}
		next.Will.ExecutorName = in.ExecutorName
		next.Will.Witnesses = slices.Clone(in.Witnesses)
	case models.WizardStepReview:
		if missing := will.Validate(state.Will); len(missing) > 0 {
			return nil, models.NewValidationFailed(missing)
		}
	}

	if next.Step < models.WizardStepReview {
		next.Step++
	}
	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.WithSessionID(next.SessionID).Debug().Int("step", int(next.Step)).Msg("wizard step submitted")
	return &next, nil
}

// Back returns to the previous step, never below step 1. Entered data is kept.
func (s *WizardService) Back(ctx context.Context, sessionID string) (*models.WizardState, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step > models.WizardStepPersonal {
		state.Step--
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset returns to step 1 and clears all entered data
func (s *WizardService) Reset(ctx context.Context, sessionID string) (*models.WizardState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	state := s.fresh(sessionID)
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Complete returns the will of a session that has reached the review step and passes validation
func (s *WizardService) Complete(ctx context.Context, sessionID string) (models.WillDocument, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return models.WillDocument{}, err
	}
	if state.Step != models.WizardStepReview {
		return models.WillDocument{}, models.NewValidationFailed([]string{
			fmt.Sprintf("finish step %d (%s) before generating the will", state.Step, state.Step.Title()),
		})
	}
	if missing := will.Validate(state.Will); len(missing) > 0 {
		return models.WillDocument{}, models.NewValidationFailed(missing)
	}
	return state.Will, nil
}

func (s *WizardService) fresh(sessionID string) *models.WizardState {
	return &models.WizardState{
		SessionID: sessionID,
		Step:      models.WizardStepPersonal,
		StepTitle: models.WizardStepPersonal.Title(),
		Will:      models.WillDocument{Assets: []string{}, Beneficiaries: []models.Beneficiary{}, Witnesses: []string{}},
	}
}

func (s *WizardService) save(ctx context.Context, state *models.WizardState) error {
	state.StepTitle = state.Step.Title()
	state.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, state); err != nil {
		s.logger.WithSessionID(state.SessionID).Error().Err(err).Msg("failed to save wizard session")
		return models.NewStorageFailed(err)
	}
	return nil
}

// MemorySessionStore keeps wizard sessions in process memory, used when Redis is disabled
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

type memorySession struct {
	state     models.WizardState
	expiresAt time.Time
}

// NewMemorySessionStore creates an in-memory store. A zero ttl never expires sessions.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load returns a copy of the session state, or models.ErrNotFound
func (m *MemorySessionStore) Load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok || (!sess.expiresAt.IsZero() && m.now().After(sess.expiresAt)) {
		return nil, models.ErrNotFound
	}
	state := copyState(sess.state)
	return &state, nil
}

// Save stores a copy of the state and refreshes its expiry
func (m *MemorySessionStore) Save(ctx context.Context, state *models.WizardState) error {
	sess := memorySession{state: copyState(*state)}
	if m.ttl > 0 {
		sess.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[state.SessionID] = sess
	m.evictExpired()
	return nil
}

// Delete forgets a session
func (m *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// evictExpired must be called with the lock held
func (m *MemorySessionStore) evictExpired() {
	now := m.now()
	for id, sess := range m.sessions {
		if !sess.expiresAt.IsZero() && now.After(sess.expiresAt) {
			delete(m.sessions, id)
		}
	}
}

func copyState(s models.WizardState) models.WizardState {
	s.Will.Assets = slices.Clone(s.Will.Assets)
	s.Will.Beneficiaries = slices.Clone(s.Will.Beneficiaries)
	s.Will.Witnesses = slices.Clone(s.Will.Witnesses)
	return s
}
