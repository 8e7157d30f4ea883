package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

func newTestWizard() *WizardService {
	return NewWizardService(NewMemorySessionStore(time.Hour), logger.NewNop())
}

func walkToReview(t *testing.T, w *WizardService, id string) *models.WizardState {
	t.Helper()
	ctx := context.Background()
	steps := []models.WizardStepInput{
		{TestatorName: "Nomsa Dlamini", Address: "12 Vilakazi Street, Soweto", MaritalStatus: "widowed"},
		{Assets: []string{"House"}},
		{Beneficiaries: []models.Beneficiary{{Name: "Thabo", Relationship: "son", Share: "100%"}}},
		{ExecutorName: "Sipho Nkosi", Witnesses: []string{"Ann Smith", "Peter Mokoena"}},
	}
	var state *models.WizardState
	for _, in := range steps {
		var err error
		state, err = w.Submit(ctx, id, in)
		require.NoError(t, err)
	}
	return state
}

func TestWizard_CurrentStartsAtStepOne(t *testing.T) {
	w := newTestWizard()

	state, err := w.Current(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, models.WizardStepPersonal, state.Step)
	assert.Equal(t, "Personal details", state.StepTitle)

	again, err := w.Current(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, again.SessionID)
}

func TestWizard_SubmitAdvancesAndCaps(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()

	state := walkToReview(t, w, "s1")
	assert.Equal(t, models.WizardStepReview, state.Step)
	assert.Equal(t, "Nomsa Dlamini", state.Will.TestatorName)
	assert.Equal(t, []string{"Ann Smith", "Peter Mokoena"}, state.Will.Witnesses)

	state, err := w.Submit(ctx, "s1", models.WizardStepInput{})
	require.NoError(t, err)
	assert.Equal(t, models.WizardStepReview, state.Step)
}

func TestWizard_InvalidSubmitLeavesStateUnchanged(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()

	_, err := w.Submit(ctx, "s1", models.WizardStepInput{IDNumber: "12ab"})
	require.Error(t, err)

	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, models.KindValidationFailed, pe.Kind)
	assert.Equal(t, []string{
		"testator_name is required",
		"address is required",
		"id_number must contain only digits",
	}, pe.Fields)

	state, err := w.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.WizardStepPersonal, state.Step)
	assert.Empty(t, state.Will.TestatorName)
}

func TestWizard_WitnessesNeedTwo(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()
	for _, in := range []models.WizardStepInput{
		{TestatorName: "A", Address: "B"},
		{},
		{Beneficiaries: []models.Beneficiary{{Name: "C", Relationship: "son", Share: "all"}}},
	} {
		_, err := w.Submit(ctx, "s2", in)
		require.NoError(t, err)
	}

	_, err := w.Submit(ctx, "s2", models.WizardStepInput{ExecutorName: "D", Witnesses: []string{"E"}})
	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{"witnesses needs at least 2 entries"}, pe.Fields)
}

func TestWizard_BeneficiaryFieldsReported(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()
	for _, in := range []models.WizardStepInput{{TestatorName: "A", Address: "B"}, {}} {
		_, err := w.Submit(ctx, "s3", in)
		require.NoError(t, err)
	}

	_, err := w.Submit(ctx, "s3", models.WizardStepInput{Beneficiaries: []models.Beneficiary{{Name: "C"}}})
	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{
		"beneficiaries[0].relationship is required",
		"beneficiaries[0].share is required",
	}, pe.Fields)
}

func TestWizard_BackAndReset(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()

	state, err := w.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.WizardStepPersonal, state.Step)

	walkToReview(t, w, "s1")
	state, err = w.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.WizardStepExecutor, state.Step)
	assert.Equal(t, "Nomsa Dlamini", state.Will.TestatorName)

	state, err = w.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, models.WizardStepPersonal, state.Step)
	assert.Empty(t, state.Will.TestatorName)
}

func TestWizard_Complete(t *testing.T) {
	w := newTestWizard()
	ctx := context.Background()

	_, err := w.Complete(ctx, "s1")
	assert.Equal(t, models.KindValidationFailed, models.KindOf(err))

	walkToReview(t, w, "s1")
	doc, err := w.Complete(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Sipho Nkosi", doc.ExecutorName)
}

type failingStore struct{ MemorySessionStore }

func (f *failingStore) Save(ctx context.Context, state *models.WizardState) error {
	return errors.New("redis down")
}

func TestWizard_StorageFailure(t *testing.T) {
	w := NewWizardService(&failingStore{}, logger.NewNop())

	_, err := w.Reset(context.Background(), "s1")
	assert.Equal(t, models.KindStorageFailed, models.KindOf(err))
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.WizardState{SessionID: "a", Step: 2}))
	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.WizardStep(2), got.Step)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, store.Save(ctx, &models.WizardState{SessionID: "b"}))
	store.mu.RLock()
	_, stillThere := store.sessions["a"]
	store.mu.RUnlock()
	assert.False(t, stillThere)
}

func TestWizard_MaritalStatusIgnoresCase(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
		valid  bool
	}{
		{"title case", "Married", "married", true},
		{"upper case with spaces", "  DIVORCED ", "divorced", true},
		{"empty", "", "", true},
		{"unknown", "Engaged", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWizard()
			state, err := w.Submit(context.Background(), "ms", models.WizardStepInput{
				TestatorName:  "Nomsa Dlamini",
				Address:       "12 Vilakazi Street, Soweto",
				MaritalStatus: tt.status,
			})
			if !tt.valid {
				assert.Equal(t, models.KindValidationFailed, models.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.WizardStepAssets, state.Step)
			assert.Equal(t, tt.want, state.Will.MaritalStatus)
		})
	}
}
