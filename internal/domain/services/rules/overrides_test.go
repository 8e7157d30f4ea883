package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fraud:
  suspicious_phrases: ["Pay Now Or Lose", "act now"]
loan:
  registered_lenders: ["Kasi Credit"]
`), 0o600))

	o, err := LoadOverrides(path)
	require.NoError(t, err)

	fraud := o.Apply(FraudRuleSet())
	e, err := NewEngine(fraud, logger.NewNop())
	require.NoError(t, err)
	res := e.Analyze("pay now or lose your house, wire transfer", models.LoanInputs{})
	assert.Equal(t, []string{"pay now or lose"}, res.MatchedSuspiciousPhrases)

	loan := o.Apply(LoanRuleSet(nil))
	assert.Equal(t, []string{"kasi credit"}, loan.Lender.Registered.Entries())
	assert.Equal(t, DefaultRegisteredLenders.Entries(), LoanRuleSet(nil).Lender.Registered.Entries())
}

func TestLoadOverrides_EmptyPath(t *testing.T) {
	o, err := LoadOverrides("")
	require.NoError(t, err)
	assert.Empty(t, o)
}

func TestParseOverrides_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseOverrides([]byte("mortgage:\n  red_flags: [x]\n"))
	assert.Error(t, err)

	_, err = ParseOverrides([]byte("fraud:\n  colours: [x]\n"))
	assert.Error(t, err)
}
