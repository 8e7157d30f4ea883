package lenders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		want string
	}{
		{"Capitec Bank", "Capitec Bank"},
		{"  capitec ", "Capitec Bank"},
		{"FNB", "First National Bank"},
		{"nedbank", "Nedbank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := r.Lookup(tt.name)
			require.NotNil(t, l)
			assert.Equal(t, tt.want, l.Name)
			assert.NotEmpty(t, l.NCRNumber)
		})
	}

	assert.Nil(t, r.Lookup("Quick Cash Mashonisa"))
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()

	l := r.Find("Loan agreement with Absa for R5000")
	require.NotNil(t, l)
	assert.Equal(t, "Absa Bank", l.Name)

	assert.Nil(t, r.Find("Loan from the corner shop"))
}

func TestRegistry_AllSortedAndNames(t *testing.T) {
	r := NewRegistry()

	all := r.All()
	require.Len(t, all, r.Count())
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	names := r.Names()
	assert.Contains(t, names, "capitec")
	assert.Contains(t, names, "first national bank")
	assert.Contains(t, names, "fnb")
}

func TestRegistry_Alternatives(t *testing.T) {
	r := NewRegistry()

	alts := r.Alternatives()
	require.NotEmpty(t, alts)
	alts[0].Name = "changed"
	assert.NotEqual(t, "changed", r.Alternatives()[0].Name)

	lines := r.AlternativeLines()
	assert.Len(t, lines, len(alts))
	assert.Equal(t, "SASSA Social Relief of Distress: 0800 60 10 11", lines[0])
}
