package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
)

func TestRightsCatalog_Categories(t *testing.T) {
	cats := NewRightsCatalog().Categories()

	slugs := make([]string, len(cats))
	for i, c := range cats {
		slugs[i] = c.Slug
		assert.Nil(t, c.Topics)
	}
	assert.Equal(t, []string{"tenant", "employment", "consumer", "social-grants", "inheritance"}, slugs)
}

func TestRightsCatalog_Category(t *testing.T) {
	c := NewRightsCatalog()

	cat, err := c.Category(" Tenant ")
	require.NoError(t, err)
	assert.Equal(t, "Tenant Rights", cat.Title)
	require.NotEmpty(t, cat.Topics)

	cat.Topics[0].Points[0] = "changed"
	again, err := c.Category("tenant")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Topics[0].Points[0])
}

func TestRightsCatalog_UnknownCategory(t *testing.T) {
	_, err := NewRightsCatalog().Category("maritime")

	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, models.KindNotFound, pe.Kind)
}
