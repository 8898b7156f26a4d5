package natsobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surroundaustralia/rdfx/persistence"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Bucket: "graphs"}.Validate())

	err := Config{}.Validate()
	require.Error(t, err)
	assert.True(t, persistence.IsInvalidConfiguration(err))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	// validation fails before any connection attempt
	_, err := New(Config{})
	require.Error(t, err)
	assert.True(t, persistence.IsInvalidConfiguration(err))
}
