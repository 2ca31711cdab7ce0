package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_EmbeddedInOrder(t *testing.T) {
	m := NewMigrator(nil)

	files, err := m.Versions()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
	assert.IsIncreasing(t, files)
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_init.sql"))
	assert.Equal(t, "002", versionOf("002_add_index_on_things.sql"))
}
