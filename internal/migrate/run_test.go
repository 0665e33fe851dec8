package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedAndEmbedded(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_photos.sql", files[0])
	assert.IsNonDecreasing(t, files)

	body, err := migrationsFS.ReadFile("migrations/" + files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS photos")
	assert.Contains(t, string(body), "ai_retry_count")
}
