package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_AreEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		b, err := fs.ReadFile(Migrations, f)
		require.NoError(t, err)

		s := string(b)
		assert.True(t, strings.Contains(s, "-- +goose Up"), "%s lacks an Up section", f)
		assert.True(t, strings.Contains(s, "-- +goose Down"), "%s lacks a Down section", f)
	}
}
