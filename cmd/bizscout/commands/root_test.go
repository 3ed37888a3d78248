package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bizscout-backend/lib/analysisstore"
	configsqlite "bizscout-backend/lib/configutil/sqlite"

	"github.com/stretchr/testify/require"
)

func TestOpenHistoryCorruptDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizscout.db")
	err := os.WriteFile(path, []byte("definitely not a sqlite file"), 0600)
	require.NoError(t, err)

	ctx := context.Background()
	store := openHistory(ctx, Config{Database: configsqlite.Struct{File: path}})

	// a corrupt file reads as no history yet
	require.Empty(t, store.ReadAll(ctx))
	require.Equal(t, "", store.SelectedSite(ctx))

	// writes against the degraded view still fail
	require.ErrorIs(t, store.SetSelectedSite(ctx, "transentreprise"), analysisstore.ErrUnavailable)
}

func TestOpenHistoryFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizscout.db")

	ctx := context.Background()
	store := openHistory(ctx, Config{Database: configsqlite.Struct{File: path}})

	require.Empty(t, store.ReadAll(ctx))
	require.NoError(t, store.SetSelectedSite(ctx, "transentreprise"))
	require.Equal(t, "transentreprise", store.SelectedSite(ctx))
}
