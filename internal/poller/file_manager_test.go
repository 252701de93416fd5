package poller

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dlb/internal/models"
	"dlb/internal/testutil"
)

func newTestFileManager(svc *testutil.MockLeaderboardService) *FileManager {
	return NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})
}

func TestFileManager_SaveToFile_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creators.db")

	svc := &testutil.MockLeaderboardService{
		Snapshot: map[string]*models.CachedCreator{
			"alpha.live": {ID: "1", Name: "Alpha", MonthlyScore: 120},
		},
	}
	fm := newTestFileManager(svc)

	err := fm.SaveToFile(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Temp file should not exist
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creators.db")

	svc := &testutil.MockLeaderboardService{
		Snapshot: map[string]*models.CachedCreator{
			"alpha.live": {ID: "1", Name: "Alpha", MonthlyScore: 120, DailyScore: 30},
			"bravo.live": {ID: "2", Name: "Bravo", Avatar: "/avatars/bravo.jpeg"},
		},
	}
	fm := newTestFileManager(svc)
	require.NoError(t, fm.SaveToFile(path))

	restored := &testutil.MockLeaderboardService{}
	require.NoError(t, newTestFileManager(restored).LoadFromFile(path))

	require.NotNil(t, restored.Restored)
	assert.Equal(t, int64(120), restored.Restored["alpha.live"].MonthlyScore)
	assert.Equal(t, "/avatars/bravo.jpeg", restored.Restored["bravo.live"].Avatar)
}

func TestFileManager_LoadFromFile_MissingFileIsNotAnError(t *testing.T) {
	svc := &testutil.MockLeaderboardService{}
	fm := newTestFileManager(svc)

	err := fm.LoadFromFile(filepath.Join(t.TempDir(), "nope.db"))
	assert.NoError(t, err)
	assert.Nil(t, svc.Restored)
}

func TestFileManager_LoadFromFile_MigratesBareMapFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.db")

	old := map[string]*models.CachedCreator{
		"alpha.live": {ID: "1", MonthlyScore: 999},
	}
	jsonData, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, jsonData, 0644))

	svc := &testutil.MockLeaderboardService{}
	require.NoError(t, newTestFileManager(svc).LoadFromFile(path))

	require.NotNil(t, svc.Restored)
	assert.Equal(t, int64(999), svc.Restored["alpha.live"].MonthlyScore)
}

func TestFileManager_LoadFromFile_GarbageFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.db")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	svc := &testutil.MockLeaderboardService{}
	err := newTestFileManager(svc).LoadFromFile(path)
	assert.Error(t, err)
}
