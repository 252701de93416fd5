package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dlb/internal/structures"
	"dlb/internal/testutil"
	"dlb/internal/upstream"
)

func avatarConfig(dir string) *structures.Config {
	return &structures.Config{
		Polling: structures.PollingConfig{RequestTimeout: 2 * time.Second},
		Avatars: structures.AvatarConfig{Dir: dir, PublicPrefix: "/avatars"},
	}
}

func TestSave_WritesImageAndReturnsPublicPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := upstream.NewAvatarStore(avatarConfig(dir), &testutil.MockLogger{})

	path, err := store.Save(context.Background(), "alpha.live", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "/avatars/alpha.jpeg", path)

	data, err := os.ReadFile(filepath.Join(dir, "alpha.jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	// no temp file left behind
	_, err = os.Stat(filepath.Join(dir, "alpha.jpeg.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := upstream.NewAvatarStore(avatarConfig(t.TempDir()), &testutil.MockLogger{})

	_, err := store.Save(context.Background(), "alpha.live", srv.URL)
	assert.ErrorIs(t, err, upstream.ErrEmptyBody)
}

func TestSave_UpstreamFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := upstream.NewAvatarStore(avatarConfig(dir), &testutil.MockLogger{})

	_, err := store.Save(context.Background(), "alpha.live", srv.URL)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolve_PrefersMirroredJpeg(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.jpeg"), []byte("x"), 0o644))

	store := upstream.NewAvatarStore(avatarConfig(dir), &testutil.MockLogger{})

	assert.Equal(t, "/avatars/alpha.jpeg", store.Resolve("alpha.live"))
	assert.Equal(t, "/avatars/bravo.svg", store.Resolve("bravo.live"))
}
