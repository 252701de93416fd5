package upstream

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dlb/internal/providers"
	"dlb/internal/structures"
)

// AvatarStore mirrors creator avatars onto local disk so the served
// pages never depend on short-lived CDN urls.
type AvatarStoreInterface interface {
	Save(ctx context.Context, handle, url string) (string, error)
	Resolve(handle string) string
}

type AvatarStore struct {
	httpClient *http.Client
	conf       *structures.Config
	logger     providers.Logger
}

func NewAvatarStore(conf *structures.Config, logger providers.Logger) AvatarStoreInterface {
	return &AvatarStore{
		httpClient: &http.Client{Timeout: conf.Polling.RequestTimeout},
		conf:       conf,
		logger:     logger,
	}
}

// Save downloads the avatar and writes it through a temp file so a
// crashed download never leaves a truncated image behind. It returns
// the public path the image is served under.
func (a *AvatarStore) Save(ctx context.Context, handle, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	if err := os.MkdirAll(a.conf.Avatars.Dir, 0o755); err != nil {
		return "", err
	}
	name := baseName(handle) + ".jpeg"
	target := filepath.Join(a.conf.Avatars.Dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", err
	}
	a.logger.Debugf(providers.TypeScrape, "avatar for %s stored at %s", handle, target)
	return a.publicPath(name), nil
}

// Resolve returns the public path for a creator's avatar, preferring a
// previously mirrored jpeg and falling back to the bundled svg.
func (a *AvatarStore) Resolve(handle string) string {
	name := baseName(handle) + ".jpeg"
	if _, err := os.Stat(filepath.Join(a.conf.Avatars.Dir, name)); err == nil {
		return a.publicPath(name)
	}
	return a.publicPath(baseName(handle) + ".svg")
}

func (a *AvatarStore) publicPath(name string) string {
	prefix := strings.TrimSuffix(a.conf.Avatars.PublicPrefix, "/")
	return prefix + "/" + name
}

func baseName(handle string) string {
	if idx := strings.IndexByte(handle, '.'); idx > 0 {
		return handle[:idx]
	}
	return handle
}
