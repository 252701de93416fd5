package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	json "github.com/goccy/go-json"

	"dlb/internal/providers"
	"dlb/internal/structures"
)

var (
	rehydrationRe = regexp.MustCompile(`<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__"[^>]*>(.*?)</script>`)
	sigiStateRe   = regexp.MustCompile(`<script id="SIGI_STATE"[^>]*>(.*?)</script>`)
)

// ErrProfileNotFound means the page loaded but carried no usable
// profile payload, usually a soft block or a deleted account.
var ErrProfileNotFound = errors.New("profile payload not found in page")

// ScrapedProfile is the subset of a creator's public page the tracker
// cares about.
type ScrapedProfile struct {
	Name      string
	Username  string
	AvatarURL string
}

type ScraperInterface interface {
	Profile(ctx context.Context, handle string) (*ScrapedProfile, error)
}

type Scraper struct {
	httpClient *http.Client
	conf       *structures.Config
	logger     providers.Logger
}

func NewScraper(conf *structures.Config, logger providers.Logger) ScraperInterface {
	return &Scraper{
		httpClient: &http.Client{Timeout: conf.Polling.RequestTimeout},
		conf:       conf,
		logger:     logger,
	}
}

// Profile pulls the creator's public page and digs the embedded state
// out of it. The rehydration script is tried first, the older SIGI_STATE
// blob second.
func (s *Scraper) Profile(ctx context.Context, handle string) (*ScrapedProfile, error) {
	url := fmt.Sprintf("%s/@%s", s.conf.Upstream.ScrapeBaseURL, handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if s.conf.Upstream.ScrapeSessionID != "" {
		req.Header.Set("Cookie", "sessionid="+s.conf.Upstream.ScrapeSessionID)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	page := string(body)
	if profile := s.fromRehydration(page); profile != nil {
		return profile, nil
	}
	if profile := s.fromSigiState(page, handle); profile != nil {
		return profile, nil
	}
	return nil, ErrProfileNotFound
}

func (s *Scraper) fromRehydration(page string) *ScrapedProfile {
	match := rehydrationRe.FindStringSubmatch(page)
	if match == nil {
		return nil
	}
	var state map[string]any
	if err := json.Unmarshal([]byte(match[1]), &state); err != nil {
		s.logger.Debugf(providers.TypeScrape, "rehydration state decode failed: %v", err)
		return nil
	}
	user, ok := dig(state, "__DEFAULT_SCOPE__", "webapp.user-detail", "userInfo", "user").(map[string]any)
	if !ok {
		return nil
	}
	return userToProfile(user)
}

func (s *Scraper) fromSigiState(page, handle string) *ScrapedProfile {
	match := sigiStateRe.FindStringSubmatch(page)
	if match == nil {
		return nil
	}
	var state map[string]any
	if err := json.Unmarshal([]byte(match[1]), &state); err != nil {
		s.logger.Debugf(providers.TypeScrape, "sigi state decode failed: %v", err)
		return nil
	}
	users, ok := dig(state, "UserModule", "users").(map[string]any)
	if !ok {
		return nil
	}
	if user, ok := users[handle].(map[string]any); ok {
		return userToProfile(user)
	}
	for _, user := range users {
		if u, ok := user.(map[string]any); ok {
			return userToProfile(u)
		}
	}
	return nil
}

func userToProfile(user map[string]any) *ScrapedProfile {
	profile := &ScrapedProfile{
		Name:     stringField(user, "nickname"),
		Username: stringField(user, "uniqueId"),
	}
	if avatar := stringField(user, "avatarLarger"); avatar != "" {
		profile.AvatarURL = avatar
	} else {
		profile.AvatarURL = stringField(user, "avatarMedium")
	}
	if profile.Name == "" && profile.Username == "" && profile.AvatarURL == "" {
		return nil
	}
	return profile
}

func dig(node map[string]any, path ...string) any {
	var current any = node
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

func stringField(obj map[string]any, key string) string {
	value, _ := obj[key].(string)
	return value
}
