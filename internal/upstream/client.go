package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"dlb/internal/models"
	"dlb/internal/providers"
	"dlb/internal/structures"
)

// ErrEmptyBody is returned when the feed answers 200 with no payload.
var ErrEmptyBody = errors.New("upstream returned an empty body")

// StatusError carries a non-2xx upstream answer so callers can propagate
// the original status code.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

type ClientInterface interface {
	CreatorRooms(ctx context.Context, creator models.Creator) (*CreatorSnapshot, error)
	LiveRooms(ctx context.Context) (*LiveSnapshot, error)
}

type Client struct {
	httpClient *http.Client
	conf       *structures.Config
	logger     providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) ClientInterface {
	return &Client{
		httpClient: &http.Client{Timeout: conf.Polling.RequestTimeout},
		conf:       conf,
		logger:     logger,
	}
}

// CreatorRooms walks the creator's configured page urls and merges every
// room reading they contain. A failing page is skipped so one bad url
// does not lose the rest of the history; the call only fails when every
// page failed.
func (c *Client) CreatorRooms(ctx context.Context, creator models.Creator) (*CreatorSnapshot, error) {
	snapshot := &CreatorSnapshot{
		Profile: models.Profile{ID: creator.ID, Username: creator.Handle, Name: creator.DefaultName},
	}
	var lastErr error
	failed := 0
	for _, pageURL := range creator.PageURLs {
		if pageURL == "" {
			continue
		}
		env, err := c.fetch(ctx, pageURL)
		if err != nil {
			failed++
			lastErr = err
			c.logger.Warnf(providers.TypeFetch, "room page for %s failed: %v", creator.Handle, err)
			continue
		}
		c.mergePage(snapshot, creator, env)
	}
	if failed > 0 && failed == len(creator.PageURLs) {
		return nil, lastErr
	}
	return snapshot, nil
}

func (c *Client) mergePage(snapshot *CreatorSnapshot, creator models.Creator, env *roomListEnvelope) {
	// The map is keyed by HostID and a creator's page carries a single
	// entry, so the hint is taken from the first one.
	for _, info := range env.Data.HostBaseInfoMap {
		if info.CreatorID != "" {
			snapshot.Profile.ID = info.CreatorID
		}
		if info.Nickname != "" {
			snapshot.Profile.Name = info.Nickname
		}
		if info.DisplayID != "" {
			snapshot.Profile.Username = info.DisplayID
		}
		break
	}
	for _, room := range env.Data.RoomIndicatorInfo {
		reading := models.RoomSnapshot{
			RoomID:    rawString(room.RoomID),
			StartTime: cast.ToInt64(room.StartTime),
		}
		if room.DailyIncome != nil {
			reading.Income = cast.ToInt64(room.DailyIncome.Value)
		}
		snapshot.Rooms = append(snapshot.Rooms, reading)
	}
}

// LiveRooms polls the shared live room-list feed once and returns the
// per-creator diamond counters it carries. Non-2xx answers keep their
// status code via StatusError and a 200 without a payload is ErrEmptyBody.
func (c *Client) LiveRooms(ctx context.Context) (*LiveSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.conf.Upstream.LiveRoomURL, nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	var env roomListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	snapshot := &LiveSnapshot{}
	for _, anchor := range env.Data.LiveAnchorInfos {
		// Anchors are keyed by HostID; the creator id the rest of the
		// system tracks lives in the host's base info. Anchors without a
		// base-info entry cannot be attributed and are dropped.
		info, ok := env.Data.HostBaseInfoMap[rawString(anchor.HostID)]
		if !ok {
			continue
		}
		reading := AnchorReading{
			CreatorID: info.CreatorID,
			Nickname:  info.Nickname,
			DisplayID: info.DisplayID,
			RoomID:    rawString(anchor.RoomID),
		}
		for _, indicator := range anchor.RoomIndicators {
			if indicator.IndicatorName == liveDiamondIndicator {
				reading.Income = cast.ToInt64(indicator.Value)
				break
			}
		}
		snapshot.Anchors = append(snapshot.Anchors, reading)
	}
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*roomListEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	var env roomListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// rawString renders a raw JSON token as a string. String tokens are
// unquoted; numeric tokens keep their full digits.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if s == "null" {
		return ""
	}
	return s
}

func (c *Client) decorate(req *http.Request) {
	for name, value := range c.conf.Upstream.Headers {
		req.Header.Set(name, value)
	}
	if c.conf.Upstream.Cookie != "" {
		req.Header.Set("Cookie", c.conf.Upstream.Cookie)
	}
}
