package upstream

import (
	json "github.com/goccy/go-json"

	"dlb/internal/models"
)

// liveDiamondIndicator is the indicator carrying a live room's cumulative
// diamond counter in the live room-list feed.
const liveDiamondIndicator = "room_live_send_gift_diamond_cnt_f0d0htn"

// The envelope mirrors the creator-backstage responses. Numeric fields
// arrive as strings or numbers depending on the endpoint, so they are
// decoded loosely and parsed with cast at the boundary.
type roomListEnvelope struct {
	Data roomListData `json:"data"`
}

type roomListData struct {
	HostBaseInfoMap   map[string]hostBaseInfo `json:"HostBaseInfoMap"`
	RoomIndicatorInfo []roomIndicatorInfo     `json:"RoomIndicatorInfo"`
	LiveAnchorInfos   []liveAnchorInfo        `json:"LiveAnchorInfos"`
}

type hostBaseInfo struct {
	CreatorID string `json:"CreatorID"`
	Nickname  string `json:"nickname"`
	DisplayID string `json:"display_id"`
}

type indicatorValue struct {
	Value any `json:"Value"`
}

type roomIndicatorInfo struct {
	RoomID      json.RawMessage `json:"RoomID"`
	StartTime   any             `json:"StartTime"`
	DailyIncome *indicatorValue `json:"room_live_income_diamond_1d"`
}

type namedIndicator struct {
	IndicatorName string `json:"IndicatorName"`
	Value         any    `json:"Value"`
}

// Host and room ids exceed float64 precision, so they are kept as raw
// tokens and unquoted instead of going through an any/float64 round trip.
type liveAnchorInfo struct {
	HostID         json.RawMessage  `json:"HostID"`
	RoomID         json.RawMessage  `json:"RoomID"`
	RoomIndicators []namedIndicator `json:"RoomIndicators"`
}

// CreatorSnapshot is the parsed result of one creator's paginated room
// history: a profile hint plus every room reading the pages contained.
type CreatorSnapshot struct {
	Profile models.Profile
	Rooms   []models.RoomSnapshot
}

// AnchorReading is one creator's live room counter from the shared live
// room-list feed.
type AnchorReading struct {
	CreatorID string
	Nickname  string
	DisplayID string
	RoomID    string
	Income    int64
}

// LiveSnapshot is one poll of the live room-list feed.
type LiveSnapshot struct {
	Anchors []AnchorReading
}
