package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// MatchesRefreshedEvent tells connected candidates that new or re-scored
// offers are available and their match list is worth refetching.
type MatchesRefreshedEvent struct {
	Type       string `json:"type"`
	Source     string `json:"source"`
	OfferCount int    `json:"offer_count"`
	Timestamp  string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyMatchesRefreshed broadcasts from anywhere without threading the
// hub through every pipeline stage. A nil default hub is a no-op.
func NotifyMatchesRefreshed(source string, offerCount int) {
	h := defaultHub.Load()
	if h == nil || offerCount <= 0 {
		return
	}

	evt := MatchesRefreshedEvent{
		Type:       "matches_refreshed",
		Source:     source,
		OfferCount: offerCount,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
