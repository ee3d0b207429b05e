package models

import (
	"time"
)

// Click is one stored visit. Optional fields are empty when the visitor did not
// provide them or the row was written by an older schema.
type Click struct {
	ID        int64     `json:"id"`
	IPAddress string    `json:"origin_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	SourceTag string    `json:"source_tag,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

// ClickEvent carries the best-effort client details captured for a visit.
type ClickEvent struct {
	IPAddress string
	UserAgent string
	SourceTag string
}

type ClickStats struct {
	TotalClicks int64 `json:"total_clicks"`
}
