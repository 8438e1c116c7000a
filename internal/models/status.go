package models

import "time"

// StatusRow is one captured status document. The payload is the fetched body
// verbatim; nothing in the logger parses or validates it.
type StatusRow struct {
	CapturedAt time.Time `ch:"captured_at"`
	Payload    string    `ch:"payload"`
}

func (StatusRow) TableName() string {
	return "status_raw"
}
