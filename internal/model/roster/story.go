package roster

import "time"

// OwnStoryID is the reserved id for the local user's own story entry.
const OwnStoryID int64 = 0

// Ring colors used by the status view. Unseen rings render in the accent
// color, seen rings fall back to grey.
const (
	RingColorActive   = "#3B82F6"
	RingColorInactive = "#b4b4b4"
)

// Story is one status-ring entry derived from a roster profile. Segments is
// the number of story items and drives the ring's segment count.
type Story struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	Date        time.Time `json:"date"`
	TimeDisplay string    `json:"timeDisplay"`
	Segments    int       `json:"segments"`
	Unread      bool      `json:"unread"`
	IsRead      bool      `json:"isRead"`
}

// RingColor returns the stroke color for the story's ring.
func (s Story) RingColor() string {
	if s.Unread {
		return RingColorActive
	}
	return RingColorInactive
}
