package roster

import "time"

// Summary is one conversation preview in the discussion list.
type Summary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	LastMessage string    `json:"lastMessage"`
	Time        time.Time `json:"time"`
	TimeDisplay string    `json:"timeDisplay"`
	Unread      bool      `json:"unread"`
	IsRead      bool      `json:"isRead"`
	IsOnline    bool      `json:"isOnline"`
	HasStory    bool      `json:"actu"`
}

// Store exposes roster lookups to services and handlers.
type Store interface {
	List() []Summary
	FindByID(id int64) (Summary, bool)
}

// DisplayTime renders t relative to now the way the discussion list shows it:
// clock time for today, "Yesterday", weekday within the week, date otherwise.
func DisplayTime(t, now time.Time) string {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	local := t.In(now.Location())

	switch {
	case !local.Before(midnight):
		return local.Format("15:04")
	case !local.Before(midnight.AddDate(0, 0, -1)):
		return "Yesterday"
	case !local.Before(midnight.AddDate(0, 0, -6)):
		return local.Format("Mon")
	default:
		return local.Format("02/01/2006")
	}
}
