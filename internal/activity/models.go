// Package activity derives the owner-facing recent-activity feed from the
// raw view-event log. Entries are computed fresh per request and never
// cached.
package activity

// Entry is one row of the feed. UserID is null for anonymous viewers and
// carries the stale id when the viewer no longer resolves.
type Entry struct {
	Action   string  `json:"action"`
	Form     string  `json:"form"`
	Color    string  `json:"color"`
	Time     string  `json:"time"`
	UserName string  `json:"user_name"`
	UserID   *string `json:"user_id"`
}
