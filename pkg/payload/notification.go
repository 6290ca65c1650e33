package payload

import "github.com/mrgarest/firebase-sender/pkg/tree"

// Notification is the cross-platform notification block shared by all
// client platforms.
type Notification struct {
	Title string
	Body  string
}

// NewNotification creates a notification with the given title and body.
func NewNotification(title, body string) *Notification {
	return &Notification{Title: title, Body: body}
}

// Render produces the sparse notification tree, or nil when nothing is set.
func (p *Notification) Render() map[string]any {
	return tree.PruneMap(map[string]any{
		"title": optStr(p.Title),
		"body":  optStr(p.Body),
	})
}
