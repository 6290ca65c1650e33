package payload

import (
	"strconv"

	"github.com/mrgarest/firebase-sender/pkg/tree"
)

// Web is the webpush-specific section of an FCM message.
type Web struct {
	Title    string
	Body     string
	ImageURL string
	// Link opens when the user clicks the notification. HTTPS is required.
	Link         string
	HighPriority bool
	TTLSeconds   int
}

// Render produces the sparse webpush tree, or nil when nothing is set.
func (p *Web) Render() map[string]any {
	var urgency any
	if p.HighPriority {
		urgency = "high"
	}
	var ttl any
	if p.TTLSeconds > 0 {
		ttl = strconv.Itoa(p.TTLSeconds)
	}

	return tree.PruneMap(map[string]any{
		"headers": map[string]any{
			"Urgency": urgency,
			"TTL":     ttl,
		},
		"notification": map[string]any{
			"title": optStr(p.Title),
			"body":  optStr(p.Body),
			"image": optStr(p.ImageURL),
		},
		"fcm_options": map[string]any{
			"link": optStr(p.Link),
		},
	})
}
