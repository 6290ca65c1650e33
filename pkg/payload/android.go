package payload

import (
	"strconv"

	"github.com/mrgarest/firebase-sender/pkg/tree"
)

// Android is the android-specific section of an FCM message.
type Android struct {
	Title        string
	TitleLocKey  string
	TitleLocArgs []string
	Body         string
	BodyLocKey   string
	BodyLocArgs  []string
	ChannelID    string
	ImageURL     string
	HighPriority bool
	// TTLSeconds sets how long the message may be buffered for an offline
	// device. Zero leaves the gateway default in place.
	TTLSeconds int
}

// Render produces the sparse android tree, or nil when nothing is set.
func (p *Android) Render() map[string]any {
	var priority any
	if p.HighPriority {
		priority = "high"
	}
	var ttl any
	if p.TTLSeconds > 0 {
		ttl = strconv.Itoa(p.TTLSeconds) + "s"
	}

	return tree.PruneMap(map[string]any{
		"notification": map[string]any{
			"title":          optStr(p.Title),
			"title_loc_key":  optStr(p.TitleLocKey),
			"title_loc_args": p.TitleLocArgs,
			"body":           optStr(p.Body),
			"body_loc_key":   optStr(p.BodyLocKey),
			"body_loc_args":  p.BodyLocArgs,
			"channel_id":     optStr(p.ChannelID),
			"image":          optStr(p.ImageURL),
		},
		"priority": priority,
		"ttl":      ttl,
	})
}
