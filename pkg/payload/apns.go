package payload

import (
	"strconv"

	"github.com/mrgarest/firebase-sender/pkg/tree"
)

// APNs delivery priorities.
const (
	APNSPriorityHigh = 10
	APNSPriorityLow  = 5
)

// APNS is the apns-specific section of an FCM message.
type APNS struct {
	Title        string
	TitleLocKey  string
	TitleLocArgs []string
	Body         string
	BodyLocKey   string
	BodyLocArgs  []string
	Category     string
	// Priority is the apns-priority header value; APNSPriorityHigh delivers
	// immediately, APNSPriorityLow defers to conserve device power.
	Priority int
	// Badge is a pointer because zero is meaningful: it clears the badge.
	Badge    *int
	Sound    string
	ImageURL string
}

// Render produces the sparse apns tree, or nil when nothing is set.
// When an image is attached, mutable-content is set so the iOS notification
// service extension can download it.
func (p *APNS) Render() map[string]any {
	var priority any
	if p.Priority > 0 {
		priority = strconv.Itoa(p.Priority)
	}
	var badge any
	if p.Badge != nil {
		badge = *p.Badge
	}
	var mutable any
	if p.ImageURL != "" {
		mutable = 1
	}

	return tree.PruneMap(map[string]any{
		"headers": map[string]any{
			"apns-priority": priority,
		},
		"payload": map[string]any{
			"aps": map[string]any{
				"alert": map[string]any{
					"title":          optStr(p.Title),
					"body":           optStr(p.Body),
					"title-loc-key":  optStr(p.TitleLocKey),
					"title-loc-args": p.TitleLocArgs,
					"loc-key":        optStr(p.BodyLocKey),
					"loc-args":       p.BodyLocArgs,
				},
				"category":        optStr(p.Category),
				"badge":           badge,
				"sound":           optStr(p.Sound),
				"mutable-content": mutable,
			},
		},
		"fcm_options": map[string]any{
			"image": optStr(p.ImageURL),
		},
	})
}
