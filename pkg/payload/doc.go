// Package payload defines the per-platform notification payload builders for
// FCM v1 messages.
//
// Each builder is a plain struct whose exported fields map onto the
// platform-specific section of an FCM message: Notification for the generic
// cross-platform block, Android for the android block, APNS for the apns
// block and Web for the webpush block. Calling Render produces the nested
// tree the gateway expects, with unset fields omitted entirely via
// tree.Prune — a builder never fails, it just renders less (possibly nil).
//
// Field semantics follow the FCM v1 REST resource: localization keys and
// arguments, image links, per-platform TTL and priority, Android channel id,
// APNs category/badge/sound and web link/urgency. APNs payloads
// automatically gain "mutable-content": 1 when an image is attached, since
// image attachments require a notification service extension on iOS.
package payload
