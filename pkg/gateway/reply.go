package gateway

import (
	"net/http"
	"path"
	"time"
)

// ErrorDetail is the gateway's JSON error envelope. Fields the gateway
// omitted stay nil — absent is not zero.
type ErrorDetail struct {
	Code    *int    `json:"code"`
	Status  *string `json:"status"`
	Message *string `json:"message"`
}

// Reply is the outcome of one message's HTTP call, correlated to the
// message by Index.
type Reply struct {
	Index int

	// Received is false when the request produced no HTTP response at all
	// (transport error or timeout); every other field except Index is then
	// meaningless.
	Received bool

	StatusCode int

	// Name is the resource name returned on success, e.g.
	// "projects/my-project/messages/0:123456".
	Name string

	// Error is the decoded error envelope of a non-2xx response, nil when
	// the body carried none.
	Error *ErrorDetail

	// Date is the response's Date header; zero when absent.
	Date time.Time
}

// Success reports whether the gateway accepted the message.
func (r Reply) Success() bool {
	return r.Received && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// MessageID extracts the message id from the resource name, or "" on
// failure.
func (r Reply) MessageID() string {
	if !r.Success() || r.Name == "" {
		return ""
	}
	return path.Base(r.Name)
}
