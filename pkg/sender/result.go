package sender

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mrgarest/firebase-sender/pkg/gateway"
)

// Result is the outcome of one message.
type Result struct {
	Success   bool
	MessageID string
	Target    Target
	Address   string
	Timestamp time.Time
	Error     *gateway.ErrorDetail
}

// Report aggregates one Send invocation. Results are ordered by group
// index, not by completion order.
type Report struct {
	TotalCount   int
	SuccessCount int
	FailureCount int
	Results      []Result
}

// Failure describes one failed message for external observers.
type Failure struct {
	Account string
	Target  Target
	Address string
	Error   *gateway.ErrorDetail
}

// FailureHandler is invoked once per failed message. Informational only;
// dispatch does not wait on or react to it.
type FailureHandler func(ctx context.Context, failure Failure)

// errorSummary flattens an error envelope into one audit-friendly line.
// Only called for failed results.
func errorSummary(detail *gateway.ErrorDetail) string {
	if detail == nil {
		return "no response from gateway"
	}

	var parts []string
	if detail.Code != nil {
		parts = append(parts, strconv.Itoa(*detail.Code))
	}
	if detail.Status != nil {
		parts = append(parts, *detail.Status)
	}
	head := strings.Join(parts, " ")

	switch {
	case detail.Message != nil && head != "":
		return head + ": " + *detail.Message
	case detail.Message != nil:
		return *detail.Message
	case head != "":
		return head
	default:
		return "request failed"
	}
}
