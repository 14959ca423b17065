package suggest

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Suggester drafts a reply to a helpdesk ticket. Implementations must treat
// any failure as non-fatal: callers surface SuggestionUnavailable and carry on.
type Suggester interface {
	Suggest(ctx context.Context, ticketContent, priorResponses string) (string, error)
}

// Disabled is used when no suggestion provider is configured.
type Disabled struct{}

// NewDisabled returns a Suggester that always reports unavailability.
func NewDisabled() Disabled {
	return Disabled{}
}

// Suggest always fails with SuggestionUnavailable.
func (Disabled) Suggest(context.Context, string, string) (string, error) {
	return "", errorutil.NewSuggestionUnavailable(errors.New("suggestion provider not configured"))
}
