package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/suggest"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService owns ticket records and enforces every create/read/transition
// rule before touching storage. All authorization branching lives here so it
// cannot drift between call sites.
type TicketService struct {
	tickets    repository.TicketRepository
	suggester  suggest.Suggester
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Suggester  suggest.Suggester
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	PhoneNumber *string
	EmployeeID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		suggester:  deps.Suggester,
		dispatcher: deps.Dispatcher,
	}
}

// allowedTransitions defines the status state machine. Closed is terminal.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create persists a new ticket for the caller. The caller must be
// authenticated and subject/description must be non-empty; the ticket always
// starts Open with the requester's identity and email captured.
func (s *TicketService) Create(ctx context.Context, caller domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	if caller.IsAnonymous() {
		return nil, errorutil.NewUnauthenticated("sign in to submit a ticket")
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	missing := map[string]any{}
	if subject == "" {
		missing["subject"] = "required"
	}
	if description == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("subject and description are required", missing)
	}

	ticket := &domain.Ticket{
		UserID:      caller.UserID,
		Subject:     subject,
		Description: description,
		Email:       caller.Email,
		PhoneNumber: input.PhoneNumber,
		EmployeeID:  input.EmployeeID,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketCreatedPayload{
			Subject:        ticket.Subject,
			RequesterEmail: ticket.Email,
		},
	})
	return ticket, nil
}

// List returns tickets visible to the caller, newest first. Plain users see
// only their own tickets; support and admin see everything.
func (s *TicketService) List(ctx context.Context, caller domain.Identity) ([]domain.Ticket, error) {
	if caller.IsAnonymous() {
		return nil, errorutil.NewUnauthenticated("sign in to view tickets")
	}
	filter := repository.TicketFilter{}
	if !caller.IsSupport() {
		userID := caller.UserID
		filter.UserID = &userID
	}
	return s.tickets.List(ctx, filter)
}

// Get fetches a single ticket. A caller who is neither the owner nor support
// gets the same NotFound as a nonexistent id so ticket existence never leaks.
func (s *TicketService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Ticket, error) {
	if caller.IsAnonymous() {
		return nil, errorutil.NewUnauthenticated("sign in to view tickets")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != caller.UserID && !caller.IsSupport() {
		return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket, nil
}

// UpdateStatus transitions a ticket through the status state machine. Only
// support/admin may transition; invalid transitions leave the record
// unchanged.
func (s *TicketService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if caller.IsAnonymous() {
		return nil, errorutil.NewUnauthenticated("sign in to update tickets")
	}
	if !caller.IsSupport() {
		return nil, errorutil.NewPermissionDenied("support role required to update ticket status")
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, errorutil.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// SuggestResponse asks the language model for a draft reply to the ticket.
// Support only; failure is reported as SuggestionUnavailable and never
// affects the ticket itself.
func (s *TicketService) SuggestResponse(ctx context.Context, caller domain.Identity, id, priorResponses string) (string, error) {
	if caller.IsAnonymous() {
		return "", errorutil.NewUnauthenticated("sign in to request suggestions")
	}
	if !caller.IsSupport() {
		return "", errorutil.NewPermissionDenied("support role required to request suggestions")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	content := "Subject: " + ticket.Subject + "\n\n" + ticket.Description
	return s.suggester.Suggest(ctx, content, priorResponses)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(caller domain.Identity) events.Actor {
	return events.Actor{UserID: caller.UserID, Role: caller.Role}
}
