package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	PhoneNumber *string `json:"phone_number"`
	EmployeeID  *string `json:"employee_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SuggestResponseRequest payload.
type SuggestResponseRequest struct {
	PriorResponses string `json:"prior_responses"`
}

// TicketResponse response.
type TicketResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Email       string              `json:"email"`
	PhoneNumber *string             `json:"phone_number,omitempty"`
	EmployeeID  *string             `json:"employee_id,omitempty"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// SuggestResponseResponse carries the drafted reply.
type SuggestResponseResponse struct {
	SuggestedResponse string `json:"suggested_response"`
}
