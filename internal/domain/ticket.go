package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The literal values
// match the persisted status column.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether the status is one of the known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. UserID and CreatedAt are
// immutable after creation.
type Ticket struct {
	ID          string
	UserID      string
	Subject     string
	Description string
	Email       string
	PhoneNumber *string
	EmployeeID  *string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
