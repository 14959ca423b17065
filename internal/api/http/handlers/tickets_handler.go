package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints. Authorization decisions live in
// the service; the handler only shuttles the resolved identity through.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		EmployeeID:  req.EmployeeID,
	}
	ticket, err := h.service.Create(c.UserContext(), auth.IdentityFromContext(c), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SuggestResponse POST /tickets/:id/suggest-response.
func (h *TicketsHandler) SuggestResponse(c *fiber.Ctx) error {
	var req dto.SuggestResponseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorutil.NewValidationError("invalid payload", nil)
		}
	}
	suggestion, err := h.service.SuggestResponse(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), req.PriorResponses)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestResponseResponse{SuggestedResponse: suggestion}})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		UserID:      ticket.UserID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Email:       ticket.Email,
		PhoneNumber: ticket.PhoneNumber,
		EmployeeID:  ticket.EmployeeID,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
