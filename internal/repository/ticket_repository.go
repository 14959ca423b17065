package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter narrows listing. A nil UserID lists every ticket.
type TicketFilter struct {
	UserID *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, subject, description, email, phone_number, employee_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Subject,
		ticket.Description,
		ticket.Email,
		ticket.PhoneNumber,
		ticket.EmployeeID,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return mapStoreErr(err, "ticket", nil)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, subject, description, email, phone_number, employee_id,
               status, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Email,
		&ticket.PhoneNumber,
		&ticket.EmployeeID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, mapStoreErr(err, "ticket", map[string]any{"ticket_id": id})
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, user_id, subject, description, email, phone_number, employee_id,
                    status, created_at, updated_at
             FROM tickets`
	order := ` ORDER BY created_at DESC, id ASC`

	var (
		rows pgx.Rows
		err  error
	)
	if filter.UserID != nil {
		rows, err = r.pool.Query(ctx, base+` WHERE user_id=$1`+order, *filter.UserID)
	} else {
		rows, err = r.pool.Query(ctx, base+order)
	}
	if err != nil {
		return nil, mapStoreErr(err, "tickets", nil)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, user_id, subject, description, email, phone_number, employee_id,
                  status, created_at, updated_at`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Email,
		&ticket.PhoneNumber,
		&ticket.EmployeeID,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, mapStoreErr(err, "ticket", map[string]any{"ticket_id": id})
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Email,
			&ticket.PhoneNumber,
			&ticket.EmployeeID,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, mapStoreErr(err, "tickets", nil)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err, "tickets", nil)
	}
	return result, nil
}
