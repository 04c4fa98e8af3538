package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"colloquium/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a Postgres-backed RegistrationRepository.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (
			full_name, email, phone, college, department, year,
			event, event_category, team_details, membership, member_id,
			fee, upi_paid_to, txn_note, payment_device, transaction_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`
	var createdAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query,
		reg.FullName, reg.Email, reg.Phone, reg.College, reg.Department, reg.Year,
		reg.Event, string(reg.EventCategory), reg.TeamDetails, reg.Membership, reg.MemberID,
		reg.Fee, reg.UPIPaidTo, reg.TxnNote, reg.PaymentDevice, reg.TransactionID, string(reg.Status),
	).Scan(&reg.ID, &createdAt)
	if err != nil {
		return mapError(err)
	}
	if createdAt.Valid {
		t := createdAt.Time
		reg.CreatedAt = &t
	}
	return nil
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	query := `
		SELECT id, full_name, email, phone, college, department, year,
		       event, event_category, team_details, membership, member_id,
		       fee, upi_paid_to, txn_note, payment_device, transaction_id,
		       created_at, status
		FROM registrations
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		var category, status string
		var createdAt sql.NullTime
		if err := rows.Scan(
			&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.College, &reg.Department, &reg.Year,
			&reg.Event, &category, &reg.TeamDetails, &reg.Membership, &reg.MemberID,
			&reg.Fee, &reg.UPIPaidTo, &reg.TxnNote, &reg.PaymentDevice, &reg.TransactionID,
			&createdAt, &status,
		); err != nil {
			return nil, err
		}
		reg.EventCategory = domain.Category(category)
		reg.Status = domain.Status(status)
		if createdAt.Valid {
			t := createdAt.Time
			reg.CreatedAt = &t
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	query := `
		UPDATE registrations
		SET status = $2
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError translates the two gateway failure classes callers substitute
// messages for; everything else passes through verbatim.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42501": // insufficient_privilege
			return fmt.Errorf("%s: %w", pqErr.Message, domain.ErrPermissionDenied)
		case pqErr.Code.Class() == "08" || pqErr.Code == "57P03": // connection failures
			return fmt.Errorf("%s: %w", pqErr.Message, domain.ErrUnavailable)
		}
	}
	return err
}
