package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"colloquium/internal/domain"

	"github.com/stretchr/testify/require"
)

var listColumns = []string{
	"id", "full_name", "email", "phone", "college", "department", "year",
	"event", "event_category", "team_details", "membership", "member_id",
	"fee", "upi_paid_to", "txn_note", "payment_device", "transaction_id",
	"created_at", "status",
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()

	reg := &domain.Registration{
		FullName:      "Ravi Kumar",
		Email:         "ravi@example.com",
		Phone:         "9876543210",
		College:       "GEC Kozhikode",
		Department:    "CSE - 4",
		Year:          "2",
		Event:         "ACME",
		EventCategory: domain.CategoryISTE,
		TeamDetails:   "N/A",
		Membership:    domain.MembershipNotApplicable,
		MemberID:      domain.MembershipNotApplicable,
		Fee:           "₹150",
		UPIPaidTo:     "9207796593@paytm",
		TxnNote:       "ACME - Ravi Kumar",
		PaymentDevice: "mobile",
		TransactionID: "UTR123456",
		Status:        domain.StatusPending,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WithArgs(
						"Ravi Kumar", "ravi@example.com", "9876543210", "GEC Kozhikode", "CSE - 4", "2",
						"ACME", "ISTE", "N/A", "N/A", "N/A",
						"₹150", "9207796593@paytm", "ACME - Ravi Kumar", "mobile", "UTR123456", "pending",
					).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
						AddRow("reg-uuid-1", time.Date(2026, 2, 7, 15, 30, 0, 0, time.UTC)))
			},
			wantErr: false,
		},
		{
			name: "permission denied",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table registrations"})
			},
			wantErr: true,
			errIs:   domain.ErrPermissionDenied,
		},
		{
			name: "connection failure",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})
			},
			wantErr: true,
			errIs:   domain.ErrUnavailable,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)

			in := *reg
			err = repo.Create(ctx, &in)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "reg-uuid-1", in.ID)
				require.NotNil(t, in.CreatedAt)
				require.Equal(t, time.Date(2026, 2, 7, 15, 30, 0, 0, time.UTC), *in.CreatedAt)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_ListAll(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		check   func(t *testing.T, regs []*domain.Registration)
		wantErr bool
		errIs   error
	}{
		{
			name: "success with null timestamp and empty status",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(listColumns).
					AddRow(
						"reg-1", "Ravi Kumar", "ravi@example.com", "9876543210", "GEC Kozhikode", "CSE - 4", "2",
						"ACME", "ISTE", "N/A", "N/A", "N/A",
						"₹150", "9207796593@paytm", "ACME - Ravi Kumar", "mobile", "UTR123456",
						time.Date(2026, 2, 7, 15, 30, 0, 0, time.UTC), "approved",
					).
					AddRow(
						"reg-2", "Anita Nair", "anita@example.com", "9876500000", "NIT Calicut", "ECE", "3",
						"Debate", "OPEN", "N/A", "N/A", "N/A",
						"₹100", "9207796593@paytm", "Debate - Anita Nair", "desktop", "123456",
						nil, "",
					)
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).WillReturnRows(rows)
			},
			check: func(t *testing.T, regs []*domain.Registration) {
				require.Len(t, regs, 2)
				require.Equal(t, domain.StatusApproved, regs[0].Status)
				require.Equal(t, domain.CategoryISTE, regs[0].EventCategory)
				require.NotNil(t, regs[0].CreatedAt)
				require.Nil(t, regs[1].CreatedAt)
				require.Equal(t, domain.StatusPending, regs[1].EffectiveStatus())
			},
		},
		{
			name: "empty result is a non-nil slice",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).
					WillReturnRows(sqlmock.NewRows(listColumns))
			},
			check: func(t *testing.T, regs []*domain.Registration) {
				require.NotNil(t, regs)
				require.Empty(t, regs)
			},
		},
		{
			name: "permission denied",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).
					WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table registrations"})
			},
			wantErr: true,
			errIs:   domain.ErrPermissionDenied,
		},
		{
			name: "admin shutdown",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).
					WillReturnError(&pq.Error{Code: "57P03", Message: "the database system is shutting down"})
			},
			wantErr: true,
			errIs:   domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)

			regs, err := repo.ListAll(ctx)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				tt.check(t, regs)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WithArgs("reg-1", "approved").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "not found zero rows affected",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WithArgs("reg-1", "approved").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "permission denied",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table registrations"})
			},
			wantErr: true,
			errIs:   domain.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)

			err = repo.UpdateStatus(ctx, "reg-1", domain.StatusApproved)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
