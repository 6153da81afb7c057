package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/kmosolov/bankcards/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id, username, password_hash, email, role FROM users WHERE id = $1`)

	tests := []struct {
		name      string
		id        int64
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name: "User found",
			id:   1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "email", "role"}).
					AddRow(int64(1), "test_user", "hashed_password", "test_user@example.com", domain.RoleUser)
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(rows)
			},
			result: &domain.User{
				ID:           1,
				Username:     "test_user",
				PasswordHash: "hashed_password",
				Email:        "test_user@example.com",
				Role:         domain.RoleUser,
			},
		},
		{
			name: "User not found",
			id:   42,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(int64(42)).WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name: "Database error",
			id:   1,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.id)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByUsername(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id, username, password_hash, email, role FROM users WHERE username = $1`)

	tests := []struct {
		name      string
		username  string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:     "User found",
			username: "test_user",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "email", "role"}).
					AddRow(int64(1), "test_user", "hashed_password", "test_user@example.com", domain.RoleAdmin)
				mock.ExpectQuery(query).WithArgs("test_user").WillReturnRows(rows)
			},
			result: &domain.User{
				ID:           1,
				Username:     "test_user",
				PasswordHash: "hashed_password",
				Email:        "test_user@example.com",
				Role:         domain.RoleAdmin,
			},
		},
		{
			name:     "User not found",
			username: "non_existing_user",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("non_existing_user").WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name:     "Database error",
			username: "test_user",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("test_user").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByUsername(context.Background(), tt.username)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
		INSERT INTO users (username, password_hash, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)

	tests := []struct {
		name      string
		user      *domain.User
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name: "Create user successfully",
			user: &domain.User{
				Username:     "new_user",
				PasswordHash: "hashed_password",
				Email:        "new_user@example.com",
				Role:         domain.RoleUser,
			},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("new_user", "hashed_password", "new_user@example.com", domain.RoleUser).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
			},
			result: &domain.User{
				ID:           1,
				Username:     "new_user",
				PasswordHash: "hashed_password",
				Email:        "new_user@example.com",
				Role:         domain.RoleUser,
			},
		},
		{
			name: "Database error",
			user: &domain.User{
				Username:     "new_user",
				PasswordHash: "hashed_password",
				Email:        "new_user@example.com",
				Role:         domain.RoleUser,
			},
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("new_user", "hashed_password", "new_user@example.com", domain.RoleUser).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
