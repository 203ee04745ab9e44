package user_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"schedulink/apperr"
	"schedulink/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery    = `INSERT INTO users (email, name, phone) VALUES ($1, $2, $3) RETURNING id`
	selectAllQuery = `SELECT id, email, name, phone FROM users ORDER BY id`
	selectOneQuery = `SELECT id, email, name, phone FROM users WHERE id = $1`
)

func setup(t *testing.T) (*user.Accessor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return user.NewAccessor(db), mock
}

func ptr(s string) *string { return &s }

func TestUser(t *testing.T) {
	a, mock := setup(t)

	const name = "A"
	const email = "a@x.com"

	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WithArgs(email, name, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	t.Run("create user", func(t *testing.T) {
		createdUser, err := a.CreateUser(t.Context(), user.User{
			Name:  " " + name + " ",
			Email: email,
			Phone: ptr("  "),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), createdUser.ID)
		assert.Equal(t, name, createdUser.Name)
		assert.Equal(t, email, createdUser.Email)
		assert.Nil(t, createdUser.Phone)

		require.NoError(t, mock.ExpectationsWereMet())

		t.Run("get user", func(t *testing.T) {
			rows := sqlmock.NewRows([]string{"id", "email", "name", "phone"}).
				AddRow(createdUser.ID, email, name, nil)

			mock.ExpectQuery(regexp.QuoteMeta(selectOneQuery)).
				WithArgs(createdUser.ID).
				WillReturnRows(rows)

			u, err := a.GetUser(t.Context(), createdUser.ID)
			require.NoError(t, err)
			assert.Equal(t, createdUser, u)

			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("get user - no rows", func(t *testing.T) {
			mock.ExpectQuery(regexp.QuoteMeta(selectOneQuery)).
				WithArgs(int64(42)).
				WillReturnError(sql.ErrNoRows)

			_, err := a.GetUser(t.Context(), 42)
			require.ErrorIs(t, err, apperr.ErrNotFound)

			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()
	a, mock := setup(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WithArgs("a@x.com", "Someone Else", "+44 20 7946 0000").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := a.CreateUser(t.Context(), user.User{
		Email: "a@x.com",
		Name:  "Someone Else",
		Phone: ptr("+44 20 7946 0000"),
	})
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		user  user.User
		field string
	}{
		{"missing email", user.User{Name: "A"}, "email"},
		{"invalid email", user.User{Email: "nope", Name: "A"}, "email"},
		{"blank name", user.User{Email: "a@x.com", Name: "  "}, "name"},
		{"invalid phone", user.User{Email: "a@x.com", Name: "A", Phone: ptr("ring ring")}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, mock := setup(t)

			_, err := a.CreateUser(t.Context(), tt.user)
			require.ErrorIs(t, err, apperr.ErrValidation)

			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Contains(t, e.Details, tt.field)

			// nothing reaches the database
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUserStoreFailure(t *testing.T) {
	t.Parallel()
	a, mock := setup(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
		WillReturnError(errors.New("connection reset"))

	_, err := a.CreateUser(t.Context(), user.User{Email: "b@x.com", Name: "B"})
	require.Error(t, err)
	_, ok := apperr.As(err)
	assert.False(t, ok)
}

func TestGetUsers(t *testing.T) {
	t.Parallel()

	t.Run("storage order", func(t *testing.T) {
		t.Parallel()
		a, mock := setup(t)

		rows := sqlmock.NewRows([]string{"id", "email", "name", "phone"}).
			AddRow(1, "a@x.com", "A", nil).
			AddRow(2, "b@x.com", "B", "555-0100")
		mock.ExpectQuery(regexp.QuoteMeta(selectAllQuery)).WillReturnRows(rows)

		users, err := a.GetUsers(t.Context())
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int64(1), users[0].ID)
		assert.Nil(t, users[0].Phone)
		assert.Equal(t, int64(2), users[1].ID)
		require.NotNil(t, users[1].Phone)
		assert.Equal(t, "555-0100", *users[1].Phone)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		a, mock := setup(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectAllQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone"}))

		users, err := a.GetUsers(t.Context())
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}
