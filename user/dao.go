package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schedulink/apperr"
	"schedulink/database"
)

const emailConstraint = "users_email_key"

// CreateUser inserts a new user. The unique constraint on email decides
// conflicts, so concurrent registrations of one address cannot both succeed.
func (a *Accessor) CreateUser(ctx context.Context, user User) (User, error) {
	user.normalize()
	if err := user.Validate(); err != nil {
		return User{}, err
	}

	query := `INSERT INTO users (email, name, phone) VALUES ($1, $2, $3) RETURNING id`
	row := a.db.QueryRowContext(ctx, query, user.Email, user.Name, user.Phone)
	if err := row.Scan(&user.ID); err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return User{}, apperr.Conflict(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (a *Accessor) GetUsers(ctx context.Context) ([]User, error) {
	users := []User{}

	query := `SELECT id, email, name, phone FROM users ORDER BY id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Phone); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (a *Accessor) GetUser(ctx context.Context, id int64) (User, error) {
	var user User

	query := `SELECT id, email, name, phone FROM users WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFoundf("user %d not found", id)
		}
		return User{}, fmt.Errorf("scan: %w", err)
	}

	return user, nil
}
