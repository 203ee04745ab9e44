package slot

import (
	"context"
	"database/sql"

	"schedulink/user"
)

type UserAccessor interface {
	GetUser(ctx context.Context, id int64) (user.User, error)
}

// Accessor is the DB layer entrypoint for slot-related queries.
type Accessor struct {
	db           *sql.DB
	userAccessor UserAccessor
}

func NewAccessor(db *sql.DB, userAccessor UserAccessor) *Accessor {
	return &Accessor{
		db:           db,
		userAccessor: userAccessor,
	}
}
