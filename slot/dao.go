package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schedulink/apperr"
	"schedulink/database"
)

const userConstraint = "slots_user_id_fkey"

// CreateSlot inserts a slot, optionally already assigned to a user. Start and
// end are stored as given; their ordering and overlap are not checked.
func (a *Accessor) CreateSlot(ctx context.Context, slot Slot) (Slot, error) {
	if err := slot.Validate(); err != nil {
		return Slot{}, err
	}
	slot = slot.normalize()

	if slot.UserID != nil {
		if err := a.requireUser(ctx, *slot.UserID); err != nil {
			return Slot{}, err
		}
	}

	query := `INSERT INTO slots (start_time, end_time, user_id) VALUES ($1, $2, $3) RETURNING id`
	row := a.db.QueryRowContext(ctx, query, slot.StartTime, slot.EndTime, slot.UserID)
	if err := row.Scan(&slot.ID); err != nil {
		if database.IsForeignKeyViolation(err, userConstraint) {
			return Slot{}, unknownUser(*slot.UserID)
		}
		return Slot{}, fmt.Errorf("insert slot: %w", err)
	}

	return slot, nil
}

func (a *Accessor) GetSlots(ctx context.Context) ([]Slot, error) {
	slots := []Slot{}

	query := `SELECT id, start_time, end_time, user_id FROM slots ORDER BY id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot Slot
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.UserID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		slots = append(slots, slot.normalize())
	}

	return slots, rows.Err()
}

// GetUserSlots lists the slots booked by userID, oldest first. An unknown
// user simply has no slots.
func (a *Accessor) GetUserSlots(ctx context.Context, userID int64) ([]Slot, error) {
	slots := []Slot{}

	query := `SELECT id, start_time, end_time, user_id FROM slots WHERE user_id = $1 ORDER BY id`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot Slot
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.UserID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		slots = append(slots, slot.normalize())
	}

	return slots, rows.Err()
}

func (a *Accessor) GetSlot(ctx context.Context, id int64) (Slot, error) {
	var slot Slot

	query := `SELECT id, start_time, end_time, user_id FROM slots WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, apperr.NotFoundf("slot %d not found", id)
		}
		return Slot{}, fmt.Errorf("scan: %w", err)
	}

	return slot.normalize(), nil
}

// BookSlot assigns an unbooked slot to userID. The assignment is a single
// conditional update, so of several concurrent bookings for one slot exactly
// one succeeds. User existence is left to the foreign key so that an unknown
// slot id is reported as not found whatever user is given.
func (a *Accessor) BookSlot(ctx context.Context, slotID, userID int64) (Slot, error) {
	if userID <= 0 {
		return Slot{}, apperr.Validation("invalid user_id", map[string]string{"user_id": "must be greater than 0"})
	}

	var slot Slot

	query := `UPDATE slots SET user_id = $1 WHERE id = $2 AND user_id IS NULL RETURNING id, start_time, end_time, user_id`
	row := a.db.QueryRowContext(ctx, query, userID, slotID)
	err := row.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.UserID)
	switch {
	case err == nil:
		return slot.normalize(), nil
	case errors.Is(err, sql.ErrNoRows):
	case database.IsForeignKeyViolation(err, userConstraint):
		return Slot{}, unknownUser(userID)
	default:
		return Slot{}, fmt.Errorf("book slot: %w", err)
	}

	// nothing updated: either the slot is missing or it is already taken
	exists, err := a.slotExists(ctx, slotID)
	if err != nil {
		return Slot{}, err
	}
	if !exists {
		return Slot{}, apperr.NotFoundf("slot %d not found", slotID)
	}
	return Slot{}, apperr.AlreadyBookedf("slot %d is already booked", slotID)
}

func (a *Accessor) slotExists(ctx context.Context, id int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM slots WHERE id = $1)`
	if err := a.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}

	return exists, nil
}

func (a *Accessor) requireUser(ctx context.Context, id int64) error {
	if _, err := a.userAccessor.GetUser(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return unknownUser(id)
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}

func unknownUser(id int64) error {
	err := apperr.Validationf("user %d does not exist", id)
	err.Details = map[string]string{"user_id": "does not exist"}
	return err
}
