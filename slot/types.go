package slot

import (
	"encoding/json"
	"time"

	"schedulink/validation"
)

// Slot is a bookable time interval. A slot is booked exactly when UserID is
// set; there is no separate stored flag.
type Slot struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	UserID    *int64    `json:"user_id" validate:"omitempty,gt=0"`
}

func (s *Slot) Validate() error {
	return validation.Struct(s)
}

func (s Slot) IsBooked() bool {
	return s.UserID != nil
}

// MarshalJSON adds the derived is_booked field.
func (s Slot) MarshalJSON() ([]byte, error) {
	type plain Slot
	return json.Marshal(struct {
		plain
		IsBooked bool `json:"is_booked"`
	}{plain(s), s.IsBooked()})
}

// normalize converts both ends to UTC at microsecond precision, the
// resolution TIMESTAMPTZ stores, so a created slot reads back unchanged.
func (s Slot) normalize() Slot {
	s.StartTime = s.StartTime.UTC().Round(time.Microsecond)
	s.EndTime = s.EndTime.UTC().Round(time.Microsecond)
	return s
}
