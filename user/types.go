package user

import (
	"strings"

	"schedulink/validation"
)

type User struct {
	ID    int64   `json:"id"`
	Email string  `json:"email" validate:"required,email,max=254"`
	Name  string  `json:"name" validate:"notblank,max=200"`
	Phone *string `json:"phone" validate:"omitempty,phone,max=32"`
}

func (u *User) Validate() error {
	return validation.Struct(u)
}

// normalize trims surrounding whitespace and treats a blank phone as absent.
func (u *User) normalize() {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Phone != nil {
		phone := strings.TrimSpace(*u.Phone)
		if phone == "" {
			u.Phone = nil
		} else {
			u.Phone = &phone
		}
	}
}
