package types

import "time"

type User struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	FullName  Option[string] `db:"full_name"`
	IsAdmin   bool           `db:"is_admin"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	if name, ok := u.FullName.Get(); ok && name != "" {
		return name
	}
	return u.Email
}

// Principal is the authenticated identity performing an operation.
type Principal struct {
	UserID   string
	Email    string
	FullName string
	IsAdmin  bool
}

func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName.OrZero(),
		IsAdmin:  u.IsAdmin,
	}
}
