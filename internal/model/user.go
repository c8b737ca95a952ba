package model

import "time"

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublicUser is the user as returned to clients. The digest never leaves the server.
type PublicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Public strips the password digest. The creation time is only included
// when withCreated is set, matching the register response.
func (u *User) Public(withCreated bool) PublicUser {
	p := PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
	if withCreated {
		created := u.CreatedAt
		p.CreatedAt = &created
	}
	return p
}
