package model

import "database/sql"

type User struct {
	ID              int            `json:"id"`
	Email           string         `json:"email"`
	FullName        sql.NullString `json:"-"`
	HashedPassword  sql.NullString `json:"-"` // empty for Google-only accounts
	IsGoogleAccount bool           `json:"is_google_account"`
}

// UserPublic is the user shape exposed over the API.
type UserPublic struct {
	ID              int    `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name,omitempty"`
	IsGoogleAccount bool   `json:"is_google_account"`
}

func (u *User) Public() UserPublic {
	return UserPublic{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName.String,
		IsGoogleAccount: u.IsGoogleAccount,
	}
}
