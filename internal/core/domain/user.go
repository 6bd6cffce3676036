package domain

import (
	"time"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleSeeker Role = "seeker"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleSeeker
}

type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	MobileNumber string    `json:"mobileNumber"`
	Role         Role      `json:"role"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy without credential material.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	return &c
}

func (u *User) IsOwner() bool {
	return u != nil && u.Role == RoleOwner
}
