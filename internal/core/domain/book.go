package domain

import (
	"time"
)

type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusRequested BookStatus = "requested"
	StatusExchanged BookStatus = "exchanged"
)

// BookStatuses lists every accepted status. Any status may move to any
// other one.
var BookStatuses = []BookStatus{StatusAvailable, StatusRequested, StatusExchanged}

func (s BookStatus) Valid() bool {
	for _, v := range BookStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// BookOwner is the projection of the owning user exposed with a book.
type BookOwner struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

type Book struct {
	ID         string     `json:"_id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Genre      string     `json:"genre,omitempty"`
	Location   Location   `json:"location"`
	OwnerID    string     `json:"-"`
	Owner      *BookOwner `json:"owner"`
	Status     BookStatus `json:"status"`
	CoverImage string     `json:"coverImage,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// BookFilter holds the optional case-insensitive substring filters of a
// catalog listing. Empty fields do not filter.
type BookFilter struct {
	Title string
	City  string
	State string
}

type BookPage struct {
	Books      []*Book `json:"books"`
	TotalBooks int64   `json:"totalBooks"`
}
