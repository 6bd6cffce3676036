// Package memory keeps users and books in process memory. It backs unit
// tests and the "memory" store driver for local development.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	books map[string]domain.Book
	// order preserves insertion order of books for stable listings.
	order []string
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		books: make(map[string]domain.Book),
	}
}

func newID() string {
	return uuid.NewString()
}
