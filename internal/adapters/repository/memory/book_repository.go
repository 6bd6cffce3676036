package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type bookRepository struct {
	store *Store
}

func NewBookRepository(store *Store) ports.BookRepository {
	return &bookRepository{store: store}
}

func (r *bookRepository) Save(_ context.Context, book *domain.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	book.ID = newID()
	stored := *book
	stored.Owner = nil
	r.store.books[book.ID] = stored
	r.store.order = append(r.store.order, book.ID)
	return nil
}

func (r *bookRepository) Update(_ context.Context, book *domain.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.books[book.ID]
	if !ok {
		return domain.ErrBookNotFound
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.Genre = book.Genre
	existing.Location = book.Location
	existing.CoverImage = book.CoverImage
	existing.OwnerID = book.OwnerID
	existing.UpdatedAt = book.UpdatedAt
	r.store.books[book.ID] = existing
	return nil
}

func (r *bookRepository) UpdateStatus(_ context.Context, id string, status domain.BookStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.books[id]
	if !ok {
		return domain.ErrBookNotFound
	}
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()
	r.store.books[id] = existing
	return nil
}

func (r *bookRepository) GetByID(_ context.Context, id string) (*domain.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	book, ok := r.store.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return r.withOwner(book), nil
}

func (r *bookRepository) List(_ context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := r.matching(filter)
	if offset >= len(matched) {
		return []*domain.Book{}, nil
	}
	end := min(offset+limit, len(matched))

	books := make([]*domain.Book, 0, end-offset)
	for _, b := range matched[offset:end] {
		books = append(books, r.withOwner(b))
	}
	return books, nil
}

func (r *bookRepository) Count(_ context.Context, filter domain.BookFilter) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.matching(filter))), nil
}

// matching returns filtered books newest first. Callers hold the read lock.
func (r *bookRepository) matching(filter domain.BookFilter) []domain.Book {
	var out []domain.Book
	for i := len(r.store.order) - 1; i >= 0; i-- {
		b := r.store.books[r.store.order[i]]
		if containsFold(b.Title, filter.Title) &&
			containsFold(b.Location.City, filter.City) &&
			containsFold(b.Location.State, filter.State) {
			out = append(out, b)
		}
	}
	return out
}

func (r *bookRepository) withOwner(b domain.Book) *domain.Book {
	if u, ok := r.store.users[b.OwnerID]; ok {
		b.Owner = &domain.BookOwner{ID: u.ID, Email: u.Email, MobileNumber: u.MobileNumber}
	}
	return &b
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
