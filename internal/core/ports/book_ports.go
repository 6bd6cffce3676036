package ports

import (
	"context"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPageLimit = 100

	CoverImageFolder = "book_exchange/coverImage"
)

type BookRepository interface {
	Save(ctx context.Context, book *domain.Book) error
	// Update replaces the mutable fields of an existing book. It returns
	// domain.ErrNotFound when no book has the given id.
	Update(ctx context.Context, book *domain.Book) error
	UpdateStatus(ctx context.Context, id string, status domain.BookStatus) error
	// GetByID returns the book joined with its owner projection, or
	// domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, error)
	Count(ctx context.Context, filter domain.BookFilter) (int64, error)
}

// CoverImage is a cover uploaded with a create or update request.
type CoverImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

type CreateBookInput struct {
	Title  string
	Author string
	Genre  string
	City   string
	State  string
	Cover  *CoverImage
}

// UpdateBookInput carries optional replacements; nil keeps the stored value.
type UpdateBookInput struct {
	Title  *string
	Author *string
	Genre  *string
	City   *string
	State  *string
	Cover  *CoverImage
}

type ListBooksInput struct {
	Page  int
	Limit int
	Title string
	City  string
	State string
}

type BookService interface {
	ListBook(ctx context.Context, owner *domain.User, input CreateBookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, caller *domain.User, id string, input UpdateBookInput) (*domain.Book, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Book, error)
	ListBooks(ctx context.Context, input ListBooksInput) (*domain.BookPage, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}
