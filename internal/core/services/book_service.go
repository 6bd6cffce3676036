package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type bookService struct {
	repo     ports.BookRepository
	uploader ports.ImageUploader
}

// NewBookService builds the catalog service. uploader may be nil when no
// image host is configured; requests carrying a cover then fail with an
// upload error.
func NewBookService(repo ports.BookRepository, uploader ports.ImageUploader) ports.BookService {
	return &bookService{
		repo:     repo,
		uploader: uploader,
	}
}

func (s *bookService) ListBook(ctx context.Context, owner *domain.User, input ports.CreateBookInput) (*domain.Book, error) {
	if owner == nil {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	genre := strings.TrimSpace(input.Genre)
	city := strings.TrimSpace(input.City)
	state := strings.TrimSpace(input.State)

	for _, field := range []string{title, author, genre, city, state} {
		if field == "" {
			return nil, domain.ErrFieldsRequired
		}
	}

	coverURL, err := s.uploadCover(ctx, input.Cover)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &domain.Book{
		Title:      title,
		Author:     author,
		Genre:      genre,
		Location:   domain.Location{City: city, State: state},
		OwnerID:    owner.ID,
		Status:     domain.StatusAvailable,
		CoverImage: coverURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}

	return s.repo.GetByID(ctx, book.ID)
}

func (s *bookService) UpdateBook(ctx context.Context, caller *domain.User, id string, input ports.UpdateBookInput) (*domain.Book, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	overrideString(&book.Title, input.Title)
	overrideString(&book.Author, input.Author)
	overrideString(&book.Genre, input.Genre)

	city, state := trimmed(input.City), trimmed(input.State)
	if city != "" || state != "" {
		if city == "" || state == "" {
			return nil, domain.Validation("location requires both city and state")
		}
		book.Location = domain.Location{City: city, State: state}
	}

	if input.Cover != nil {
		coverURL, err := s.uploadCover(ctx, input.Cover)
		if err != nil {
			return nil, err
		}
		book.CoverImage = coverURL
	}

	// The caller becomes the owner regardless of who listed the book.
	book.OwnerID = caller.ID
	book.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, book.ID)
}

func (s *bookService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Book, error) {
	bookStatus := domain.BookStatus(strings.TrimSpace(status))
	if !bookStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, bookStatus); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context, input ports.ListBooksInput) (*domain.BookPage, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = ports.DefaultPage
	}
	if limit < 1 {
		limit = ports.DefaultLimit
	}
	if limit > ports.MaxPageLimit {
		limit = ports.MaxPageLimit
	}

	filter := domain.BookFilter{
		Title: strings.TrimSpace(input.Title),
		City:  strings.TrimSpace(input.City),
		State: strings.TrimSpace(input.State),
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	// Pages past the addressable offset are necessarily empty.
	if page-1 > math.MaxInt/limit {
		return &domain.BookPage{Books: []*domain.Book{}, TotalBooks: total}, nil
	}

	books, err := s.repo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}

	return &domain.BookPage{Books: books, TotalBooks: total}, nil
}

func (s *bookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Validation("Id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) uploadCover(ctx context.Context, cover *ports.CoverImage) (string, error) {
	if cover == nil || len(cover.Data) == 0 {
		return "", nil
	}
	if s.uploader == nil {
		return "", domain.Upload("Image uploads are not configured")
	}

	url, err := s.uploader.Upload(ctx, *cover, ports.CoverImageFolder)
	if err != nil {
		return "", domain.Upload("Something went wrong while uploading the cover image").WithCause(err)
	}
	if url == "" {
		return "", domain.Upload("Something went wrong while uploading the cover image")
	}
	return url, nil
}

func overrideString(dst *string, value *string) {
	if v := trimmed(value); v != "" {
		*dst = v
	}
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
