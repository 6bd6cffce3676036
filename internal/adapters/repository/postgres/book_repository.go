package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

const bookSelect = `
	SELECT b.id, b.title, b.author, b.genre, b.city, b.state, b.owner_id, b.status,
	       b.cover_image, b.created_at, b.updated_at,
	       u.id, u.email, u.mobile_number
	FROM books b
	LEFT JOIN users u ON u.id = b.owner_id
`

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) ports.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Save(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (title, author, genre, city, state, owner_id, status, cover_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Genre, book.Location.City, book.Location.State,
		book.OwnerID, string(book.Status), book.CoverImage, book.CreatedAt, book.UpdatedAt,
	).Scan(&book.ID)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	if _, err := uuid.Parse(book.ID); err != nil {
		return domain.ErrBookNotFound
	}

	query := `
		UPDATE books
		SET title = $2, author = $3, genre = $4, city = $5, state = $6,
		    owner_id = $7, cover_image = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Genre, book.Location.City, book.Location.State,
		book.OwnerID, book.CoverImage, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return requireAffected(res)
}

func (r *bookRepository) UpdateStatus(ctx context.Context, id string, status domain.BookStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrBookNotFound
	}

	query := `UPDATE books SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}
	return requireAffected(res)
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrBookNotFound
	}

	book, err := scanBook(r.db.QueryRowContext(ctx, bookSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (r *bookRepository) List(ctx context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, error) {
	where, args := filterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s %s ORDER BY b.created_at DESC, b.id DESC LIMIT $%d OFFSET $%d`,
		bookSelect, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

func (r *bookRepository) Count(ctx context.Context, filter domain.BookFilter) (int64, error) {
	where, args := filterClause(filter)
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books b `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*domain.Book, error) {
	var (
		book                          domain.Book
		status                        string
		ownerID, ownerEmail, ownerTel sql.NullString
	)
	err := s.Scan(
		&book.ID, &book.Title, &book.Author, &book.Genre, &book.Location.City, &book.Location.State,
		&book.OwnerID, &status, &book.CoverImage, &book.CreatedAt, &book.UpdatedAt,
		&ownerID, &ownerEmail, &ownerTel,
	)
	if err != nil {
		return nil, err
	}
	book.Status = domain.BookStatus(status)
	if ownerID.Valid {
		book.Owner = &domain.BookOwner{ID: ownerID.String, Email: ownerEmail.String, MobileNumber: ownerTel.String}
	}
	return &book, nil
}

// filterClause builds a WHERE clause matching each non-empty filter as a
// literal, case-insensitive substring.
func filterClause(filter domain.BookFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf(`b.%s ILIKE $%d ESCAPE '\'`, column, len(args)))
	}
	add("title", filter.Title)
	add("city", filter.City)
	add("state", filter.State)

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}
