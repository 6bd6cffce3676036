package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

func saveBook(t *testing.T, repo *bookRepository, ownerID, title, city string) *domain.Book {
	t.Helper()
	now := time.Now().UTC()
	book := &domain.Book{
		Title:     title,
		Author:    "Author",
		Location:  domain.Location{City: city, State: "MH"},
		OwnerID:   ownerID,
		Status:    domain.StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Save(context.Background(), book))
	return book
}

func TestBookRepository_ListNewestFirstWithOwner(t *testing.T) {
	store := NewStore()
	users := &userRepository{store: store}
	repo := &bookRepository{store: store}
	ctx := context.Background()

	owner := &domain.User{Email: "owner@example.com", MobileNumber: "555", Role: domain.RoleOwner}
	require.NoError(t, users.Create(ctx, owner))

	saveBook(t, repo, owner.ID, "Dune", "Pune")
	saveBook(t, repo, owner.ID, "Dune Messiah", "Mumbai")
	saveBook(t, repo, owner.ID, "Emma", "Pune")

	books, err := repo.List(ctx, domain.BookFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Emma", books[0].Title)
	require.NotNil(t, books[0].Owner)
	assert.Equal(t, "owner@example.com", books[0].Owner.Email)

	filtered, err := repo.List(ctx, domain.BookFilter{Title: "dune", City: "PUNE"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Dune", filtered[0].Title)

	n, err := repo.Count(ctx, domain.BookFilter{Title: "dune"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	page, err := repo.List(ctx, domain.BookFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Dune", page[0].Title)

	empty, err := repo.List(ctx, domain.BookFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBookRepository_DanglingOwner(t *testing.T) {
	store := NewStore()
	users := &userRepository{store: store}
	repo := &bookRepository{store: store}
	ctx := context.Background()

	owner := &domain.User{Email: "gone@example.com", Role: domain.RoleOwner}
	require.NoError(t, users.Create(ctx, owner))
	book := saveBook(t, repo, owner.ID, "Orphan", "Pune")

	store.DeleteUser(owner.ID)

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Owner)
}

func TestBookRepository_MissingBook(t *testing.T) {
	repo := &bookRepository{store: NewStore()}
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", domain.StatusRequested), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Book{ID: "nope"}), domain.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users := &userRepository{store: NewStore()}
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &domain.User{Email: "a@example.com"}))
	err := users.Create(ctx, &domain.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
