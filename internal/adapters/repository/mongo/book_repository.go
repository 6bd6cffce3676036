package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type locationDocument struct {
	City  string `bson:"city"`
	State string `bson:"state"`
}

type ownerDocument struct {
	ID           bson.ObjectID `bson:"_id"`
	Email        string        `bson:"email"`
	MobileNumber string        `bson:"mobileNumber"`
}

type bookDocument struct {
	ID         bson.ObjectID    `bson:"_id,omitempty"`
	Title      string           `bson:"title"`
	Author     string           `bson:"author"`
	Genre      string           `bson:"genre,omitempty"`
	Location   locationDocument `bson:"location"`
	Owner      bson.ObjectID    `bson:"owner"`
	Status     string           `bson:"status"`
	CoverImage string           `bson:"coverImage,omitempty"`
	CreatedAt  time.Time        `bson:"createdAt"`
	UpdatedAt  time.Time        `bson:"updatedAt"`

	// OwnerDocs is filled by the $lookup stage on reads only.
	OwnerDocs []ownerDocument `bson:"ownerDocs,omitempty"`
}

func (d *bookDocument) toDomain() *domain.Book {
	book := &domain.Book{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Author:     d.Author,
		Genre:      d.Genre,
		Location:   domain.Location{City: d.Location.City, State: d.Location.State},
		OwnerID:    d.Owner.Hex(),
		Status:     domain.BookStatus(d.Status),
		CoverImage: d.CoverImage,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if len(d.OwnerDocs) > 0 {
		o := d.OwnerDocs[0]
		book.Owner = &domain.BookOwner{ID: o.ID.Hex(), Email: o.Email, MobileNumber: o.MobileNumber}
	}
	return book
}

type bookRepository struct {
	coll *mongo.Collection
}

func NewBookRepository(db *mongo.Database) ports.BookRepository {
	return &bookRepository{coll: db.Collection(booksCollection)}
}

func (r *bookRepository) Save(ctx context.Context, book *domain.Book) error {
	ownerID, err := bson.ObjectIDFromHex(book.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", book.OwnerID, err)
	}

	doc := bookDocument{
		ID:         bson.NewObjectID(),
		Title:      book.Title,
		Author:     book.Author,
		Genre:      book.Genre,
		Location:   locationDocument{City: book.Location.City, State: book.Location.State},
		Owner:      ownerID,
		Status:     string(book.Status),
		CoverImage: book.CoverImage,
		CreatedAt:  book.CreatedAt,
		UpdatedAt:  book.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	book.ID = doc.ID.Hex()
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	oid, err := bson.ObjectIDFromHex(book.ID)
	if err != nil {
		return domain.ErrBookNotFound
	}
	ownerID, err := bson.ObjectIDFromHex(book.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", book.OwnerID, err)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: book.Title},
		{Key: "author", Value: book.Author},
		{Key: "genre", Value: book.Genre},
		{Key: "location", Value: locationDocument{City: book.Location.City, State: book.Location.State}},
		{Key: "owner", Value: ownerID},
		{Key: "coverImage", Value: book.CoverImage},
		{Key: "updatedAt", Value: book.UpdatedAt},
	}}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) UpdateStatus(ctx context.Context, id string, status domain.BookStatus) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		{{Key: "$limit", Value: 1}},
		ownerLookupStage(),
	}

	books, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, domain.ErrBookNotFound
	}
	return books[0], nil
}

func (r *bookRepository) List(ctx context.Context, filter domain.BookFilter, limit, offset int) ([]*domain.Book, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filterDocument(filter)}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		ownerLookupStage(),
	}
	return r.aggregate(ctx, pipeline)
}

func (r *bookRepository) Count(ctx context.Context, filter domain.BookFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

func (r *bookRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Book, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	books := make([]*domain.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toDomain())
	}
	return books, nil
}

// ownerLookupStage joins the owner projection (email, mobile number) at
// read time. A missing owner yields an empty array.
func ownerLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: "owner"},
		{Key: "foreignField", Value: "_id"},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$project", Value: bson.D{{Key: "email", Value: 1}, {Key: "mobileNumber", Value: 1}}}},
		}},
		{Key: "as", Value: "ownerDocs"},
	}}}
}

// filterDocument matches each non-empty filter as a literal,
// case-insensitive substring.
func filterDocument(filter domain.BookFilter) bson.D {
	doc := bson.D{}
	add := func(field, value string) {
		if value == "" {
			return
		}
		doc = append(doc, bson.E{Key: field, Value: bson.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}})
	}
	add("title", filter.Title)
	add("location.city", filter.City)
	add("location.state", filter.State)
	return doc
}
