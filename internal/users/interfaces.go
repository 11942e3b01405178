package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// Collection is the slice of a document collection the store needs. Every
// lookup is by the caller-supplied id field.
type Collection interface {
	// Name returns the collection name used in logs and errors.
	Name() string
	// CountByID counts documents with the given id, stopping at one.
	CountByID(ctx context.Context, id string) (int64, error)
	// InsertOne stores doc and returns the database-generated _id.
	InsertOne(ctx context.Context, doc bson.M) (any, error)
	// FindByID returns the first document with the given id or ErrNoDocuments.
	FindByID(ctx context.Context, id string) (bson.M, error)
	// SetByID overwrites only the given fields of the first document with the id.
	SetByID(ctx context.Context, id string, fields bson.M) (*UpdateResult, error)
	// DeleteByID removes the first document with the id and returns the count removed.
	DeleteByID(ctx context.Context, id string) (int64, error)
	// FindAll returns every document in natural order.
	FindAll(ctx context.Context) ([]bson.M, error)
}

// UserStore defines the interface for user storage operations. Results are
// always returned as data; callers branch on Result.Outcome.
type UserStore interface {
	Create(ctx context.Context, rec *Record) Result
	Read(ctx context.Context, id string) Result
	Update(ctx context.Context, rec *Record) Result
	Delete(ctx context.Context, id string) Result
	ListAll(ctx context.Context) Result
}
