package users

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Store implements UserStore over a single collection. It keeps at most one
// record per id by checking before it writes; the check and the write are
// separate round trips.
type Store struct {
	coll   Collection
	logger *zap.Logger
}

// NewStore creates a new user store bound to coll
func NewStore(coll Collection, logger *zap.Logger) *Store {
	return &Store{
		coll:   coll,
		logger: logger.With(zap.String("collection", coll.Name())),
	}
}

// Create inserts rec unless a record with the same id already exists.
func (s *Store) Create(ctx context.Context, rec *Record) Result {
	if rec == nil || rec.ID == "" {
		return invalid()
	}

	count, err := s.coll.CountByID(ctx, rec.ID)
	if err != nil {
		return s.failed("create", rec.ID, err)
	}
	if count != 0 {
		return Result{Outcome: OutcomeConflict, Body: errorBody(ErrorExistingID)}
	}

	doc := rec.Document()
	insertedID, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return s.failed("create", rec.ID, err)
	}
	if insertedID != nil {
		doc["_id"] = insertedID
	}

	s.logger.Debug("User created", zap.String("user_id", rec.ID))
	return Result{Outcome: OutcomeCreated, Body: EncodeDocument(doc)}
}

// Read returns the record with the given id.
func (s *Store) Read(ctx context.Context, id string) Result {
	if id == "" {
		return Result{Outcome: OutcomeNotFound, Body: errorBody(ErrorNoDocuments)}
	}

	doc, err := s.coll.FindByID(ctx, id)
	if errors.Is(err, ErrNoDocuments) {
		return Result{Outcome: OutcomeNotFound, Body: errorBody(ErrorNoDocuments)}
	}
	if err != nil {
		return s.failed("read", id, err)
	}

	return Result{Outcome: OutcomeFound, Body: EncodeDocument(doc)}
}

// Update merges the fields of rec into the existing record with the same id.
func (s *Store) Update(ctx context.Context, rec *Record) Result {
	if rec == nil || rec.ID == "" {
		return invalid()
	}

	count, err := s.coll.CountByID(ctx, rec.ID)
	if err != nil {
		return s.failed("update", rec.ID, err)
	}
	if count == 0 {
		return Result{Outcome: OutcomeUpdateNotFound, Body: errorBody(ErrorUserNotFound)}
	}

	s.logger.Debug("Found a user with this id", zap.String("user_id", rec.ID))

	res, err := s.coll.SetByID(ctx, rec.ID, rec.Document())
	if err != nil {
		return s.failed("update", rec.ID, err)
	}
	// deleted between the check and the write
	if res.MatchedCount == 0 {
		return Result{Outcome: OutcomeUpdateNotFound, Body: errorBody(ErrorUserNotFound)}
	}
	if res.ModifiedCount == 0 {
		return Result{Outcome: OutcomeNotModified, Body: errorBody(ErrorNotModified)}
	}

	return Result{Outcome: OutcomeUpdated, Body: messageBody(MessageSuccess)}
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) Result {
	if id == "" {
		return Result{Outcome: OutcomeDeleteNotFound, Body: errorBody(ErrorUserNotFound)}
	}

	deleted, err := s.coll.DeleteByID(ctx, id)
	if err != nil {
		return s.failed("delete", id, err)
	}
	if deleted == 0 {
		return Result{Outcome: OutcomeDeleteNotFound, Body: errorBody(ErrorUserNotFound)}
	}

	s.logger.Debug("User deleted", zap.String("user_id", id))
	return Result{Outcome: OutcomeDeleted, Body: messageBody(MessageSuccess)}
}

// ListAll returns every record in the collection under the "logs" key
// existing clients read. The result is unbounded.
func (s *Store) ListAll(ctx context.Context) Result {
	docs, err := s.coll.FindAll(ctx)
	if err != nil {
		return s.failed("list", "", err)
	}

	out := make([]any, len(docs))
	for i, doc := range docs {
		out[i] = EncodeDocument(doc)
	}

	return Result{
		Outcome: OutcomeListed,
		Body:    map[string]any{"logs": out},
	}
}

func (s *Store) failed(operation, id string, cause error) Result {
	err := NewStorageQueryError(operation, s.coll.Name(), cause)
	s.logger.Error("User storage operation failed",
		zap.String("operation", operation),
		zap.String("user_id", id),
		zap.Error(cause))
	return Result{
		Outcome: OutcomeFailed,
		Body:    errorBody("failed to " + operation + " user"),
		Err:     err,
	}
}

func invalid() Result {
	err := NewValidationError(IDField, nil, "id is required")
	return Result{
		Outcome: OutcomeInvalid,
		Body:    errorBody(err.Error()),
		Err:     err,
	}
}
