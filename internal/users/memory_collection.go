package users

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is a Collection backed by an in-process slice. It is safe
// for concurrent use and is meant for tests and for running without MongoDB.
// Nothing is persisted beyond the lifetime of the process.
type MemoryCollection struct {
	name string
	mu   sync.RWMutex
	docs []bson.M
}

var _ Collection = (*MemoryCollection)(nil)

// NewMemoryCollection creates an empty collection with the given name.
func NewMemoryCollection(name string) *MemoryCollection {
	return &MemoryCollection{name: name}
}

func (c *MemoryCollection) Name() string {
	return c.name
}

func (c *MemoryCollection) CountByID(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.indexOf(id) >= 0 {
		return 1, nil
	}
	return 0, nil
}

func (c *MemoryCollection) InsertOne(ctx context.Context, doc bson.M) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := cloneDocument(doc)
	oid, ok := stored["_id"]
	if !ok {
		oid = primitive.NewObjectID()
		stored["_id"] = oid
	}
	c.docs = append(c.docs, stored)
	return oid, nil
}

func (c *MemoryCollection) FindByID(ctx context.Context, id string) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, ErrNoDocuments
	}
	return cloneDocument(c.docs[i]), nil
}

func (c *MemoryCollection) SetByID(ctx context.Context, id string, fields bson.M) (*UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return &UpdateResult{}, nil
	}

	doc := c.docs[i]
	if v, ok := fields[ObjectIDField]; ok && !reflect.DeepEqual(doc[ObjectIDField], v) {
		return nil, ErrImmutableObjectID
	}

	modified := false
	for k, v := range fields {
		if existing, ok := doc[k]; ok && reflect.DeepEqual(existing, v) {
			continue
		}
		doc[k] = cloneValue(v)
		modified = true
	}

	res := &UpdateResult{MatchedCount: 1}
	if modified {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (c *MemoryCollection) DeleteByID(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return 1, nil
}

func (c *MemoryCollection) FindAll(ctx context.Context) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]bson.M, len(c.docs))
	for i, doc := range c.docs {
		out[i] = cloneDocument(doc)
	}
	return out, nil
}

// indexOf must be called with mu held.
func (c *MemoryCollection) indexOf(id string) int {
	for i, doc := range c.docs {
		if v, ok := doc[IDField].(string); ok && v == id {
			return i
		}
	}
	return -1
}

func cloneDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return cloneDocument(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case bson.A:
		out := make(bson.A, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
