package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eion/userstore/internal/users"
)

// Collection implements users.Collection over a *mongo.Collection.
type Collection struct {
	coll *mongo.Collection
}

var _ users.Collection = (*Collection)(nil)

// NewCollection wraps coll.
func NewCollection(coll *mongo.Collection) *Collection {
	return &Collection{coll: coll}
}

func (c *Collection) Name() string {
	return c.coll.Database().Name() + "." + c.coll.Name()
}

func byID(id string) bson.M {
	return bson.M{users.IDField: id}
}

func (c *Collection) CountByID(ctx context.Context, id string) (int64, error) {
	return c.coll.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
}

func (c *Collection) InsertOne(ctx context.Context, doc bson.M) (any, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, users.ErrNoDocuments
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection) SetByID(ctx context.Context, id string, fields bson.M) (*users.UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, byID(id), bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}
	return &users.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *Collection) FindAll(ctx context.Context) ([]bson.M, error) {
	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
