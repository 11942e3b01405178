package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/eion/userstore/internal/users"
)

func testURI() string {
	host := os.Getenv("MONGO_URL")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("MONGO_PORT")
	if port == "" {
		port = "27017"
	}
	return fmt.Sprintf("mongodb://%s:%s/", host, port)
}

// connectOrSkip skips the test when no MongoDB server is reachable
func connectOrSkip(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	client, err := Connect(ctx, Config{URI: testURI(), ConnectTimeout: 2 * time.Second}, zap.NewNop())
	if err != nil {
		t.Skipf("MongoDB not reachable, skipping integration test: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close(context.Background())
	})
	return client
}

func TestConnectFailureIsConnectionError(t *testing.T) {
	_, err := Connect(context.Background(), Config{
		URI:            "mongodb://127.0.0.1:1/",
		ConnectTimeout: 300 * time.Millisecond,
	}, zap.NewNop())

	require.Error(t, err)
	assert.True(t, users.IsConnectionFailure(err))
}

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestClientHealthChecker(t *testing.T) {
	client := connectOrSkip(t)

	assert.Equal(t, "mongodb", client.Name())
	assert.True(t, client.IsCritical())
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestCollectionIntegration(t *testing.T) {
	client := connectOrSkip(t)
	ctx := context.Background()

	name := "users_" + primitive.NewObjectID().Hex()
	coll := client.Collection("userstore_test", name)
	t.Cleanup(func() {
		_ = client.client.Database("userstore_test").Collection(name).Drop(context.Background())
	})

	assert.Equal(t, "userstore_test."+name, coll.Name())

	t.Run("collection operations", func(t *testing.T) {
		count, err := coll.CountByID(ctx, "u1")
		require.NoError(t, err)
		assert.Zero(t, count)

		insertedID, err := coll.InsertOne(ctx, bson.M{"id": "u1", "name": "Ann", "city": "Oslo"})
		require.NoError(t, err)
		assert.IsType(t, primitive.ObjectID{}, insertedID)

		count, err = coll.CountByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		doc, err := coll.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", doc["name"])

		res, err := coll.SetByID(ctx, "u1", bson.M{"id": "u1", "name": "Ann"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)

		res, err = coll.SetByID(ctx, "u1", bson.M{"name": "Anna"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)

		docs, err := coll.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Oslo", docs[0]["city"])

		deleted, err := coll.DeleteByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = coll.FindByID(ctx, "u1")
		assert.ErrorIs(t, err, users.ErrNoDocuments)
	})

	t.Run("store over mongodb", func(t *testing.T) {
		store := users.NewStore(coll, zap.NewNop())
		codes := users.LegacyStatusCodes

		rec, err := users.NewRecord(map[string]any{
			"id":      "u2",
			"name":    "Ann",
			"profile": map[string]any{"langs": []any{"go", "sql"}},
		})
		require.NoError(t, err)

		created := store.Create(ctx, rec)
		assert.Equal(t, 201, codes.Code(created.Outcome))
		assert.Equal(t, 409, codes.Code(store.Create(ctx, rec).Outcome))

		read := store.Read(ctx, "u2")
		require.Equal(t, users.OutcomeFound, read.Outcome)
		assert.Equal(t, created.Body, read.Body)

		assert.Equal(t, users.OutcomeNotModified, store.Update(ctx, rec).Outcome)

		change, err := users.NewRecord(map[string]any{"id": "u2", "name": "Bo"})
		require.NoError(t, err)
		assert.Equal(t, users.OutcomeUpdated, store.Update(ctx, change).Outcome)
		assert.Equal(t, "Bo", store.Read(ctx, "u2").Body["name"])

		body := store.Read(ctx, "u2").Body
		body["name"] = "Cy"
		data, err := json.Marshal(body)
		require.NoError(t, err)
		roundTrip, err := users.ParseRecord(data)
		require.NoError(t, err)
		assert.Equal(t, users.OutcomeUpdated, store.Update(ctx, roundTrip).Outcome)
		assert.Equal(t, created.Body["_id"], store.Read(ctx, "u2").Body["_id"])

		assert.Equal(t, 200, codes.Code(store.Delete(ctx, "u2").Outcome))
		assert.Equal(t, 400, codes.Code(store.Delete(ctx, "u2").Outcome))
	})
}
