package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEncodeIDs(t *testing.T) {
	oid := primitive.NewObjectID()
	ref := primitive.NewObjectID()
	when := primitive.NewDateTimeFromTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	doc := bson.M{
		"_id":   oid,
		"id":    "u1",
		"count": int32(3),
		"when":  when,
		"owner": &ref,
		"profile": bson.M{
			"manager": ref,
			"history": bson.A{ref, "plain", bson.D{{Key: "by", Value: oid}}},
		},
		"friends": []any{map[string]any{"_id": ref}},
	}

	got := EncodeDocument(doc)

	assert.Equal(t, map[string]any{
		"_id":   oid.Hex(),
		"id":    "u1",
		"count": int32(3),
		"when":  when,
		"owner": ref.Hex(),
		"profile": map[string]any{
			"manager": ref.Hex(),
			"history": []any{ref.Hex(), "plain", map[string]any{"by": oid.Hex()}},
		},
		"friends": []any{map[string]any{"_id": ref.Hex()}},
	}, got)
}

func TestEncodeIDsIsIdempotent(t *testing.T) {
	doc := bson.M{
		"_id":  primitive.NewObjectID(),
		"tags": bson.A{primitive.NewObjectID(), 1},
		"sub":  bson.D{{Key: "x", Value: primitive.NewObjectID()}},
	}

	once := EncodeDocument(doc)
	twice := EncodeDocument(once)
	assert.Equal(t, once, twice)
}

func TestEncodeIDsLeavesScalarsAlone(t *testing.T) {
	for _, v := range []any{nil, "s", 1, 2.5, true, int64(9)} {
		assert.Equal(t, v, EncodeIDs(v))
	}

	var nilOID *primitive.ObjectID
	assert.Nil(t, EncodeIDs(nilOID))
	assert.Nil(t, EncodeDocument(nil))
}

func TestEncodeDocumentCopies(t *testing.T) {
	inner := map[string]any{"k": "v"}
	doc := map[string]any{"inner": inner}

	out := EncodeDocument(doc)
	out["inner"].(map[string]any)["k"] = "changed"

	assert.Equal(t, "v", inner["k"])
}
