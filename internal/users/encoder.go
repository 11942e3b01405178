package users

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EncodeIDs returns v with every ObjectID, at any depth, replaced by its hex
// string. BSON documents and arrays become plain maps and slices so the
// result compares equal to decoded JSON; other values are returned as is.
// Encoding an already encoded value returns an equal value.
func EncodeIDs(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case *primitive.ObjectID:
		if val == nil {
			return nil
		}
		return val.Hex()
	case bson.M:
		return encodeMap(val)
	case map[string]any:
		return encodeMap(val)
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = EncodeIDs(e.Value)
		}
		return out
	case bson.A:
		return encodeSlice(val)
	case []any:
		return encodeSlice(val)
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = encodeMap(m)
		}
		return out
	default:
		return v
	}
}

// EncodeDocument is EncodeIDs for a top-level document.
func EncodeDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	return encodeMap(doc)
}

func encodeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = EncodeIDs(v)
	}
	return out
}

func encodeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = EncodeIDs(v)
	}
	return out
}
