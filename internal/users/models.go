package users

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// IDField is the caller-supplied identifier every user record is keyed by.
// It is distinct from the database-generated _id.
const IDField = "id"

// ObjectIDField is owned by the database. It is assigned on insert and never
// written by the store.
const ObjectIDField = "_id"

// Record represents a user document. ID is required; Fields hold every other
// key of the payload except _id and are passed through to the database untouched.
type Record struct {
	ID     string
	Fields map[string]any
}

// NewRecord validates a decoded payload and builds a Record from it.
func NewRecord(payload map[string]any) (*Record, error) {
	if payload == nil {
		return nil, NewValidationError(IDField, nil, "payload is required")
	}

	raw, ok := payload[IDField]
	if !ok {
		return nil, NewValidationError(IDField, nil, "id is required")
	}

	id, err := CanonicalID(raw)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == IDField || k == ObjectIDField {
			continue
		}
		fields[k] = v
	}

	return &Record{ID: id, Fields: fields}, nil
}

// ParseRecord decodes a JSON object into a Record.
func ParseRecord(data []byte) (*Record, error) {
	payload, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return NewRecord(payload)
}

// ParseRecordForID decodes a JSON object whose identifier is supplied out of
// band. An id inside the body must agree with it.
func ParseRecordForID(data []byte, id string) (*Record, error) {
	payload, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	if raw, ok := payload[IDField]; ok {
		bodyID, err := CanonicalID(raw)
		if err != nil {
			return nil, err
		}
		if bodyID != strings.TrimSpace(id) {
			return nil, NewValidationError(IDField, raw, "id in body does not match id in path")
		}
	}

	payload[IDField] = id
	return NewRecord(payload)
}

// Document returns the record as a fresh BSON document including the id field.
func (r *Record) Document() bson.M {
	doc := make(bson.M, len(r.Fields)+1)
	for k, v := range r.Fields {
		doc[k] = v
	}
	doc[IDField] = r.ID
	return doc
}

// CanonicalID converts an identifier value into its stored string form.
// Strings are trimmed; integral numbers are rendered in base 10.
func CanonicalID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", NewValidationError(IDField, nil, "id must not be null")
	case string:
		id = strings.TrimSpace(id)
		if id == "" {
			return "", NewValidationError(IDField, v, "id must not be empty")
		}
		return id, nil
	case int:
		return strconv.Itoa(id), nil
	case int32:
		return strconv.FormatInt(int64(id), 10), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) || math.Abs(id) > 1<<53 {
			return "", NewValidationError(IDField, v, "numeric id must be an integer")
		}
		return strconv.FormatInt(int64(id), 10), nil
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return "", NewValidationErrorWithCause(IDField, v, "numeric id must be an integer", err)
		}
		return strconv.FormatInt(n, 10), nil
	default:
		return "", NewValidationError(IDField, v, "id must be a string or an integer")
	}
}

func decodeObject(data []byte) (map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, NewValidationError("body", nil, "request body is empty")
	}
	if data[0] != '{' {
		return nil, NewValidationError("body", nil, "request body must be a JSON object")
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, NewValidationErrorWithCause("body", nil, "request body is not valid JSON", err)
	}
	return payload, nil
}
