package users

import "net/http"

// Outcome names the result of a store operation independently of any transport.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCreated
	OutcomeFound
	OutcomeUpdated
	OutcomeDeleted
	OutcomeListed
	OutcomeConflict
	OutcomeNotFound
	OutcomeUpdateNotFound
	OutcomeNotModified
	OutcomeDeleteNotFound
	OutcomeInvalid
)

var outcomeNames = map[Outcome]string{
	OutcomeFailed:         "failed",
	OutcomeCreated:        "created",
	OutcomeFound:          "found",
	OutcomeUpdated:        "updated",
	OutcomeDeleted:        "deleted",
	OutcomeListed:         "listed",
	OutcomeConflict:       "conflict",
	OutcomeNotFound:       "not_found",
	OutcomeUpdateNotFound: "update_not_found",
	OutcomeNotModified:    "not_modified",
	OutcomeDeleteNotFound: "delete_not_found",
	OutcomeInvalid:        "invalid",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Response bodies
const (
	MessageSuccess    = "Success"
	ErrorExistingID   = "Found user with existing ID"
	ErrorNoDocuments  = "no documents found"
	ErrorUserNotFound = "user not found"
	ErrorNotModified  = "user not modified"
)

// Result is what every store operation returns. Err carries the underlying
// cause of OutcomeFailed and is never part of the body.
type Result struct {
	Outcome Outcome
	Body    map[string]any
	Err     error
}

// Envelope is the (body, status) pair handed to callers at the boundary.
type Envelope struct {
	Body   map[string]any
	Status int
}

// StatusTable maps outcomes to transport status codes.
type StatusTable map[Outcome]int

// LegacyStatusCodes keeps the codes existing clients were built against.
var LegacyStatusCodes = StatusTable{
	OutcomeCreated:        http.StatusCreated,
	OutcomeFound:          http.StatusOK,
	OutcomeUpdated:        http.StatusCreated,
	OutcomeDeleted:        http.StatusOK,
	OutcomeListed:         http.StatusOK,
	OutcomeConflict:       http.StatusConflict,
	OutcomeNotFound:       http.StatusNotFound,
	OutcomeUpdateNotFound: http.StatusConflict,
	OutcomeNotModified:    http.StatusForbidden,
	OutcomeDeleteNotFound: http.StatusBadRequest,
	OutcomeInvalid:        http.StatusBadRequest,
	OutcomeFailed:         http.StatusInternalServerError,
}

// StandardStatusCodes uses 404 for every missing record and 200 for mutations.
var StandardStatusCodes = StatusTable{
	OutcomeCreated:        http.StatusCreated,
	OutcomeFound:          http.StatusOK,
	OutcomeUpdated:        http.StatusOK,
	OutcomeDeleted:        http.StatusOK,
	OutcomeListed:         http.StatusOK,
	OutcomeConflict:       http.StatusConflict,
	OutcomeNotFound:       http.StatusNotFound,
	OutcomeUpdateNotFound: http.StatusNotFound,
	OutcomeNotModified:    http.StatusOK,
	OutcomeDeleteNotFound: http.StatusNotFound,
	OutcomeInvalid:        http.StatusBadRequest,
	OutcomeFailed:         http.StatusInternalServerError,
}

// StatusTableFor returns the table registered under name, falling back to legacy.
func StatusTableFor(name string) StatusTable {
	if name == "standard" {
		return StandardStatusCodes
	}
	return LegacyStatusCodes
}

// Code returns the status for o; unmapped outcomes are server errors.
func (t StatusTable) Code(o Outcome) int {
	if code, ok := t[o]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Envelope maps r to its (body, status) pair. A success status never carries
// an error key; a lone error message is reported as a message instead.
func (t StatusTable) Envelope(r Result) Envelope {
	status := t.Code(r.Outcome)
	body := r.Body
	if msg, ok := body["error"]; ok && len(body) == 1 && status < http.StatusBadRequest {
		body = map[string]any{"message": msg}
	}
	return Envelope{Body: body, Status: status}
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func messageBody(msg string) map[string]any {
	return map[string]any{"message": msg}
}
