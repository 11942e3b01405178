package users

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTables(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		legacy   int
		standard int
	}{
		{OutcomeCreated, http.StatusCreated, http.StatusCreated},
		{OutcomeFound, http.StatusOK, http.StatusOK},
		{OutcomeUpdated, http.StatusCreated, http.StatusOK},
		{OutcomeDeleted, http.StatusOK, http.StatusOK},
		{OutcomeListed, http.StatusOK, http.StatusOK},
		{OutcomeConflict, http.StatusConflict, http.StatusConflict},
		{OutcomeNotFound, http.StatusNotFound, http.StatusNotFound},
		{OutcomeUpdateNotFound, http.StatusConflict, http.StatusNotFound},
		{OutcomeNotModified, http.StatusForbidden, http.StatusOK},
		{OutcomeDeleteNotFound, http.StatusBadRequest, http.StatusNotFound},
		{OutcomeInvalid, http.StatusBadRequest, http.StatusBadRequest},
		{OutcomeFailed, http.StatusInternalServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.legacy, LegacyStatusCodes.Code(tt.outcome))
			assert.Equal(t, tt.standard, StandardStatusCodes.Code(tt.outcome))
		})
	}
}

func TestStatusTableFallbacks(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusTable{}.Code(OutcomeCreated))
	assert.Equal(t, "unknown", Outcome(99).String())

	assert.Equal(t, StandardStatusCodes, StatusTableFor("standard"))
	assert.Equal(t, LegacyStatusCodes, StatusTableFor("legacy"))
	assert.Equal(t, LegacyStatusCodes, StatusTableFor(""))
}

func TestEnvelope(t *testing.T) {
	env := LegacyStatusCodes.Envelope(Result{Outcome: OutcomeNotModified, Body: errorBody(ErrorNotModified)})
	assert.Equal(t, Envelope{Body: map[string]any{"error": "user not modified"}, Status: http.StatusForbidden}, env)
}

func TestEnvelopeSuccessHasNoErrorKey(t *testing.T) {
	notModified := Result{Outcome: OutcomeNotModified, Body: errorBody(ErrorNotModified)}

	env := StandardStatusCodes.Envelope(notModified)
	assert.Equal(t, Envelope{Body: map[string]any{"message": "user not modified"}, Status: http.StatusOK}, env)

	env = LegacyStatusCodes.Envelope(notModified)
	assert.Equal(t, map[string]any{"error": "user not modified"}, env.Body)
}
