package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arya-labs/aryamail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMailboxProcessor struct {
	mock.Mock
}

func (m *MockMailboxProcessor) ProcessPass(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func decodeTriggerResponse(t *testing.T, w *httptest.ResponseRecorder) TriggerResponse {
	t.Helper()
	var resp TriggerResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestTriggerHandler_CheckEmail_Success(t *testing.T) {
	processor := new(MockMailboxProcessor)
	processor.On("ProcessPass", mock.Anything).Return("Successfully processed 2 of 3 email(s).", nil)

	handler := NewTriggerHandler(func(ctx context.Context) (MailboxProcessor, error) {
		return processor, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/trigger-email-check", nil)
	w := httptest.NewRecorder()

	handler.CheckEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeTriggerResponse(t, w)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Successfully processed 2 of 3 email(s).", resp.Message)
}

func TestTriggerHandler_CheckEmail_NoNewEmails(t *testing.T) {
	processor := new(MockMailboxProcessor)
	processor.On("ProcessPass", mock.Anything).Return("No new emails to process.", nil)

	handler := NewTriggerHandler(func(ctx context.Context) (MailboxProcessor, error) {
		return processor, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/trigger-email-check", nil)
	w := httptest.NewRecorder()

	handler.CheckEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeTriggerResponse(t, w)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "No new emails to process.", resp.Message)
}

// A failed pass keeps the completed envelope: the caller is a polling
// scheduler and reads the outcome from the message text, not the shape.
func TestTriggerHandler_CheckEmail_ProcessError(t *testing.T) {
	processor := new(MockMailboxProcessor)
	processor.On("ProcessPass", mock.Anything).Return("", errors.New("imap: connection reset"))

	handler := NewTriggerHandler(func(ctx context.Context) (MailboxProcessor, error) {
		return processor, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/trigger-email-check", nil)
	w := httptest.NewRecorder()

	handler.CheckEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeTriggerResponse(t, w)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "An error occurred: imap: connection reset", resp.Message)
}

func TestTriggerHandler_CheckEmail_KnowledgeBaseMissing(t *testing.T) {
	handler := NewTriggerHandler(func(ctx context.Context) (MailboxProcessor, error) {
		return nil, domain.ErrKnowledgeBaseMissing
	})

	req := httptest.NewRequest(http.MethodPost, "/trigger-email-check", nil)
	w := httptest.NewRecorder()

	handler.CheckEmail(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeTriggerResponse(t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "knowledge base not found")
}

func TestTriggerHandler_CheckEmail_FactoryRetriesAfterFailure(t *testing.T) {
	processor := new(MockMailboxProcessor)
	processor.On("ProcessPass", mock.Anything).Return("No new emails to process.", nil)

	calls := 0
	handler := NewTriggerHandler(func(ctx context.Context) (MailboxProcessor, error) {
		calls++
		if calls == 1 {
			return nil, domain.ErrKnowledgeBaseMissing
		}
		return processor, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/trigger-email-check", nil)

	w := httptest.NewRecorder()
	handler.CheckEmail(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.CheckEmail(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// A successful factory result is cached for later triggers.
	w = httptest.NewRecorder()
	handler.CheckEmail(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, calls)
}
