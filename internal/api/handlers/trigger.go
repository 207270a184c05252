package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/arya-labs/aryamail/internal/api"
	"github.com/arya-labs/aryamail/internal/telemetry"
)

// MailboxProcessor runs one pass over the mailbox and reports a
// human-readable summary.
type MailboxProcessor interface {
	ProcessPass(ctx context.Context) (string, error)
}

// ProcessorFactory builds the mailbox processor on first use. Opening
// the knowledge base is deferred to here so the server can start before
// build-kb has ever run; a failed attempt is retried on the next
// trigger rather than latched.
type ProcessorFactory func(ctx context.Context) (MailboxProcessor, error)

type TriggerHandler struct {
	factory ProcessorFactory

	mu        sync.Mutex
	processor MailboxProcessor
}

func NewTriggerHandler(factory ProcessorFactory) *TriggerHandler {
	return &TriggerHandler{factory: factory}
}

// TriggerResponse is the wire shape for both outcomes of a trigger.
type TriggerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CheckEmail handles POST /trigger-email-check. Passes are serialized
// by the processor itself; concurrent triggers queue rather than race.
// A failed pass still responds with the completed envelope so a polling
// scheduler always sees the same shape; only a failed processor setup
// (knowledge base missing, bad credentials) gets an error response.
func (h *TriggerHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	processor, err := h.getProcessor(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := processor.ProcessPass(r.Context())
	if err != nil {
		telemetry.CaptureError(r.Context(), err)
		summary = "An error occurred: " + err.Error()
	}

	api.JSON(w, http.StatusOK, TriggerResponse{
		Status:  "completed",
		Message: summary,
	})
}

func (h *TriggerHandler) getProcessor(ctx context.Context) (MailboxProcessor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.processor != nil {
		return h.processor, nil
	}

	processor, err := h.factory(ctx)
	if err != nil {
		return nil, err
	}
	h.processor = processor
	return processor, nil
}

func (h *TriggerHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	telemetry.CaptureError(r.Context(), err)

	api.JSON(w, api.DomainErrorToHTTP(err), TriggerResponse{
		Status:  "error",
		Message: "An error occurred: " + err.Error(),
	})
}
