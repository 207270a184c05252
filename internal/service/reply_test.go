package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arya-labs/aryamail/internal/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGenerationClient mocks the Gemini client
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestReplyService_Generate_GreetingShortCircuit(t *testing.T) {
	greetings := []string{
		"hi", "hello", "hey", "how are you", "how are you?",
		"  Hello  ", "HEY", "hi there", "hello!",
	}

	for _, q := range greetings {
		t.Run(q, func(t *testing.T) {
			mockGen := new(MockGenerationClient)
			svc := NewReplyService(mockGen)

			reply := svc.Generate(context.Background(), "some context", q)

			assert.Equal(t, personaGreeting, reply)
			mockGen.AssertNotCalled(t, "GenerateContent")
		})
	}
}

func TestReplyService_Generate_LongMessageWithGreetingWordIsNotShortCircuited(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	mockGen.On("GenerateContent", mock.Anything, mock.Anything).Return("Hello! I'm Arya. Rates start at 8.5%.", nil)

	reply := svc.Generate(context.Background(), "some context", "hey, what are FD rates")

	assert.Equal(t, "Hello! I'm Arya. Rates start at 8.5%.", reply)
	mockGen.AssertExpectations(t)
}

func TestReplyService_Generate_PromptEmbedsContextAndQuestion(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	var gotPrompt string
	mockGen.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
		gotPrompt = p
		return true
	})).Return("fine", nil)

	svc.Generate(context.Background(), "Question: X Answer: Y", "Subject: FD rates\n\nWhat is the FD interest rate?")

	assert.Contains(t, gotPrompt, `You are "Arya"`)
	assert.Contains(t, gotPrompt, "CONTEXT:\nQuestion: X Answer: Y")
	assert.Contains(t, gotPrompt, "USER'S QUESTION:\nSubject: FD rates\n\nWhat is the FD interest rate?")
}

func TestReplyService_Generate_TrimsModelOutput(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	mockGen.On("GenerateContent", mock.Anything, mock.Anything).Return("\n  Hello! I'm Arya.\n\nYes.  \n", nil)

	reply := svc.Generate(context.Background(), "ctx", "what is the FD rate?")

	assert.Equal(t, "Hello! I'm Arya.\n\nYes.", reply)
}

func TestReplyService_Generate_UpstreamStatusError(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	mockGen.On("GenerateContent", mock.Anything, mock.Anything).Return("", &gemini.StatusError{Code: 500, Body: "boom"})

	reply := svc.Generate(context.Background(), "ctx", "what is the FD rate?")

	assert.Equal(t, msgUpstreamDown, reply)
}

func TestReplyService_Generate_MalformedResponse(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	mockGen.On("GenerateContent", mock.Anything, mock.Anything).Return("", gemini.ErrMalformedResponse)

	reply := svc.Generate(context.Background(), "ctx", "what is the FD rate?")

	assert.Equal(t, msgBadResponse, reply)
}

func TestReplyService_Generate_GenericFailure(t *testing.T) {
	mockGen := new(MockGenerationClient)
	svc := NewReplyService(mockGen)

	mockGen.On("GenerateContent", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))

	reply := svc.Generate(context.Background(), "ctx", "what is the FD rate?")

	assert.Equal(t, msgGenericFailure, reply)
}
