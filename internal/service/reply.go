package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/arya-labs/aryamail/internal/gemini"
)

// Canned replies. The persona greeting answers greeting-only messages
// without a generation call; the rest substitute for upstream failures so a
// reply always goes out.
const (
	personaGreeting = "Hello! I'm Arya, your PNB Housing assistant. How can I help you with our Home Loan or Fixed Deposit products today?"

	msgUpstreamDown   = "I am currently facing a technical issue and cannot reply at the moment. Please try again later."
	msgBadResponse    = "I seem to be having a technical issue. Please try again in a moment."
	msgGenericFailure = "I am sorry, but I encountered an error while processing your request."
)

var greetingPhrases = []string{"hi", "hello", "hey", "how are you", "how are you?"}

const promptTemplate = `You are "Arya", a professional and friendly customer service assistant for PNB Housing.

**Your Core Directives:**
1.  **Persona**: You are always polite, helpful, and clear. Your goal is to provide detailed and useful information, not just short answers.
2.  **Greeting**: Every single response MUST begin with a friendly greeting. Examples: "Hi there! I'm Arya.", "Hello! My name is Arya.", "Hello! I'm Arya from PNB Housing."
3.  **Grounding**: You MUST base your answers strictly on the information provided in the "CONTEXT" section. Do not use any outside knowledge.
4.  **Handling Missing Information**: If the CONTEXT does not contain the answer, you MUST reply with: "Hello! I'm Arya. I'm sorry, but I couldn't find specific information about your query in our knowledge base. I can assist with questions about PNB Housing's Home Loans and Fixed Deposits."

**Example of a Perfect Response:**
---
USER'S QUESTION: Can I open multiple accounts?
CONTEXT: Question: Can a depositor open multiple accounts? Answer: Yes, you can open multiple accounts, but for the purpose of computation of tax liability all the accounts will be clubbed.
YOUR ANSWER:
Hello! I'm Arya.

Yes, you can certainly open multiple Fixed Deposit accounts with PNB Housing. Please keep in mind that for the purpose of computing tax liability, all of your accounts will be clubbed together.
---

Now, answer the following user's question based on the provided context.

---
CONTEXT:
%s
---

USER'S QUESTION:
%s

YOUR ANSWER:`

// GenerationClient produces text from a single prompt.
type GenerationClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ReplyService composes a grounded reply for one question. Every call is
// independent; no conversation state is kept.
type ReplyService struct {
	gen GenerationClient
}

func NewReplyService(gen GenerationClient) *ReplyService {
	return &ReplyService{gen: gen}
}

// Generate returns the reply for a question given its retrieved context.
// The result is never empty: greeting-only input gets the canned persona
// greeting, and generation failures degrade to fixed messages.
func (s *ReplyService) Generate(ctx context.Context, contextText, question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))

	if isGreetingOnly(normalized) {
		log.Println("detected greeting-only message, replying with standard greeting")
		return personaGreeting
	}

	prompt := fmt.Sprintf(promptTemplate, contextText, question)

	text, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		var statusErr *gemini.StatusError
		switch {
		case errors.As(err, &statusErr):
			log.Printf("generation service returned status %d", statusErr.Code)
			return msgUpstreamDown
		case errors.Is(err, gemini.ErrMalformedResponse):
			log.Printf("generation service returned an unexpected response shape: %v", err)
			return msgBadResponse
		default:
			log.Printf("generation request failed: %v", err)
			return msgGenericFailure
		}
	}

	return strings.TrimSpace(text)
}

// isGreetingOnly reports whether the normalized question is just a
// greeting: an exact match against the known phrases, or at most two words
// containing one of them. Known heuristic, brief messages mentioning a
// greeting word can false-positive.
func isGreetingOnly(normalized string) bool {
	for _, g := range greetingPhrases {
		if normalized == g {
			return true
		}
	}
	if len(strings.Fields(normalized)) <= 2 {
		for _, g := range greetingPhrases {
			if strings.Contains(normalized, g) {
				return true
			}
		}
	}
	return false
}
