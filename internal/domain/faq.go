package domain

import "fmt"

// FAQRecord is one question/answer pair scraped from the FAQ page.
// Records are immutable once scraped; a rebuild replaces them wholesale.
type FAQRecord struct {
	Question string
	Answer   string
}

// Text renders the record in the form stored in the knowledge base.
func (r FAQRecord) Text() string {
	return fmt.Sprintf("Question: %s Answer: %s", r.Question, r.Answer)
}

// ScoredChunk is a knowledge-base chunk returned by similarity search.
type ScoredChunk struct {
	Content string
	Score   float32
}
