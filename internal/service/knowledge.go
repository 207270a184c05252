package service

import (
	"context"
	"log"
	"strings"

	"github.com/arya-labs/aryamail/internal/domain"
)

// FAQSource provides scraped FAQ records.
type FAQSource interface {
	FetchFAQs(ctx context.Context, url string) ([]domain.FAQRecord, error)
}

// ChunkStore persists embedded chunks with full-replace semantics.
type ChunkStore interface {
	Rebuild(ctx context.Context, chunks []string) error
}

// Retriever performs similarity search over the stored chunks.
type Retriever interface {
	Search(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

// KnowledgeBuilder scrapes the FAQ page and rebuilds the knowledge base.
// It runs offline, on demand; the prior index is replaced wholesale.
type KnowledgeBuilder struct {
	source FAQSource
	store  ChunkStore
	url    string
}

func NewKnowledgeBuilder(source FAQSource, store ChunkStore, url string) *KnowledgeBuilder {
	return &KnowledgeBuilder{source: source, store: store, url: url}
}

// Build fetches the FAQ page, chunks the scraped records, and writes them
// into a fresh collection. Returns the number of chunks written.
func (b *KnowledgeBuilder) Build(ctx context.Context) (int, error) {
	records, err := b.source.FetchFAQs(ctx, b.url)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, domain.ErrNoFAQRecords
	}
	log.Printf("scraped %d FAQ record(s) from %s", len(records), b.url)

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text()
	}
	corpus := strings.Join(texts, "\n\n")

	chunks := splitText(corpus, ChunkSize, ChunkOverlap)
	log.Printf("split %d record(s) into %d chunk(s)", len(records), len(chunks))

	if err := b.store.Rebuild(ctx, chunks); err != nil {
		return 0, err
	}

	return len(chunks), nil
}
