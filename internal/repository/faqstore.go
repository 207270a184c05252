// Package repository persists embedded FAQ chunks in a directory-backed
// vector index.
package repository

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/arya-labs/aryamail/internal/domain"
	"github.com/philippgille/chromem-go"
)

// CollectionName is the single collection holding the scraped FAQ chunks.
const CollectionName = "pnb_faqs_filtered"

// FAQStore wraps a persistent chromem-go database holding one collection of
// embedded FAQ chunks. Rebuilds replace the collection wholesale.
type FAQStore struct {
	db    *chromem.DB
	embed chromem.EmbeddingFunc
	coll  *chromem.Collection
}

// Open binds to an existing knowledge base. It fails with
// domain.ErrKnowledgeBaseMissing when the index directory or the FAQ
// collection does not exist, so the caller can tell the operator to run the
// builder first.
func Open(path string, embed chromem.EmbeddingFunc) (*FAQStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, domain.ErrKnowledgeBaseMissing
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}

	coll := db.GetCollection(CollectionName, embed)
	if coll == nil {
		return nil, domain.ErrKnowledgeBaseMissing
	}

	return &FAQStore{db: db, embed: embed, coll: coll}, nil
}

// Create opens (or creates) the index directory for a rebuild. Unlike Open
// it does not require the collection to exist yet.
func Create(path string, embed chromem.EmbeddingFunc) (*FAQStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge base: %w", err)
	}
	return &FAQStore{db: db, embed: embed}, nil
}

// Rebuild drops any existing FAQ collection and writes the given chunks
// into a fresh one. Full replace, not incremental upsert.
func (s *FAQStore) Rebuild(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return domain.ErrNoFAQRecords
	}

	if existing := s.db.GetCollection(CollectionName, s.embed); existing != nil {
		if err := s.db.DeleteCollection(CollectionName); err != nil {
			return fmt.Errorf("failed to drop collection %q: %w", CollectionName, err)
		}
	}

	coll, err := s.db.CreateCollection(CollectionName, nil, s.embed)
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", CollectionName, err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("chunk-%04d", i),
			Content: chunk,
		}
	}

	if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	s.coll = coll
	return nil
}

// Count returns the number of stored chunks.
func (s *FAQStore) Count() int {
	if s.coll == nil {
		return 0
	}
	return s.coll.Count()
}

// Search returns at most k chunks ordered by descending similarity to the
// query text. k is clamped to the collection size.
func (s *FAQStore) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if s.coll == nil {
		return nil, domain.ErrKnowledgeBaseMissing
	}

	if count := s.coll.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.coll.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	chunks := make([]domain.ScoredChunk, len(results))
	for i, res := range results {
		chunks[i] = domain.ScoredChunk{Content: res.Content, Score: res.Similarity}
	}
	return chunks, nil
}
