package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arya-labs/aryamail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFAQSource struct {
	mock.Mock
}

func (m *MockFAQSource) FetchFAQs(ctx context.Context, url string) ([]domain.FAQRecord, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FAQRecord), args.Error(1)
}

type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) Rebuild(ctx context.Context, chunks []string) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func TestKnowledgeBuilder_Build(t *testing.T) {
	ctx := context.Background()
	source := new(MockFAQSource)
	store := new(MockChunkStore)
	builder := NewKnowledgeBuilder(source, store, "https://www.pnbhousing.com/faqs")

	records := []domain.FAQRecord{
		{Question: "What is the FD rate?", Answer: "The rate is 7.5% per annum."},
		{Question: "How do I apply for a home loan?", Answer: "Apply online or at a branch."},
	}
	source.On("FetchFAQs", ctx, "https://www.pnbhousing.com/faqs").Return(records, nil)

	var gotChunks []string
	store.On("Rebuild", ctx, mock.Anything).Run(func(args mock.Arguments) {
		gotChunks = args.Get(1).([]string)
	}).Return(nil)

	count, err := builder.Build(ctx)

	require.NoError(t, err)
	assert.Equal(t, len(gotChunks), count)
	require.Len(t, gotChunks, 1)
	assert.Equal(t,
		"Question: What is the FD rate? Answer: The rate is 7.5% per annum.\n\n"+
			"Question: How do I apply for a home loan? Answer: Apply online or at a branch.",
		gotChunks[0])
}

func TestKnowledgeBuilder_Build_NoRecords(t *testing.T) {
	ctx := context.Background()
	source := new(MockFAQSource)
	store := new(MockChunkStore)
	builder := NewKnowledgeBuilder(source, store, "https://www.pnbhousing.com/faqs")

	source.On("FetchFAQs", ctx, mock.Anything).Return([]domain.FAQRecord{}, nil)

	_, err := builder.Build(ctx)

	require.ErrorIs(t, err, domain.ErrNoFAQRecords)
	store.AssertNotCalled(t, "Rebuild")
}

func TestKnowledgeBuilder_Build_FetchError(t *testing.T) {
	ctx := context.Background()
	source := new(MockFAQSource)
	store := new(MockChunkStore)
	builder := NewKnowledgeBuilder(source, store, "https://www.pnbhousing.com/faqs")

	source.On("FetchFAQs", ctx, mock.Anything).Return(nil, errors.New("502 bad gateway"))

	_, err := builder.Build(ctx)

	require.Error(t, err)
	store.AssertNotCalled(t, "Rebuild")
}

func TestKnowledgeBuilder_Build_StoreError(t *testing.T) {
	ctx := context.Background()
	source := new(MockFAQSource)
	store := new(MockChunkStore)
	builder := NewKnowledgeBuilder(source, store, "https://www.pnbhousing.com/faqs")

	source.On("FetchFAQs", ctx, mock.Anything).Return([]domain.FAQRecord{
		{Question: "Q", Answer: "A"},
	}, nil)
	store.On("Rebuild", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := builder.Build(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
