package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockPhraseStore mocks the store.PhraseStore interface
type MockPhraseStore struct {
	mock.Mock
	db *sql.DB
}

var _ store.PhraseStore = (*MockPhraseStore)(nil)

func (m *MockPhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	args := m.Called(ctx, phrase)
	return args.Error(0)
}

func (m *MockPhraseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Phrase), args.Error(1)
}

func (m *MockPhraseStore) List(ctx context.Context, filter store.PhraseFilter) ([]*domain.Phrase, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Phrase), args.Error(1)
}

func (m *MockPhraseStore) ListDue(ctx context.Context, now time.Time) ([]*domain.Phrase, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Phrase), args.Error(1)
}

func (m *MockPhraseStore) CountByStatus(ctx context.Context, now time.Time) (store.StatusCounts, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(store.StatusCounts), args.Error(1)
}

func (m *MockPhraseStore) Update(ctx context.Context, phrase *domain.Phrase) error {
	args := m.Called(ctx, phrase)
	return args.Error(0)
}

func (m *MockPhraseStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the mock itself so expectations apply inside transactions.
func (m *MockPhraseStore) WithTx(tx *sql.Tx) store.PhraseStore {
	return m
}

func (m *MockPhraseStore) DB() *sql.DB {
	return m.db
}
