package service_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/generation"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// fakeTransactor runs fn without a database and records the outcome.
// Stores returned from WithTx(nil) are the mocks themselves.
type fakeTransactor struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (f *fakeTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	err := fn(ctx, nil)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeTransactor) counts() (commits, rollbacks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits, f.rollbacks
}

type mockNoteStore struct {
	mock.Mock
}

func (m *mockNoteStore) Create(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteStore) GetByID(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *mockNoteStore) List(ctx context.Context, userID int64) ([]*domain.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *mockNoteStore) Update(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteStore) Delete(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *mockNoteStore) WithTx(*sql.Tx) store.NoteStore { return m }

type mockCardStore struct {
	mock.Mock
}

func (m *mockCardStore) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardStore) GetByID(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardStore) GetForUpdate(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardStore) List(ctx context.Context, userID int64) ([]*domain.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *mockCardStore) ListDue(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *mockCardStore) ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *mockCardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardStore) Delete(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardStore) WithTx(*sql.Tx) store.CardStore { return m }

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Create(ctx context.Context, entry *domain.ReviewHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockReviewStore) ListByUser(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewHistoryEntry), args.Error(1)
}

func (m *mockReviewStore) ListByCard(
	ctx context.Context,
	userID, cardID int64,
) ([]*domain.ReviewHistoryEntry, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewHistoryEntry), args.Error(1)
}

func (m *mockReviewStore) WithTx(*sql.Tx) store.ReviewStore { return m }

type mockRelationStore struct {
	mock.Mock
}

func (m *mockRelationStore) Create(ctx context.Context, rel *domain.Relation) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *mockRelationStore) GetByID(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	args := m.Called(ctx, userID, relationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Relation), args.Error(1)
}

func (m *mockRelationStore) List(ctx context.Context, userID int64) ([]*domain.Relation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Relation), args.Error(1)
}

func (m *mockRelationStore) ListByNote(ctx context.Context, userID, noteID int64) ([]*domain.Relation, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Relation), args.Error(1)
}

func (m *mockRelationStore) ListByType(
	ctx context.Context,
	userID int64,
	relType domain.RelationType,
) ([]*domain.Relation, error) {
	args := m.Called(ctx, userID, relType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Relation), args.Error(1)
}

func (m *mockRelationStore) Update(ctx context.Context, rel *domain.Relation) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *mockRelationStore) Delete(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	args := m.Called(ctx, userID, relationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Relation), args.Error(1)
}

func (m *mockRelationStore) WithTx(*sql.Tx) store.RelationStore { return m }

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateCards(
	ctx context.Context,
	src generation.Source,
	maxCards int,
) ([]generation.CardDraft, error) {
	args := m.Called(ctx, src, maxCards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]generation.CardDraft), args.Error(1)
}

// memoryRevocations is an in-process auth.RevocationList.
type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: make(map[string]time.Duration)}
}

func (r *memoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.revoked[jti] = ttl
	return nil
}

func (r *memoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[jti]
	return ok, nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
