package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/synapse-srs/synapse-api/internal/api/shared"
	"github.com/synapse-srs/synapse-api/internal/domain"
	"github.com/synapse-srs/synapse-api/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type mockCardService struct {
	listFn       func(ctx context.Context, userID int64) ([]*domain.Card, error)
	listDueFn    func(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error)
	getFn        func(ctx context.Context, userID, cardID int64) (*domain.Card, error)
	createFn     func(ctx context.Context, userID int64, in service.CreateCardInput) (*domain.Card, error)
	fromNoteFn   func(ctx context.Context, userID, noteID int64) (*domain.Card, error)
	updateFn     func(ctx context.Context, userID, cardID int64, u domain.CardUpdate) (*domain.Card, error)
	deleteFn     func(ctx context.Context, userID, cardID int64) (*domain.Card, error)
	reviewFn     func(ctx context.Context, userID, cardID int64, q float64) (*service.ReviewResult, error)
	generateFn   func(ctx context.Context, userID, noteID int64) ([]*domain.Card, error)
	reviewCalled bool
}

func (m *mockCardService) ListCards(ctx context.Context, userID int64) ([]*domain.Card, error) {
	if m.listFn == nil {
		return nil, errNotStubbed
	}
	return m.listFn(ctx, userID)
}

func (m *mockCardService) ListDueCards(ctx context.Context, userID int64, now time.Time) ([]*domain.Card, error) {
	if m.listDueFn == nil {
		return nil, errNotStubbed
	}
	return m.listDueFn(ctx, userID, now)
}

func (m *mockCardService) GetCard(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	if m.getFn == nil {
		return nil, errNotStubbed
	}
	return m.getFn(ctx, userID, cardID)
}

func (m *mockCardService) CreateCard(ctx context.Context, userID int64, in service.CreateCardInput) (*domain.Card, error) {
	if m.createFn == nil {
		return nil, errNotStubbed
	}
	return m.createFn(ctx, userID, in)
}

func (m *mockCardService) CreateCardFromNote(ctx context.Context, userID, noteID int64) (*domain.Card, error) {
	if m.fromNoteFn == nil {
		return nil, errNotStubbed
	}
	return m.fromNoteFn(ctx, userID, noteID)
}

func (m *mockCardService) UpdateCard(
	ctx context.Context,
	userID, cardID int64,
	u domain.CardUpdate,
) (*domain.Card, error) {
	if m.updateFn == nil {
		return nil, errNotStubbed
	}
	return m.updateFn(ctx, userID, cardID, u)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	if m.deleteFn == nil {
		return nil, errNotStubbed
	}
	return m.deleteFn(ctx, userID, cardID)
}

func (m *mockCardService) ReviewCard(
	ctx context.Context,
	userID, cardID int64,
	q float64,
) (*service.ReviewResult, error) {
	m.reviewCalled = true
	if m.reviewFn == nil {
		return nil, errNotStubbed
	}
	return m.reviewFn(ctx, userID, cardID, q)
}

func (m *mockCardService) GenerateCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	if m.generateFn == nil {
		return nil, errNotStubbed
	}
	return m.generateFn(ctx, userID, noteID)
}

type mockNoteService struct {
	listFn      func(ctx context.Context, userID int64) ([]*domain.Note, error)
	getFn       func(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	createFn    func(ctx context.Context, userID int64, title string, content *string) (*domain.Note, error)
	updateFn    func(ctx context.Context, userID, noteID int64, u domain.NoteUpdate) (*domain.Note, error)
	deleteFn    func(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	listCardsFn func(ctx context.Context, userID, noteID int64) ([]*domain.Card, error)
}

func (m *mockNoteService) ListNotes(ctx context.Context, userID int64) ([]*domain.Note, error) {
	if m.listFn == nil {
		return nil, errNotStubbed
	}
	return m.listFn(ctx, userID)
}

func (m *mockNoteService) GetNote(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	if m.getFn == nil {
		return nil, errNotStubbed
	}
	return m.getFn(ctx, userID, noteID)
}

func (m *mockNoteService) CreateNote(
	ctx context.Context,
	userID int64,
	title string,
	content *string,
) (*domain.Note, error) {
	if m.createFn == nil {
		return nil, errNotStubbed
	}
	return m.createFn(ctx, userID, title, content)
}

func (m *mockNoteService) UpdateNote(
	ctx context.Context,
	userID, noteID int64,
	u domain.NoteUpdate,
) (*domain.Note, error) {
	if m.updateFn == nil {
		return nil, errNotStubbed
	}
	return m.updateFn(ctx, userID, noteID, u)
}

func (m *mockNoteService) DeleteNote(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	if m.deleteFn == nil {
		return nil, errNotStubbed
	}
	return m.deleteFn(ctx, userID, noteID)
}

func (m *mockNoteService) ListNoteCards(ctx context.Context, userID, noteID int64) ([]*domain.Card, error) {
	if m.listCardsFn == nil {
		return nil, errNotStubbed
	}
	return m.listCardsFn(ctx, userID, noteID)
}

type mockRelationService struct {
	listFn   func(ctx context.Context, userID int64) ([]*domain.Relation, error)
	getFn    func(ctx context.Context, userID, relationID int64) (*domain.Relation, error)
	byNoteFn func(ctx context.Context, userID, noteID int64) ([]*domain.Relation, error)
	byTypeFn func(ctx context.Context, userID int64, relType string) ([]*domain.Relation, error)
	createFn func(ctx context.Context, userID int64, in service.CreateRelationInput) (*domain.Relation, error)
	updateFn func(ctx context.Context, userID, relationID int64, in service.UpdateRelationInput) (*domain.Relation, error)
	deleteFn func(ctx context.Context, userID, relationID int64) (*domain.Relation, error)
}

func (m *mockRelationService) ListRelations(ctx context.Context, userID int64) ([]*domain.Relation, error) {
	if m.listFn == nil {
		return nil, errNotStubbed
	}
	return m.listFn(ctx, userID)
}

func (m *mockRelationService) GetRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	if m.getFn == nil {
		return nil, errNotStubbed
	}
	return m.getFn(ctx, userID, relationID)
}

func (m *mockRelationService) ListRelationsByNote(
	ctx context.Context,
	userID, noteID int64,
) ([]*domain.Relation, error) {
	if m.byNoteFn == nil {
		return nil, errNotStubbed
	}
	return m.byNoteFn(ctx, userID, noteID)
}

func (m *mockRelationService) ListRelationsByType(
	ctx context.Context,
	userID int64,
	relType string,
) ([]*domain.Relation, error) {
	if m.byTypeFn == nil {
		return nil, errNotStubbed
	}
	return m.byTypeFn(ctx, userID, relType)
}

func (m *mockRelationService) CreateRelation(
	ctx context.Context,
	userID int64,
	in service.CreateRelationInput,
) (*domain.Relation, error) {
	if m.createFn == nil {
		return nil, errNotStubbed
	}
	return m.createFn(ctx, userID, in)
}

func (m *mockRelationService) UpdateRelation(
	ctx context.Context,
	userID, relationID int64,
	in service.UpdateRelationInput,
) (*domain.Relation, error) {
	if m.updateFn == nil {
		return nil, errNotStubbed
	}
	return m.updateFn(ctx, userID, relationID, in)
}

func (m *mockRelationService) DeleteRelation(ctx context.Context, userID, relationID int64) (*domain.Relation, error) {
	if m.deleteFn == nil {
		return nil, errNotStubbed
	}
	return m.deleteFn(ctx, userID, relationID)
}

type mockReviewService struct {
	listFn     func(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error)
	listCardFn func(ctx context.Context, userID, cardID int64) ([]*domain.ReviewHistoryEntry, error)
}

func (m *mockReviewService) ListReviews(ctx context.Context, userID int64) ([]*domain.ReviewHistoryEntry, error) {
	if m.listFn == nil {
		return nil, errNotStubbed
	}
	return m.listFn(ctx, userID)
}

func (m *mockReviewService) ListCardReviews(
	ctx context.Context,
	userID, cardID int64,
) ([]*domain.ReviewHistoryEntry, error) {
	if m.listCardFn == nil {
		return nil, errNotStubbed
	}
	return m.listCardFn(ctx, userID, cardID)
}

type mockUserService struct {
	registerFn func(ctx context.Context, email, name, password string) (*service.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	refreshFn  func(ctx context.Context, token string) (*service.TokenPair, error)
	meFn       func(ctx context.Context, userID int64) (*domain.User, error)
	loggedOut  []string
}

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*service.AuthResult, error) {
	if m.registerFn == nil {
		return nil, errNotStubbed
	}
	return m.registerFn(ctx, email, name, password)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.loginFn == nil {
		return nil, errNotStubbed
	}
	return m.loginFn(ctx, email, password)
}

func (m *mockUserService) Refresh(ctx context.Context, token string) (*service.TokenPair, error) {
	if m.refreshFn == nil {
		return nil, errNotStubbed
	}
	return m.refreshFn(ctx, token)
}

func (m *mockUserService) Logout(_ context.Context, token string) {
	m.loggedOut = append(m.loggedOut, token)
}

func (m *mockUserService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	if m.meFn == nil {
		return nil, errNotStubbed
	}
	return m.meFn(ctx, userID)
}

// envelope decodes both success and error responses.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
	TraceID string          `json:"trace_id"`
	Stack   []string        `json:"stack"`
}

var testUser = shared.AuthUser{ID: 1, Email: "reader@example.com"}

// serve routes one request through a chi router with a single route, as
// the authenticated testUser unless user is nil.
func serve(
	t *testing.T,
	method, pattern, target, body string,
	user *shared.AuthUser,
	handler http.HandlerFunc,
) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(shared.WithUser(req.Context(), *user))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
