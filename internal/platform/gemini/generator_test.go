package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/synapse-srs/synapse-api/internal/config"
	"github.com/synapse-srs/synapse-api/internal/generation"
)

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeClient replays results in order and records prompts.
type fakeClient struct {
	results []fakeResult
	prompts []string
	configs []*genai.GenerateContentConfig
}

func (f *fakeClient) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	f.configs = append(f.configs, cfg)
	r := f.results[len(f.prompts)-1]
	return r.resp, r.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{ModelName: "gemini-test", MaxCards: 5, MaxRetries: 2, RetryDelaySeconds: 1}
}

func newTestGenerator(t *testing.T, client *fakeClient) (*GeminiGenerator, *[]time.Duration) {
	t.Helper()
	g, err := newGenerator(nil, client, testLLMConfig())
	require.NoError(t, err)
	var slept []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return g, &slept
}

var src = generation.Source{Title: "Go channels", Content: "Unbuffered channels synchronize sender and receiver."}

func TestGenerateCards_Success(t *testing.T) {
	t.Parallel()
	client := &fakeClient{results: []fakeResult{{resp: textResponse(
		`{"cards":[{"front":"What does an unbuffered send do?","back":"Blocks until received"},` +
			`{"front":"  ","back":"dropped"}]}`)}}}
	g, slept := newTestGenerator(t, client)

	drafts, err := g.GenerateCards(context.Background(), src, 5)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "What does an unbuffered send do?", drafts[0].Front)
	assert.Empty(t, *slept)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Unbuffered channels synchronize")
	assert.Contains(t, client.prompts[0], "at most 5 flashcards")
	assert.Equal(t, "application/json", client.configs[0].ResponseMIMEType)
}

func TestGenerateCards_CapsAtMaxCards(t *testing.T) {
	t.Parallel()
	client := &fakeClient{results: []fakeResult{{resp: textResponse(
		"```json\n" + `{"cards":[{"front":"a","back":"1"},{"front":"b","back":"2"},{"front":"c","back":"3"}]}` + "\n```")}}}
	g, _ := newTestGenerator(t, client)

	drafts, err := g.GenerateCards(context.Background(), src, 2)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestGenerateCards_RetriesTransientErrors(t *testing.T) {
	t.Parallel()
	client := &fakeClient{results: []fakeResult{
		{err: genai.APIError{Code: 503, Message: "overloaded"}},
		{err: errors.New("connection reset by peer")},
		{resp: textResponse(`{"cards":[{"front":"q","back":"a"}]}`)},
	}}
	g, slept := newTestGenerator(t, client)

	drafts, err := g.GenerateCards(context.Background(), src, 5)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	require.Len(t, *slept, 2)
	assert.GreaterOrEqual(t, (*slept)[0], 500*time.Millisecond)
	assert.Less(t, (*slept)[0], time.Second)
	assert.GreaterOrEqual(t, (*slept)[1], time.Second)
	assert.Less(t, (*slept)[1], 2*time.Second)
}

func TestGenerateCards_Failures(t *testing.T) {
	t.Parallel()

	transient := fakeResult{err: genai.APIError{Code: 429, Message: "slow down"}}

	tests := []struct {
		name    string
		results []fakeResult
		calls   int
		want    error
	}{
		{
			name:    "retries exhausted",
			results: []fakeResult{transient, transient, transient},
			calls:   3,
			want:    generation.ErrTransientFailure,
		},
		{
			name:    "client error is not retried",
			results: []fakeResult{{err: genai.APIError{Code: 400, Message: "bad request"}}},
			calls:   1,
			want:    generation.ErrGenerationFailed,
		},
		{
			name: "blocked by safety filter",
			results: []fakeResult{{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}}}},
			calls: 1,
			want:  generation.ErrContentBlocked,
		},
		{
			name:    "no candidates",
			results: []fakeResult{{resp: &genai.GenerateContentResponse{}}},
			calls:   1,
			want:    generation.ErrInvalidResponse,
		},
		{
			name:    "not json",
			results: []fakeResult{{resp: textResponse("here are your cards!")}},
			calls:   1,
			want:    generation.ErrInvalidResponse,
		},
		{
			name:    "only blank cards",
			results: []fakeResult{{resp: textResponse(`{"cards":[{"front":"","back":""}]}`)}},
			calls:   1,
			want:    generation.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeClient{results: tt.results}
			g, _ := newTestGenerator(t, client)

			drafts, err := g.GenerateCards(context.Background(), src, 5)
			assert.Nil(t, drafts)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, client.prompts, tt.calls)
		})
	}
}

func TestGenerateCards_EmptySource(t *testing.T) {
	t.Parallel()
	g, _ := newTestGenerator(t, &fakeClient{})

	_, err := g.GenerateCards(context.Background(), generation.Source{Title: " "}, 5)
	assert.ErrorIs(t, err, generation.ErrEmptyInput)
}

func TestGenerateCards_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{results: []fakeResult{{err: errors.New("temporary")}}}
	g, _ := newTestGenerator(t, client)

	_, err := g.GenerateCards(ctx, src, 5)
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Len(t, client.prompts, 1)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	assert.False(t, isTransient(context.Canceled))
	assert.False(t, isTransient(genai.APIError{Code: 404}))
	assert.True(t, isTransient(genai.APIError{Code: 500}))
	assert.True(t, isTransient(errors.New("dial tcp: i/o timeout")))
}

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), nil, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newGenerator(nil, &fakeClient{}, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newGenerator(nil, nil, testLLMConfig())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
