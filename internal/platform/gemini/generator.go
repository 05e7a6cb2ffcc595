package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/synapse-srs/synapse-api/internal/config"
	"github.com/synapse-srs/synapse-api/internal/generation"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
)

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("flashcards").Parse(promptText))

// contentGenerator is the part of the genai client the generator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger     *slog.Logger
	client     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	rng        *rand.Rand
	sleep      func(ctx context.Context, d time.Duration) error
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator with a Gemini API client.
func NewGeminiGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(log, client.Models, cfg)
}

func newGenerator(log *slog.Logger, client contentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &GeminiGenerator{
		logger:     log.With(slog.String("component", "gemini_generator"), slog.String("model", cfg.ModelName)),
		client:     client,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      sleepContext,
	}, nil
}

// GenerateCards implements generation.Generator.
func (g *GeminiGenerator) GenerateCards(
	ctx context.Context,
	src generation.Source,
	maxCards int,
) ([]generation.CardDraft, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	text := src.Text()
	if text == "" {
		return nil, generation.ErrEmptyInput
	}
	if maxCards <= 0 {
		maxCards = 1
	}

	prompt, err := buildPrompt(text, maxCards)
	if err != nil {
		return nil, err
	}

	resp, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	drafts, err := parseDrafts(resp, maxCards)
	if err != nil {
		log.Warn("discarding unusable model response", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("generated cards", slog.Int("card_count", len(drafts)))
	return drafts, nil
}

func buildPrompt(text string, maxCards int) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Text: text, MaxCards: maxCards}); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v", generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}

// callWithRetry calls the API until it succeeds, fails permanently or runs
// out of attempts. The delay before retry n is base * 2^n * [0.5, 1.0).
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	for attempt := 0; ; attempt++ {
		resp, err := g.client.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err == nil {
			return resp, nil
		}

		if !isTransient(err) {
			log.Error("gemini call failed", slog.Int("attempt", attempt+1), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
		if attempt >= g.maxRetries {
			log.Warn("gemini retries exhausted", slog.Int("attempts", attempt+1), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: giving up after %d attempts: %v", generation.ErrTransientFailure, attempt+1, err)
		}

		delay := g.backoff(attempt)
		log.Info("retrying gemini call",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		if err := g.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	jitter := 0.5 + g.rng.Float64()*0.5
	return time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * jitter)
}

// isTransient reports whether err is worth retrying: rate limits, server
// errors and transport failures. Context cancellation is final.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return transientStatus(apiErrPtr.Code)
	}
	return true
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// parseDrafts extracts cards from the first candidate. Blank cards are
// dropped; the result is capped at maxCards.
func parseDrafts(resp *genai.GenerateContentResponse, maxCards int) ([]generation.CardDraft, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(sb.String())), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	drafts := make([]generation.CardDraft, 0, len(parsed.Cards))
	for _, c := range parsed.Cards {
		front, back := strings.TrimSpace(c.Front), strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			continue
		}
		drafts = append(drafts, generation.CardDraft{Front: front, Back: back})
		if len(drafts) == maxCards {
			break
		}
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no usable cards", generation.ErrInvalidResponse)
	}
	return drafts, nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
