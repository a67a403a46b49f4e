package noteassist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/pkg/metrics"
)

// ErrNoSuggestions is returned when the model answered but produced nothing
// usable. Callers treat it differently from transport failures: the request
// was fine, the model just had no phrases to offer.
var ErrNoSuggestions = errors.New("model produced no suggestions")

// Generator is the single call the service needs from the model backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Request struct {
	PatientDescription string `json:"patient_description" validate:"required,max=4000"`
	MedicalSpecialty   string `json:"medical_specialty" validate:"required,max=200"`
	ExamplePhrases     string `json:"example_phrases" validate:"omitempty,max=2000"`
}

type Response struct {
	SuggestedPhrases []string `json:"suggested_phrases"`
}

type Service struct {
	gen        Generator
	metrics    *metrics.Metrics
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewService(gen Generator, m *metrics.Metrics, timeout time.Duration, maxRetries int) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Service{
		gen:        gen,
		metrics:    m,
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

// Suggest asks the model for clinical phrase suggestions. Each attempt runs
// under its own timeout; transport failures are retried with backoff up to
// maxRetries. A well-formed but empty answer is ErrNoSuggestions and is not
// retried.
func (s *Service) Suggest(ctx context.Context, req *Request) (*Response, error) {
	prompt := buildPrompt(req)
	started := time.Now()
	defer func() {
		s.metrics.NoteAssistLatency.Observe(time.Since(started).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.metrics.NoteAssistRetries.Inc()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay * time.Duration(attempt)):
			}
		}

		resp, err := s.attempt(ctx, prompt)
		if err == nil {
			s.metrics.NoteAssistRequests.WithLabelValues("ok").Inc()
			return resp, nil
		}
		if errors.Is(err, ErrNoSuggestions) {
			s.metrics.NoteAssistRequests.WithLabelValues("empty").Inc()
			return nil, err
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("note assist attempt failed")
	}

	s.metrics.NoteAssistRequests.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("note assist failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *Service) attempt(ctx context.Context, prompt string) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(callCtx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestions(raw)
}

// parseSuggestions decodes the model answer. Anything that does not yield at
// least one non-blank phrase is ErrNoSuggestions.
func parseSuggestions(raw string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: unparseable answer", ErrNoSuggestions)
	}

	phrases := make([]string, 0, len(resp.SuggestedPhrases))
	for _, p := range resp.SuggestedPhrases {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			phrases = append(phrases, trimmed)
		}
	}
	if len(phrases) == 0 {
		return nil, ErrNoSuggestions
	}
	return &Response{SuggestedPhrases: phrases}, nil
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString("You are assisting a clinician writing an evolution note.\n")
	fmt.Fprintf(&b, "Specialty: %s\n", req.MedicalSpecialty)
	fmt.Fprintf(&b, "Patient description: %s\n", req.PatientDescription)
	if req.ExamplePhrases != "" {
		fmt.Fprintf(&b, "Match the tone of these example phrases: %s\n", req.ExamplePhrases)
	}
	b.WriteString("\nRespond with JSON only, no prose, in the shape ")
	b.WriteString(`{"suggested_phrases": ["...", "..."]} with 3 to 6 short phrases.`)
	return b.String()
}
