// Package httpapi is the JSON-over-HTTP client for the Recommendation Service.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"suggestify/internal/domain"
	"suggestify/internal/logging"
)

const (
	questionsPath = "/api/quiz/questions"
	resultPath    = "/api/quiz/result"
	recommendPath = "/api/recommend"
	chatPath      = "/api/chat"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// BreakerSettings configures the circuit breaker in front of the service.
type BreakerSettings struct {
	// MaxFailures consecutive transport failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
}

// Client talks to the Recommendation Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreaker guards every request with a circuit breaker. While the circuit
// is open requests fail immediately as transport failures.
func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		maxFailures := settings.MaxFailures
		if maxFailures == 0 {
			maxFailures = 5
		}
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "recommendation-service",
			MaxRequests: 1,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		})
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
}

type answersRequest struct {
	Answers []string `json:"answers"`
}

type genresPayload struct {
	Genres []string `json:"genres"`
}

type recommendResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Genres          []string                `json:"genres"`
	Error           string                  `json:"error"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// LoadQuestions fetches the quiz question set.
func (c *Client) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	var resp questionsResponse
	if err := c.call(ctx, http.MethodGet, questionsPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// ScoreQuiz submits the answer keys and returns the genres the service selected.
func (c *Client) ScoreQuiz(ctx context.Context, answers []string) ([]string, error) {
	if answers == nil {
		answers = []string{}
	}
	var resp genresPayload
	if err := c.call(ctx, http.MethodPost, resultPath, answersRequest{Answers: answers}, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Recommend fetches shows for genres. A response carrying an error field is
// returned as *domain.ServiceError.
func (c *Client) Recommend(ctx context.Context, genres []string) (domain.RecommendationSet, error) {
	if genres == nil {
		genres = []string{}
	}
	var resp recommendResponse
	if err := c.call(ctx, http.MethodPost, recommendPath, genresPayload{Genres: genres}, &resp); err != nil {
		return domain.RecommendationSet{}, err
	}
	if resp.Error != "" {
		return domain.RecommendationSet{}, &domain.ServiceError{Message: resp.Error}
	}
	return domain.RecommendationSet{Recommendations: resp.Recommendations, Genres: resp.Genres}, nil
}

// Chat sends a message and returns the reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var resp chatResponse
	if err := c.call(ctx, http.MethodPost, chatPath, chatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = data
	}

	started := time.Now()
	raw, err := c.send(ctx, method, path, body)
	event := logging.Debug()
	if err != nil {
		event = logging.Warn().Err(err)
	}
	event.Str("method", method).Str("path", path).Dur("elapsed", time.Since(started)).Msg("service request")
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.TransportError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.breaker == nil {
		return c.roundTrip(ctx, method, path, body)
	}
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.TransportError{Endpoint: path, Err: err}
	}
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &domain.TransportError{Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &domain.TransportError{Endpoint: path, Status: resp.StatusCode}
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.TransportError{Endpoint: path, Err: err}
	}
	return raw, nil
}
