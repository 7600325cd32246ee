package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"suggestify/internal/domain"
	"suggestify/internal/logging"
)

// QuestionLoader fetches the quiz question set from its source (the service).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository shares the question set between clients through Redis
// and falls back to the loader on a cache miss.
// The set is stored as JSON: SET {namespace}:quiz:questions <json> EX ttl
type QuestionRepository struct {
	client    *redis.Client
	loader    QuestionLoader
	namespace string
	ttl       time.Duration
	sf        singleflight.Group
	rnd       *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, namespace string, ttl time.Duration) *QuestionRepository {
	if namespace == "" {
		namespace = "suggestify"
	}
	return &QuestionRepository{
		client:    client,
		loader:    loader,
		namespace: namespace,
		ttl:       ttl,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := r.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(r.key(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return questions, nil
		}

		data, err := json.Marshal(questions)
		if err != nil {
			return questions, nil
		}
		// best-effort: a cache write failure still returns fresh questions
		if err := r.client.Set(ctx, r.key(), data, r.ttlWithJitter()).Err(); err != nil {
			logging.Warn().Err(err).Str("key", r.key()).Msg("caching quiz questions failed")
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Warn().Err(err).Str("key", r.key()).Msg("reading cached quiz questions failed")
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) key() string {
	return r.namespace + ":quiz:questions"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
