package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"suggestify/internal/domain"
	"suggestify/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleQuestions())}
	repo := NewQuestionRepository(client, loader, "test", time.Minute)

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("test:quiz:questions") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("test:quiz:questions"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	questions, err := repo.GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if got := questions[0].Options["B"].Genres; len(got) != 2 || got[1] != "Comedy" {
		t.Fatalf("cached question lost its genres: %+v", questions[0])
	}
}

func TestQuestionRepositorySharedBetweenClients(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	first := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleQuestions())}
	second := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(nil)}

	_, _ = NewQuestionRepository(newClient(mr), first, "", time.Minute).GetQuestions(context.Background())
	questions, err := NewQuestionRepository(newClient(mr), second, "", time.Minute).GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if second.calls != 0 || len(questions) != 1 {
		t.Fatalf("expected second client to read the shared cache, calls=%d questions=%d", second.calls, len(questions))
	}
}

func TestQuestionRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("suggestify:quiz:questions", "not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(sampleQuestions())}
	repo := NewQuestionRepository(newClient(mr), loader, "", time.Minute)

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected corrupt entry to be reloaded, calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt: "Pick a vibe",
			Options: map[string]domain.Option{
				"A": {Text: "Laughs", Genres: []string{"Comedy"}},
				"B": {Text: "Warm", Genres: []string{"Drama", "Comedy"}},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
