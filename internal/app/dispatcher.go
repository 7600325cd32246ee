package app

import (
	"context"
	"fmt"
	"time"

	"suggestify/internal/domain"
	"suggestify/internal/logging"
)

// QuestionRepository loads the quiz question set (from the service or a cache).
type QuestionRepository interface {
	GetQuestions(ctx context.Context) ([]domain.Question, error)
}

// RecommendationService is the remote API the controller talks to.
type RecommendationService interface {
	ScoreQuiz(ctx context.Context, answers []string) ([]string, error)
	Recommend(ctx context.Context, genres []string) (domain.RecommendationSet, error)
	Chat(ctx context.Context, message string) (string, error)
}

// Dispatcher executes effects and reports their outcome as events. Execute
// blocks, so callers run it off the UI loop.
type Dispatcher struct {
	questions QuestionRepository
	service   RecommendationService
	timeout   time.Duration
}

func NewDispatcher(questions QuestionRepository, service RecommendationService, timeout time.Duration) *Dispatcher {
	return &Dispatcher{questions: questions, service: service, timeout: timeout}
}

// Execute runs one effect to completion. Requests are never cancelled by
// later user actions; they end on success, failure or the request timeout.
func (d *Dispatcher) Execute(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchQuestions:
		ctx, cancel := d.requestContext(ctx)
		defer cancel()
		questions, err := d.questions.GetQuestions(ctx)
		return QuestionsLoaded{SessionID: eff.SessionID, Questions: questions, Err: err}

	case ScoreQuiz:
		ctx, cancel := d.requestContext(ctx)
		defer cancel()
		genres, err := d.service.ScoreQuiz(ctx, eff.Answers)
		return QuizScored{SessionID: eff.SessionID, Genres: genres, Err: err}

	case FetchRecommendations:
		ctx, cancel := d.requestContext(ctx)
		defer cancel()
		set, err := d.service.Recommend(ctx, eff.Genres)
		return RecommendationsLoaded{Seq: eff.Seq, Set: set, Err: err}

	case SendChat:
		ctx, cancel := d.requestContext(ctx)
		defer cancel()
		reply, err := d.service.Chat(ctx, eff.Message)
		return ChatReplied{Message: eff.Message, Reply: reply, Err: err}

	case ResetChatAfter:
		timer := time.NewTimer(eff.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return ChatResetDue{}
	}

	logging.Error().Str("effect", fmt.Sprintf("%T", eff)).Msg("unsupported effect")
	return nil
}

func (d *Dispatcher) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}
