package app

import (
	"time"

	"suggestify/internal/domain"
)

// Effect is a side effect requested by a controller handler. The dispatcher
// executes it and reports the outcome as an Event.
type Effect interface {
	effect()
}

// FetchQuestions loads the quiz question set for a session.
type FetchQuestions struct {
	SessionID string
}

// ScoreQuiz asks the service which genres the recorded answers select.
type ScoreQuiz struct {
	SessionID string
	Answers   []string
}

// FetchRecommendations requests shows for a genre set. Seq identifies the
// fetch so that replies to superseded fetches are dropped.
type FetchRecommendations struct {
	Seq    int
	Genres []string
}

// SendChat submits a chat message for a reply.
type SendChat struct {
	Message string
}

// ResetChatAfter schedules a ChatResetDue event.
type ResetChatAfter struct {
	Delay time.Duration
}

func (FetchQuestions) effect()       {}
func (ScoreQuiz) effect()            {}
func (FetchRecommendations) effect() {}
func (SendChat) effect()             {}
func (ResetChatAfter) effect()       {}

// Event is the outcome of an Effect, fed back through State.Apply.
type Event interface {
	event()
}

type QuestionsLoaded struct {
	SessionID string
	Questions []domain.Question
	Err       error
}

type QuizScored struct {
	SessionID string
	Genres    []string
	Err       error
}

type RecommendationsLoaded struct {
	Seq int
	Set domain.RecommendationSet
	Err error
}

type ChatReplied struct {
	Message string
	Reply   string
	Err     error
}

type ChatResetDue struct{}

func (QuestionsLoaded) event()       {}
func (QuizScored) event()            {}
func (RecommendationsLoaded) event() {}
func (ChatReplied) event()           {}
func (ChatResetDue) event()          {}
