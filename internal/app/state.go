package app

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"suggestify/internal/domain"
	"suggestify/internal/logging"
)

// DefaultChatResetDelay is how long the transcript stays visible after a goodbye.
const DefaultChatResetDelay = time.Second

// QuizPhase tracks where a quiz session is in its lifecycle.
type QuizPhase int

const (
	PhaseLoading QuizPhase = iota
	PhaseAwaitingAnswer
	PhaseScoring
)

// QuizSession is the progress of one quiz run.
type QuizSession struct {
	ID        string
	Phase     QuizPhase
	Questions []domain.Question
	Index     int
	Answers   []string
	Scores    map[string]int
	// Fallback is set when the built-in question set replaced the service's.
	Fallback bool
}

// Current returns the question awaiting an answer.
func (q QuizSession) Current() (domain.Question, bool) {
	if q.Phase != PhaseAwaitingAnswer || q.Index >= len(q.Questions) {
		return domain.Question{}, false
	}
	return q.Questions[q.Index], true
}

// Progress is the completed share of the quiz in percent.
func (q QuizSession) Progress() int {
	if len(q.Questions) == 0 {
		return 0
	}
	return 100 * q.Index / len(q.Questions)
}

// ResultsView is what the results panel shows. It is rebuilt on every fetch.
type ResultsView struct {
	Loading bool
	// Genres are the genres the cards are based on.
	Genres []string
	Cards  []domain.Recommendation
	// ErrorTitle and ErrorDetail replace the cards when set.
	ErrorTitle  string
	ErrorDetail string
}

// Failed reports whether the view shows an error instead of cards.
func (r ResultsView) Failed() bool {
	return r.ErrorTitle != ""
}

// Summary is the line naming the genres the cards are based on.
func (r ResultsView) Summary() string {
	if len(r.Genres) == 0 {
		return ""
	}
	return "Based on your preferred genres: " + strings.Join(r.Genres, ", ")
}

// Option configures a State.
type Option func(*State)

// WithChatResetDelay overrides the delay before a goodbye resets the chat.
func WithChatResetDelay(d time.Duration) Option {
	return func(s *State) {
		if d > 0 {
			s.chatResetDelay = d
		}
	}
}

// WithIDGenerator replaces the quiz session id source.
func WithIDGenerator(next func() string) Option {
	return func(s *State) {
		s.newID = next
	}
}

// State is the view controller. Every method is meant to run on the single
// UI event loop; none of them block. Handlers return the effects the caller
// must execute.
type State struct {
	panel    domain.Panel
	quiz     *QuizSession
	selected []string
	results  ResultsView
	fetchSeq int

	chat           []domain.ChatMessage
	chatPending    bool
	chatResetDelay time.Duration

	newID func() string
}

func NewState(opts ...Option) *State {
	s := &State{
		panel:          domain.PanelMain,
		chat:           greetingTranscript(),
		chatResetDelay: DefaultChatResetDelay,
		newID:          func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func greetingTranscript() []domain.ChatMessage {
	return []domain.ChatMessage{{Origin: domain.OriginBot, Text: domain.Greeting}}
}

// Panel returns the visible panel.
func (s *State) Panel() domain.Panel {
	return s.panel
}

// Quiz returns a snapshot of the running quiz session.
func (s *State) Quiz() (QuizSession, bool) {
	if s.quiz == nil {
		return QuizSession{}, false
	}
	return *s.quiz, true
}

// SelectedGenres returns the genres of the latest recommendation request.
func (s *State) SelectedGenres() []string {
	return append([]string(nil), s.selected...)
}

// Results returns the results panel content.
func (s *State) Results() ResultsView {
	return s.results
}

// Transcript returns the chat messages in order.
func (s *State) Transcript() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), s.chat...)
}

// ChatPending reports whether a chat reply is outstanding.
func (s *State) ChatPending() bool {
	return s.chatPending
}

// ShowPanel makes p the only visible panel. Leaving the quiz panel discards
// the quiz session.
func (s *State) ShowPanel(p domain.Panel) error {
	if !p.Valid() {
		return domain.ErrUnknownPanel
	}
	if p != domain.PanelQuiz && s.quiz != nil {
		logging.Debug().Str("session", s.quiz.ID).Msg("quiz discarded by navigation")
		s.quiz = nil
	}
	s.panel = p
	return nil
}

// StartQuiz resets quiz progress and requests the question set. A start
// while questions are still loading is ignored.
func (s *State) StartQuiz() []Effect {
	if s.quiz != nil && s.quiz.Phase == PhaseLoading {
		return nil
	}
	s.quiz = &QuizSession{
		ID:     s.newID(),
		Phase:  PhaseLoading,
		Scores: make(map[string]int),
	}
	s.panel = domain.PanelQuiz
	logging.Info().Str("session", s.quiz.ID).Msg("quiz started")
	return []Effect{FetchQuestions{SessionID: s.quiz.ID}}
}

// Answer records the chosen option of the current question. After the last
// question the session moves to scoring.
func (s *State) Answer(key string) ([]Effect, error) {
	if s.quiz == nil {
		return nil, domain.ErrQuizNotActive
	}
	question, ok := s.quiz.Current()
	if !ok {
		return nil, domain.ErrBusy
	}
	key, option, ok := question.Lookup(key)
	if !ok {
		return nil, domain.ErrUnknownOption
	}

	s.quiz.Answers = append(s.quiz.Answers, key)
	for _, genre := range option.Genres {
		s.quiz.Scores[genre]++
	}
	s.quiz.Index++

	if s.quiz.Index < len(s.quiz.Questions) {
		return nil, nil
	}
	s.quiz.Phase = PhaseScoring
	answers := append([]string(nil), s.quiz.Answers...)
	return []Effect{ScoreQuiz{SessionID: s.quiz.ID, Answers: answers}}, nil
}

// ExitQuiz discards the quiz session and returns to the main panel.
func (s *State) ExitQuiz() {
	s.quiz = nil
	s.panel = domain.PanelMain
}

// FetchAndRender shows the results panel in its loading state and requests
// recommendations for genres. It refuses while a fetch is outstanding.
func (s *State) FetchAndRender(genres []string) ([]Effect, error) {
	genres = normalizeGenres(genres)
	if len(genres) == 0 {
		return nil, domain.ErrNoGenres
	}
	if s.results.Loading {
		return nil, domain.ErrBusy
	}
	return s.fetch(genres), nil
}

func (s *State) fetch(genres []string) []Effect {
	s.fetchSeq++
	s.selected = genres
	s.results = ResultsView{Loading: true, Genres: genres}
	s.panel = domain.PanelResults
	return []Effect{FetchRecommendations{Seq: s.fetchSeq, Genres: append([]string(nil), genres...)}}
}

// SendChat appends the user's message and a typing placeholder. Blank
// messages are dropped.
func (s *State) SendChat(text string) ([]Effect, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if s.chatPending {
		return nil, domain.ErrBusy
	}
	s.chat = append(s.chat,
		domain.ChatMessage{Origin: domain.OriginUser, Text: text},
		domain.ChatMessage{Origin: domain.OriginBot, Pending: true},
	)
	s.chatPending = true
	return []Effect{SendChat{Message: text}}, nil
}

// Apply folds the outcome of an effect into the state.
func (s *State) Apply(ev Event) []Effect {
	switch ev := ev.(type) {
	case QuestionsLoaded:
		s.questionsLoaded(ev)
	case QuizScored:
		return s.quizScored(ev)
	case RecommendationsLoaded:
		s.recommendationsLoaded(ev)
	case ChatReplied:
		return s.chatReplied(ev)
	case ChatResetDue:
		s.chat = greetingTranscript()
		s.chatPending = false
		_ = s.ShowPanel(domain.PanelMain)
	}
	return nil
}

func (s *State) questionsLoaded(ev QuestionsLoaded) {
	if s.quiz == nil || s.quiz.ID != ev.SessionID || s.quiz.Phase != PhaseLoading {
		return
	}
	questions := ev.Questions
	if ev.Err != nil || len(questions) == 0 {
		logging.Warn().Err(ev.Err).Str("session", ev.SessionID).Msg("using built-in quiz questions")
		questions = domain.DefaultQuestions()
		s.quiz.Fallback = true
	}
	s.quiz.Questions = questions
	s.quiz.Index = 0
	s.quiz.Phase = PhaseAwaitingAnswer
}

func (s *State) quizScored(ev QuizScored) []Effect {
	if s.quiz == nil || s.quiz.ID != ev.SessionID || s.quiz.Phase != PhaseScoring {
		return nil
	}
	genres := normalizeGenres(ev.Genres)
	if ev.Err != nil || len(genres) == 0 {
		genres = TopGenres(s.quiz.Scores)
		logging.Warn().Err(ev.Err).Str("session", ev.SessionID).Strs("genres", genres).Msg("quiz scored locally")
	}
	logging.Info().Str("session", ev.SessionID).Strs("genres", genres).Msg("quiz finished")
	s.quiz = nil

	if len(genres) == 0 {
		s.fetchSeq++
		s.selected = nil
		s.results = ResultsView{ErrorTitle: domain.ErrNoGenres.Error(), ErrorDetail: domain.NoShowsHint}
		s.panel = domain.PanelResults
		return nil
	}
	return s.fetch(genres)
}

func (s *State) recommendationsLoaded(ev RecommendationsLoaded) {
	if ev.Seq != s.fetchSeq || !s.results.Loading {
		return
	}
	view := ResultsView{Genres: s.results.Genres}
	var serviceErr *domain.ServiceError
	switch {
	case errors.As(ev.Err, &serviceErr):
		view.ErrorTitle = serviceErr.Message
		view.ErrorDetail = domain.NoShowsHint
	case ev.Err != nil:
		logging.Error().Err(ev.Err).Strs("genres", s.results.Genres).Msg("recommendations failed")
		view.ErrorTitle = domain.LoadErrorTitle
		view.ErrorDetail = ev.Err.Error()
	default:
		view.Cards = ev.Set.Recommendations
		if genres := normalizeGenres(ev.Set.Genres); len(genres) > 0 {
			view.Genres = genres
		}
	}
	s.results = view
}

func (s *State) chatReplied(ev ChatReplied) []Effect {
	if !s.chatPending {
		return nil
	}
	s.chatPending = false

	reply := domain.ChatMessage{Origin: domain.OriginBot, Text: ev.Reply}
	if ev.Err != nil {
		logging.Error().Err(ev.Err).Msg("chat request failed")
		reply.Text = domain.ChatApology
	}
	replaced := false
	for i := len(s.chat) - 1; i >= 0; i-- {
		if s.chat[i].Pending {
			s.chat[i] = reply
			replaced = true
			break
		}
	}
	if !replaced {
		s.chat = append(s.chat, reply)
	}

	if ev.Err == nil && IsGoodbye(ev.Message) {
		return []Effect{ResetChatAfter{Delay: s.chatResetDelay}}
	}
	return nil
}

// IsGoodbye reports whether a chat message ends the conversation: any
// case-insensitive occurrence of "exit" or "bye", even inside a longer word.
func IsGoodbye(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "exit") || strings.Contains(lower, "bye")
}

func normalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
