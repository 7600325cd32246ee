package app_test

import (
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"suggestify/internal/app"
	"suggestify/internal/domain"
)

func TestShowPanelLeavesExactlyOneVisible(t *testing.T) {
	state := newTestState()
	for _, p := range domain.Panels() {
		if err := state.ShowPanel(p); err != nil {
			t.Fatalf("show %v: %v", p, err)
		}
		if state.Panel() != p {
			t.Fatalf("expected %v visible, got %v", p, state.Panel())
		}
	}

	if err := state.ShowPanel(domain.Panel(99)); !errors.Is(err, domain.ErrUnknownPanel) {
		t.Fatalf("expected unknown panel error, got %v", err)
	}
	if state.Panel() != domain.PanelChat {
		t.Fatalf("unknown panel must not change state, got %v", state.Panel())
	}
}

func TestNavigationAwayDiscardsQuiz(t *testing.T) {
	state := newTestState()
	state.StartQuiz()
	if _, ok := state.Quiz(); !ok {
		t.Fatalf("expected quiz session")
	}
	_ = state.ShowPanel(domain.PanelChat)
	if _, ok := state.Quiz(); ok {
		t.Fatalf("quiz session must not outlive the quiz panel")
	}
}

func TestQuizTallyAndLocalFallback(t *testing.T) {
	state := newTestState()
	effects := state.StartQuiz()
	fetch := effects[0].(app.FetchQuestions)

	questions := []domain.Question{scenarioQuestion(), scenarioQuestion()}
	state.Apply(app.QuestionsLoaded{SessionID: fetch.SessionID, Questions: questions})

	if _, err := state.Answer("A"); err != nil {
		t.Fatalf("answer A: %v", err)
	}
	effects, err := state.Answer("b")
	if err != nil {
		t.Fatalf("answer B: %v", err)
	}

	quiz, _ := state.Quiz()
	if quiz.Phase != app.PhaseScoring {
		t.Fatalf("expected scoring phase, got %v", quiz.Phase)
	}
	if want := map[string]int{"Comedy": 2, "Drama": 1}; !reflect.DeepEqual(quiz.Scores, want) {
		t.Fatalf("expected tallies %v, got %v", want, quiz.Scores)
	}
	score := effects[0].(app.ScoreQuiz)
	if !reflect.DeepEqual(score.Answers, []string{"A", "B"}) {
		t.Fatalf("unexpected answers %v", score.Answers)
	}

	effects = state.Apply(app.QuizScored{SessionID: score.SessionID, Err: &domain.TransportError{Endpoint: "/api/quiz/result", Status: 500}})
	recs := effects[0].(app.FetchRecommendations)
	if !reflect.DeepEqual(recs.Genres, []string{"Comedy"}) {
		t.Fatalf("expected fallback selection [Comedy], got %v", recs.Genres)
	}
	if state.Panel() != domain.PanelResults || !state.Results().Loading {
		t.Fatalf("expected loading results panel, got %v", state.Panel())
	}
	if _, ok := state.Quiz(); ok {
		t.Fatalf("quiz session must be discarded after scoring")
	}
}

func TestQuizUsesServiceSelection(t *testing.T) {
	state := newTestState()
	fetch := state.StartQuiz()[0].(app.FetchQuestions)
	state.Apply(app.QuestionsLoaded{SessionID: fetch.SessionID, Questions: []domain.Question{scenarioQuestion()}})

	effects, _ := state.Answer("A")
	score := effects[0].(app.ScoreQuiz)
	effects = state.Apply(app.QuizScored{SessionID: score.SessionID, Genres: []string{"Drama", "Thriller"}})

	recs := effects[0].(app.FetchRecommendations)
	if !reflect.DeepEqual(recs.Genres, []string{"Drama", "Thriller"}) {
		t.Fatalf("expected service genres, got %v", recs.Genres)
	}
	if got := state.SelectedGenres(); !reflect.DeepEqual(got, recs.Genres) {
		t.Fatalf("expected selected genres %v, got %v", recs.Genres, got)
	}
}

func TestStartQuizFallsBackToDefaultQuestions(t *testing.T) {
	state := newTestState()
	fetch := state.StartQuiz()[0].(app.FetchQuestions)

	if again := state.StartQuiz(); again != nil {
		t.Fatalf("start while loading must be ignored, got %v", again)
	}

	state.Apply(app.QuestionsLoaded{SessionID: fetch.SessionID, Err: errors.New("connection refused")})

	quiz, ok := state.Quiz()
	if !ok || !quiz.Fallback {
		t.Fatalf("expected fallback quiz, got %+v", quiz)
	}
	if len(quiz.Questions) != len(domain.DefaultQuestions()) {
		t.Fatalf("expected default questions, got %d", len(quiz.Questions))
	}
	if q, ok := quiz.Current(); !ok || q.Prompt != domain.DefaultQuestions()[0].Prompt {
		t.Fatalf("expected first default question, got %+v", q)
	}
}

func TestAnswerErrors(t *testing.T) {
	state := newTestState()
	if _, err := state.Answer("A"); !errors.Is(err, domain.ErrQuizNotActive) {
		t.Fatalf("expected quiz not active, got %v", err)
	}

	fetch := state.StartQuiz()[0].(app.FetchQuestions)
	if _, err := state.Answer("A"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected busy while loading, got %v", err)
	}

	state.Apply(app.QuestionsLoaded{SessionID: fetch.SessionID, Questions: []domain.Question{scenarioQuestion()}})
	if _, err := state.Answer("Z"); !errors.Is(err, domain.ErrUnknownOption) {
		t.Fatalf("expected unknown option, got %v", err)
	}
	quiz, _ := state.Quiz()
	if quiz.Index != 0 || len(quiz.Answers) != 0 {
		t.Fatalf("rejected answer must not change progress: %+v", quiz)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	state := newTestState()
	fetch := state.StartQuiz()[0].(app.FetchQuestions)
	state.Apply(app.QuestionsLoaded{SessionID: fetch.SessionID, Err: errors.New("offline")})

	quiz, _ := state.Quiz()
	total := len(quiz.Questions)
	last := quiz.Progress()
	if last != 0 {
		t.Fatalf("expected 0%% at start, got %d", last)
	}
	for i := 0; i < total; i++ {
		if _, err := state.Answer("C"); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		quiz, _ = state.Quiz()
		if want := 100 * (i + 1) / total; quiz.Progress() != want {
			t.Fatalf("after %d answers expected %d%%, got %d", i+1, want, quiz.Progress())
		}
		if quiz.Progress() < last {
			t.Fatalf("progress went backwards: %d -> %d", last, quiz.Progress())
		}
		last = quiz.Progress()
	}
}

func TestStaleQuizRepliesAreIgnored(t *testing.T) {
	state := newTestState()
	first := state.StartQuiz()[0].(app.FetchQuestions)
	state.ExitQuiz()
	if state.Panel() != domain.PanelMain {
		t.Fatalf("expected main panel after exit")
	}

	second := state.StartQuiz()[0].(app.FetchQuestions)
	state.Apply(app.QuestionsLoaded{SessionID: first.SessionID, Questions: []domain.Question{scenarioQuestion()}})
	quiz, _ := state.Quiz()
	if quiz.Phase != app.PhaseLoading {
		t.Fatalf("reply for a discarded session must be ignored")
	}

	state.Apply(app.QuestionsLoaded{SessionID: second.SessionID, Questions: []domain.Question{scenarioQuestion()}})
	effects, _ := state.Answer("A")
	score := effects[0].(app.ScoreQuiz)
	state.ExitQuiz()
	if effects := state.Apply(app.QuizScored{SessionID: score.SessionID, Genres: []string{"Comedy"}}); effects != nil {
		t.Fatalf("scoring reply after exit must be ignored, got %v", effects)
	}
	if state.Panel() != domain.PanelMain {
		t.Fatalf("expected to stay on main, got %v", state.Panel())
	}
}

func TestRecommendationsServiceErrorRendersVerbatim(t *testing.T) {
	state := newTestState()
	effects, err := state.FetchAndRender([]string{"Western"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	fetch := effects[0].(app.FetchRecommendations)

	state.Apply(app.RecommendationsLoaded{Seq: fetch.Seq, Err: &domain.ServiceError{Message: "No shows found"}})

	view := state.Results()
	if view.ErrorTitle != "No shows found" || len(view.Cards) != 0 || view.Loading {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestRecommendationsTransportFailure(t *testing.T) {
	state := newTestState()
	effects, _ := state.FetchAndRender([]string{"Drama"})
	fetch := effects[0].(app.FetchRecommendations)

	cause := &domain.TransportError{Endpoint: "/api/recommend", Status: 503}
	state.Apply(app.RecommendationsLoaded{Seq: fetch.Seq, Err: cause})

	view := state.Results()
	if view.ErrorTitle != domain.LoadErrorTitle || !strings.Contains(view.ErrorDetail, "503") {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestRecommendationsRenderInReceivedOrder(t *testing.T) {
	state := newTestState()
	effects, _ := state.FetchAndRender([]string{" Comedy ", "Drama", "Comedy", ""})
	fetch := effects[0].(app.FetchRecommendations)
	if !reflect.DeepEqual(fetch.Genres, []string{"Comedy", "Drama"}) {
		t.Fatalf("expected normalized genres, got %v", fetch.Genres)
	}
	if _, err := state.FetchAndRender([]string{"Crime"}); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected busy while loading, got %v", err)
	}

	shows := []domain.Recommendation{
		{Title: "Zeta", Year: "2020"},
		{Title: "Alpha", Year: "2001"},
	}
	state.Apply(app.RecommendationsLoaded{Seq: fetch.Seq, Set: domain.RecommendationSet{Recommendations: shows, Genres: []string{"Comedy"}}})

	view := state.Results()
	if !reflect.DeepEqual(view.Cards, shows) {
		t.Fatalf("expected cards in received order, got %+v", view.Cards)
	}
	if view.Summary() != "Based on your preferred genres: Comedy" {
		t.Fatalf("unexpected summary %q", view.Summary())
	}
	if _, err := state.FetchAndRender(nil); !errors.Is(err, domain.ErrNoGenres) {
		t.Fatalf("expected no genres error, got %v", err)
	}
}

func TestChatGoodbyeResetsTranscript(t *testing.T) {
	state := newTestState()
	_ = state.ShowPanel(domain.PanelChat)

	effects, err := state.SendChat("ok bye")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	transcript := state.Transcript()
	if len(transcript) != 3 || !transcript[2].Pending {
		t.Fatalf("expected greeting, user message and placeholder, got %+v", transcript)
	}
	if _, err := state.SendChat("again"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected busy while reply pending, got %v", err)
	}

	send := effects[0].(app.SendChat)
	effects = state.Apply(app.ChatReplied{Message: send.Message, Reply: "See you!"})
	transcript = state.Transcript()
	if last := transcript[len(transcript)-1]; last.Text != "See you!" || last.Pending {
		t.Fatalf("expected reply to replace placeholder, got %+v", last)
	}
	reset, ok := effects[0].(app.ResetChatAfter)
	if !ok || reset.Delay != time.Second {
		t.Fatalf("expected reset after 1s, got %v", effects)
	}
	if state.Panel() != domain.PanelChat {
		t.Fatalf("panel must not change before the delay")
	}

	state.Apply(app.ChatResetDue{})
	if state.Panel() != domain.PanelMain {
		t.Fatalf("expected main panel after reset, got %v", state.Panel())
	}
	transcript = state.Transcript()
	if len(transcript) != 1 || transcript[0].Text != domain.Greeting {
		t.Fatalf("expected greeting only, got %+v", transcript)
	}
}

func TestChatFailureShowsApologyWithoutReset(t *testing.T) {
	state := newTestState()
	effects, _ := state.SendChat("exit please")
	send := effects[0].(app.SendChat)

	effects = state.Apply(app.ChatReplied{Message: send.Message, Err: errors.New("dial tcp: refused")})
	if effects != nil {
		t.Fatalf("failed reply must not schedule a reset, got %v", effects)
	}
	transcript := state.Transcript()
	if last := transcript[len(transcript)-1]; last.Text != domain.ChatApology {
		t.Fatalf("expected apology, got %+v", last)
	}
	if state.ChatPending() {
		t.Fatalf("expected chat to accept new messages")
	}
}

func TestSendChatIgnoresBlank(t *testing.T) {
	state := newTestState()
	effects, err := state.SendChat("   ")
	if err != nil || effects != nil {
		t.Fatalf("expected no-op, got %v %v", effects, err)
	}
	if len(state.Transcript()) != 1 {
		t.Fatalf("blank message must not be appended")
	}
}

func TestIsGoodbyeUsesSubstringMatch(t *testing.T) {
	cases := map[string]bool{
		"ok bye":          true,
		"BYE":             true,
		"Exit":            true,
		"goodbye friend":  true,
		"maybe yes":       false,
		"the exits ahead": true,
		"hello":           false,
		"abyes":           true,
	}
	for msg, want := range cases {
		if got := app.IsGoodbye(msg); got != want {
			t.Fatalf("IsGoodbye(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestTopGenresKeepsTies(t *testing.T) {
	got := app.TopGenres(map[string]int{"Comedy": 2, "Drama": 2, "Crime": 1})
	if !reflect.DeepEqual(got, []string{"Comedy", "Drama"}) {
		t.Fatalf("expected tie-inclusive result, got %v", got)
	}
	if got := app.TopGenres(nil); got != nil {
		t.Fatalf("expected nil for empty tally, got %v", got)
	}
}

func TestTopGenresProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		scores := make(map[string]int)
		for i := 0; i < 1+rnd.Intn(8); i++ {
			scores["g"+strconv.Itoa(rnd.Intn(10))] = rnd.Intn(5)
		}

		top := app.TopGenres(scores)
		if len(top) == 0 {
			t.Fatalf("expected non-empty result for %v", scores)
		}
		picked := make(map[string]bool, len(top))
		for _, g := range top {
			picked[g] = true
		}
		for g, s := range scores {
			for _, winner := range top {
				if !picked[g] && scores[winner] < s {
					t.Fatalf("genre %s (%d) beats winner %s (%d) in %v", g, s, winner, scores[winner], scores)
				}
				if picked[g] && scores[winner] != s {
					t.Fatalf("winners differ in tally: %v", scores)
				}
			}
		}
	}
}

func newTestState() *app.State {
	n := 0
	return app.NewState(app.WithIDGenerator(func() string {
		n++
		return "session-" + strconv.Itoa(n)
	}))
}

func scenarioQuestion() domain.Question {
	return domain.Question{
		Prompt: "Pick one",
		Options: map[string]domain.Option{
			"A": {Text: "Jokes", Genres: []string{"Comedy"}},
			"B": {Text: "Feelings", Genres: []string{"Drama", "Comedy"}},
		},
	}
}
