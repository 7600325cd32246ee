package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Panel identifies one of the mutually exclusive views of the client.
type Panel int

const (
	PanelMain Panel = iota
	PanelGenreSelect
	PanelQuiz
	PanelResults
	PanelChat
)

var panelNames = map[Panel]string{
	PanelMain:        "main",
	PanelGenreSelect: "genres",
	PanelQuiz:        "quiz",
	PanelResults:     "results",
	PanelChat:        "chat",
}

// Panels lists every panel in display order.
func Panels() []Panel {
	return []Panel{PanelMain, PanelGenreSelect, PanelQuiz, PanelResults, PanelChat}
}

// Valid reports whether p is one of the known panels.
func (p Panel) Valid() bool {
	_, ok := panelNames[p]
	return ok
}

func (p Panel) String() string {
	if name, ok := panelNames[p]; ok {
		return name
	}
	return "panel(" + strconv.Itoa(int(p)) + ")"
}

// ParsePanel maps a panel name to its value.
func ParsePanel(name string) (Panel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range panelNames {
		if n == name {
			return p, nil
		}
	}
	return PanelMain, ErrUnknownPanel
}

// Option is one answer choice of a quiz question.
type Option struct {
	Text   string   `json:"text"`
	Genres []string `json:"genres"`
}

// Question is a quiz prompt with options keyed by a short letter.
type Question struct {
	Prompt  string            `json:"question"`
	Options map[string]Option `json:"options"`
}

// Keys returns the option keys in display order.
func (q Question) Keys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup finds an option by key, ignoring case.
func (q Question) Lookup(key string) (string, Option, bool) {
	key = strings.TrimSpace(key)
	if opt, ok := q.Options[key]; ok {
		return key, opt, true
	}
	for k, opt := range q.Options {
		if strings.EqualFold(k, key) {
			return k, opt, true
		}
	}
	return "", Option{}, false
}

// QuestionGenres returns the union of genres tagged on any option, sorted.
func QuestionGenres(questions []Question) []string {
	seen := make(map[string]struct{})
	for _, q := range questions {
		for _, opt := range q.Options {
			for _, g := range opt.Genres {
				seen[g] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Year holds a release year as display text; the service sends either a number or a string.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*y = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	*y = Year(raw)
	return nil
}

// Recommendation is a single show returned by the service.
type Recommendation struct {
	Title       string `json:"title"`
	Year        Year   `json:"year"`
	Genres      string `json:"genres"`
	Description string `json:"description"`
}

// RecommendationSet is the successful payload of a recommend call.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Genres          []string         `json:"genres"`
}

// Origin tells who authored a chat message.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// ChatMessage is one line of the chat transcript. Pending marks the typing placeholder.
type ChatMessage struct {
	Origin  Origin
	Text    string
	Pending bool
}

const (
	Greeting       = "Hello! I'm Suggestify, your TV show recommendation assistant. How can I help you today?"
	ChatApology    = "Sorry, I'm having trouble connecting to the server. Please try again later."
	NoShowsHint    = "Try selecting different genres or taking the quiz again."
	LoadErrorTitle = "Error loading recommendations"
)
