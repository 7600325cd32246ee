package domain

// DefaultGenres are offered on the genre select panel.
var DefaultGenres = []string{
	"Action", "Comedy", "Crime", "Drama", "Fantasy", "Mystery", "Romance", "Sci-Fi", "Thriller",
}

// DefaultQuestions is the built-in quiz used when the service cannot provide one.
func DefaultQuestions() []Question {
	return []Question{
		{
			Prompt: "What kind of story pace do you prefer?",
			Options: map[string]Option{
				"A": {Text: "Fast-paced with twists and action", Genres: []string{"Action"}},
				"B": {Text: "Slow and emotional with deep character arcs", Genres: []string{"Drama"}},
				"C": {Text: "Light, funny, and easy to follow", Genres: []string{"Comedy"}},
				"D": {Text: "Filled with magical or futuristic elements", Genres: []string{"Fantasy", "Sci-Fi"}},
			},
		},
		{
			Prompt: "Which of these settings excites you the most?",
			Options: map[string]Option{
				"A": {Text: "Crime-ridden city or warzone", Genres: []string{"Crime", "Action"}},
				"B": {Text: "A medieval kingdom or distant galaxy", Genres: []string{"Fantasy", "Sci-Fi"}},
				"C": {Text: "A relatable modern-day town or workplace", Genres: []string{"Comedy"}},
				"D": {Text: "A courtroom, hospital, or detective's office", Genres: []string{"Drama", "Mystery"}},
			},
		},
		{
			Prompt: "What kind of emotional vibe are you going for?",
			Options: map[string]Option{
				"A": {Text: "Edge-of-your-seat suspense", Genres: []string{"Thriller"}},
				"B": {Text: "Laughs and good vibes", Genres: []string{"Comedy"}},
				"C": {Text: "Complex emotions and tearjerkers", Genres: []string{"Drama", "Romance"}},
				"D": {Text: "Epic, adventurous, and imaginative", Genres: []string{"Fantasy", "Sci-Fi"}},
			},
		},
		{
			Prompt: "Which activity sounds the most fun to watch?",
			Options: map[string]Option{
				"A": {Text: "Solving crimes or chasing bad guys", Genres: []string{"Crime", "Thriller"}},
				"B": {Text: "Exploring other worlds or timelines", Genres: []string{"Sci-Fi", "Fantasy"}},
				"C": {Text: "Watching characters fall in love", Genres: []string{"Romance"}},
				"D": {Text: "Friends joking around and living life", Genres: []string{"Comedy"}},
			},
		},
		{
			Prompt: "Pick your ideal TV character:",
			Options: map[string]Option{
				"A": {Text: "A witty detective or secret agent", Genres: []string{"Crime", "Mystery"}},
				"B": {Text: "A sarcastic best friend in a café", Genres: []string{"Comedy"}},
				"C": {Text: "A time-traveling scientist or wizard", Genres: []string{"Sci-Fi", "Fantasy"}},
				"D": {Text: "A passionate doctor, lawyer, or artist", Genres: []string{"Drama", "Romance"}},
			},
		},
	}
}
