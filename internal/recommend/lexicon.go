package recommend

import "sort"

// The lexicon is the only source of truth translating genres and emotions into
// mood weights. All tables are process-lifetime constants; lookups return
// copies so callers can never mutate them.

var genreMoods = map[string]MoodVector{
	"Action":          {"action": 0.9, "intense": 0.8, "energetic": 0.7, "adventure": 0.6},
	"Adventure":       {"adventure": 0.9, "energetic": 0.7, "uplifting": 0.6, "feel-good": 0.5},
	"Animation":       {"feel-good": 0.8, "uplifting": 0.7, "heartwarming": 0.6, "comedy": 0.5},
	"Comedy":          {"comedy": 0.9, "feel-good": 0.8, "uplifting": 0.7, "heartwarming": 0.6},
	"Crime":           {"intense": 0.8, "thriller": 0.7, "drama": 0.6, "action": 0.5},
	"Documentary":     {"educational": 0.9, "thoughtful": 0.8, "drama": 0.6},
	"Drama":           {"drama": 0.9, "emotional": 0.8, "thoughtful": 0.7, "intense": 0.6},
	"Family":          {"feel-good": 0.9, "heartwarming": 0.8, "uplifting": 0.7, "comedy": 0.6},
	"Fantasy":         {"adventure": 0.8, "magical": 0.9, "uplifting": 0.6, "feel-good": 0.5},
	"History":         {"drama": 0.7, "thoughtful": 0.8, "educational": 0.6},
	"Horror":          {"scary": 0.9, "intense": 0.8, "thriller": 0.7},
	"Music":           {"uplifting": 0.8, "feel-good": 0.7, "emotional": 0.6, "heartwarming": 0.5},
	"Mystery":         {"thriller": 0.8, "intense": 0.7, "thoughtful": 0.6},
	"Romance":         {"romance": 0.9, "heartwarming": 0.8, "feel-good": 0.7, "emotional": 0.6},
	"Science Fiction": {"sci-fi": 0.9, "adventure": 0.7, "thoughtful": 0.6, "action": 0.5},
	"TV Movie":        {"drama": 0.6, "feel-good": 0.5},
	"Thriller":        {"thriller": 0.9, "intense": 0.8, "action": 0.6},
	"War":             {"intense": 0.8, "drama": 0.7, "action": 0.6, "thoughtful": 0.5},
	"Western":         {"action": 0.7, "adventure": 0.6, "drama": 0.5},
}

var emotionMoods = map[string]MoodVector{
	"joy":        {"feel-good": 0.9, "uplifting": 0.8, "comedy": 0.7, "heartwarming": 0.6},
	"sadness":    {"drama": 0.8, "emotional": 0.9, "melancholic": 0.7, "thoughtful": 0.6},
	"anger":      {"intense": 0.8, "action": 0.7, "thriller": 0.6},
	"fear":       {"scary": 0.9, "thriller": 0.8, "intense": 0.7},
	"surprise":   {"adventure": 0.7, "thriller": 0.6, "comedy": 0.5},
	"excitement": {"action": 0.8, "adventure": 0.7, "energetic": 0.9, "uplifting": 0.6},
	"calmness":   {"calming": 0.9, "peaceful": 0.8, "thoughtful": 0.7, "drama": 0.5},
	"nostalgia":  {"nostalgic": 0.9, "heartwarming": 0.7, "drama": 0.6, "feel-good": 0.5},
}

// moodSearchTerms expands a mood into literal provider search queries.
var moodSearchTerms = map[string][]string{
	"action":    {"action", "adventure", "superhero"},
	"romance":   {"romance", "love", "romantic"},
	"comedy":    {"comedy", "funny", "humor"},
	"drama":     {"drama", "emotional"},
	"thriller":  {"thriller", "suspense"},
	"horror":    {"horror", "scary"},
	"sci-fi":    {"science fiction", "sci-fi", "future"},
	"fantasy":   {"fantasy", "magic"},
	"feel-good": {"feel good", "uplifting", "heartwarming"},
	"intense":   {"intense", "action", "thriller"},
	"calming":   {"peaceful", "calm", "relaxing"},
	"nostalgic": {"classic", "vintage", "nostalgic"},
}

type genreSynonym struct {
	trigger string
	genre   string
}

// genreSynonyms maps lowercase trigger words found in free text to a provider
// genre name. Ordered so extraction output is deterministic.
var genreSynonyms = []genreSynonym{
	{"action", "Action"},
	{"comedy", "Comedy"},
	{"funny", "Comedy"},
	{"romance", "Romance"},
	{"romantic", "Romance"},
	{"drama", "Drama"},
	{"horror", "Horror"},
	{"scary", "Horror"},
	{"thriller", "Thriller"},
	{"suspense", "Thriller"},
	{"sci-fi", "Science Fiction"},
	{"science fiction", "Science Fiction"},
	{"fantasy", "Fantasy"},
	{"animation", "Animation"},
	{"animated", "Animation"},
	{"documentary", "Documentary"},
}

// analyzerMoods is the mood vocabulary offered to the analysis provider.
var analyzerMoods = []string{
	"action", "adventure", "comedy", "drama", "horror",
	"romance", "thriller", "sci-fi", "fantasy", "documentary",
	"feel-good", "uplifting", "calming", "energetic", "nostalgic",
}

var moodVocabulary = buildMoodVocabulary()

func buildMoodVocabulary() map[string]bool {
	vocab := make(map[string]bool)
	for _, moods := range genreMoods {
		for label := range moods {
			vocab[label] = true
		}
	}
	for _, moods := range emotionMoods {
		for label := range moods {
			vocab[label] = true
		}
	}
	for _, label := range analyzerMoods {
		vocab[label] = true
	}
	return vocab
}

// GenreToMoods returns the mood weights a genre implies. Unknown genres yield
// an empty vector, never an error.
func GenreToMoods(genre string) MoodVector {
	src, ok := genreMoods[genre]
	if !ok {
		return MoodVector{}
	}
	out := make(MoodVector, len(src))
	for label, w := range src {
		out[label] = w
	}
	return out
}

// EmotionToMoods returns the mood weights an emotion implies. Unknown emotions
// yield an empty vector.
func EmotionToMoods(emotion string) MoodVector {
	src, ok := emotionMoods[emotion]
	if !ok {
		return MoodVector{}
	}
	out := make(MoodVector, len(src))
	for label, w := range src {
		out[label] = w
	}
	return out
}

// MoodSearchTerms expands a mood label into search queries, falling back to
// the label itself.
func MoodSearchTerms(mood string) []string {
	if terms, ok := moodSearchTerms[mood]; ok {
		out := make([]string, len(terms))
		copy(out, terms)
		return out
	}
	return []string{mood}
}

// KnownMood reports membership in the mood vocabulary.
func KnownMood(label string) bool {
	return moodVocabulary[label]
}

// KnownEmotion reports membership in the emotion vocabulary.
func KnownEmotion(label string) bool {
	_, ok := emotionMoods[label]
	return ok
}

// AnalyzerMoodLabels lists the moods the analysis provider may score.
func AnalyzerMoodLabels() []string {
	out := make([]string, len(analyzerMoods))
	copy(out, analyzerMoods)
	return out
}

// EmotionLabels lists the emotion vocabulary in stable order.
func EmotionLabels() []string {
	out := make([]string, 0, len(emotionMoods))
	for label := range emotionMoods {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
