package lexicon

import "github.com/runnerr0/pulse/internal/textnorm"

var topicKeywords = []struct {
	name     string
	keywords []string
}{
	{"delivery", []string{"delivery", "doordash", "uber eats", "grubhub", "pickup", "para llevar", "domicilio"}},
	{"prime", []string{"prime", "ribeye", "marbling", "angus", "choice", "brisket", "wagyu", "tomahawk", "picaña"}},
	{"heladas", []string{"helado", "ice cream", "nieves", "paleta", "paletas"}},
	{"game_day", []string{"gameday", "game day", "superbowl", "super bowl", "bbq", "grill", "asada", "parrilla", "wings"}},
	{"promos", []string{"promo", "promotion", "deal", "special", "oferta", "descuento", "2x1", "two for one"}},
}

var topicCategories = buildTopicCategories()

func buildTopicCategories() []category {
	out := make([]category, len(topicKeywords))
	for i, tk := range topicKeywords {
		c := category{name: tk.name}
		for _, kw := range tk.keywords {
			c.patterns = append(c.patterns, wordPattern(kw))
		}
		out[i] = c
	}
	return out
}

// TopicCategories lists every topic name in reporting order.
func TopicCategories() []string {
	names := make([]string, len(topicKeywords))
	for i, tk := range topicKeywords {
		names[i] = tk.name
	}
	return names
}

// DetectTopics returns the topic categories whose keywords appear in text.
func DetectTopics(text string) []string {
	return detect(topicCategories, textnorm.Lower(text))
}
