package intent

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindWeather Kind = "weather"
	KindNews    Kind = "news"
	KindTime    Kind = "time"
	KindChat    Kind = "chat"
)

type Lang string

const (
	LangEnglish  Lang = "en"
	LangFilipino Lang = "tl"
)

// Result is the classified purpose of one transcript plus its slots.
type Result struct {
	Kind  Kind
	Lang  Lang
	City  string // weather only; defaults to Manila
	Topic string // news only; empty means general headlines
}

const DefaultCity = "Manila"

type keyword struct {
	word string
	lang Lang
}

// The rule table is ordered: weather beats news beats time; chat is the
// fallthrough. First matching keyword fixes both the intent and the reply
// language.
var rules = []struct {
	kind Kind
	keys []keyword
}{
	{KindWeather, []keyword{
		{"weather", LangEnglish},
		{"forecast", LangEnglish},
		{"panahon", LangFilipino},
		{"klima", LangFilipino},
	}},
	{KindNews, []keyword{
		{"news", LangEnglish},
		{"headlines", LangEnglish},
		{"balita", LangFilipino},
	}},
	{KindTime, []keyword{
		{"time", LangEnglish},
		{"date", LangEnglish},
		{"oras", LangFilipino},
		{"araw", LangFilipino},
	}},
}

// Ordered topic table for news; first matching keyword wins.
var topicTable = []struct {
	word  string
	topic string
}{
	{"technology", "technology"},
	{"tech", "technology"},
	{"teknolohiya", "technology"},
	{"sports", "sports"},
	{"isports", "sports"},
	{"palakasan", "sports"},
	{"business", "business"},
	{"negosyo", "business"},
	{"entertainment", "entertainment"},
	{"libangan", "entertainment"},
	{"politics", "politics"},
	{"pulitika", "politics"},
	{"politika", "politics"},
	{"science", "science"},
	{"agham", "science"},
	{"health", "health"},
	{"kalusugan", "health"},
}

// "in <words>" / "sa <words>" after the trigger; permissive on purpose.
var cityRe = regexp.MustCompile(`\b(?:in|sa)\s+([a-z][a-z ]*)`)

var filipinoMarkers = []string{
	"ano", "ako", "ikaw", "ka", "mo", "ko", "po", "ba",
	"ang", "kumusta", "paano", "bakit", "saan", "sino",
}

// Classify maps a transcript to exactly one dispatch branch. Pure string
// matching on the lower-cased text; no state.
func Classify(transcript string) Result {
	text := strings.ToLower(strings.TrimSpace(transcript))

	for _, rule := range rules {
		for _, k := range rule.keys {
			if !strings.Contains(text, k.word) {
				continue
			}
			res := Result{Kind: rule.kind, Lang: k.lang}
			switch rule.kind {
			case KindWeather:
				res.City = extractCity(text)
			case KindNews:
				res.Topic = extractTopic(text)
			}
			return res
		}
	}

	return Result{Kind: KindChat, Lang: detectLang(text)}
}

func extractCity(text string) string {
	m := cityRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultCity
	}
	city := strings.TrimSpace(m[1])
	if city == "" {
		return DefaultCity
	}
	return titleCase(city)
}

func extractTopic(text string) string {
	for _, t := range topicTable {
		if strings.Contains(text, t.word) {
			return t.topic
		}
	}
	return ""
}

func detectLang(text string) Lang {
	words := strings.Fields(text)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.Trim(w, ".,!?")] = true
	}
	for _, m := range filipinoMarkers {
		if set[m] {
			return LangFilipino
		}
	}
	return LangEnglish
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
