package intent

import "testing"

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		lang Lang
	}{
		{"what's the weather today", KindWeather, LangEnglish},
		{"give me the forecast", KindWeather, LangEnglish},
		{"ano ang panahon", KindWeather, LangFilipino},
		{"kumusta ang klima ngayon", KindWeather, LangFilipino},
		{"any news today", KindNews, LangEnglish},
		{"show me the headlines", KindNews, LangEnglish},
		{"ano ang balita", KindNews, LangFilipino},
		{"what time is it", KindTime, LangEnglish},
		{"what is the date today", KindTime, LangEnglish},
		{"anong oras na", KindTime, LangFilipino},
		{"anong araw ngayon", KindTime, LangFilipino},
		{"tell me a story about dragons", KindChat, LangEnglish},
		{"kumusta ka na", KindChat, LangFilipino},
	}

	for _, tt := range tests {
		got := Classify(tt.in)
		if got.Kind != tt.kind {
			t.Errorf("Classify(%q).Kind = %q, want %q", tt.in, got.Kind, tt.kind)
		}
		if got.Lang != tt.lang {
			t.Errorf("Classify(%q).Lang = %q, want %q", tt.in, got.Lang, tt.lang)
		}
	}
}

func TestWeatherBeatsNews(t *testing.T) {
	// both trigger words present; the table order decides
	got := Classify("news about the weather")
	if got.Kind != KindWeather {
		t.Errorf("Kind = %q, want weather to win precedence", got.Kind)
	}
}

func TestCityExtraction(t *testing.T) {
	tests := []struct {
		in   string
		city string
	}{
		{"what's the weather in cebu", "Cebu"},
		{"weather forecast in quezon city", "Quezon City"},
		{"ano ang panahon sa davao", "Davao"},
		{"ano ang panahon", DefaultCity},
		{"how is the weather", DefaultCity},
	}

	for _, tt := range tests {
		got := Classify(tt.in)
		if got.Kind != KindWeather {
			t.Fatalf("Classify(%q).Kind = %q, want weather", tt.in, got.Kind)
		}
		if got.City != tt.city {
			t.Errorf("Classify(%q).City = %q, want %q", tt.in, got.City, tt.city)
		}
	}
}

func TestTopicExtraction(t *testing.T) {
	tests := []struct {
		in    string
		topic string
	}{
		{"news about technology", "technology"},
		{"balita sa teknolohiya", "technology"},
		{"sports news please", "sports"},
		{"balita tungkol sa negosyo", "business"},
		{"any entertainment headlines", "entertainment"},
		{"news on politics", "politics"},
		{"science news", "science"},
		{"health headlines", "health"},
		{"what's the news", ""},
		{"ano ang balita", ""},
	}

	for _, tt := range tests {
		got := Classify(tt.in)
		if got.Kind != KindNews {
			t.Fatalf("Classify(%q).Kind = %q, want news", tt.in, got.Kind)
		}
		if got.Topic != tt.topic {
			t.Errorf("Classify(%q).Topic = %q, want %q", tt.in, got.Topic, tt.topic)
		}
	}
}

func TestClassifyTrimsAndLowers(t *testing.T) {
	got := Classify("  WHAT'S THE WEATHER IN Cebu  ")
	if got.Kind != KindWeather || got.City != "Cebu" {
		t.Errorf("got %+v", got)
	}
}
