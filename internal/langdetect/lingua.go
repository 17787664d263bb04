package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// The tracker ingests Indian tech press, so the detector is restricted
// to English plus the major Indian languages the sources publish in.
// A smaller set keeps model load cheap and avoids exotic false picks
// on short headlines.
var trackedLanguages = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.Bengali,
	lingua.Tamil,
	lingua.Telugu,
	lingua.Marathi,
	lingua.Gujarati,
	lingua.Punjabi,
	lingua.Urdu,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectISO6391 returns the two-letter language code for a headline, or
// "" when the sample is too short to call. The similarity scorer is
// tuned for English titles; callers surface this code so non-English
// traffic is visible before anyone trusts the scorer on it.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(trackedLanguages...).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
