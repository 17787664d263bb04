package dedup

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// EntitySet holds the comparison signals extracted from a title/content
// pair: normalized monetary amounts, organisation-looking tokens, and
// noise-filtered key terms. Slices are sorted and de-duplicated.
type EntitySet struct {
	Amounts   []string `json:"amounts"`
	Companies []string `json:"companies"`
	KeyTerms  []string `json:"key_terms"`
}

var (
	amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|usd|\$)\s*[\d,]+(?:\.\d+)?\s*(?:crore|cr|lakh|million|mn|billion|bn|k)?`)

	// Capitalised words with tech-ish suffixes, or all-caps acronyms.
	companyPattern = regexp.MustCompile(`\b(?:[A-Z][a-z]+(?:AI|\.ai|tech|labs?|soft|ware|vision|mind|brain|net|cloud)|[A-Z][A-Z]+)\b`)

	currencyTokenPattern = regexp.MustCompile(`[₹$]|rs\.?|inr|usd`)
	numberPattern        = regexp.MustCompile(`[\d.]+`)
	lowerWordPattern     = regexp.MustCompile(`\b[a-z]+\b`)
	leadingIntPattern    = regexp.MustCompile(`\d+`)
)

// Stop words plus reporting verbs that carry no subject signal in
// news titles.
var noiseWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "for": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"set": {}, "up": {}, "sets": {}, "setting": {}, "ready": {}, "new": {},
	"india": {}, "indian": {}, "indias": {},
	"announces": {}, "announced": {}, "announcement": {}, "launching": {}, "launches": {}, "launch": {},
	"plans": {}, "planning": {}, "planned": {}, "plan": {},
	"estimated": {}, "expected": {}, "likely": {}, "reportedly": {},
	"says": {}, "said": {}, "reports": {}, "reported": {},
}

// ExtractEntities derives an EntitySet from a title and optional body
// content. Extraction is best-effort: fragments that do not parse are
// skipped, never reported.
func ExtractEntities(title, content string) EntitySet {
	text := title
	if strings.TrimSpace(content) != "" {
		text = title + " " + content
	}

	amounts := make(map[string]struct{})
	for _, match := range amountPattern.FindAllString(text, -1) {
		if normalized, ok := normalizeAmount(match); ok {
			amounts[normalized] = struct{}{}
		}
	}

	companies := make(map[string]struct{})
	for _, match := range companyPattern.FindAllString(text, -1) {
		companies[strings.ToLower(match)] = struct{}{}
	}

	keyTerms := make(map[string]struct{})
	for _, word := range lowerWordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(word) <= 2 {
			continue
		}
		if _, noisy := noiseWords[word]; noisy {
			continue
		}
		keyTerms[word] = struct{}{}
	}

	return EntitySet{
		Amounts:   sortedKeys(amounts),
		Companies: sortedKeys(companies),
		KeyTerms:  sortedKeys(keyTerms),
	}
}

// normalizeAmount reduces an amount fragment to "{integer}{unit}":
// "₹5,000 crore" -> "5000cr", "$100 million" -> "100mn". The "k"
// multiplier expands to x1000 only when no crore/lakh unit is present.
func normalizeAmount(fragment string) (string, bool) {
	cleaned := strings.ToLower(fragment)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = currencyTokenPattern.ReplaceAllString(cleaned, "")

	numText := numberPattern.FindString(cleaned)
	if numText == "" {
		return "", false
	}
	num, err := strconv.ParseFloat(strings.Trim(numText, "."), 64)
	if err != nil {
		return "", false
	}

	if strings.Contains(cleaned, "k") && !strings.Contains(cleaned, "crore") && !strings.Contains(cleaned, "lakh") {
		num *= 1000
	}

	unit := ""
	switch {
	case strings.Contains(cleaned, "crore") || strings.Contains(cleaned, "cr"):
		unit = "cr"
	case strings.Contains(cleaned, "lakh"):
		unit = "lakh"
	case strings.Contains(cleaned, "billion") || strings.Contains(cleaned, "bn"):
		unit = "bn"
	case strings.Contains(cleaned, "million") || strings.Contains(cleaned, "mn"):
		unit = "mn"
	}

	return fmt.Sprintf("%d%s", int64(num), unit), true
}

// leadingInt extracts the magnitude from a normalized amount string.
func leadingInt(amount string) int64 {
	digits := leadingIntPattern.FindString(amount)
	if digits == "" {
		return 0
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
