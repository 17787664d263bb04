package dedup

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	weightTokenSet  = 0.40
	weightPartial   = 0.25
	weightTokenSort = 0.25
	weightBasic     = 0.10
)

// Verdict is the scorer's answer for one title pair. Reason is set only
// when IsDuplicate is true and names the rule that fired.
type Verdict struct {
	Score       float64 `json:"score"`
	IsDuplicate bool    `json:"is_duplicate"`
	Reason      string  `json:"reason,omitempty"`
}

// Breakdown exposes every intermediate signal for threshold tuning.
type Breakdown struct {
	TokenSet    int     `json:"token_set"`
	Partial     int     `json:"partial"`
	TokenSort   int     `json:"token_sort"`
	Basic       int     `json:"basic"`
	WeightedAvg float64 `json:"weighted_avg"`
	Boost       int     `json:"boost"`
	Verdict     Verdict `json:"verdict"`
}

type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

// Compare scores two titles with their extracted entities. The
// differentiating checks run before any duplicate rule: two articles
// that name incompatible amounts, or distinct subjects, are never
// merged no matter how alike the phrasing is.
func (s *Scorer) Compare(title1, title2 string, entities1, entities2 EntitySet) Verdict {
	return s.CompareDetailed(title1, title2, entities1, entities2).Verdict
}

func (s *Scorer) CompareDetailed(title1, title2 string, entities1, entities2 EntitySet) Breakdown {
	lower1 := strings.ToLower(title1)
	lower2 := strings.ToLower(title2)

	breakdown := Breakdown{
		TokenSet:  fuzzTokenSetRatio(lower1, lower2),
		Partial:   fuzzPartialRatio(lower1, lower2),
		TokenSort: fuzzTokenSortRatio(lower1, lower2),
		Basic:     fuzzRatio(lower1, lower2),
	}
	breakdown.WeightedAvg = weightTokenSet*float64(breakdown.TokenSet) +
		weightPartial*float64(breakdown.Partial) +
		weightTokenSort*float64(breakdown.TokenSort) +
		weightBasic*float64(breakdown.Basic)

	// Differentiating signals first. Same template, different amounts
	// ("raises $10M Series A" vs "raises $50M Series B") is a different
	// event, not a duplicate.
	if len(entities1.Amounts) > 0 && len(entities2.Amounts) > 0 &&
		!equalStringSets(entities1.Amounts, entities2.Amounts) &&
		!amountsSimilar(entities1.Amounts, entities2.Amounts, s.cfg.AmountTolerance) {
		breakdown.Verdict = Verdict{Score: breakdown.WeightedAvg}
		return breakdown
	}

	// Same template, different subject ("Google launches X" vs
	// "Microsoft launches X").
	terms1 := distinguishingTerms(title1, entities1)
	terms2 := distinguishingTerms(title2, entities2)
	if len(terms1) > 0 && len(terms2) > 0 {
		common := 0
		for term := range terms1 {
			if _, ok := terms2[term]; ok {
				common++
			}
		}
		union := len(terms1) + len(terms2) - common
		if union >= 2 && float64(common)/float64(union) < s.cfg.TermOverlapFloor {
			breakdown.Verdict = Verdict{Score: breakdown.WeightedAvg}
			return breakdown
		}
	}

	boost := 0
	boostReason := ""
	if len(entities1.Amounts) > 0 && len(entities2.Amounts) > 0 &&
		amountsSimilar(entities1.Amounts, entities2.Amounts, s.cfg.AmountTolerance) {
		boost += 8
		boostReason = "similar amounts mentioned"
	}
	if len(entities1.KeyTerms) > 0 && len(entities2.KeyTerms) > 0 {
		overlap := keyTermOverlap(entities1.KeyTerms, entities2.KeyTerms)
		if overlap > s.cfg.KeyTermBoostFloor {
			boost += int(overlap * 15)
			if boostReason == "" {
				boostReason = fmt.Sprintf("term overlap (%.0f%%)", overlap*100)
			} else {
				boostReason += fmt.Sprintf(", term overlap (%.0f%%)", overlap*100)
			}
		}
	}

	breakdown.Boost = boost
	finalScore := math.Min(100, breakdown.WeightedAvg+float64(boost))

	switch {
	case breakdown.TokenSet >= s.cfg.TokenSetThreshold && breakdown.Basic >= s.cfg.BasicFloor:
		breakdown.Verdict = Verdict{
			Score:       finalScore,
			IsDuplicate: true,
			Reason:      fmt.Sprintf("token set %d%% >= %d%% (basic %d%%)", breakdown.TokenSet, s.cfg.TokenSetThreshold, breakdown.Basic),
		}
	case breakdown.TokenSet >= s.cfg.TokenSetThreshold && boostReason != "":
		breakdown.Verdict = Verdict{
			Score:       finalScore,
			IsDuplicate: true,
			Reason:      fmt.Sprintf("token set %d%% with %s", breakdown.TokenSet, boostReason),
		}
	case breakdown.Partial >= s.cfg.PartialThreshold && breakdown.TokenSort >= s.cfg.TokenSortFloor:
		breakdown.Verdict = Verdict{
			Score:       finalScore,
			IsDuplicate: true,
			Reason:      fmt.Sprintf("partial %d%% >= %d%% (token sort %d%%)", breakdown.Partial, s.cfg.PartialThreshold, breakdown.TokenSort),
		}
	case finalScore >= s.cfg.CombinedThreshold+5 && boostReason != "":
		breakdown.Verdict = Verdict{
			Score:       finalScore,
			IsDuplicate: true,
			Reason:      boostReason,
		}
	default:
		breakdown.Verdict = Verdict{Score: finalScore}
	}

	return breakdown
}

// amountsSimilar reports whether two amount sets could describe the
// same value: any pair equal, or within the tolerance ratio (covers
// "5k" vs "5000"). An unparsable side cannot disprove a match, so it
// counts as similar and never blocks a merge on its own.
func amountsSimilar(amounts1, amounts2 []string, tolerance float64) bool {
	values1 := amountMagnitudes(amounts1)
	values2 := amountMagnitudes(amounts2)
	if len(values1) == 0 || len(values2) == 0 {
		return true
	}

	for _, v1 := range values1 {
		for _, v2 := range values2 {
			if v1 == v2 {
				return true
			}
			smaller, larger := v1, v2
			if smaller > larger {
				smaller, larger = larger, smaller
			}
			if float64(smaller)/float64(larger) > tolerance {
				return true
			}
		}
	}
	return false
}

func amountMagnitudes(amounts []string) []int64 {
	values := make([]int64, 0, len(amounts))
	for _, amount := range amounts {
		if value := leadingInt(amount); value > 0 {
			values = append(values, value)
		}
	}
	return values
}

func keyTermOverlap(terms1, terms2 []string) float64 {
	set2 := toSet(terms2)
	common := 0
	for _, term := range terms1 {
		if _, ok := set2[term]; ok {
			common++
		}
	}
	union := len(terms1) + len(terms2) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// Words too common in this corpus to tell one story from another.
var genericTerms = map[string]struct{}{
	"india": {}, "indian": {}, "startup": {}, "company": {}, "funding": {}, "raises": {},
	"million": {}, "crore": {}, "series": {}, "round": {}, "investment": {}, "launches": {},
	"announces": {}, "plans": {}, "model": {}, "platform": {}, "technology": {}, "digital": {},
	"artificial": {}, "intelligence": {}, "machine": {}, "learning": {}, "data": {},
	"centre": {}, "center": {}, "global": {}, "first": {}, "latest": {}, "biggest": {},
	"healthcare": {}, "health": {}, "care": {}, "sector": {}, "industry": {},
}

// Major companies whose presence alone marks the article's subject.
var knownCompanies = map[string]struct{}{
	"google": {}, "microsoft": {}, "amazon": {}, "meta": {}, "facebook": {}, "apple": {},
	"nvidia": {}, "openai": {}, "anthropic": {}, "ibm": {}, "oracle": {}, "salesforce": {},
	"infosys": {}, "tcs": {}, "wipro": {}, "hcl": {}, "cognizant": {},
	"reliance": {}, "tata": {}, "adani": {}, "airtel": {}, "jio": {}, "paytm": {}, "flipkart": {},
	"zomato": {}, "swiggy": {}, "ola": {}, "uber": {}, "byju": {}, "unacademy": {},
}

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// distinguishingTerms picks the terms specific enough to mark the
// article's subject: long non-generic key terms, known company names,
// and capitalised non-first words of the raw title (proper nouns).
func distinguishingTerms(rawTitle string, entities EntitySet) map[string]struct{} {
	terms := make(map[string]struct{})

	for _, term := range entities.KeyTerms {
		if _, known := knownCompanies[term]; known {
			terms[term] = struct{}{}
			continue
		}
		if _, generic := genericTerms[term]; generic {
			continue
		}
		if len(term) > 4 {
			terms[term] = struct{}{}
		}
	}

	for i, word := range strings.Fields(rawTitle) {
		clean := strings.ToLower(nonWordPattern.ReplaceAllString(word, ""))
		if clean == "" {
			continue
		}
		if _, known := knownCompanies[clean]; known {
			terms[clean] = struct{}{}
			continue
		}
		if i == 0 || !startsUpper(word) || len(clean) <= 3 {
			continue
		}
		if _, generic := genericTerms[clean]; generic {
			continue
		}
		if _, noisy := noiseWords[clean]; noisy {
			continue
		}
		terms[clean] = struct{}{}
	}

	return terms
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func equalStringSets(left, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	rightSet := toSet(right)
	for _, value := range left {
		if _, ok := rightSet[value]; !ok {
			return false
		}
	}
	return true
}
