package dedup

import (
	"strings"
	"testing"
)

func compareTitles(t *testing.T, title1, title2 string) Breakdown {
	t.Helper()
	scorer := NewScorer(DefaultConfig())
	return scorer.CompareDetailed(
		title1, title2,
		ExtractEntities(title1, ""),
		ExtractEntities(title2, ""),
	)
}

// Two funding rounds with the same phrasing but different amounts are
// different events. The score stays high; the verdict must not.
func TestCompareDifferentAmountsNeverMerge(t *testing.T) {
	t.Parallel()

	got := compareTitles(t,
		"Startup X raises $10 million in Series A funding",
		"Startup X raises $50 million in Series B funding round",
	)
	if got.Verdict.IsDuplicate {
		t.Fatalf("different funding rounds merged: %+v", got.Verdict)
	}
	if got.Verdict.Score < 90 {
		t.Fatalf("expected near-identical phrasing to score high, got %.1f", got.Verdict.Score)
	}
	if got.Verdict.Reason != "" {
		t.Fatalf("non-duplicate verdict should carry no reason, got %q", got.Verdict.Reason)
	}
}

// Same announcement template, different subject company.
func TestCompareDifferentSubjectsNeverMerge(t *testing.T) {
	t.Parallel()

	got := compareTitles(t,
		"Google launches new AI model for healthcare",
		"Microsoft launches new AI model for healthcare",
	)
	if got.Verdict.IsDuplicate {
		t.Fatalf("distinct subjects merged: %+v", got.Verdict)
	}
	if got.TokenSet < 88 {
		t.Fatalf("test premise broken: token set %d should exceed the threshold", got.TokenSet)
	}
}

func TestCompareRewordedTitleIsDuplicate(t *testing.T) {
	t.Parallel()

	got := compareTitles(t,
		"Telangana rolls out global AI innovation entity Aikam",
		"Telangana launches global AI innovation entity Aikam",
	)
	if !got.Verdict.IsDuplicate {
		t.Fatalf("minor rewording not detected: %+v", got)
	}
	if got.TokenSet < 88 || got.Basic < 70 {
		t.Fatalf("expected the token-set rule to fire, got token_set=%d basic=%d", got.TokenSet, got.Basic)
	}
}

// A follow-up story shares entities with the original announcement but
// reports a later development. It must survive.
func TestCompareFollowUpStoryAccepted(t *testing.T) {
	t.Parallel()

	got := compareTitles(t,
		"Karnataka announces AI policy framework",
		"Karnataka AI policy framework implementation begins",
	)
	if got.Verdict.IsDuplicate {
		t.Fatalf("follow-up story merged with original: %+v", got.Verdict)
	}
}

// Moderate textual similarity plus matching amounts and heavy term
// overlap crosses the boosted combined threshold.
func TestCompareEntityBoostedDuplicate(t *testing.T) {
	t.Parallel()

	got := compareTitles(t,
		"Adani group to invest Rs 2,000 crore in Pune data centre campus",
		"Adani commits Rs 2,000 crore for new data centre campus near Pune",
	)
	if !got.Verdict.IsDuplicate {
		t.Fatalf("entity-boosted rewrite not detected: %+v", got)
	}
	if got.TokenSet >= 88 {
		t.Fatalf("test premise broken: token set %d should sit below the threshold", got.TokenSet)
	}
	if got.Boost == 0 {
		t.Fatalf("expected an entity boost, got breakdown %+v", got)
	}
	if !strings.Contains(got.Verdict.Reason, "similar amounts") {
		t.Fatalf("reason should name the amount signal, got %q", got.Verdict.Reason)
	}
}

func TestAmountsSimilar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b []string
		want bool
	}{
		{"unit variants of same value", []string{"5000cr"}, []string{"5000"}, true},
		{"different magnitudes", []string{"10mn"}, []string{"50mn"}, false},
		{"within tolerance", []string{"95mn"}, []string{"100mn"}, true},
		{"unparsable side counts as similar", []string{"cr"}, []string{"10mn"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := amountsSimilar(tc.a, tc.b, DefaultConfig().AmountTolerance); got != tc.want {
				t.Fatalf("amountsSimilar(%v, %v) = %t, want %t", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDistinguishingTerms(t *testing.T) {
	t.Parallel()

	title := "Google launches new AI model for healthcare"
	terms := distinguishingTerms(title, ExtractEntities(title, ""))
	if len(terms) != 1 {
		t.Fatalf("expected only the company to distinguish, got %v", terms)
	}
	if _, ok := terms["google"]; !ok {
		t.Fatalf("expected google in distinguishing terms, got %v", terms)
	}
}
