package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"aitracker/internal/dedup"
	"aitracker/internal/langdetect"
)

// runSimilarity scores exactly two titles and prints every signal
// that fed the verdict. No database, no env file: this is the offline
// calibration tool.
func runSimilarity(args []string) int {
	fs := flag.NewFlagSet("similarity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	contentA := fs.String("content-a", "", "Optional article body for the first title")
	contentB := fs.String("content-b", "", "Optional article body for the second title")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: aitracker similarity [flags] <title-a> <title-b>")
		return 2
	}

	titleA := strings.TrimSpace(rest[0])
	titleB := strings.TrimSpace(rest[1])
	if titleA == "" || titleB == "" {
		fmt.Fprintln(os.Stderr, "Both titles must be non-empty")
		return 2
	}

	entitiesA := dedup.ExtractEntities(titleA, *contentA)
	entitiesB := dedup.ExtractEntities(titleB, *contentB)

	scorer := dedup.NewScorer(dedup.DefaultConfig())
	breakdown := scorer.CompareDetailed(titleA, titleB, entitiesA, entitiesB)

	fmt.Printf("title_a: %s (lang=%s)\n", titleA, orDash(langdetect.DetectISO6391(titleA)))
	fmt.Printf("title_b: %s (lang=%s)\n", titleB, orDash(langdetect.DetectISO6391(titleB)))
	fmt.Println()
	fmt.Printf("token_set:    %d\n", breakdown.TokenSet)
	fmt.Printf("partial:      %d\n", breakdown.Partial)
	fmt.Printf("token_sort:   %d\n", breakdown.TokenSort)
	fmt.Printf("basic:        %d\n", breakdown.Basic)
	fmt.Printf("weighted_avg: %.1f\n", breakdown.WeightedAvg)
	fmt.Printf("boost:        %d\n", breakdown.Boost)
	fmt.Println()
	fmt.Printf("amounts_a:   %s\n", joinOrDash(entitiesA.Amounts))
	fmt.Printf("amounts_b:   %s\n", joinOrDash(entitiesB.Amounts))
	fmt.Printf("companies_a: %s\n", joinOrDash(entitiesA.Companies))
	fmt.Printf("companies_b: %s\n", joinOrDash(entitiesB.Companies))
	fmt.Println()
	fmt.Printf("score:     %.1f\n", breakdown.Verdict.Score)
	fmt.Printf("duplicate: %t\n", breakdown.Verdict.IsDuplicate)
	fmt.Printf("reason:    %s\n", breakdown.Verdict.Reason)

	if breakdown.Verdict.IsDuplicate {
		return 0
	}
	return 3
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
