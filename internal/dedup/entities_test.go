package dedup

import (
	"reflect"
	"testing"
)

func TestExtractEntitiesAmounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		title string
		want  []string
	}{
		{"rupee crore", "Telangana plans ₹5,000 crore AI city", []string{"5000cr"}},
		{"rs dotted crore", "Centre approves Rs. 250 crore for the scheme", []string{"250cr"}},
		{"k multiplier", "State to spend Rs 5k on outreach", []string{"5000"}},
		{"dollar million", "Startup raises $100 million round", []string{"100mn"}},
		{"dollar billion truncates", "Deal valued at $1.5 billion closes", []string{"1bn"}},
		{"bare rupee number", "Subsidy of ₹300 per unit approved", []string{"300"}},
		{"no amounts", "Company opens research office", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractEntities(tc.title, "").Amounts
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Amounts = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractEntitiesKeyTermsFilterNoise(t *testing.T) {
	t.Parallel()

	entities := ExtractEntities("India announces new AI plan", "")
	if len(entities.KeyTerms) != 0 {
		t.Fatalf("expected all-noise title to yield no key terms, got %v", entities.KeyTerms)
	}

	entities = ExtractEntities("Telangana plans ₹5,000 crore AI city", "")
	want := []string{"city", "crore", "telangana"}
	if !reflect.DeepEqual(entities.KeyTerms, want) {
		t.Fatalf("KeyTerms = %v, want %v", entities.KeyTerms, want)
	}
}

func TestExtractEntitiesCompanies(t *testing.T) {
	t.Parallel()

	entities := ExtractEntities("IBM partners with Finotech on cloud migration", "")
	if !containsString(entities.Companies, "ibm") {
		t.Fatalf("expected acronym company, got %v", entities.Companies)
	}
	if !containsString(entities.Companies, "finotech") {
		t.Fatalf("expected suffix-matched company, got %v", entities.Companies)
	}
}

func TestExtractEntitiesUsesContent(t *testing.T) {
	t.Parallel()

	entities := ExtractEntities(
		"Startup closes new funding round",
		"The round was worth $20 million according to the company.",
	)
	if !containsString(entities.Amounts, "20mn") {
		t.Fatalf("expected amount from body content, got %v", entities.Amounts)
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
