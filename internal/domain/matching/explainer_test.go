package matching

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func ref(name string, required bool) SkillRef {
	return SkillRef{SkillID: uuid.New(), Slug: name, Name: name, Required: required}
}

func TestExplainHighMatch(t *testing.T) {
	res := Result{
		Score:         92,
		MatchedSkills: []SkillRef{ref("Go", true), ref("PostgreSQL", true)},
		HardFilters:   HardFilters{Passed: true},
	}

	text, recs := Explain(res)
	if !strings.Contains(text, "92/100") {
		t.Fatalf("expected score in text, got %q", text)
	}
	if !strings.Contains(text, "Excellente") {
		t.Fatalf("expected high-match wording, got %q", text)
	}

	if len(recs) != 1 || recs[0].Type != RecommendationHighMatch || recs[0].Priority != PriorityHigh {
		t.Fatalf("expected one high_match recommendation, got %+v", recs)
	}
}

func TestExplainLowMatchWithMissingSkills(t *testing.T) {
	res := Result{
		Score:         20,
		MatchedSkills: []SkillRef{ref("Docker", false)},
		MissingSkills: []SkillRef{ref("Go", true), ref("Kafka", false), ref("PostgreSQL", true), ref("Redis", false)},
		HardFilters:   HardFilters{Passed: true},
	}

	text, recs := Explain(res)
	if !strings.Contains(text, "faible") {
		t.Fatalf("expected low-match wording, got %q", text)
	}
	if len(recs) != 2 {
		t.Fatalf("expected low_match + skill_development, got %+v", recs)
	}
	if recs[0].Type != RecommendationLowMatch {
		t.Fatalf("expected low_match first, got %+v", recs[0])
	}

	dev := recs[1]
	if dev.Type != RecommendationSkillDevelopment || dev.Priority != PriorityMedium {
		t.Fatalf("unexpected skill_development rec: %+v", dev)
	}
	// Required first, alphabetical, capped at three.
	if len(dev.Skills) != 3 || dev.Skills[0] != "Go" || dev.Skills[1] != "PostgreSQL" {
		t.Fatalf("unexpected missing skill ordering: %v", dev.Skills)
	}
}

func TestExplainNeutral(t *testing.T) {
	text, recs := Explain(Result{Score: 50, HardFilters: HardFilters{Passed: true}})
	if !strings.Contains(text, "aucune compétence") {
		t.Fatalf("expected neutral wording, got %q", text)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestExplainMentionsFailedDistance(t *testing.T) {
	d := 85.0
	res := Result{
		Score:         30,
		MatchedSkills: []SkillRef{ref("Go", true)},
		HardFilters:   HardFilters{DistanceKm: &d, Evaluated: true, Passed: false},
	}

	text, _ := Explain(res)
	if !strings.Contains(text, "85 km") {
		t.Fatalf("expected distance sentence, got %q", text)
	}
	if !strings.Contains(text, "mobilité") {
		t.Fatalf("expected mobility wording, got %q", text)
	}
}

func TestExplainDeterministic(t *testing.T) {
	res := Result{
		Score:         61,
		MatchedSkills: []SkillRef{ref("Go", true)},
		MissingSkills: []SkillRef{ref("Kafka", false)},
		HardFilters:   HardFilters{Passed: true},
	}

	first, firstRecs := Explain(res)
	for i := 0; i < 5; i++ {
		text, recs := Explain(res)
		if text != first || len(recs) != len(firstRecs) {
			t.Fatalf("explanation not deterministic")
		}
	}
}

func TestExplainParseCountsAndRelevance(t *testing.T) {
	text, recs := ExplainParse(2, 1, 74)
	if !strings.Contains(text, "3 compétence(s)") || !strings.Contains(text, "2 requise(s)") || !strings.Contains(text, "74/100") {
		t.Fatalf("unexpected parse explanation: %q", text)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations for a solid parse, got %+v", recs)
	}
}

func TestExplainParseEmptyText(t *testing.T) {
	text, recs := ExplainParse(0, 0, 0)
	if !strings.Contains(text, "Aucune compétence") {
		t.Fatalf("unexpected explanation: %q", text)
	}
	if len(recs) != 1 || recs[0].Type != RecommendationEnrichText || recs[0].Priority != PriorityMedium {
		t.Fatalf("expected enrich-description recommendation, got %+v", recs)
	}
}

func TestExplainParseLowRelevance(t *testing.T) {
	_, recs := ExplainParse(0, 1, 25)
	if len(recs) != 1 || recs[0].Type != RecommendationEnrichText {
		t.Fatalf("expected enrich-description recommendation below threshold, got %+v", recs)
	}
}
