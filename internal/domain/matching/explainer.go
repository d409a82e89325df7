package matching

import (
	"fmt"
	"sort"
	"strings"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	RecommendationLowMatch         = "low_match"
	RecommendationHighMatch        = "high_match"
	RecommendationSkillDevelopment = "skill_development"
	RecommendationEnrichText       = "enrich_description"

	lowMatchThreshold     = 50
	highMatchThreshold    = 80
	lowRelevanceThreshold = 40
	maxNamedMissing       = 3
)

type Recommendation struct {
	Type     string
	Priority string
	Message  string
	Skills   []string
}

// Explain renders a deterministic, template-based rationale for a scoring
// result, plus a prioritized recommendation list. Same Result in, same
// text out, so explanations are testable and audit traces reproducible.
func Explain(res Result) (string, []Recommendation) {
	total := len(res.MatchedSkills) + len(res.MissingSkills)

	var b strings.Builder
	switch {
	case total == 0:
		fmt.Fprintf(&b, "Compatibilité estimée à %d/100 : l'offre ne déclare aucune compétence, le score reste neutre.", res.Score)
	case res.Score > highMatchThreshold:
		fmt.Fprintf(&b, "Excellente compatibilité (%d/100) : %d compétence(s) sur %d correspondent à votre profil.", res.Score, len(res.MatchedSkills), total)
	case res.Score < lowMatchThreshold:
		fmt.Fprintf(&b, "Compatibilité faible (%d/100) : seulement %d compétence(s) sur %d correspondent à votre profil.", res.Score, len(res.MatchedSkills), total)
	default:
		fmt.Fprintf(&b, "Compatibilité correcte (%d/100) : %d compétence(s) sur %d correspondent à votre profil.", res.Score, len(res.MatchedSkills), total)
	}

	if res.HardFilters.Evaluated && !res.HardFilters.Passed && res.HardFilters.DistanceKm != nil {
		fmt.Fprintf(&b, " L'offre se situe à %.0f km, au-delà de votre zone de mobilité.", *res.HardFilters.DistanceKm)
	}

	recs := make([]Recommendation, 0, 3)
	if res.Score < lowMatchThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationLowMatch,
			Priority: PriorityLow,
			Message:  "Cette offre correspond peu à votre profil actuel, privilégiez des offres mieux alignées.",
		})
	}
	if res.Score > highMatchThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationHighMatch,
			Priority: PriorityHigh,
			Message:  "Cette offre correspond fortement à votre profil, une candidature rapide est recommandée.",
		})
	}
	if len(res.MissingSkills) > 0 {
		names := topMissingNames(res.MissingSkills, maxNamedMissing)
		recs = append(recs, Recommendation{
			Type:     RecommendationSkillDevelopment,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("Développer les compétences suivantes augmenterait votre compatibilité : %s.", strings.Join(names, ", ")),
			Skills:   names,
		})
	}

	return b.String(), recs
}

// ExplainParse gives the same template treatment to an external offer
// parse: how many skills were recognized and how trustworthy the analysis
// looks. No candidate in scope here, so the wording stays about the offer.
func ExplainParse(requiredCount, optionalCount, relevance int) (string, []Recommendation) {
	total := requiredCount + optionalCount

	var b strings.Builder
	if total == 0 {
		b.WriteString("Aucune compétence reconnue dans le texte fourni, l'analyse est peu exploitable.")
	} else {
		fmt.Fprintf(&b, "%d compétence(s) détectée(s) dans l'offre, dont %d requise(s) et %d optionnelle(s). Fiabilité de l'analyse : %d/100.", total, requiredCount, optionalCount, relevance)
	}

	recs := make([]Recommendation, 0, 1)
	if total == 0 || relevance < lowRelevanceThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationEnrichText,
			Priority: PriorityMedium,
			Message:  "Fournissez une description d'offre plus complète pour améliorer la détection des compétences.",
		})
	}

	return b.String(), recs
}

// topMissingNames keeps at most limit missing skills, required ones first,
// alphabetical inside each group.
func topMissingNames(missing []SkillRef, limit int) []string {
	ordered := make([]SkillRef, len(missing))
	copy(ordered, missing)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Required != ordered[j].Required {
			return ordered[i].Required
		}
		return ordered[i].Name < ordered[j].Name
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	names := make([]string, 0, len(ordered))
	for _, s := range ordered {
		names = append(names, s.Name)
	}
	return names
}
