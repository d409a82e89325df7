package extraction

// MarkerConfig lists the lexical markers used to classify a detected skill
// as required or optional. Markers are compared against folded text, so
// entries must be lowercase and diacritic-free ("apprecie", not "apprécié").
type MarkerConfig struct {
	Required []string
	Optional []string

	// Window is the number of bytes inspected on each side of a skill
	// mention when looking for markers.
	Window int
}

// DefaultMarkers covers the phrasing of French job offers. When both a
// required and an optional marker fall inside the window, the one closest
// to the mention wins; without any marker the skill stays optional.
func DefaultMarkers() MarkerConfig {
	return MarkerConfig{
		Required: []string{
			"requis",
			"requise",
			"indispensable",
			"obligatoire",
			"exige",
			"exigee",
			"imperatif",
			"necessaire",
			"maitrise de",
			"must have",
			"required",
		},
		Optional: []string{
			"apprecie",
			"appreciee",
			"un plus",
			"souhaite",
			"souhaitee",
			"bonus",
			"idealement",
			"atout",
			"optionnel",
			"nice to have",
		},
		Window: 80,
	}
}
