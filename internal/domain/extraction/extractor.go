package extraction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"talentmatch/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrCatalogUnavailable = errors.New("skill catalog unavailable")

// CatalogEntry is the slice of the skill catalog the extractor matches
// against. Aliases share the skill identity of their canonical entry.
type CatalogEntry struct {
	SkillID uuid.UUID
	Slug    string
	Name    string
	Aliases []string
}

// Catalog resolves the current catalog entries. Implementations may cache,
// but every Extract call goes through this so an evolving catalog is
// picked up without restart.
type Catalog interface {
	Entries(ctx context.Context) ([]CatalogEntry, error)
}

type DetectedSkill struct {
	SkillID       uuid.UUID
	Slug          string
	Name          string
	Required      bool
	Confidence    float64
	MatchedPhrase string
	Occurrences   int
}

type Metadata struct {
	// Confidence is the mean of the per-skill confidences, 0 when
	// nothing was detected.
	Confidence float64
	SkillCount int
}

type Hints struct {
	Title   string
	Company string
}

const (
	exactMatchConfidence = 0.7
	aliasMatchConfidence = 0.5
	occurrenceBonus      = 0.1
)

type Extractor struct {
	catalog Catalog
	markers MarkerConfig
}

func NewExtractor(catalog Catalog, markers MarkerConfig) *Extractor {
	if len(markers.Required) == 0 && len(markers.Optional) == 0 {
		markers = DefaultMarkers()
	}
	if markers.Window <= 0 {
		markers.Window = DefaultMarkers().Window
	}
	return &Extractor{catalog: catalog, markers: markers}
}

// Extract scans free text for catalog skills. Empty or unmatched text is
// not an error: the result is simply an empty set with confidence 0.
// Only a catalog failure aborts, as ErrCatalogUnavailable.
func (e *Extractor) Extract(ctx context.Context, text string, hints Hints) ([]DetectedSkill, Metadata, error) {
	entries, err := e.catalog.Entries(ctx)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	full := strings.TrimSpace(text)
	if t := strings.TrimSpace(hints.Title); t != "" {
		if full == "" {
			full = t
		} else {
			full = t + "\n" + full
		}
	}

	folded := skill.Fold(full)
	if folded == "" {
		return []DetectedSkill{}, Metadata{}, nil
	}

	type hit struct {
		detected DetectedSkill
		firstIdx int
	}

	hits := make([]hit, 0)
	for _, entry := range entries {
		if entry.SkillID == uuid.Nil {
			continue
		}

		firstIdx := -1
		firstEnd := 0
		firstPhrase := ""
		total := 0

		scan := func(phrase string) {
			p := skill.Fold(strings.TrimSpace(phrase))
			if p == "" {
				return
			}
			for _, span := range phraseSpans(folded, p) {
				total++
				if firstIdx < 0 || span[0] < firstIdx {
					firstIdx = span[0]
					firstEnd = span[1]
					firstPhrase = p
				}
			}
		}

		scan(entry.Name)
		nameTotal := total
		for _, a := range entry.Aliases {
			scan(a)
		}

		if total == 0 || firstIdx < 0 {
			continue
		}

		base := aliasMatchConfidence
		if nameTotal > 0 {
			base = exactMatchConfidence
		}
		conf := base + occurrenceBonus*float64(total-1)
		if conf > 1.0 {
			conf = 1.0
		}

		hits = append(hits, hit{
			detected: DetectedSkill{
				SkillID:       entry.SkillID,
				Slug:          entry.Slug,
				Name:          entry.Name,
				Required:      e.classifyRequired(folded, firstIdx, firstEnd),
				Confidence:    conf,
				MatchedPhrase: firstPhrase,
				Occurrences:   total,
			},
			firstIdx: firstIdx,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].firstIdx < hits[j].firstIdx })

	out := make([]DetectedSkill, 0, len(hits))
	sum := 0.0
	for _, h := range hits {
		out = append(out, h.detected)
		sum += h.detected.Confidence
	}

	meta := Metadata{SkillCount: len(out)}
	if len(out) > 0 {
		meta.Confidence = sum / float64(len(out))
	}
	return out, meta, nil
}

// phraseSpans returns the [start,end) byte spans of every word-bounded
// occurrence of the folded phrase in the folded text. A single boundary
// byte can serve both the mention it closes and the one it opens, so
// back-to-back mentions each count.
func phraseSpans(folded, phrase string) [][2]int {
	spans := make([][2]int, 0)
	for off := 0; ; {
		i := strings.Index(folded[off:], phrase)
		if i < 0 {
			break
		}
		start := off + i
		end := start + len(phrase)
		if wordBoundedAt(folded, start, end) {
			spans = append(spans, [2]int{start, end})
		}
		off = start + 1
	}
	return spans
}

func wordBoundedAt(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// classifyRequired decides required vs optional for the mention at
// [start,end) by looking for markers inside the configured window.
// The marker nearest to the mention wins; a tie goes to required; no
// marker in range means optional.
func (e *Extractor) classifyRequired(folded string, start, end int) bool {
	lo := start - e.markers.Window
	if lo < 0 {
		lo = 0
	}
	hi := end + e.markers.Window
	if hi > len(folded) {
		hi = len(folded)
	}
	window := folded[lo:hi]
	mentionLo := start - lo
	mentionHi := end - lo

	bestDist := -1
	required := false

	scan := func(markers []string, req bool) {
		for _, mk := range markers {
			off := 0
			for {
				i := strings.Index(window[off:], mk)
				if i < 0 {
					break
				}
				ms := off + i
				me := ms + len(mk)

				var d int
				switch {
				case ms >= mentionHi:
					d = ms - mentionHi
				case me <= mentionLo:
					d = mentionLo - me
				default:
					d = 0
				}

				if bestDist < 0 || d < bestDist {
					bestDist = d
					required = req
				}
				off = me
			}
		}
	}

	scan(e.markers.Required, true)
	scan(e.markers.Optional, false)
	return required
}
