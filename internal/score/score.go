package score

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/decoy/internal/catalog"
	"github.com/MikeSquared-Agency/decoy/internal/intel"
)

// DefaultThreshold is the classification cut-off when none is configured.
const DefaultThreshold = 0.3

// Corroborating signals that escalate confidence past the per-category cap.
// They are additive on top of the normalized score, not normalized themselves.
const (
	urlBonus   = 0.15
	phoneBonus = 0.05
)

// The URL bonus reuses extraction's link pattern so a message never scores a
// URL the extractor would miss, or vice versa.
var phoneShape = regexp.MustCompile(`\+?\d{10,}|\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)

// Result is the outcome of classifying a single message. Created fresh per
// call, never persisted.
type Result struct {
	Raw        float64
	Normalized float64
	IsScam     bool
	Categories []string
}

// Engine converts free text into a scam-probability signal against a fixed
// catalog. It is a deliberately simple linear model: each category counts at
// most once regardless of how many of its triggers match, so one obvious
// keyword family cannot max the score on its own.
type Engine struct {
	catalog   *catalog.Catalog
	threshold float64
}

func New(cat *catalog.Catalog, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{catalog: cat, threshold: threshold}
}

// Classify scores a message. Empty or blank input yields a zero score and a
// negative classification, never an error.
func (e *Engine) Classify(message string) Result {
	if strings.TrimSpace(message) == "" {
		return Result{}
	}

	lower := strings.ToLower(message)

	var raw float64
	var hit []string
	for _, cat := range e.catalog.Categories() {
		for _, trigger := range cat.Triggers {
			if strings.Contains(lower, trigger) {
				raw += cat.Weight
				hit = append(hit, cat.Name)
				break
			}
		}
	}

	normalized := raw / e.catalog.TotalWeight()

	if intel.URLPattern.MatchString(message) {
		normalized += urlBonus
	}
	if phoneShape.MatchString(message) {
		normalized += phoneBonus
	}

	normalized = clamp(normalized)

	return Result{
		Raw:        raw,
		Normalized: normalized,
		IsScam:     normalized >= e.threshold,
		Categories: hit,
	}
}

// Keywords returns the trigger terms found in the message, unique and capped
// at 10, in catalog order.
func (e *Engine) Keywords(message string) []string {
	lower := strings.ToLower(message)

	var found []string
	seen := make(map[string]bool)
	for _, cat := range e.catalog.Categories() {
		for _, trigger := range cat.Triggers {
			if seen[trigger] {
				continue
			}
			if strings.Contains(lower, trigger) {
				seen[trigger] = true
				found = append(found, trigger)
				if len(found) == 10 {
					return found
				}
			}
		}
	}
	return found
}

func clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
