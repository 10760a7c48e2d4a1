// Package category assigns advisory categories to transactions, first from
// the user's own history, then from a static keyword taxonomy. A miss is a
// valid outcome, never an error.
package category

import (
	"strings"

	"github.com/faturaflow/statement-import/internal/models"
)

// Config holds the recognizer thresholds and taxonomy extensions.
type Config struct {
	// HistoryThreshold is the minimum aggregate score for a history-based
	// match.
	HistoryThreshold float64
	// FuzzyFloor is the minimum similarity for a fuzzy category-name match.
	FuzzyFloor float64
	// ExtraKeywords extends the static taxonomy (category name to
	// representative substrings).
	ExtraKeywords map[string][]string
}

// DefaultConfig returns the tuned thresholds (0.6, 0.4).
func DefaultConfig() Config {
	return Config{HistoryThreshold: 0.6, FuzzyFloor: 0.4}
}

// HistoryEntry is a prior categorized transaction of the same user.
type HistoryEntry struct {
	Description  string
	CategoryID   string
	CategoryName string
}

// Recognizer scores descriptions against history and taxonomy.
type Recognizer struct {
	cfg Config
}

// New creates a Recognizer.
func New(cfg Config) *Recognizer {
	if cfg.HistoryThreshold == 0 {
		cfg.HistoryThreshold = DefaultConfig().HistoryThreshold
	}
	if cfg.FuzzyFloor == 0 {
		cfg.FuzzyFloor = DefaultConfig().FuzzyFloor
	}
	return &Recognizer{cfg: cfg}
}

// NewDefault creates a Recognizer with default thresholds.
func NewDefault() *Recognizer { return New(DefaultConfig()) }

// Recognize returns the best advisory category for a description. The zero
// CategoryMatch means "let the caller decide a default".
func (r *Recognizer) Recognize(desc string, categories []models.Category, history []HistoryEntry) models.CategoryMatch {
	desc = strings.ToLower(strings.TrimSpace(desc))
	if desc == "" {
		return models.CategoryMatch{}
	}

	if len(history) > 0 {
		if m := r.fromHistory(desc, history); m.Matched() {
			return m
		}
	}

	if m := r.fromNameContainment(desc, categories); m.Matched() {
		return m
	}
	if m := r.fromTaxonomy(desc, categories); m.Matched() {
		return m
	}
	return r.fromFuzzyName(desc, categories)
}

// fromHistory scores every historical entry against the description and
// aggregates per category, with a frequency bonus capped at 0.3.
func (r *Recognizer) fromHistory(desc string, history []HistoryEntry) models.CategoryMatch {
	type agg struct {
		best  float64
		count int
		name  string
		id    string
	}
	byCategory := make(map[string]*agg)

	for _, h := range history {
		if h.CategoryName == "" {
			continue
		}
		score := Similarity(desc, strings.ToLower(h.Description))
		if score <= 0 {
			continue
		}
		key := strings.ToLower(h.CategoryName)
		a, ok := byCategory[key]
		if !ok {
			a = &agg{name: h.CategoryName, id: h.CategoryID}
			byCategory[key] = a
		}
		a.count++
		if score > a.best {
			a.best = score
		}
	}

	var best *agg
	var bestScore float64
	for _, a := range byCategory {
		bonus := 0.05 * float64(a.count)
		if bonus > 0.3 {
			bonus = 0.3
		}
		score := a.best + bonus
		if score > bestScore {
			best, bestScore = a, score
		}
	}

	if best == nil || bestScore <= r.cfg.HistoryThreshold {
		return models.CategoryMatch{}
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return models.CategoryMatch{
		CategoryID:   best.id,
		CategoryName: best.name,
		Confidence:   bestScore,
	}
}

// fromNameContainment matches when a user category's name appears in the
// description itself.
func (r *Recognizer) fromNameContainment(desc string, categories []models.Category) models.CategoryMatch {
	for _, c := range categories {
		name := strings.ToLower(c.Name)
		if name == "" {
			continue
		}
		if strings.Contains(desc, name) {
			return models.CategoryMatch{CategoryID: c.ID, CategoryName: c.Name, Confidence: 0.8}
		}
	}
	return models.CategoryMatch{}
}

// fromTaxonomy matches the static keyword taxonomy. When the user already
// has a category with the taxonomy name its id is attached; otherwise only
// the name is suggested and category creation is the caller's call.
func (r *Recognizer) fromTaxonomy(desc string, categories []models.Category) models.CategoryMatch {
	match := func(name string, keywords []string) models.CategoryMatch {
		for _, kw := range keywords {
			if !strings.Contains(desc, kw) {
				continue
			}
			m := models.CategoryMatch{CategoryName: name, Confidence: 0.7}
			for _, c := range categories {
				if strings.EqualFold(c.Name, name) {
					m.CategoryID = c.ID
					m.CategoryName = c.Name
					break
				}
			}
			return m
		}
		return models.CategoryMatch{}
	}

	for _, name := range sortedKeys(r.cfg.ExtraKeywords) {
		if m := match(name, r.cfg.ExtraKeywords[name]); m.Matched() {
			return m
		}
	}
	for _, entry := range taxonomy {
		if m := match(entry.name, entry.keywords); m.Matched() {
			return m
		}
	}
	return models.CategoryMatch{}
}

// fromFuzzyName is the last resort: fuzzy similarity between the
// description and each category name, floored at FuzzyFloor.
func (r *Recognizer) fromFuzzyName(desc string, categories []models.Category) models.CategoryMatch {
	var best models.CategoryMatch
	for _, c := range categories {
		score := Similarity(desc, strings.ToLower(c.Name))
		if score >= r.cfg.FuzzyFloor && score > best.Confidence {
			best = models.CategoryMatch{CategoryID: c.ID, CategoryName: c.Name, Confidence: score}
		}
	}
	return best
}
