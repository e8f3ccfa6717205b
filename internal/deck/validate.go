package deck

import (
	"fmt"
	"sort"

	"github.com/dom/deckbuilder-web/internal/domain"
)

// ProblemCode identifies one class of validation failure. Codes are stable
// strings consumed by API clients.
type ProblemCode string

const (
	ProblemUnknownCard     ProblemCode = "UNKNOWN_CARD"
	ProblemInvalidCard     ProblemCode = "INVALID_CARD"
	ProblemTabooForbidden  ProblemCode = "TABOO_FORBIDDEN"
	ProblemTabooLimit      ProblemCode = "TABOO_LIMIT"
	ProblemCopyLimit       ProblemCode = "COPY_LIMIT"
	ProblemOptionLimit     ProblemCode = "OPTION_LIMIT"
	ProblemMissingRequired ProblemCode = "MISSING_REQUIRED"
	ProblemDeckTooLarge    ProblemCode = "DECK_TOO_LARGE"
	ProblemXPExceeded      ProblemCode = "XP_EXCEEDED"

	// Warnings: advisory, never block validity.
	ProblemDeckTooSmall    ProblemCode = "DECK_TOO_SMALL"
	ProblemMissingWeakness ProblemCode = "MISSING_WEAKNESS"
)

// Problem is a single validation error or warning.
type Problem struct {
	Code     ProblemCode `json:"code"`
	CardCode string      `json:"cardCode,omitempty"`
	Message  string      `json:"message"`
}

// ValidationResult is the full legality report for one deck state. Errors
// block validity; warnings are advisory. Both lists are ordered: per-card
// problems in ascending card-code order, aggregate problems after the scan.
type ValidationResult struct {
	Valid        bool      `json:"valid"`
	Errors       []Problem `json:"errors"`
	Warnings     []Problem `json:"warnings"`
	DeckSize     int       `json:"deckSize"`
	RequiredSize int       `json:"requiredSize"`
	TotalXP      int       `json:"totalXp"`
}

// Validate produces the legality report for a working deck. Every problem is
// accumulated; nothing short-circuits, so the caller sees all issues at once.
// The deck's earned XP acts as the upgrade budget; a budget of zero disables
// the XP check (starter decks).
func (e *Engine) Validate(inv *domain.Investigator, st *State) *ValidationResult {
	result := &ValidationResult{
		Errors:       []Problem{},
		Warnings:     []Problem{},
		RequiredSize: inv.DeckSize,
	}

	optionUsage := make(map[string]int)
	optionLimits := make(map[string]*limitedOption)
	hasBasicWeakness := false

	for _, code := range sortedCodes(st.Slots) {
		qty := st.Slots[code]

		card := e.catalog.Card(code)
		if card == nil {
			result.Errors = append(result.Errors, Problem{
				Code:     ProblemUnknownCard,
				CardCode: code,
				Message:  fmt.Sprintf("unknown card %s", code),
			})
			continue
		}

		if card.IsBasicWeakness() {
			hasBasicWeakness = true
		}

		res := e.Resolve(inv, card)
		if !res.Allowed {
			result.Errors = append(result.Errors, Problem{
				Code:     ProblemInvalidCard,
				CardCode: code,
				Message:  res.Reason,
			})
			continue
		}

		if st.TabooListID != "" {
			if entry := e.catalog.TabooEntry(st.TabooListID, code); entry != nil {
				if entry.Forbidden {
					result.Errors = append(result.Errors, Problem{
						Code:     ProblemTabooForbidden,
						CardCode: code,
						Message:  fmt.Sprintf("%s is forbidden by the active taboo list", card.Name),
					})
				} else if entry.DeckLimit != nil && qty > *entry.DeckLimit {
					result.Errors = append(result.Errors, Problem{
						Code:     ProblemTabooLimit,
						CardCode: code,
						Message:  fmt.Sprintf("%s: %d/%d copies under the active taboo list", card.Name, qty, *entry.DeckLimit),
					})
				}
			}
		}

		if limit := copyLimit(card); qty > limit {
			result.Errors = append(result.Errors, Problem{
				Code:     ProblemCopyLimit,
				CardCode: code,
				Message:  fmt.Sprintf("%s: %d/%d copies", card.Name, qty, limit),
			})
		}

		if res.Option != nil && res.Option.Limit != nil {
			key := optionKey(res.Option, res.OptionIndex)
			optionUsage[key] += qty
			optionLimits[key] = &limitedOption{option: res.Option, index: res.OptionIndex}
		}
	}

	for _, key := range sortedKeys(optionLimits) {
		lo := optionLimits[key]
		if optionUsage[key] > *lo.option.Limit {
			result.Errors = append(result.Errors, Problem{
				Code:    ProblemOptionLimit,
				Message: fmt.Sprintf("deck option %s allows at most %d copies, found %d", key, *lo.option.Limit, optionUsage[key]),
			})
		}
	}

	for _, code := range sortedKeys(inv.Requirements()) {
		if st.Slots[code] <= 0 {
			result.Errors = append(result.Errors, Problem{
				Code:     ProblemMissingRequired,
				CardCode: code,
				Message:  fmt.Sprintf("required card %s is missing", code),
			})
		}
	}

	result.DeckSize = e.DeckSize(inv, st.Slots, st.Exempt)
	if result.DeckSize < result.RequiredSize {
		result.Warnings = append(result.Warnings, Problem{
			Code:    ProblemDeckTooSmall,
			Message: fmt.Sprintf("deck needs %d more cards", result.RequiredSize-result.DeckSize),
		})
	} else if result.DeckSize > result.RequiredSize {
		result.Errors = append(result.Errors, Problem{
			Code:    ProblemDeckTooLarge,
			Message: fmt.Sprintf("deck has %d cards, at most %d allowed", result.DeckSize, result.RequiredSize),
		})
	}

	result.TotalXP = e.XPSpent(st.Slots, st.Discounts, st.Customizations, st.TabooListID)
	if st.XPEarned > 0 && result.TotalXP > st.XPEarned {
		result.Errors = append(result.Errors, Problem{
			Code:    ProblemXPExceeded,
			Message: fmt.Sprintf("deck spends %d XP but only %d is available", result.TotalXP, st.XPEarned),
		})
	}

	if inv.RandomWeakness && !hasBasicWeakness {
		result.Warnings = append(result.Warnings, Problem{
			Code:    ProblemMissingWeakness,
			Message: "deck is missing its random basic weakness",
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

type limitedOption struct {
	option *domain.DeckOption
	index  int
}

func copyLimit(card *domain.Card) int {
	if card.DeckLimit > 0 {
		return card.DeckLimit
	}
	return domain.DefaultDeckLimit
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
