package deck

import (
	"fmt"
	"strings"

	"github.com/dom/deckbuilder-web/internal/domain"
)

// Eligibility is the outcome of resolving one card against an investigator's
// deck-building rules.
type Eligibility struct {
	Allowed bool
	Reason  string
	// Option is the deck option that admitted the card, nil for signature
	// cards, which bypass option bookkeeping entirely.
	Option *domain.DeckOption
	// OptionIndex is the position of Option in the investigator's option
	// list, -1 when no option matched.
	OptionIndex int
}

// Resolve decides whether an investigator may include a card. Investigator
// cards are never deck entries; signature cards are admitted only for their
// owner; otherwise exclusion options are checked before the ordered allow
// options, first match wins.
func (e *Engine) Resolve(inv *domain.Investigator, card *domain.Card) Eligibility {
	if card.TypeCode == string(domain.CardTypeInvestigator) {
		return Eligibility{Reason: "investigator cards cannot be added to a deck", OptionIndex: -1}
	}

	if restricted := card.RestrictedTo(); len(restricted) > 0 {
		for _, code := range restricted {
			if code == inv.Code {
				return Eligibility{Allowed: true, OptionIndex: -1}
			}
		}
		return Eligibility{
			Reason:      fmt.Sprintf("%s is a signature card of another investigator", card.Name),
			OptionIndex: -1,
		}
	}

	opts := inv.Options()

	for i := range opts {
		if !opts[i].Not {
			continue
		}
		if optionMatches(&opts[i], card) {
			reason := opts[i].Error
			if reason == "" {
				reason = fmt.Sprintf("%s is excluded by the investigator's deck-building rules", card.Name)
			}
			return Eligibility{Reason: reason, OptionIndex: -1}
		}
	}

	for i := range opts {
		if opts[i].Not {
			continue
		}
		if optionMatches(&opts[i], card) {
			return Eligibility{Allowed: true, Option: &opts[i], OptionIndex: i}
		}
	}

	return Eligibility{
		Reason:      fmt.Sprintf("%s does not match any deck-building option", card.Name),
		OptionIndex: -1,
	}
}

// optionMatches reports whether every filter present on the option matches the
// card. The Not flag is ignored here; callers decide how a match is treated.
func optionMatches(opt *domain.DeckOption, card *domain.Card) bool {
	if len(opt.Factions) > 0 && !anyFactionIn(card, opt.Factions) {
		return false
	}
	if opt.Level != nil && (card.XP < opt.Level.Min || card.XP > opt.Level.Max) {
		return false
	}
	if len(opt.Types) > 0 && !containsString(opt.Types, card.TypeCode) {
		return false
	}
	if len(opt.Traits) > 0 && !anyTraitMatch(card, opt.Traits) {
		return false
	}
	if opt.Permanent != nil && *opt.Permanent != card.Permanent {
		return false
	}
	if len(opt.Uses) > 0 && !anyUsesMatch(card, opt.Uses) {
		return false
	}
	if len(opt.Names) > 0 && !containsString(opt.Names, card.Name) {
		return false
	}
	return true
}

func anyFactionIn(card *domain.Card, factions []string) bool {
	for _, f := range card.Factions() {
		if containsString(factions, f) {
			return true
		}
	}
	return false
}

func anyTraitMatch(card *domain.Card, traits []string) bool {
	for _, t := range traits {
		if card.HasTrait(t) {
			return true
		}
	}
	return false
}

func anyUsesMatch(card *domain.Card, uses []string) bool {
	text := strings.ToLower(card.Text)
	for _, u := range uses {
		if strings.Contains(text, strings.ToLower(u)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
