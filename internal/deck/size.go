package deck

import (
	"fmt"

	"github.com/dom/deckbuilder-web/internal/domain"
)

// DeckSize counts how many copies in slots count toward the investigator's
// required deck size. Permanents, basic weaknesses and the investigator's
// signature cards never count; manually exempted copies are subtracted; deck
// options with a size field grant a capped number of free copies, consumed
// greedily in ascending card-code order and pooled per option id.
//
// Go map iteration is randomized, so the allocation order over competing
// cards is fixed here to sorted card codes.
func (e *Engine) DeckSize(inv *domain.Investigator, slots, exempt map[string]int) int {
	required := inv.Requirements()
	freeUsed := make(map[string]int)
	total := 0

	for _, code := range sortedCodes(slots) {
		card := e.catalog.Card(code)
		if card == nil {
			continue
		}
		if card.Permanent || card.IsBasicWeakness() || required[code] > 0 || card.IsSignatureFor(inv.Code) {
			continue
		}

		countable := slots[code] - exempt[code]
		if countable <= 0 {
			continue
		}

		res := e.Resolve(inv, card)
		if res.Allowed && res.Option != nil && res.Option.Size != nil {
			key := optionKey(res.Option, res.OptionIndex)
			free := *res.Option.Size - freeUsed[key]
			if free < 0 {
				free = 0
			}
			if free > countable {
				free = countable
			}
			freeUsed[key] += free
			countable -= free
		}

		total += countable
	}

	return total
}

// optionKey pools limit/size usage across cards matched by the same option.
// Options without an explicit id fall back to their declaration position.
func optionKey(opt *domain.DeckOption, index int) string {
	if opt.ID != "" {
		return opt.ID
	}
	return fmt.Sprintf("option-%d", index)
}

func sortedCodes(slots map[string]int) []string {
	return sortedKeys(slots)
}
