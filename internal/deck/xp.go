package deck

// XPSpent computes the total XP spent across all included cards.
//
// Per card: base cost is xp x copies, doubled for exceptional cards; myriad
// cards pay for a single copy regardless of quantity. A manual discount is
// capped at the base cost so no single card contributes a negative base.
// Taboo deltas apply per counted copy on top, undoubled and undiscounted.
// Selected customizations add their flat cost once each. The grand total is
// clamped at zero.
func (e *Engine) XPSpent(slots, discounts map[string]int, customizations map[string][]int, tabooListID string) int {
	total := 0

	for _, code := range sortedCodes(slots) {
		card := e.catalog.Card(code)
		if card == nil {
			continue
		}

		copies := slots[code]
		if card.Myriad {
			copies = 1
		}

		base := card.XP * copies
		if card.Exceptional {
			base *= 2
		}

		cost := base
		if discount := discounts[code]; discount > 0 {
			if discount > base {
				discount = base
			}
			cost -= discount
		}

		if tabooListID != "" {
			if entry := e.catalog.TabooEntry(tabooListID, code); entry != nil {
				cost += entry.XPDelta * copies
			}
		}

		for _, pos := range customizations[code] {
			if opt := e.catalog.CustomizationOption(code, pos); opt != nil {
				cost += opt.XP
			}
		}

		total += cost
	}

	if total < 0 {
		total = 0
	}
	return total
}

// maxBaseCost is the largest discount a card can absorb at the given
// quantity: its undiscounted base cost.
func (e *Engine) maxBaseCost(code string, quantity int) int {
	card := e.catalog.Card(code)
	if card == nil || quantity <= 0 {
		return 0
	}
	copies := quantity
	if card.Myriad {
		copies = 1
	}
	base := card.XP * copies
	if card.Exceptional {
		base *= 2
	}
	return base
}
