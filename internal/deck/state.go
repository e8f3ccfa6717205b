package deck

import "github.com/dom/deckbuilder-web/internal/domain"

// snapshot is one undo/redo history entry. Only slot quantities and spent XP
// are captured; discounts, exemptions and customizations are not restored by
// undo.
type snapshot struct {
	slots   map[string]int
	xpSpent int
}

// State is the working deck owned by a single editing session. Dispatch never
// mutates a State in place: every mutation yields a fresh value, and a
// rejected or no-op action returns the original pointer unchanged.
type State struct {
	InvestigatorCode string
	Slots            map[string]int
	SideSlots        map[string]int
	Exempt           map[string]int
	Discounts        map[string]int
	Customizations   map[string][]int
	TabooListID      string
	XPEarned         int
	XPSpent          int

	// Result caches the validation of this exact state; it is recomputed on
	// every dispatch.
	Result *ValidationResult

	history []snapshot
	cursor  int
}

// NewDeck builds a fresh working deck for an investigator, seeded with the
// investigator's required signature cards at their fixed quantities.
func (e *Engine) NewDeck(investigatorCode string) (*State, error) {
	inv := e.catalog.Investigator(investigatorCode)
	if inv == nil {
		return nil, domain.ErrInvestigatorNotFound
	}

	slots := make(map[string]int)
	for code, qty := range inv.Requirements() {
		if qty > 0 {
			slots[code] = qty
		}
	}

	st := &State{
		InvestigatorCode: investigatorCode,
		Slots:            slots,
		SideSlots:        make(map[string]int),
		Exempt:           make(map[string]int),
		Discounts:        make(map[string]int),
		Customizations:   make(map[string][]int),
	}
	e.refresh(inv, st)
	return st, nil
}

// LoadDeck rebuilds a working deck from a persisted snapshot, normalizing the
// mappings to the state invariants (no zero quantities, exempt counts capped
// at slot quantities, discounts capped at base cost) and recomputing spent XP
// and validation. History starts empty: undo never crosses a load.
func (e *Engine) LoadDeck(in *State) (*State, error) {
	inv := e.catalog.Investigator(in.InvestigatorCode)
	if inv == nil {
		return nil, domain.ErrInvestigatorNotFound
	}

	st := &State{
		InvestigatorCode: in.InvestigatorCode,
		Slots:            copyPositive(in.Slots),
		SideSlots:        copyPositive(in.SideSlots),
		Exempt:           make(map[string]int),
		Discounts:        make(map[string]int),
		Customizations:   make(map[string][]int),
		TabooListID:      in.TabooListID,
		XPEarned:         in.XPEarned,
	}
	if st.XPEarned < 0 {
		st.XPEarned = 0
	}
	for code, n := range in.Exempt {
		if qty := st.Slots[code]; qty > 0 && n > 0 {
			if n > qty {
				n = qty
			}
			st.Exempt[code] = n
		}
	}
	for code, n := range in.Discounts {
		if qty := st.Slots[code]; qty > 0 && n > 0 {
			if max := e.maxBaseCost(code, qty); n > max {
				n = max
			}
			if n > 0 {
				st.Discounts[code] = n
			}
		}
	}
	for code, positions := range in.Customizations {
		if st.Slots[code] > 0 && len(positions) > 0 {
			st.Customizations[code] = normalizePositions(positions)
		}
	}

	e.refresh(inv, st)
	return st, nil
}

// refresh recomputes the derived fields after any mutation.
func (e *Engine) refresh(inv *domain.Investigator, st *State) {
	st.XPSpent = e.XPSpent(st.Slots, st.Discounts, st.Customizations, st.TabooListID)
	st.Result = e.Validate(inv, st)
}

// clone copies the state deeply enough that mutating the copy never touches
// the original. History entries are immutable, so the backing slice is copied
// shallowly but re-sliced to guard against shared-array appends.
func (st *State) clone() *State {
	next := &State{
		InvestigatorCode: st.InvestigatorCode,
		Slots:            copyIntMap(st.Slots),
		SideSlots:        copyIntMap(st.SideSlots),
		Exempt:           copyIntMap(st.Exempt),
		Discounts:        copyIntMap(st.Discounts),
		Customizations:   copyIntSliceMap(st.Customizations),
		TabooListID:      st.TabooListID,
		XPEarned:         st.XPEarned,
		XPSpent:          st.XPSpent,
		cursor:           st.cursor,
	}
	next.history = make([]snapshot, len(st.history))
	copy(next.history, st.history)
	return next
}

// HistoryLen reports how many snapshots the state currently retains.
func (st *State) HistoryLen() int {
	return len(st.history)
}

// recordHistory pushes the pre-mutation snapshot, truncating any redo entries
// past the cursor and discarding the oldest entry beyond the limit.
func (st *State) recordHistory(prev *State, limit int) {
	entry := snapshot{slots: copyIntMap(prev.Slots), xpSpent: prev.XPSpent}
	st.history = append(st.history[:st.cursor], entry)
	if len(st.history) > limit {
		st.history = st.history[1:]
	}
	st.cursor = len(st.history)
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyPositive(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

func copyIntSliceMap(m map[string][]int) map[string][]int {
	out := make(map[string][]int, len(m))
	for k, v := range m {
		vs := make([]int, len(v))
		copy(vs, v)
		out[k] = vs
	}
	return out
}
