package deck

import "sort"

// ActionType names one mutation of the working deck.
type ActionType string

const (
	ActionAddCard           ActionType = "ADD_CARD"
	ActionRemoveCard        ActionType = "REMOVE_CARD"
	ActionSetQuantity       ActionType = "SET_QUANTITY"
	ActionSwapCard          ActionType = "SWAP_CARD"
	ActionSetExempt         ActionType = "SET_EXEMPT"
	ActionSetDiscount       ActionType = "SET_DISCOUNT"
	ActionSetCustomizations ActionType = "SET_CUSTOMIZATIONS"
	ActionSetTabooList      ActionType = "SET_TABOO_LIST"
	ActionSetXPEarned       ActionType = "SET_XP_EARNED"
	ActionUndo              ActionType = "UNDO"
	ActionRedo              ActionType = "REDO"
)

// Action is one dispatched mutation. Only the fields relevant to its type are
// read; the rest stay at their zero values.
type Action struct {
	Type        ActionType `json:"type"`
	Code        string     `json:"code,omitempty"`
	TargetCode  string     `json:"targetCode,omitempty"` // SWAP_CARD: the card replacing Code
	Quantity    int        `json:"quantity,omitempty"`
	Side        bool       `json:"side,omitempty"` // ADD/REMOVE/SET_QUANTITY act on side slots
	Positions   []int      `json:"positions,omitempty"`
	TabooListID string     `json:"tabooListId,omitempty"`
	XP          int        `json:"xp,omitempty"`
}

// Dispatch applies one action to the working deck and returns the resulting
// state with spent XP and validation recomputed. The input state is never
// mutated. A no-op or structurally rejected action returns the input pointer
// itself, which is how callers detect "nothing changed." Malformed numeric
// inputs are clamped, never raised, so the transition function stays total.
func (e *Engine) Dispatch(st *State, action Action) *State {
	switch action.Type {
	case ActionUndo:
		return e.undo(st)
	case ActionRedo:
		return e.redo(st)
	}

	inv := e.catalog.Investigator(st.InvestigatorCode)
	if inv == nil {
		return st
	}

	next := st.clone()
	if !e.apply(next, action) {
		return st
	}

	next.recordHistory(st, e.historyLimit)
	e.refresh(inv, next)
	return next
}

// apply performs the raw mutation on an already-cloned state and reports
// whether anything changed.
func (e *Engine) apply(st *State, action Action) bool {
	switch action.Type {
	case ActionAddCard:
		return e.addCard(st, action)
	case ActionRemoveCard:
		return e.removeCard(st, action)
	case ActionSetQuantity:
		return e.setQuantity(st, action)
	case ActionSwapCard:
		return e.swapCard(st, action)
	case ActionSetExempt:
		return e.setExempt(st, action)
	case ActionSetDiscount:
		return e.setDiscount(st, action)
	case ActionSetCustomizations:
		return e.setCustomizations(st, action)
	case ActionSetTabooList:
		if st.TabooListID == action.TabooListID {
			return false
		}
		st.TabooListID = action.TabooListID
		return true
	case ActionSetXPEarned:
		xp := action.XP
		if xp < 0 {
			xp = 0
		}
		if st.XPEarned == xp {
			return false
		}
		st.XPEarned = xp
		return true
	}
	return false
}

func (e *Engine) addCard(st *State, action Action) bool {
	if action.Code == "" {
		return false
	}
	qty := action.Quantity
	if qty <= 0 {
		qty = 1
	}
	slots := st.zone(action.Side)
	slots[action.Code] += qty
	return true
}

func (e *Engine) removeCard(st *State, action Action) bool {
	slots := st.zone(action.Side)
	current, ok := slots[action.Code]
	if !ok {
		return false
	}
	qty := action.Quantity
	if qty <= 0 {
		qty = 1
	}
	e.reduceTo(st, slots, action.Code, current-qty, action.Side)
	return true
}

func (e *Engine) setQuantity(st *State, action Action) bool {
	if action.Code == "" {
		return false
	}
	slots := st.zone(action.Side)
	current := slots[action.Code]
	qty := action.Quantity
	if qty < 0 {
		qty = 0
	}
	if qty == current {
		return false
	}
	if qty > current {
		slots[action.Code] = qty
		return true
	}
	e.reduceTo(st, slots, action.Code, qty, action.Side)
	return true
}

// swapCard exchanges one copy of Code for one copy of TargetCode. The deck
// must actually hold Code; otherwise the state is left untouched.
func (e *Engine) swapCard(st *State, action Action) bool {
	if action.TargetCode == "" || action.TargetCode == action.Code {
		return false
	}
	current, ok := st.Slots[action.Code]
	if !ok {
		return false
	}
	e.reduceTo(st, st.Slots, action.Code, current-1, false)
	st.Slots[action.TargetCode]++
	return true
}

// reduceTo lowers a card's quantity, re-capping or deleting the side-table
// entries that depend on it. Main-zone bookkeeping only; side slots carry no
// exemptions, discounts or customizations.
func (e *Engine) reduceTo(st *State, slots map[string]int, code string, qty int, side bool) {
	if qty <= 0 {
		delete(slots, code)
		if !side {
			delete(st.Exempt, code)
			delete(st.Discounts, code)
			delete(st.Customizations, code)
		}
		return
	}
	slots[code] = qty
	if side {
		return
	}
	if st.Exempt[code] > qty {
		st.Exempt[code] = qty
	}
	if d := st.Discounts[code]; d > 0 {
		if max := e.maxBaseCost(code, qty); d > max {
			if max <= 0 {
				delete(st.Discounts, code)
			} else {
				st.Discounts[code] = max
			}
		}
	}
}

func (e *Engine) setExempt(st *State, action Action) bool {
	qty, ok := st.Slots[action.Code]
	if !ok {
		return false
	}
	n := action.Quantity
	if n < 0 {
		n = 0
	}
	if n > qty {
		n = qty
	}
	if st.Exempt[action.Code] == n {
		return false
	}
	if n == 0 {
		delete(st.Exempt, action.Code)
	} else {
		st.Exempt[action.Code] = n
	}
	return true
}

func (e *Engine) setDiscount(st *State, action Action) bool {
	qty, ok := st.Slots[action.Code]
	if !ok {
		return false
	}
	n := action.Quantity
	if n < 0 {
		n = 0
	}
	if max := e.maxBaseCost(action.Code, qty); n > max {
		n = max
	}
	if st.Discounts[action.Code] == n {
		return false
	}
	if n == 0 {
		delete(st.Discounts, action.Code)
	} else {
		st.Discounts[action.Code] = n
	}
	return true
}

func (e *Engine) setCustomizations(st *State, action Action) bool {
	if _, ok := st.Slots[action.Code]; !ok {
		return false
	}
	positions := normalizePositions(action.Positions)
	if equalInts(st.Customizations[action.Code], positions) {
		return false
	}
	if len(positions) == 0 {
		delete(st.Customizations, action.Code)
	} else {
		st.Customizations[action.Code] = positions
	}
	return true
}

// undo steps the cursor back one snapshot, restoring slot quantities and
// spent XP only, then revalidates. The current state is parked at the cursor
// so redo can return to it.
func (e *Engine) undo(st *State) *State {
	if st.cursor == 0 {
		return st
	}
	inv := e.catalog.Investigator(st.InvestigatorCode)
	if inv == nil {
		return st
	}

	next := st.clone()
	if next.cursor == len(next.history) {
		// Park the current state so redo can come back to it.
		next.history = append(next.history, snapshot{slots: copyIntMap(st.Slots), xpSpent: st.XPSpent})
	}
	next.cursor--
	next.restore(next.history[next.cursor])
	next.Result = e.Validate(inv, next)
	return next
}

func (e *Engine) redo(st *State) *State {
	if st.cursor >= len(st.history)-1 {
		return st
	}
	inv := e.catalog.Investigator(st.InvestigatorCode)
	if inv == nil {
		return st
	}

	next := st.clone()
	next.cursor++
	next.restore(next.history[next.cursor])
	next.Result = e.Validate(inv, next)
	return next
}

func (st *State) restore(entry snapshot) {
	st.Slots = copyIntMap(entry.slots)
	st.XPSpent = entry.xpSpent
}

func (st *State) zone(side bool) map[string]int {
	if side {
		return st.SideSlots
	}
	return st.Slots
}

// normalizePositions sorts, dedupes and drops negative customization
// positions so the stored selection is canonical.
func normalizePositions(positions []int) []int {
	seen := make(map[int]bool, len(positions))
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if p < 0 || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
