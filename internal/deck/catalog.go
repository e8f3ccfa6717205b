package deck

import "github.com/dom/deckbuilder-web/internal/domain"

// Catalog is the read-only card database the engine resolves codes against.
// Lookups are synchronous and side-effect free; a miss returns nil and is
// reported by the validator as a problem, never raised. Implementations must
// be fully loaded before any engine call.
type Catalog interface {
	Card(code string) *domain.Card
	Investigator(code string) *domain.Investigator
	TabooEntry(listID, code string) *domain.TabooEntry
	CustomizationOption(code string, position int) *domain.CustomizationOption
}

// DefaultHistoryLimit bounds the undo/redo history of a working deck.
const DefaultHistoryLimit = 50

// Engine evaluates deck legality and XP costs against an injected catalog.
// All methods are pure functions over the catalog and their inputs.
type Engine struct {
	catalog      Catalog
	historyLimit int
}

// NewEngine creates an engine over the given catalog. A historyLimit <= 0
// falls back to DefaultHistoryLimit.
func NewEngine(catalog Catalog, historyLimit int) *Engine {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Engine{catalog: catalog, historyLimit: historyLimit}
}
