package domain

// TabooEntry adjusts a single card under a versioned taboo list: it can forbid
// the card outright, lower its copy limit, or charge extra XP per copy.
type TabooEntry struct {
	TabooListID string `json:"tabooListId" gorm:"primaryKey"`
	CardCode    string `json:"cardCode" gorm:"primaryKey"`
	Forbidden   bool   `json:"forbidden"`
	DeckLimit   *int   `json:"deckLimit,omitempty"`
	XPDelta     int    `json:"xpDelta"`
}

// CustomizationOption is one selectable upgrade slot on a customizable card.
type CustomizationOption struct {
	CardCode string `json:"cardCode" gorm:"primaryKey"`
	Position int    `json:"position" gorm:"primaryKey;autoIncrement:false"`
	Name     string `json:"name"`
	XP       int    `json:"xp"`
}
