package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// LevelRange bounds the XP level filter of a deck option, inclusive.
type LevelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeckOption is one deck-building rule of an investigator. All present filters
// must match for the option to match a card. Options with Not set exclude
// matching cards instead of allowing them.
type DeckOption struct {
	ID        string      `json:"id,omitempty"`
	Factions  []string    `json:"faction,omitempty"`
	Level     *LevelRange `json:"level,omitempty"`
	Types     []string    `json:"type,omitempty"`
	Traits    []string    `json:"trait,omitempty"`
	Uses      []string    `json:"uses,omitempty"`
	Names     []string    `json:"name,omitempty"`
	Permanent *bool       `json:"permanent,omitempty"`
	Not       bool        `json:"not,omitempty"`
	Limit     *int        `json:"limit,omitempty"`
	Size      *int        `json:"size,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type Investigator struct {
	Code             string         `json:"code" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"not null"`
	FactionCode      string         `json:"factionCode" gorm:"not null;index"`
	DeckSize         int            `json:"deckSize" gorm:"not null;default:30"`
	DeckOptions      datatypes.JSON `json:"deckOptions,omitempty" gorm:"type:jsonb"`      // ordered []DeckOption
	DeckRequirements datatypes.JSON `json:"deckRequirements,omitempty" gorm:"type:jsonb"` // map card code -> fixed quantity
	RandomWeakness   bool           `json:"randomWeakness"`
}

// Options decodes the investigator's ordered deck-building options.
// A malformed column yields no options; affected cards are then rejected by
// the eligibility resolver rather than crashing the engine.
func (i *Investigator) Options() []DeckOption {
	if len(i.DeckOptions) == 0 {
		return nil
	}
	var opts []DeckOption
	if err := json.Unmarshal(i.DeckOptions, &opts); err != nil {
		return nil
	}
	return opts
}

// Requirements decodes the investigator's required signature cards and their
// fixed quantities.
func (i *Investigator) Requirements() map[string]int {
	if len(i.DeckRequirements) == 0 {
		return nil
	}
	var req map[string]int
	if err := json.Unmarshal(i.DeckRequirements, &req); err != nil {
		return nil
	}
	return req
}
