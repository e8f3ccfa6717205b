package domain

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

type CardType string

const (
	CardTypeAsset        CardType = "asset"
	CardTypeEvent        CardType = "event"
	CardTypeSkill        CardType = "skill"
	CardTypeTreachery    CardType = "treachery"
	CardTypeInvestigator CardType = "investigator"
)

// SubtypeBasicWeakness marks the random weakness cards dealt at deck creation.
const SubtypeBasicWeakness = "basicweakness"

// DefaultDeckLimit is the per-card copy limit when the card declares none.
const DefaultDeckLimit = 2

type Card struct {
	Code         string         `json:"code" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	FactionCode  string         `json:"factionCode" gorm:"not null;index"`
	Faction2Code string         `json:"faction2Code,omitempty"`
	Faction3Code string         `json:"faction3Code,omitempty"`
	TypeCode     string         `json:"typeCode" gorm:"not null;index"`
	SubtypeCode  string         `json:"subtypeCode,omitempty"`
	XP           int            `json:"xp"`
	DeckLimit    int            `json:"deckLimit" gorm:"not null;default:2"`
	Permanent    bool           `json:"permanent"`
	Exceptional  bool           `json:"exceptional"`
	Myriad       bool           `json:"myriad"`
	Traits       string         `json:"traits"`
	Text         string         `json:"text"`
	Restrictions datatypes.JSON `json:"restrictions,omitempty" gorm:"type:jsonb"` // investigator codes this card is bound to
}

// Factions returns the card's faction codes in slot order (one to three).
func (c *Card) Factions() []string {
	factions := []string{c.FactionCode}
	if c.Faction2Code != "" {
		factions = append(factions, c.Faction2Code)
	}
	if c.Faction3Code != "" {
		factions = append(factions, c.Faction3Code)
	}
	return factions
}

// RestrictedTo decodes the investigator codes this card is a signature card of.
// An empty result means the card is not a signature card.
func (c *Card) RestrictedTo() []string {
	if len(c.Restrictions) == 0 {
		return nil
	}
	var codes []string
	if err := json.Unmarshal(c.Restrictions, &codes); err != nil {
		return nil
	}
	return codes
}

// IsSignature reports whether the card is bound to specific investigators.
func (c *Card) IsSignature() bool {
	return len(c.RestrictedTo()) > 0
}

// IsSignatureFor reports whether the card is a signature card of the given investigator.
func (c *Card) IsSignatureFor(investigatorCode string) bool {
	for _, code := range c.RestrictedTo() {
		if code == investigatorCode {
			return true
		}
	}
	return false
}

func (c *Card) IsBasicWeakness() bool {
	return c.SubtypeCode == SubtypeBasicWeakness
}

// HasTrait reports whether the card's trait line contains the given trait,
// matched case-insensitively as a substring.
func (c *Card) HasTrait(trait string) bool {
	return strings.Contains(strings.ToLower(c.Traits), strings.ToLower(trait))
}
