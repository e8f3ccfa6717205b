package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Deck is the persisted snapshot of a working deck. The JSONB columns hold
// plain code->int maps (code->[]int for customizations) so a snapshot
// round-trips through the deck engine unchanged.
type Deck struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Name             string         `json:"name" gorm:"not null"`
	InvestigatorCode string         `json:"investigatorCode" gorm:"not null"`
	Slots            datatypes.JSON `json:"slots" gorm:"type:jsonb;default:'{}'"`
	SideSlots        datatypes.JSON `json:"sideSlots" gorm:"type:jsonb;default:'{}'"`
	ExemptSlots      datatypes.JSON `json:"exemptSlots" gorm:"type:jsonb;default:'{}'"`
	Discounts        datatypes.JSON `json:"discounts" gorm:"type:jsonb;default:'{}'"`
	Customizations   datatypes.JSON `json:"customizations" gorm:"type:jsonb;default:'{}'"`
	TabooListID      string         `json:"tabooListId"`
	XPEarned         int            `json:"xpEarned" gorm:"not null;default:0"`
	XPSpent          int            `json:"xpSpent" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
