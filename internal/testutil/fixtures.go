package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/deckbuilder-web/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// CardBuilder creates test cards with a builder pattern
type CardBuilder struct {
	card domain.Card
}

// NewCardBuilder creates a level-0 guardian asset by default
func NewCardBuilder(code string) *CardBuilder {
	return &CardBuilder{card: domain.Card{
		Code:        code,
		Name:        fmt.Sprintf("Test Card %s", code),
		FactionCode: "guardian",
		TypeCode:    string(domain.CardTypeAsset),
		DeckLimit:   domain.DefaultDeckLimit,
	}}
}

func (b *CardBuilder) WithName(name string) *CardBuilder {
	b.card.Name = name
	return b
}

func (b *CardBuilder) WithFaction(faction string) *CardBuilder {
	b.card.FactionCode = faction
	return b
}

func (b *CardBuilder) WithType(typeCode string) *CardBuilder {
	b.card.TypeCode = typeCode
	return b
}

func (b *CardBuilder) WithXP(xp int) *CardBuilder {
	b.card.XP = xp
	return b
}

func (b *CardBuilder) WithTraits(traits string) *CardBuilder {
	b.card.Traits = traits
	return b
}

func (b *CardBuilder) WithText(text string) *CardBuilder {
	b.card.Text = text
	return b
}

func (b *CardBuilder) WithDeckLimit(limit int) *CardBuilder {
	b.card.DeckLimit = limit
	return b
}

func (b *CardBuilder) Permanent() *CardBuilder {
	b.card.Permanent = true
	return b
}

func (b *CardBuilder) Exceptional() *CardBuilder {
	b.card.Exceptional = true
	return b
}

func (b *CardBuilder) Myriad() *CardBuilder {
	b.card.Myriad = true
	return b
}

func (b *CardBuilder) AsBasicWeakness() *CardBuilder {
	b.card.SubtypeCode = domain.SubtypeBasicWeakness
	return b
}

// AsSignatureOf binds the card to an investigator
func (b *CardBuilder) AsSignatureOf(investigatorCode string) *CardBuilder {
	raw, _ := json.Marshal([]string{investigatorCode})
	b.card.Restrictions = datatypes.JSON(raw)
	b.card.DeckLimit = 1
	return b
}

// Build creates the card in the database
func (b *CardBuilder) Build(t *testing.T, db *gorm.DB) *domain.Card {
	t.Helper()

	card := b.card
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	return &card
}

// InvestigatorBuilder creates test investigators with a builder pattern
type InvestigatorBuilder struct {
	investigator domain.Investigator
	options      []domain.DeckOption
	requirements map[string]int
}

// NewInvestigatorBuilder creates a 30-card guardian investigator by default
func NewInvestigatorBuilder(code string) *InvestigatorBuilder {
	return &InvestigatorBuilder{
		investigator: domain.Investigator{
			Code:           code,
			Name:           fmt.Sprintf("Test Investigator %s", code),
			FactionCode:    "guardian",
			DeckSize:       30,
			RandomWeakness: true,
		},
		options: []domain.DeckOption{
			{Factions: []string{"guardian"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
			{Factions: []string{"neutral"}, Level: &domain.LevelRange{Min: 0, Max: 5}},
		},
		requirements: map[string]int{},
	}
}

func (b *InvestigatorBuilder) WithFaction(faction string) *InvestigatorBuilder {
	b.investigator.FactionCode = faction
	return b
}

func (b *InvestigatorBuilder) WithDeckSize(size int) *InvestigatorBuilder {
	b.investigator.DeckSize = size
	return b
}

func (b *InvestigatorBuilder) WithOptions(options ...domain.DeckOption) *InvestigatorBuilder {
	b.options = options
	return b
}

func (b *InvestigatorBuilder) WithRequirement(cardCode string, quantity int) *InvestigatorBuilder {
	b.requirements[cardCode] = quantity
	return b
}

func (b *InvestigatorBuilder) WithoutRandomWeakness() *InvestigatorBuilder {
	b.investigator.RandomWeakness = false
	return b
}

// Build creates the investigator in the database
func (b *InvestigatorBuilder) Build(t *testing.T, db *gorm.DB) *domain.Investigator {
	t.Helper()

	investigator := b.investigator

	optionsJSON, err := json.Marshal(b.options)
	if err != nil {
		t.Fatalf("failed to marshal deck options: %v", err)
	}
	investigator.DeckOptions = datatypes.JSON(optionsJSON)

	requirementsJSON, err := json.Marshal(b.requirements)
	if err != nil {
		t.Fatalf("failed to marshal deck requirements: %v", err)
	}
	investigator.DeckRequirements = datatypes.JSON(requirementsJSON)

	if err := db.Create(&investigator).Error; err != nil {
		t.Fatalf("failed to create investigator: %v", err)
	}
	return &investigator
}

// SeedStarterCatalog creates a small but complete catalog: one guardian
// investigator with a signature card requirement, a few level-0 and upgraded
// cards, and a basic weakness.
func SeedStarterCatalog(t *testing.T, db *gorm.DB) *domain.Investigator {
	t.Helper()

	investigator := NewInvestigatorBuilder("01001").
		WithRequirement("01006", 1).
		Build(t, db)

	NewCardBuilder("01006").WithName("Signature Relic").AsSignatureOf("01001").Build(t, db)
	NewCardBuilder("01010").WithName("Machete").WithTraits("Item. Weapon. Melee.").Build(t, db)
	NewCardBuilder("01011").WithName("Guard Dog").WithTraits("Ally. Creature.").Build(t, db)
	NewCardBuilder("01020").WithName("Lightning Gun").WithXP(5).WithTraits("Item. Weapon. Firearm.").Build(t, db)
	NewCardBuilder("01099").WithName("Paranoia").WithFaction("neutral").WithType(string(domain.CardTypeTreachery)).AsBasicWeakness().Build(t, db)

	return investigator
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
