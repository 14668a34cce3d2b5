package duel

import "github.com/google/uuid"

// Controller indexes the two duelists, 0 or 1.
type Controller = uint8

// Location is a zone kind in the tracked model.
type Location uint8

const (
	LocationHand Location = iota
	LocationDeck
	LocationGrave
	LocationExtra
	LocationBanish
	LocationMainMonsterZone
	LocationExtraMonsterZone
	LocationSpellZone
	LocationFieldZone
)

var locationNames = map[Location]string{
	LocationHand:             "hand",
	LocationDeck:             "deck",
	LocationGrave:            "grave",
	LocationExtra:            "extra",
	LocationBanish:           "banish",
	LocationMainMonsterZone:  "mainMonsterZone",
	LocationExtraMonsterZone: "extraMonsterZone",
	LocationSpellZone:        "spellZone",
	LocationFieldZone:        "fieldZone",
}

func (l Location) String() string {
	return locationNames[l]
}

// IsPile reports whether the zone is a variable-length, densely indexed pile.
// Everything else is a fixed-capacity slot zone.
func (l Location) IsPile() bool {
	switch l {
	case LocationHand, LocationDeck, LocationGrave, LocationExtra, LocationBanish:
		return true
	}
	return false
}

// NoOverlay marks a Place that addresses a card directly rather than one of
// its attached materials.
const NoOverlay = -1

// Place is a structured zone address: controller, zone kind, slot index, and
// an optional overlay index into the host card's materials.
type Place struct {
	Controller Controller `json:"controller"`
	Location   Location   `json:"location"`
	Sequence   int        `json:"sequence"`
	Overlay    int        `json:"overlay"`
}

// At builds a Place without an overlay index.
func At(controller Controller, location Location, sequence int) Place {
	return Place{Controller: controller, Location: location, Sequence: sequence, Overlay: NoOverlay}
}

// Facing is a card's orientation.
type Facing uint8

const (
	FaceUpAttack Facing = iota
	FaceUpDefense
	FaceDownAttack
	FaceDownDefense
)

var facingNames = map[Facing]string{
	FaceUpAttack:    "up_atk",
	FaceUpDefense:   "up_def",
	FaceDownAttack:  "down_atk",
	FaceDownDefense: "down_def",
}

func (f Facing) String() string {
	return facingNames[f]
}

// IsFaceUp reports whether the orientation reveals the card face.
func (f Facing) IsFaceUp() bool {
	return f == FaceUpAttack || f == FaceUpDefense
}

// Card is one tracked card instance. The ID is assigned once when the card
// enters tracking and never changes afterward; Code is 0 while the face is
// unknown to this client and only ever transitions to a concrete value.
// Materials are owned exclusively by their host and travel with it.
type Card struct {
	ID        string    `json:"id"`
	Code      uint32    `json:"code"`
	Pos       Place     `json:"pos"`
	Position  Facing    `json:"position"`
	Materials []Card    `json:"materials,omitempty"`
}

// NewCard mints a tracked card with a fresh identity.
func NewCard(code uint32, pos Place, position Facing) Card {
	return Card{ID: uuid.NewString(), Code: code, Pos: pos, Position: position}
}
