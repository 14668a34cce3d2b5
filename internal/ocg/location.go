package ocg

// Location is the engine's zone bit-flag enumeration. A card address on the
// wire is a (controller, location, sequence) triple; overlay cards carry the
// overlay flag in addition to the host zone.
type Location uint32

const (
	LocationDeck        Location = 0x01
	LocationHand        Location = 0x02
	LocationMonsterZone Location = 0x04
	LocationSpellZone   Location = 0x08
	LocationGrave       Location = 0x10
	LocationRemoved     Location = 0x20
	LocationExtra       Location = 0x40
	LocationOverlay     Location = 0x80
	LocationFieldZone   Location = 0x100
	LocationPendulum    Location = 0x200
)

// HasOverlay reports whether the address refers to an overlay (material) slot.
func (l Location) HasOverlay() bool {
	return l&LocationOverlay != 0
}

// Base strips the overlay flag, leaving the host zone.
func (l Location) Base() Location {
	return l &^ LocationOverlay
}

// Position is the engine's card orientation bit-flag enumeration.
type Position uint32

const (
	PositionFaceUpAttack    Position = 0x1
	PositionFaceDownAttack  Position = 0x2
	PositionFaceUpDefense   Position = 0x4
	PositionFaceDownDefense Position = 0x8

	PositionFaceUp   = PositionFaceUpAttack | PositionFaceUpDefense
	PositionFaceDown = PositionFaceDownAttack | PositionFaceDownDefense
	PositionAttack   = PositionFaceUpAttack | PositionFaceDownAttack
	PositionDefense  = PositionFaceUpDefense | PositionFaceDownDefense
)

// Split expands a position mask into its individual orientation bits, in
// ascending bit order. Used for SELECT_POSITION candidate lists.
func (p Position) Split() []Position {
	all := []Position{
		PositionFaceUpAttack,
		PositionFaceDownAttack,
		PositionFaceUpDefense,
		PositionFaceDownDefense,
	}
	out := make([]Position, 0, 4)
	for _, bit := range all {
		if p&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// Phase is the engine's turn phase enumeration.
type Phase uint32

const (
	PhaseDraw        Phase = 0x01
	PhaseStandby     Phase = 0x02
	PhaseMain1       Phase = 0x04
	PhaseBattleStart Phase = 0x08
	PhaseBattleStep  Phase = 0x10
	PhaseDamage      Phase = 0x20
	PhaseDamageCalc  Phase = 0x40
	PhaseBattle      Phase = 0x80
	PhaseMain2       Phase = 0x100
	PhaseEnd         Phase = 0x200
)

// CardLoc addresses a card on the wire without orientation.
type CardLoc struct {
	Controller uint8
	Location   Location
	Sequence   int32
}

// CardLocPos addresses a card on the wire including orientation. When the
// location carries the overlay flag, OverlaySequence indexes the material
// under the host card addressed by Sequence.
type CardLocPos struct {
	Controller      uint8
	Location        Location
	Sequence        int32
	Position        Position
	OverlaySequence int32
}

// Loc drops the orientation.
func (p CardLocPos) Loc() CardLoc {
	return CardLoc{Controller: p.Controller, Location: p.Location, Sequence: p.Sequence}
}

// CardSel is a selectable candidate: a located card with its revealed code.
// The code here is authoritative at selection time even when the card is
// face-down in the tracked state.
type CardSel struct {
	Code       uint32
	Controller uint8
	Location   Location
	Sequence   int32
	Position   Position
}

// Loc returns the candidate's wire address.
func (s CardSel) Loc() CardLoc {
	return CardLoc{Controller: s.Controller, Location: s.Location, Sequence: s.Sequence}
}
