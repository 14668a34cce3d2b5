package duel

// Event is one presentation-facing playback unit derived from the engine's
// message stream. The set is sealed: the playback consumer switches over the
// concrete types.
type Event interface {
	// Kind returns the wire tag used when the event is serialized for the
	// presentation layer.
	Kind() string
	isEvent()
}

// MoveReason annotates why a move happened when the engine says so after the
// fact.
type MoveReason string

const (
	ReasonNone      MoveReason = ""
	ReasonSummon    MoveReason = "summon"
	ReasonSpSummon  MoveReason = "spsummon"
)

// EventStart marks the duel beginning.
type EventStart struct{}

// EventDraw carries the codes drawn by each player in one animation beat.
// Simultaneous per-player draw messages coalesce into a single entry.
type EventDraw struct {
	Player1 []uint32 `json:"player1"`
	Player2 []uint32 `json:"player2"`
}

// EventMove shows a card relocating; Card is the pre-move snapshot and
// NextCard the post-move one.
type EventMove struct {
	Card     Card       `json:"card"`
	NextCard Card       `json:"nextCard"`
	Reason   MoveReason `json:"reason,omitempty"`
}

// EventNewCard shows a card entering tracked zones from nowhere (tokens and
// other engine-generated cards).
type EventNewCard struct {
	Card Card `json:"card"`
}

// EventRemoveCard shows a card leaving all tracked zones.
type EventRemoveCard struct {
	Card Card `json:"card"`
}

// EventPositionChange shows a card flipping or rotating in place.
type EventPositionChange struct {
	Card     Card `json:"card"`
	NextCard Card `json:"nextCard"`
}

// EventShuffle shows a player's hand being shuffled.
type EventShuffle struct {
	Player Controller `json:"player"`
}

// EventPhase shows a phase transition; the new phase is in the entry's state.
type EventPhase struct{}

// EventChain shows a chain link being announced.
type EventChain struct {
	Card    Card  `json:"card"`
	Trigger Place `json:"trigger"`
	Link    int   `json:"link"`
}

// EventChainSolved shows a chain link having resolved.
type EventChainSolved struct {
	Link int `json:"link"`
}

// EventLifeDamage shows a player taking damage.
type EventLifeDamage struct {
	Player Controller `json:"player"`
	Amount int        `json:"amount"`
}

func (EventStart) Kind() string          { return "start" }
func (EventDraw) Kind() string           { return "draw" }
func (EventMove) Kind() string           { return "move" }
func (EventNewCard) Kind() string        { return "newCard" }
func (EventRemoveCard) Kind() string     { return "removeCard" }
func (EventPositionChange) Kind() string { return "positionChange" }
func (EventShuffle) Kind() string        { return "shuffle" }
func (EventPhase) Kind() string          { return "phase" }
func (EventChain) Kind() string          { return "chain" }
func (EventChainSolved) Kind() string    { return "chainSolved" }
func (EventLifeDamage) Kind() string     { return "lpDamage" }

func (EventStart) isEvent()          {}
func (EventDraw) isEvent()           {}
func (EventMove) isEvent()           {}
func (EventNewCard) isEvent()        {}
func (EventRemoveCard) isEvent()     {}
func (EventPositionChange) isEvent() {}
func (EventShuffle) isEvent()        {}
func (EventPhase) isEvent()          {}
func (EventChain) isEvent()          {}
func (EventChainSolved) isEvent()    {}
func (EventLifeDamage) isEvent()     {}
