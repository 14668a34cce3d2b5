package ocg

// Message is one typed unit of engine output: either a state change or an
// input request. The set is sealed; the decoder switches over the concrete
// types and ignores (with a log line) anything it does not model.
type Message interface {
	isMessage()
}

// HintType categorizes MsgHint payloads.
type HintType uint8

const (
	HintMessage   HintType = 1
	HintEvent     HintType = 2
	HintSelectMsg HintType = 3
)

// DrawnCard is one card revealed by a draw.
type DrawnCard struct {
	Code     uint32
	Position Position
}

// IdleCommand is one candidate of a SELECT_IDLECMD list. Description is only
// populated for activation candidates.
type IdleCommand struct {
	Code        uint32
	Controller  uint8
	Location    Location
	Sequence    int32
	Description uint64
}

// Loc returns the candidate's wire address.
func (c IdleCommand) Loc() CardLoc {
	return CardLoc{Controller: c.Controller, Location: c.Location, Sequence: c.Sequence}
}

// State-change messages.

// MsgStart announces the beginning of the duel.
type MsgStart struct{}

// MsgDraw reveals cards drawn from the top of a player's deck. The engine
// emits one of these per player even when both players draw simultaneously.
type MsgDraw struct {
	Player uint8
	Drawn  []DrawnCard
}

// MsgNewTurn announces the turn passing to a player.
type MsgNewTurn struct {
	Player uint8
}

// MsgNewPhase announces a phase transition.
type MsgNewPhase struct {
	Phase Phase
}

// MsgMove relocates a card. Either endpoint may fall outside the tracked
// address space: an unknown source means a newly created card, an unknown
// destination means the card leaves play entirely.
type MsgMove struct {
	Card   uint32
	From   CardLocPos
	To     CardLocPos
	Reason uint32
}

// MsgPosChange flips or rotates a card in place.
type MsgPosChange struct {
	Code         uint32
	Controller   uint8
	Location     Location
	Sequence     int32
	PrevPosition Position
	Position     Position
}

// MsgSet announces a card being set face-down; the accompanying MsgMove
// carries the state change.
type MsgSet struct {
	Code     uint32
	Loc      CardLocPos
	Position Position
}

// MsgShuffleHand reports the post-shuffle code order of a player's hand.
type MsgShuffleHand struct {
	Player uint8
	Cards  []uint32
}

// MsgShuffleDeck announces a deck shuffle; deck contents stay opaque.
type MsgShuffleDeck struct {
	Player uint8
}

// MsgSummoning annotates the immediately preceding move as a normal summon.
type MsgSummoning struct {
	Code       uint32
	Controller uint8
	Location   Location
	Sequence   int32
	Position   Position
}

// MsgSummoned closes a summon negation window.
type MsgSummoned struct{}

// MsgSpSummoning annotates the immediately preceding move as a special summon.
type MsgSpSummoning struct {
	Code       uint32
	Controller uint8
	Location   Location
	Sequence   int32
	Position   Position
}

// MsgSpSummoned closes a special summon negation window.
type MsgSpSummoned struct{}

// MsgChaining announces a new chain link being placed.
type MsgChaining struct {
	Code                 uint32
	Controller           uint8
	Location             Location
	Sequence             int32
	Position             Position
	TriggeringController uint8
	TriggeringLocation   Location
	TriggeringSequence   int32
	Description          uint64
	ChainSize            uint32
}

// MsgChained announces the link has been committed to the chain.
type MsgChained struct {
	ChainSize uint32
}

// MsgChainSolving announces a link beginning to resolve.
type MsgChainSolving struct {
	ChainSize uint32
}

// MsgChainSolved announces a link having resolved.
type MsgChainSolved struct {
	ChainSize uint32
}

// MsgChainEnd announces the whole chain finishing.
type MsgChainEnd struct{}

// MsgChainNegated announces a link's activation being negated.
type MsgChainNegated struct {
	ChainSize uint32
}

// MsgChainDisabled announces a link's effect being disabled.
type MsgChainDisabled struct {
	ChainSize uint32
}

// MsgDamage reports life point damage to a player.
type MsgDamage struct {
	Player uint8
	Amount uint32
}

// MsgHint carries a loosely typed UI hint.
type MsgHint struct {
	HintType HintType
	Player   uint8
	Hint     uint64
}

// MsgCardHint carries a hint anchored to a specific card.
type MsgCardHint struct {
	Controller  uint8
	Location    Location
	Sequence    int32
	Description uint64
}

// MsgConfirmCards reveals cards to a player without moving them.
type MsgConfirmCards struct {
	Player uint8
	Cards  []CardSel
}

// MsgRetry signals that the last response was rejected.
type MsgRetry struct{}

// Input-request messages. These block the engine until a response is set.

// MsgSelectOption asks the player to pick one of several effect options.
type MsgSelectOption struct {
	Player  uint8
	Options []uint64
}

// MsgSelectIdleCmd asks the turn player what to do during an open game state.
type MsgSelectIdleCmd struct {
	Player       uint8
	Summons      []IdleCommand
	SpSummons    []IdleCommand
	PosChanges   []IdleCommand
	MonsterSets  []IdleCommand
	SpellSets    []IdleCommand
	Activates    []IdleCommand
	ToBattle     bool
	ToEnd        bool
	CanShuffle   bool
}

// MsgSelectCard asks the player to choose between Min and Max candidates.
type MsgSelectCard struct {
	Player    uint8
	CanCancel bool
	Min       uint32
	Max       uint32
	Selects   []CardSel
}

// MsgSelectChain asks the player whether (and with what) to chain.
type MsgSelectChain struct {
	Player  uint8
	Forced  bool
	Selects []CardSel
}

// MsgSelectPlace asks the player to pick zones on the field. The mask has a
// set bit for every slot that is NOT available.
type MsgSelectPlace struct {
	Player    uint8
	Count     uint32
	FieldMask uint32
}

// MsgSelectPosition asks the player to orient a card.
type MsgSelectPosition struct {
	Player    uint8
	Code      uint32
	Positions Position
}

// MsgSelectYesNo asks a generic yes/no question.
type MsgSelectYesNo struct {
	Player      uint8
	Description uint64
}

// MsgSelectEffectYn asks whether to apply an optional effect of a located card.
type MsgSelectEffectYn struct {
	Player      uint8
	Code        uint32
	Controller  uint8
	Location    Location
	Sequence    int32
	Position    Position
	Description uint64
}

// MsgSelectUnselectCard asks for an incremental select/unselect choice.
type MsgSelectUnselectCard struct {
	Player        uint8
	Finishable    bool
	Cancelable    bool
	Min           uint32
	Max           uint32
	SelectCards   []CardSel
	UnselectCards []CardSel
}

func (MsgStart) isMessage()              {}
func (MsgDraw) isMessage()               {}
func (MsgNewTurn) isMessage()            {}
func (MsgNewPhase) isMessage()           {}
func (MsgMove) isMessage()               {}
func (MsgPosChange) isMessage()          {}
func (MsgSet) isMessage()                {}
func (MsgShuffleHand) isMessage()        {}
func (MsgShuffleDeck) isMessage()        {}
func (MsgSummoning) isMessage()          {}
func (MsgSummoned) isMessage()           {}
func (MsgSpSummoning) isMessage()        {}
func (MsgSpSummoned) isMessage()         {}
func (MsgChaining) isMessage()           {}
func (MsgChained) isMessage()            {}
func (MsgChainSolving) isMessage()       {}
func (MsgChainSolved) isMessage()        {}
func (MsgChainEnd) isMessage()           {}
func (MsgChainNegated) isMessage()       {}
func (MsgChainDisabled) isMessage()      {}
func (MsgDamage) isMessage()             {}
func (MsgHint) isMessage()               {}
func (MsgCardHint) isMessage()           {}
func (MsgConfirmCards) isMessage()       {}
func (MsgRetry) isMessage()              {}
func (MsgSelectOption) isMessage()       {}
func (MsgSelectIdleCmd) isMessage()      {}
func (MsgSelectCard) isMessage()         {}
func (MsgSelectChain) isMessage()        {}
func (MsgSelectPlace) isMessage()        {}
func (MsgSelectPosition) isMessage()     {}
func (MsgSelectYesNo) isMessage()        {}
func (MsgSelectEffectYn) isMessage()     {}
func (MsgSelectUnselectCard) isMessage() {}
