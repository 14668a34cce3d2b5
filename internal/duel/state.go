package duel

// Phase is the turn phase as shown to the presentation layer. The short codes
// match the client's animation cues.
type Phase string

const (
	PhaseDraw        Phase = "dp"
	PhaseStandby     Phase = "sp"
	PhaseMain1       Phase = "m1"
	PhaseBattleStart Phase = "bp1"
	PhaseBattleStep  Phase = "bp2"
	PhaseDamage      Phase = "bp3"
	PhaseDamageCalc  Phase = "bp4"
	PhaseBattle      Phase = "bp5"
	PhaseMain2       Phase = "m2"
	PhaseEnd         Phase = "ep"
)

// PlayerState is one duelist's life total and zones. Piles are densely
// indexed slices resequenced on every mutation; slot zones are fixed arrays
// where nil marks an empty slot.
type PlayerState struct {
	LP               int      `json:"lp"`
	Deck             []Card   `json:"deck"`
	Hand             []Card   `json:"hand"`
	Grave            []Card   `json:"grave"`
	Extra            []Card   `json:"extra"`
	Banish           []Card   `json:"banish"`
	MainMonsterZone  [5]*Card `json:"mainMonsterZone"`
	ExtraMonsterZone [2]*Card `json:"extraMonsterZone"`
	SpellZone        [5]*Card `json:"spellZone"`
	FieldZone        *Card    `json:"fieldZone"`
}

// ChainLink is one entry of the chain stack.
type ChainLink struct {
	Link    int   `json:"link"`
	Card    Card  `json:"card"`
	Trigger Place `json:"trigger"`
}

// State is the full match snapshot. All transformations are pure: methods
// take a value receiver and return the next state, so event log entries can
// hold a snapshot each. Zone slices are never mutated in place, which makes
// the structural sharing between snapshots safe.
type State struct {
	Players    [2]PlayerState `json:"players"`
	Chain      []ChainLink    `json:"chain"`
	Turn       int            `json:"turn"`
	TurnPlayer Controller     `json:"turnPlayer"`
	Phase      Phase          `json:"phase"`
}

// NewState returns the pre-duel empty state.
func NewState() State {
	return State{Phase: PhaseDraw}
}

func (p PlayerState) pile(l Location) []Card {
	switch l {
	case LocationHand:
		return p.Hand
	case LocationDeck:
		return p.Deck
	case LocationGrave:
		return p.Grave
	case LocationExtra:
		return p.Extra
	case LocationBanish:
		return p.Banish
	}
	return nil
}

func (p *PlayerState) setPile(l Location, cards []Card) {
	switch l {
	case LocationHand:
		p.Hand = cards
	case LocationDeck:
		p.Deck = cards
	case LocationGrave:
		p.Grave = cards
	case LocationExtra:
		p.Extra = cards
	case LocationBanish:
		p.Banish = cards
	}
}

// CardAt resolves the card at a place, or nil when the slot is empty or the
// address is out of range. The returned card is a copy; tracked state is only
// changed through the transformation methods.
func (s State) CardAt(pos Place) *Card {
	if int(pos.Controller) >= len(s.Players) {
		return nil
	}
	p := s.Players[pos.Controller]

	var found *Card
	switch {
	case pos.Location.IsPile():
		pile := p.pile(pos.Location)
		if pos.Sequence < 0 || pos.Sequence >= len(pile) {
			return nil
		}
		c := pile[pos.Sequence]
		found = &c
	case pos.Location == LocationFieldZone:
		if p.FieldZone == nil {
			return nil
		}
		c := *p.FieldZone
		found = &c
	case pos.Location == LocationMainMonsterZone:
		if pos.Sequence < 0 || pos.Sequence >= len(p.MainMonsterZone) || p.MainMonsterZone[pos.Sequence] == nil {
			return nil
		}
		c := *p.MainMonsterZone[pos.Sequence]
		found = &c
	case pos.Location == LocationExtraMonsterZone:
		if pos.Sequence < 0 || pos.Sequence >= len(p.ExtraMonsterZone) || p.ExtraMonsterZone[pos.Sequence] == nil {
			return nil
		}
		c := *p.ExtraMonsterZone[pos.Sequence]
		found = &c
	case pos.Location == LocationSpellZone:
		if pos.Sequence < 0 || pos.Sequence >= len(p.SpellZone) || p.SpellZone[pos.Sequence] == nil {
			return nil
		}
		c := *p.SpellZone[pos.Sequence]
		found = &c
	default:
		return nil
	}

	if pos.Overlay != NoOverlay {
		if pos.Overlay < 0 || pos.Overlay >= len(found.Materials) {
			return nil
		}
		m := found.Materials[pos.Overlay]
		return &m
	}
	return found
}

// FindCard resolves a card by instance id across every zone, including
// attached materials. Returns a copy, or nil when the id is not tracked.
// Callers use this to locate where a card actually landed after a pile write
// with an out-of-range index (prepend or append) resequenced the pile.
func (s State) FindCard(id string) *Card {
	check := func(c Card) *Card {
		if c.ID == id {
			cc := c
			return &cc
		}
		for _, m := range c.Materials {
			if m.ID == id {
				mc := m
				return &mc
			}
		}
		return nil
	}

	for i := range s.Players {
		p := s.Players[i]
		for _, pile := range [][]Card{p.Deck, p.Hand, p.Grave, p.Extra, p.Banish} {
			for _, c := range pile {
				if found := check(c); found != nil {
					return found
				}
			}
		}
		slots := make([]*Card, 0, 13)
		for j := range p.MainMonsterZone {
			slots = append(slots, p.MainMonsterZone[j])
		}
		for j := range p.ExtraMonsterZone {
			slots = append(slots, p.ExtraMonsterZone[j])
		}
		for j := range p.SpellZone {
			slots = append(slots, p.SpellZone[j])
		}
		slots = append(slots, p.FieldZone)
		for _, slot := range slots {
			if slot == nil {
				continue
			}
			if found := check(*slot); found != nil {
				return found
			}
		}
	}
	return nil
}

// SetCard places a card at (or removes it from, when card is nil) the given
// place. Pile semantics: in-range index replaces (or splices out), a negative
// index prepends, an index past the end appends, and the whole pile is
// resequenced afterwards so slot indices stay contiguous from 0. Slot zones
// are written directly and never shifted.
func (s State) SetCard(card *Card, pos Place) State {
	if int(pos.Controller) >= len(s.Players) {
		return s
	}

	var placed *Card
	if card != nil {
		c := *card
		c.Pos = At(pos.Controller, pos.Location, pos.Sequence)
		c.Materials = rehomeMaterials(c.Materials, c.Pos)
		placed = &c
	}

	p := s.Players[pos.Controller]
	switch {
	case pos.Location.IsPile():
		p.setPile(pos.Location, updatePile(p.pile(pos.Location), placed, pos.Sequence))
	case pos.Location == LocationFieldZone:
		p.FieldZone = placed
	case pos.Location == LocationMainMonsterZone:
		if pos.Sequence >= 0 && pos.Sequence < len(p.MainMonsterZone) {
			p.MainMonsterZone[pos.Sequence] = placed
		}
	case pos.Location == LocationExtraMonsterZone:
		if pos.Sequence >= 0 && pos.Sequence < len(p.ExtraMonsterZone) {
			p.ExtraMonsterZone[pos.Sequence] = placed
		}
	case pos.Location == LocationSpellZone:
		if pos.Sequence >= 0 && pos.Sequence < len(p.SpellZone) {
			p.SpellZone[pos.Sequence] = placed
		}
	}
	s.Players[pos.Controller] = p
	return s
}

// MoveCard removes the card from its current place and sets it at dest.
// Attached materials travel with it.
func (s State) MoveCard(card Card, dest Place) State {
	return s.SetCard(nil, card.Pos).SetCard(&card, dest)
}

// ReorderPile rearranges a pile to match the order implied by an engine
// provided code sequence. Repeated codes bind to the earliest remaining
// occurrence, so ties split stably; cards the code list does not cover keep
// their relative order at the tail.
func (s State) ReorderPile(controller Controller, location Location, codes []uint32) State {
	if !location.IsPile() || int(controller) >= len(s.Players) {
		return s
	}
	p := s.Players[controller]
	remaining := append([]Card(nil), p.pile(location)...)
	next := make([]Card, 0, len(remaining))
	for _, code := range codes {
		for i := range remaining {
			if remaining[i].Code == code {
				next = append(next, remaining[i])
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	next = append(next, remaining...)
	p.setPile(location, resequence(next))
	s.Players[controller] = p
	return s
}

// AppendChain pushes a new link onto the chain stack.
func (s State) AppendChain(link ChainLink) State {
	s.Chain = append(append([]ChainLink(nil), s.Chain...), link)
	return s
}

// PopChain removes the most recent link. Popping an empty chain is a no-op;
// the engine never announces a resolve without a matching announce.
func (s State) PopChain() State {
	if len(s.Chain) == 0 {
		return s
	}
	s.Chain = append([]ChainLink(nil), s.Chain[:len(s.Chain)-1]...)
	return s
}

// ApplyDamage subtracts life points, clamping at zero.
func (s State) ApplyDamage(player Controller, amount int) State {
	if int(player) >= len(s.Players) {
		return s
	}
	p := s.Players[player]
	p.LP -= amount
	if p.LP < 0 {
		p.LP = 0
	}
	s.Players[player] = p
	return s
}

// UpdateCardCodes reveals card faces by instance id across every zone,
// including attached materials. Codes only ever move from 0 to a concrete
// value; existing reveals are left alone.
func (s State) UpdateCardCodes(codes map[string]uint32) State {
	apply := func(c Card) Card {
		if code, ok := codes[c.ID]; ok && c.Code == 0 {
			c.Code = code
		}
		if len(c.Materials) > 0 {
			mats := append([]Card(nil), c.Materials...)
			for i := range mats {
				if code, ok := codes[mats[i].ID]; ok && mats[i].Code == 0 {
					mats[i].Code = code
				}
			}
			c.Materials = mats
		}
		return c
	}
	applyPile := func(pile []Card) []Card {
		next := append([]Card(nil), pile...)
		for i := range next {
			next[i] = apply(next[i])
		}
		return next
	}
	applySlot := func(slot *Card) *Card {
		if slot == nil {
			return nil
		}
		c := apply(*slot)
		return &c
	}

	for i := range s.Players {
		p := s.Players[i]
		p.Deck = applyPile(p.Deck)
		p.Hand = applyPile(p.Hand)
		p.Grave = applyPile(p.Grave)
		p.Extra = applyPile(p.Extra)
		p.Banish = applyPile(p.Banish)
		for j := range p.MainMonsterZone {
			p.MainMonsterZone[j] = applySlot(p.MainMonsterZone[j])
		}
		for j := range p.ExtraMonsterZone {
			p.ExtraMonsterZone[j] = applySlot(p.ExtraMonsterZone[j])
		}
		for j := range p.SpellZone {
			p.SpellZone[j] = applySlot(p.SpellZone[j])
		}
		p.FieldZone = applySlot(p.FieldZone)
		s.Players[i] = p
	}
	return s
}

// AttachMaterial appends a card to the materials of the card at host. The
// material loses any materials of its own and takes the next overlay index.
func (s State) AttachMaterial(host Place, material Card) State {
	c := s.CardAt(host)
	if c == nil {
		return s
	}
	next := *c
	material.Materials = nil
	material.Pos = Place{Controller: host.Controller, Location: host.Location, Sequence: host.Sequence, Overlay: len(next.Materials)}
	next.Materials = append(append([]Card(nil), next.Materials...), material)
	return s.SetCard(&next, host)
}

// DetachMaterial removes one material from the card at host, returning the
// detached card. Remaining materials are re-indexed.
func (s State) DetachMaterial(host Place, overlay int) (Card, State, bool) {
	c := s.CardAt(host)
	if c == nil || overlay < 0 || overlay >= len(c.Materials) {
		return Card{}, s, false
	}
	next := *c
	mats := append([]Card(nil), next.Materials...)
	detached := mats[overlay]
	mats = append(mats[:overlay], mats[overlay+1:]...)
	next.Materials = mats
	return detached, s.SetCard(&next, host), true
}

func updatePile(pile []Card, card *Card, index int) []Card {
	var next []Card
	switch {
	case 0 <= index && index < len(pile):
		if card != nil {
			next = append([]Card(nil), pile...)
			next[index] = *card
		} else {
			next = append(append([]Card(nil), pile[:index]...), pile[index+1:]...)
		}
	case card == nil:
		next = append([]Card(nil), pile...)
	case index < 0:
		next = append([]Card{*card}, pile...)
	default:
		next = append(append([]Card(nil), pile...), *card)
	}
	return resequence(next)
}

func resequence(cards []Card) []Card {
	for i := range cards {
		cards[i].Pos.Sequence = i
		cards[i].Materials = rehomeMaterials(cards[i].Materials, cards[i].Pos)
	}
	return cards
}

// rehomeMaterials keeps material addresses pinned to their host's place.
func rehomeMaterials(materials []Card, host Place) []Card {
	if len(materials) == 0 {
		return materials
	}
	next := append([]Card(nil), materials...)
	for i := range next {
		next[i].Pos = Place{Controller: host.Controller, Location: host.Location, Sequence: host.Sequence, Overlay: i}
	}
	return next
}
