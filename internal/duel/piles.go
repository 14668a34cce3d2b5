package duel

// PileSizes summarizes one player's pile lengths for the action bundling
// rule. ExtraFaceUp counts face-up cards in the extra deck, which skews where
// that pile's "top" sits.
type PileSizes struct {
	Deck        int
	Grave       int
	Banish      int
	Extra       int
	ExtraFaceUp int
}

// PileSizes computes the current pile sizes for a controller.
func (s State) PileSizes(controller Controller) PileSizes {
	if int(controller) >= len(s.Players) {
		return PileSizes{}
	}
	p := s.Players[controller]
	sizes := PileSizes{
		Deck:   len(p.Deck),
		Grave:  len(p.Grave),
		Banish: len(p.Banish),
		Extra:  len(p.Extra),
	}
	for _, c := range p.Extra {
		if c.Position.IsFaceUp() {
			sizes.ExtraFaceUp++
		}
	}
	return sizes
}

// IsPileTop reports whether a sequence addresses the visible top of a pile.
// Decks are drawn from index 0; graves and banish piles grow upward so the
// top is the last index. The extra deck keeps face-down cards at the front
// and face-up (pendulum) cards at the back: with no face-up cards the top is
// index 0, otherwise the last index, matching the engine's presentation of
// the pile.
func IsPileTop(location Location, sequence int, sizes PileSizes) bool {
	switch location {
	case LocationDeck:
		return sequence == 0
	case LocationGrave:
		return sequence == sizes.Grave-1
	case LocationBanish:
		return sequence == sizes.Banish-1
	case LocationExtra:
		if sizes.ExtraFaceUp == 0 {
			return sequence == 0
		}
		return sequence == sizes.Extra-1
	default:
		return false
	}
}
