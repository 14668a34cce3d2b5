package position

import "github.com/duelview/duelview/internal/duel"

// ParseFieldMask expands a SELECT_PLACE zone mask into the open field slots.
// The mask packs, per player, 7 monster bits (5 main + 2 extra), one unused
// bit, then 5 spell bits, 1 field-spell bit and 2 pendulum bits; a clear bit
// marks an open slot. Pendulum slots are unmodeled and skipped. The low half
// is relative to the requesting player, so controllers are flipped into
// absolute terms for player 1.
func ParseFieldMask(mask uint32, player uint8) []duel.Place {
	places := make([]duel.Place, 0, 15)
	places = parseFieldMaskPlayer(mask&0xffff, 0, places)
	places = parseFieldMaskPlayer(mask>>16, 1, places)

	if player == 1 {
		for i := range places {
			places[i].Controller = 1 - places[i].Controller
		}
	}
	return places
}

func parseFieldMaskPlayer(m uint32, controller duel.Controller, places []duel.Place) []duel.Place {
	for i := 0; i < 7; i++ {
		if m&1 == 0 {
			if i >= 5 {
				places = append(places, duel.At(controller, duel.LocationExtraMonsterZone, i-5))
			} else {
				places = append(places, duel.At(controller, duel.LocationMainMonsterZone, i))
			}
		}
		m >>= 1
	}
	m >>= 1
	for i := 0; i < 8; i++ {
		if m&1 == 0 {
			switch {
			case i >= 6:
				// pendulum zones, not tracked
			case i >= 5:
				places = append(places, duel.At(controller, duel.LocationFieldZone, 0))
			default:
				places = append(places, duel.At(controller, duel.LocationSpellZone, i))
			}
		}
		m >>= 1
	}
	return places
}
