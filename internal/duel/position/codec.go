// Package position translates between the engine's flat (controller, zone,
// sequence) addressing and the model's structured places. Decoding is partial:
// zone/sequence combinations the model does not track come back as not-ok and
// callers skip the message. Encoding is total for every place the model can
// produce.
package position

import (
	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/ocg"
)

// Decode maps a wire address to a model place. Overlay and pendulum
// addressing, and monster/spell sequences past the packed ranges, have no
// model equivalent.
func Decode(loc ocg.CardLoc) (duel.Place, bool) {
	controller := duel.Controller(loc.Controller)
	if controller > 1 {
		return duel.Place{}, false
	}
	seq := int(loc.Sequence)

	switch loc.Location {
	case ocg.LocationDeck:
		return duel.At(controller, duel.LocationDeck, seq), true
	case ocg.LocationHand:
		return duel.At(controller, duel.LocationHand, seq), true
	case ocg.LocationGrave:
		return duel.At(controller, duel.LocationGrave, seq), true
	case ocg.LocationRemoved:
		return duel.At(controller, duel.LocationBanish, seq), true
	case ocg.LocationExtra:
		return duel.At(controller, duel.LocationExtra, seq), true
	case ocg.LocationMonsterZone:
		// The engine packs main and extra monster slots into one range:
		// 0-4 main, 5-6 extra.
		if seq >= 0 && seq < 5 {
			return duel.At(controller, duel.LocationMainMonsterZone, seq), true
		}
		if seq == 5 || seq == 6 {
			return duel.At(controller, duel.LocationExtraMonsterZone, seq-5), true
		}
		return duel.Place{}, false
	case ocg.LocationSpellZone:
		// 0-4 spell/trap, 5 field spell, 6-7 pendulum (unmodeled).
		if seq >= 0 && seq < 5 {
			return duel.At(controller, duel.LocationSpellZone, seq), true
		}
		if seq == 5 {
			return duel.At(controller, duel.LocationFieldZone, 0), true
		}
		return duel.Place{}, false
	case ocg.LocationFieldZone:
		return duel.At(controller, duel.LocationFieldZone, 0), true
	default:
		return duel.Place{}, false
	}
}

// Encode maps a model place back to the wire address. Exact inverse of
// Decode for every place the model produces.
func Encode(place duel.Place) ocg.CardLoc {
	loc := ocg.CardLoc{Controller: place.Controller, Sequence: int32(place.Sequence)}
	switch place.Location {
	case duel.LocationDeck:
		loc.Location = ocg.LocationDeck
	case duel.LocationHand:
		loc.Location = ocg.LocationHand
	case duel.LocationGrave:
		loc.Location = ocg.LocationGrave
	case duel.LocationBanish:
		loc.Location = ocg.LocationRemoved
	case duel.LocationExtra:
		loc.Location = ocg.LocationExtra
	case duel.LocationMainMonsterZone:
		loc.Location = ocg.LocationMonsterZone
	case duel.LocationExtraMonsterZone:
		loc.Location = ocg.LocationMonsterZone
		loc.Sequence = int32(place.Sequence) + 5
	case duel.LocationSpellZone:
		loc.Location = ocg.LocationSpellZone
	case duel.LocationFieldZone:
		loc.Location = ocg.LocationSpellZone
		loc.Sequence = 5
	}
	return loc
}

// DecodeFacing maps position bits to a model orientation. The engine may set
// extra bits; the four base orientations win in declaration order.
func DecodeFacing(p ocg.Position) (duel.Facing, bool) {
	switch {
	case p&ocg.PositionFaceUpAttack != 0:
		return duel.FaceUpAttack, true
	case p&ocg.PositionFaceDownAttack != 0:
		return duel.FaceDownAttack, true
	case p&ocg.PositionFaceUpDefense != 0:
		return duel.FaceUpDefense, true
	case p&ocg.PositionFaceDownDefense != 0:
		return duel.FaceDownDefense, true
	default:
		return 0, false
	}
}

// EncodeFacing maps a model orientation back to its position bit.
func EncodeFacing(f duel.Facing) ocg.Position {
	switch f {
	case duel.FaceUpAttack:
		return ocg.PositionFaceUpAttack
	case duel.FaceUpDefense:
		return ocg.PositionFaceUpDefense
	case duel.FaceDownAttack:
		return ocg.PositionFaceDownAttack
	default:
		return ocg.PositionFaceDownDefense
	}
}
