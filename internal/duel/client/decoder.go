package client

import (
	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/duel/position"
	"github.com/duelview/duelview/internal/ocg"
)

// handleMessage projects one engine message: resolve addresses, compute the
// next match state, and either append exactly one playback entry or populate
// the action/dialog side channels. Unknown or unresolvable messages degrade
// to a logged skip; the engine is trusted but its address space is wider than
// the tracked model.
func (c *Client) handleMessage(m ocg.Message) {
	switch m := m.(type) {
	case ocg.MsgStart:
		c.queueEvent(duel.EventStart{}, c.latestLocked())

	case ocg.MsgDraw:
		c.handleDraw(m)

	case ocg.MsgNewTurn:
		next := c.latestLocked()
		next.Turn++
		next.TurnPlayer = m.Player
		c.queueEvent(duel.EventPhase{}, next)

	case ocg.MsgNewPhase:
		phase, ok := decodePhase(m.Phase)
		if !ok {
			c.warnSkip("unknown phase", zap.Uint32("phase", uint32(m.Phase)))
			return
		}
		next := c.latestLocked()
		next.Phase = phase
		c.queueEvent(duel.EventPhase{}, next)

	case ocg.MsgMove:
		c.handleMove(m)

	case ocg.MsgPosChange:
		c.handlePosChange(m)

	case ocg.MsgShuffleHand:
		if len(m.Cards) == 0 {
			return
		}
		next := c.latestLocked().ReorderPile(m.Player, duel.LocationHand, m.Cards)
		c.queueEvent(duel.EventShuffle{Player: m.Player}, next)

	case ocg.MsgSummoning:
		c.tagLastMove(duel.ReasonSummon)

	case ocg.MsgSpSummoning:
		c.tagLastMove(duel.ReasonSpSummon)

	case ocg.MsgChaining:
		c.handleChaining(m)

	case ocg.MsgChainSolved:
		next := c.latestLocked().PopChain()
		c.queueEvent(duel.EventChainSolved{Link: int(m.ChainSize)}, next)

	case ocg.MsgDamage:
		next := c.latestLocked().ApplyDamage(m.Player, int(m.Amount))
		c.queueEvent(duel.EventLifeDamage{Player: m.Player, Amount: int(m.Amount)}, next)

	case ocg.MsgSelectOption:
		c.projectSelectOption(m)

	case ocg.MsgSelectIdleCmd:
		c.projectIdleCommands(m)

	case ocg.MsgSelectCard:
		c.projectSelectCard(m)

	case ocg.MsgSelectChain:
		c.projectSelectChain(m)

	case ocg.MsgSelectPlace:
		c.fieldSelect = &FieldSelect{
			Player: m.Player,
			Count:  int(m.Count),
			Places: position.ParseFieldMask(m.FieldMask, m.Player),
		}

	case ocg.MsgSelectPosition:
		c.projectSelectPosition(m)

	case ocg.MsgSelectYesNo:
		c.projectYesNo(m)

	case ocg.MsgSelectEffectYn:
		c.projectEffectYn(m)

	case ocg.MsgSelectUnselectCard:
		c.projectSelectUnselect(m)

	case ocg.MsgConfirmCards:
		// A reveal without movement: propagate the codes, no animation beat.
		reveals := make(map[string]uint32, len(m.Cards))
		state := c.latestLocked()
		for _, sel := range m.Cards {
			place, ok := position.Decode(sel.Loc())
			if !ok {
				continue
			}
			if card := state.CardAt(place); card != nil && sel.Code != 0 {
				reveals[card.ID] = sel.Code
			}
		}
		c.revealCards(reveals)

	case ocg.MsgHint:
		if c.logger != nil {
			c.logger.Debug("engine hint",
				zap.Uint8("hint_type", uint8(m.HintType)),
				zap.Uint8("player", m.Player),
				zap.String("text", c.desc(m.Hint)),
			)
		}

	case ocg.MsgCardHint:
		if c.logger != nil {
			c.logger.Debug("card hint",
				zap.Uint8("controller", m.Controller),
				zap.String("text", c.desc(m.Description)),
			)
		}

	default:
		// Set/shuffle-deck/chain bookkeeping and anything unmodeled: the
		// state change (if any) arrives via other messages.
		switch m.(type) {
		case ocg.MsgSet, ocg.MsgShuffleDeck, ocg.MsgSummoned, ocg.MsgSpSummoned,
			ocg.MsgChained, ocg.MsgChainSolving, ocg.MsgChainEnd,
			ocg.MsgChainNegated, ocg.MsgChainDisabled, ocg.MsgRetry:
		default:
			if c.logger != nil {
				c.logger.Debug("unhandled engine message", zap.Any("message", m))
			}
		}
	}
}

// handleDraw moves the drawn cards from deck top to hand, revealing their
// codes. When the queue tail is still an unconsumed draw, the new draw merges
// into it: the engine emits one message per player even for simultaneous
// draws, and the consumer must animate them as one beat.
func (c *Client) handleDraw(m ocg.MsgDraw) {
	if m.Player > 1 {
		c.warnSkip("draw for unknown player", zap.Uint8("player", m.Player))
		return
	}

	// Reveal codes on the deck-top cards first so every queued snapshot
	// already knows them.
	reveals := make(map[string]uint32, len(m.Drawn))
	deck := c.latestLocked().Players[m.Player].Deck
	for i, drawn := range m.Drawn {
		if i < len(deck) {
			reveals[deck[i].ID] = drawn.Code
		}
	}
	c.revealCards(reveals)

	next := c.latestLocked()
	drawnCodes := make([]uint32, 0, len(m.Drawn))
	for _, drawn := range m.Drawn {
		pile := next.Players[m.Player].Deck
		if len(pile) == 0 {
			c.warnSkip("draw from empty deck", zap.Uint8("player", m.Player))
			break
		}
		top := pile[0]
		top.Code = drawn.Code
		if drawn.Position&ocg.PositionFaceUp != 0 {
			top.Position = duel.FaceUpAttack
		} else {
			top.Position = duel.FaceDownAttack
		}
		hand := duel.At(m.Player, duel.LocationHand, len(next.Players[m.Player].Hand))
		next = next.MoveCard(top, hand)
		drawnCodes = append(drawnCodes, drawn.Code)
	}

	if tail, ok := c.queue.Tail(); ok {
		if prev, ok := tail.Event.(duel.EventDraw); ok {
			merged := duel.EventDraw{
				Player1: append(append([]uint32(nil), prev.Player1...), pick(m.Player == 0, drawnCodes)...),
				Player2: append(append([]uint32(nil), prev.Player2...), pick(m.Player == 1, drawnCodes)...),
			}
			c.replaceTailEvent(merged, next)
			return
		}
	}
	c.queueEvent(duel.EventDraw{
		Player1: pick(m.Player == 0, drawnCodes),
		Player2: pick(m.Player == 1, drawnCodes),
	}, next)
}

func pick(ok bool, codes []uint32) []uint32 {
	if !ok {
		return nil
	}
	return codes
}

func (c *Client) handleMove(m ocg.MsgMove) {
	// Overlay endpoints address a material under a host card.
	if m.To.Location.HasOverlay() {
		c.handleMoveToOverlay(m)
		return
	}
	if m.From.Location.HasOverlay() {
		c.handleMoveFromOverlay(m)
		return
	}

	src, srcOK := position.Decode(m.From.Loc())
	dst, dstOK := position.Decode(m.To.Loc())
	facing, facingOK := position.DecodeFacing(m.To.Position)
	if !facingOK {
		facing = duel.FaceDownAttack
	}

	// Cards never reveal their face while entering the deck.
	code := m.Card
	if dstOK && dst.Location == duel.LocationDeck {
		code = 0
	}

	var card *duel.Card
	if srcOK {
		card = c.latestLocked().CardAt(src)
	}

	if card == nil {
		if !dstOK {
			c.warnSkip("move with no resolvable endpoint",
				zap.Uint32("card", m.Card),
				zap.Uint32("from", uint32(m.From.Location)),
				zap.Uint32("to", uint32(m.To.Location)),
			)
			return
		}
		// Unknown source: a card entering tracked zones (token, generated).
		created := duel.NewCard(code, dst, facing)
		next := c.latestLocked().SetCard(&created, dst)
		placed := next.FindCard(created.ID)
		if placed == nil {
			c.warnSkip("new card did not land", zap.Uint32("card", m.Card))
			return
		}
		c.queueEvent(duel.EventNewCard{Card: *placed}, next)
		return
	}

	before := *card
	if code != 0 {
		c.revealCards(map[string]uint32{card.ID: code})
	}

	if dstOK {
		moved := *c.latestLocked().CardAt(src)
		moved.Position = facing
		next := c.latestLocked().MoveCard(moved, dst)
		placed := next.FindCard(moved.ID)
		if placed == nil {
			c.warnSkip("moved card did not land", zap.Uint32("card", m.Card))
			return
		}
		c.queueEvent(duel.EventMove{Card: before, NextCard: *placed}, next)
		return
	}

	// Unknown destination: the card leaves all tracked zones.
	next := c.latestLocked().SetCard(nil, src)
	c.queueEvent(duel.EventRemoveCard{Card: before}, next)
}

// handleMoveToOverlay attaches the moving card as a material of the card in
// the destination's base zone.
func (c *Client) handleMoveToOverlay(m ocg.MsgMove) {
	hostLoc := m.To.Loc()
	hostLoc.Location = hostLoc.Location.Base()
	host, ok := position.Decode(hostLoc)
	if !ok {
		c.warnSkip("overlay attach to unresolvable host", zap.Uint32("card", m.Card))
		return
	}

	state := c.latestLocked()
	var material duel.Card
	if src, ok := position.Decode(m.From.Loc()); ok {
		if cur := state.CardAt(src); cur != nil {
			material = *cur
			if m.Card != 0 && material.Code == 0 {
				c.revealCards(map[string]uint32{material.ID: m.Card})
				state = c.latestLocked()
				material = *state.CardAt(src)
			}
			state = state.SetCard(nil, src)
		} else {
			material = duel.NewCard(m.Card, host, duel.FaceUpAttack)
		}
	} else {
		material = duel.NewCard(m.Card, host, duel.FaceUpAttack)
	}

	before := material
	next := state.AttachMaterial(host, material)
	placedHost := next.CardAt(host)
	if placedHost == nil || len(placedHost.Materials) == 0 {
		c.warnSkip("overlay attach failed", zap.Uint32("card", m.Card))
		return
	}
	c.queueEvent(duel.EventMove{
		Card:     before,
		NextCard: placedHost.Materials[len(placedHost.Materials)-1],
	}, next)
}

// handleMoveFromOverlay detaches a material and places it at the destination
// (or drops it from tracking when the destination is unmodeled).
func (c *Client) handleMoveFromOverlay(m ocg.MsgMove) {
	hostLoc := m.From.Loc()
	hostLoc.Location = hostLoc.Location.Base()
	host, ok := position.Decode(hostLoc)
	if !ok {
		c.warnSkip("overlay detach from unresolvable host", zap.Uint32("card", m.Card))
		return
	}

	detached, next, ok := c.latestLocked().DetachMaterial(host, int(m.From.OverlaySequence))
	if !ok {
		c.warnSkip("overlay detach with no material",
			zap.Uint32("card", m.Card),
			zap.Int32("overlay", m.From.OverlaySequence),
		)
		return
	}

	dst, dstOK := position.Decode(m.To.Loc())
	if !dstOK {
		c.queueEvent(duel.EventRemoveCard{Card: detached}, next)
		return
	}

	moved := detached
	if facing, ok := position.DecodeFacing(m.To.Position); ok {
		moved.Position = facing
	}
	if m.Card != 0 && moved.Code == 0 && dst.Location != duel.LocationDeck {
		moved.Code = m.Card
	}
	next = next.SetCard(&moved, dst)
	placed := next.FindCard(moved.ID)
	if placed == nil {
		c.warnSkip("detached card did not land", zap.Uint32("card", m.Card))
		return
	}
	c.queueEvent(duel.EventMove{Card: detached, NextCard: *placed}, next)
}

func (c *Client) handlePosChange(m ocg.MsgPosChange) {
	src, ok := position.Decode(ocg.CardLoc{Controller: m.Controller, Location: m.Location, Sequence: m.Sequence})
	if !ok {
		c.warnSkip("position change at unresolvable address", zap.Uint32("code", m.Code))
		return
	}
	card := c.latestLocked().CardAt(src)
	if card == nil {
		c.warnSkip("position change on empty slot", zap.Uint32("code", m.Code))
		return
	}
	facing, ok := position.DecodeFacing(m.Position)
	if !ok {
		c.warnSkip("position change to unknown facing", zap.Uint32("position", uint32(m.Position)))
		return
	}

	before := *card
	if facing.IsFaceUp() && m.Code != 0 {
		c.revealCards(map[string]uint32{card.ID: m.Code})
	}

	flipped := *c.latestLocked().CardAt(src)
	flipped.Position = facing
	next := c.latestLocked().SetCard(&flipped, src)
	placed := next.CardAt(src)
	if placed == nil {
		return
	}
	c.queueEvent(duel.EventPositionChange{Card: before, NextCard: *placed}, next)
}

// tagLastMove retroactively annotates the most recent unconsumed move event
// with the reason the engine only announces afterwards. A missing or
// non-move tail is a sequencing quirk we drop silently.
func (c *Client) tagLastMove(reason duel.MoveReason) {
	tail, ok := c.queue.Tail()
	if !ok {
		return
	}
	move, ok := tail.Event.(duel.EventMove)
	if !ok {
		return
	}
	move.Reason = reason
	c.replaceTailEvent(move, tail.Next)
}

func (c *Client) handleChaining(m ocg.MsgChaining) {
	origin, ok := position.Decode(ocg.CardLoc{Controller: m.Controller, Location: m.Location, Sequence: m.Sequence})
	if !ok {
		c.warnSkip("chain from unresolvable origin", zap.Uint32("code", m.Code))
		return
	}
	trigger, ok := position.Decode(ocg.CardLoc{
		Controller: m.TriggeringController,
		Location:   m.TriggeringLocation,
		Sequence:   m.TriggeringSequence,
	})
	if !ok {
		c.warnSkip("chain with unresolvable trigger", zap.Uint32("code", m.Code))
		return
	}

	var card duel.Card
	if cur := c.latestLocked().CardAt(origin); cur != nil {
		card = *cur
		if m.Code != 0 && card.Code == 0 {
			card.Code = m.Code
		}
	} else {
		// The chaining card may live outside tracked zones (e.g. a hand
		// trap already sent away); present a stub rather than dropping the
		// chain link.
		card = duel.NewCard(m.Code, origin, duel.FaceUpAttack)
	}

	link := duel.ChainLink{Link: int(m.ChainSize), Card: card, Trigger: trigger}
	next := c.latestLocked().AppendChain(link)
	c.queueEvent(duel.EventChain{Card: card, Trigger: trigger, Link: link.Link}, next)
}

func (c *Client) warnSkip(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Warn(msg, fields...)
	}
}

func decodePhase(p ocg.Phase) (duel.Phase, bool) {
	switch p {
	case ocg.PhaseDraw:
		return duel.PhaseDraw, true
	case ocg.PhaseStandby:
		return duel.PhaseStandby, true
	case ocg.PhaseMain1:
		return duel.PhaseMain1, true
	case ocg.PhaseBattleStart:
		return duel.PhaseBattleStart, true
	case ocg.PhaseBattleStep:
		return duel.PhaseBattleStep, true
	case ocg.PhaseDamage:
		return duel.PhaseDamage, true
	case ocg.PhaseDamageCalc:
		return duel.PhaseDamageCalc, true
	case ocg.PhaseBattle:
		return duel.PhaseBattle, true
	case ocg.PhaseMain2:
		return duel.PhaseMain2, true
	case ocg.PhaseEnd:
		return duel.PhaseEnd, true
	default:
		return "", false
	}
}
