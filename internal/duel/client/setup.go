package client

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/deck"
	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/ocg"
)

// DefaultStartingLP is used when SetupOptions leaves StartingLP zero.
const DefaultStartingLP = 8000

// PlayerSetup configures one duelist.
type PlayerSetup struct {
	Deck deck.Deck
	// RevealExtra exposes the extra deck's codes in the initial state, the
	// way a player sees their own extra deck.
	RevealExtra bool
}

// SetupOptions configures a duel before Start.
type SetupOptions struct {
	Players    [2]PlayerSetup
	Seed       [4]uint64
	StartingLP int
}

// Setup registers both decks with the engine, builds the initial tracked
// state, and starts the duel. The main decks are shuffled with the same
// generator the engine seeds from, one generator shared across both players
// in player order, so the tracked permutation matches what the engine will
// reveal card by card.
func (c *Client) Setup(opts SetupOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil {
		return fmt.Errorf("client: setup without engine")
	}
	if c.started {
		return fmt.Errorf("client: duel already started")
	}

	lp := opts.StartingLP
	if lp == 0 {
		lp = DefaultStartingLP
	}

	rng := deck.NewXoshiro256SS(opts.Seed)
	for player := uint8(0); player < 2; player++ {
		setup := opts.Players[player]
		main := deck.Shuffle(append([]uint32(nil), setup.Deck.Main...), rng)

		// Duelist stays 0 for both sides; it only diverges from the team in
		// tag formats, which this layer does not set up.
		for _, code := range main {
			c.engine.NewCard(ocg.NewCardInfo{
				Team:       player,
				Duelist:    0,
				Controller: player,
				Code:       code,
				Location:   ocg.LocationDeck,
				Position:   ocg.PositionFaceDownAttack,
			})
		}
		for _, code := range setup.Deck.Extra {
			c.engine.NewCard(ocg.NewCardInfo{
				Team:       player,
				Duelist:    0,
				Controller: player,
				Code:       code,
				Location:   ocg.LocationExtra,
				Position:   ocg.PositionFaceDownAttack,
			})
		}
	}

	state := duel.NewState()
	for player := uint8(0); player < 2; player++ {
		p := state.Players[player]
		p.LP = lp

		// Deck contents stay opaque in the tracked state; only the counts
		// come from the engine. The shuffle preview is for the engine's
		// benefit, not a reveal.
		deckCount := c.engine.QueryCount(player, ocg.LocationDeck)
		p.Deck = make([]duel.Card, 0, deckCount)
		for i := 0; i < deckCount; i++ {
			p.Deck = append(p.Deck, duel.NewCard(0, duel.At(player, duel.LocationDeck, i), duel.FaceDownAttack))
		}

		extraCount := c.engine.QueryCount(player, ocg.LocationExtra)
		extraCodes := opts.Players[player].Deck.Extra
		p.Extra = make([]duel.Card, 0, extraCount)
		for i := 0; i < extraCount; i++ {
			var code uint32
			if opts.Players[player].RevealExtra && i < len(extraCodes) {
				code = extraCodes[i]
			}
			p.Extra = append(p.Extra, duel.NewCard(code, duel.At(player, duel.LocationExtra, i), duel.FaceDownAttack))
		}

		state.Players[player] = p
	}

	c.current = state
	c.engine.Start()
	c.started = true

	if c.logger != nil {
		c.logger.Info("duel started",
			zap.Int("starting_lp", lp),
			zap.Int("deck_p1", len(state.Players[0].Deck)),
			zap.Int("deck_p2", len(state.Players[1].Deck)),
		)
	}

	c.processStepLocked()
	return nil
}
