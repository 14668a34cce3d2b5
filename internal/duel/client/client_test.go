package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/cards"
	"github.com/duelview/duelview/internal/deck"
	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/ocg"
)

func testStrings() *cards.Store {
	return cards.NewStatic([]cards.Definition{
		{Code: 100, Name: "Alpha", Strings: []string{"", "Alpha effect"}},
		{Code: 200, Name: "Beta"},
	}, map[int]string{
		200:  "Use the effect of %ls in the %ls?",
		203:  "Chain?",
		556:  "Select an option",
		560:  "Select cards",
		561:  "Select position",
		1002: "Monster Zone",
	}, zap.NewNop())
}

func tenCards(base uint32) []uint32 {
	codes := make([]uint32, 10)
	for i := range codes {
		codes[i] = base + uint32(i)
	}
	return codes
}

// startDuel builds a client over a scripted engine and runs setup with two
// ten-card decks.
func startDuel(t *testing.T, steps ...ocg.ScriptedStep) (*Client, *ocg.ScriptedEngine) {
	t.Helper()
	engine := ocg.NewScriptedEngine(steps...)
	c := New(engine, testStrings(), zap.NewNop())
	err := c.Setup(SetupOptions{
		Players: [2]PlayerSetup{
			{Deck: deck.Deck{Main: tenCards(100), Extra: []uint32{900}}, RevealExtra: true},
			{Deck: deck.Deck{Main: tenCards(200)}},
		},
		Seed: [4]uint64{1, 2, 3, 4},
	})
	require.NoError(t, err)
	return c, engine
}

func drawStep(player uint8, codes ...uint32) ocg.Message {
	drawn := make([]ocg.DrawnCard, len(codes))
	for i, code := range codes {
		drawn[i] = ocg.DrawnCard{Code: code, Position: ocg.PositionFaceDownAttack}
	}
	return ocg.MsgDraw{Player: player, Drawn: drawn}
}

func TestSetupRegistersShuffledDecks(t *testing.T) {
	_, engine := startDuel(t)

	var p1Main, p2Main []uint32
	for _, info := range engine.RegisteredCards() {
		// Both sides register under duelist 0; only team and controller
		// distinguish the players.
		assert.Zero(t, info.Duelist)
		if info.Location != ocg.LocationDeck {
			continue
		}
		if info.Controller == 0 {
			p1Main = append(p1Main, info.Code)
		} else {
			p2Main = append(p2Main, info.Code)
		}
	}

	// One generator shuffles both decks in player order, so the second
	// deck's permutation continues the stream the first one started.
	assert.Equal(t, []uint32{101, 103, 105, 104, 102, 106, 107, 108, 109, 100}, p1Main)
	assert.Equal(t, []uint32{209, 201, 203, 208, 200, 207, 202, 205, 206, 204}, p2Main)
}

func TestSetupInitialState(t *testing.T) {
	c, _ := startDuel(t)
	state := c.Current()

	assert.Equal(t, DefaultStartingLP, state.Players[0].LP)
	assert.Equal(t, DefaultStartingLP, state.Players[1].LP)
	assert.Len(t, state.Players[0].Deck, 10)
	assert.Len(t, state.Players[1].Deck, 10)

	for _, card := range state.Players[0].Deck {
		assert.Zero(t, card.Code, "deck contents stay opaque")
	}

	require.Len(t, state.Players[0].Extra, 1)
	assert.Equal(t, uint32(900), state.Players[0].Extra[0].Code, "own extra deck revealed")
}

func TestSimultaneousDrawsCoalesce(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgStart{},
			drawStep(0, 101, 103, 105, 104, 102),
			drawStep(1, 209, 201, 203, 208, 200),
		},
		Result: ocg.ProcessWaiting,
	})

	events := c.Events()
	require.Len(t, events, 2, "start + one coalesced draw")
	assert.Equal(t, "start", events[0].Event.Kind())

	draw, ok := events[1].Event.(duel.EventDraw)
	require.True(t, ok)
	assert.Equal(t, []uint32{101, 103, 105, 104, 102}, draw.Player1)
	assert.Equal(t, []uint32{209, 201, 203, 208, 200}, draw.Player2)

	latest := c.Latest()
	assert.Len(t, latest.Players[0].Hand, 5)
	assert.Len(t, latest.Players[1].Hand, 5)
	assert.Len(t, latest.Players[0].Deck, 5)
	assert.Equal(t, uint32(101), latest.Players[0].Hand[0].Code)
}

func TestSamePlayerDrawsMergeInOrder(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			drawStep(0, 101),
			drawStep(0, 103),
		},
		Result: ocg.ProcessWaiting,
	})

	events := c.Events()
	require.Len(t, events, 1)
	draw, ok := events[0].Event.(duel.EventDraw)
	require.True(t, ok)
	assert.Equal(t, []uint32{101, 103}, draw.Player1)
	assert.Empty(t, draw.Player2)

	hand := c.Latest().Players[0].Hand
	require.Len(t, hand, 2)
	assert.Equal(t, uint32(101), hand[0].Code)
	assert.Equal(t, uint32(103), hand[1].Code)
	assert.Len(t, c.Latest().Players[0].Deck, 8)
}

func TestDualClockAdvancesOnAcknowledge(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgStart{},
			drawStep(0, 101),
		},
		Result: ocg.ProcessWaiting,
	})

	// Tail truth already has the card in hand; the presentation clock does
	// not move until each event is acknowledged.
	assert.Len(t, c.Latest().Players[0].Hand, 1)
	assert.Empty(t, c.Current().Players[0].Hand)
	assert.Equal(t, 2, c.PendingEvents())

	c.Acknowledge() // start
	assert.Empty(t, c.Current().Players[0].Hand)

	c.Acknowledge() // draw
	assert.Len(t, c.Current().Players[0].Hand, 1)
	assert.Equal(t, 0, c.PendingEvents())
}

func TestDrawRevealPropagatesIntoQueuedSnapshots(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgStart{},
			drawStep(0, 101),
		},
		Result: ocg.ProcessWaiting,
	})

	// The start event was queued before the draw revealed the top card, but
	// its snapshot must already know the code.
	events := c.Events()
	require.Len(t, events, 2)
	startState := events[0].Next
	assert.Equal(t, uint32(101), startState.Players[0].Deck[0].Code)
}

func TestMoveWithSummonRetroTag(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{drawStep(0, 101)},
			Result:   ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgMove{
					Card: 101,
					From: ocg.CardLocPos{Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationMonsterZone, Sequence: 2, Position: ocg.PositionFaceUpAttack},
				},
				ocg.MsgSummoning{Code: 101, Controller: 0, Location: ocg.LocationMonsterZone, Sequence: 2},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	events := c.Events()
	require.NotEmpty(t, events)
	move, ok := events[len(events)-1].Event.(duel.EventMove)
	require.True(t, ok)
	assert.Equal(t, duel.ReasonSummon, move.Reason)
	assert.Equal(t, duel.LocationHand, move.Card.Pos.Location)
	assert.Equal(t, duel.LocationMainMonsterZone, move.NextCard.Pos.Location)
	assert.Equal(t, move.Card.ID, move.NextCard.ID)

	latest := c.Latest()
	require.NotNil(t, latest.Players[0].MainMonsterZone[2])
	assert.Equal(t, uint32(101), latest.Players[0].MainMonsterZone[2].Code)
	assert.Empty(t, latest.Players[0].Hand)
}

func TestMoveToDeckHidesCode(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{drawStep(0, 101)},
			Result:   ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgMove{
					Card: 101,
					From: ocg.CardLocPos{Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationDeck, Sequence: -1, Position: ocg.PositionFaceDownAttack},
				},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	latest := c.Latest()
	assert.Len(t, latest.Players[0].Deck, 10)
	// The card was revealed while in hand; returning to the deck does not
	// re-hide an already known face.
	assert.Equal(t, uint32(101), latest.Players[0].Deck[0].Code)
}

func TestUnknownEndpointsCreateAndRemoveCards(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				// Token appears from nowhere.
				ocg.MsgMove{
					Card: 500,
					From: ocg.CardLocPos{Controller: 0, Location: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationMonsterZone, Sequence: 0, Position: ocg.PositionFaceUpAttack},
				},
			},
			Result: ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				// And vanishes again.
				ocg.MsgMove{
					Card: 500,
					From: ocg.CardLocPos{Controller: 0, Location: ocg.LocationMonsterZone, Sequence: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: 0},
				},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	events := c.Events()
	require.Len(t, events, 2)
	created, ok := events[0].Event.(duel.EventNewCard)
	require.True(t, ok)
	assert.Equal(t, uint32(500), created.Card.Code)

	_, ok = events[1].Event.(duel.EventRemoveCard)
	require.True(t, ok)
	assert.Nil(t, c.Latest().Players[0].MainMonsterZone[0])
}

func TestPositionChangeEvent(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgMove{
					Card: 101,
					From: ocg.CardLocPos{Controller: 0, Location: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationMonsterZone, Sequence: 1, Position: ocg.PositionFaceDownDefense},
				},
				ocg.MsgPosChange{
					Code:       101,
					Controller: 0,
					Location:   ocg.LocationMonsterZone,
					Sequence:   1,
					Position:   ocg.PositionFaceUpAttack,
				},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	events := c.Events()
	require.Len(t, events, 2)
	flip, ok := events[1].Event.(duel.EventPositionChange)
	require.True(t, ok)
	assert.Equal(t, duel.FaceDownDefense, flip.Card.Position)
	assert.Equal(t, duel.FaceUpAttack, flip.NextCard.Position)
	assert.Equal(t, flip.Card.ID, flip.NextCard.ID)
}

func TestShuffleHandReorders(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				drawStep(0, 101, 103, 105),
				ocg.MsgShuffleHand{Player: 0, Cards: []uint32{105, 101, 103}},
				ocg.MsgShuffleHand{Player: 1}, // empty shuffle is dropped
			},
			Result: ocg.ProcessWaiting,
		},
	)

	events := c.Events()
	require.Len(t, events, 2, "draw + one shuffle")
	_, ok := events[1].Event.(duel.EventShuffle)
	require.True(t, ok)

	hand := c.Latest().Players[0].Hand
	require.Len(t, hand, 3)
	assert.Equal(t, uint32(105), hand[0].Code)
	assert.Equal(t, uint32(101), hand[1].Code)
	assert.Equal(t, uint32(103), hand[2].Code)
}

func TestTurnAndPhaseRideTheQueue(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgNewTurn{Player: 1},
			ocg.MsgNewPhase{Phase: ocg.PhaseMain1},
		},
		Result: ocg.ProcessWaiting,
	})

	// The head clock has not moved yet.
	assert.Equal(t, 0, c.Current().Turn)

	latest := c.Latest()
	assert.Equal(t, 1, latest.Turn)
	assert.Equal(t, duel.Controller(1), latest.TurnPlayer)
	assert.Equal(t, duel.PhaseMain1, latest.Phase)

	c.Acknowledge()
	assert.Equal(t, 1, c.Current().Turn)
}

func TestChainAnnounceAndResolve(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgMove{
					Card: 100,
					From: ocg.CardLocPos{Controller: 0, Location: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationSpellZone, Sequence: 0, Position: ocg.PositionFaceUpAttack},
				},
				ocg.MsgChaining{
					Code:                 100,
					Controller:           0,
					Location:             ocg.LocationSpellZone,
					Sequence:             0,
					TriggeringController: 1,
					TriggeringLocation:   ocg.LocationMonsterZone,
					TriggeringSequence:   2,
					ChainSize:            1,
				},
				ocg.MsgChainSolved{ChainSize: 1},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	events := c.Events()
	require.Len(t, events, 3)

	chain, ok := events[1].Event.(duel.EventChain)
	require.True(t, ok)
	assert.Equal(t, 1, chain.Link)
	assert.Equal(t, uint32(100), chain.Card.Code)
	assert.Equal(t, duel.At(1, duel.LocationMainMonsterZone, 2), chain.Trigger)
	assert.Len(t, events[1].Next.Chain, 1)

	_, ok = events[2].Event.(duel.EventChainSolved)
	require.True(t, ok)
	assert.Empty(t, events[2].Next.Chain)
}

func TestDamageClampsAndQueues(t *testing.T) {
	c, _ := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgDamage{Player: 1, Amount: 9000},
		},
		Result: ocg.ProcessWaiting,
	})

	events := c.Events()
	require.Len(t, events, 1)
	dmg, ok := events[0].Event.(duel.EventLifeDamage)
	require.True(t, ok)
	assert.Equal(t, 9000, dmg.Amount)
	assert.Equal(t, 0, c.Latest().Players[1].LP)
	assert.Equal(t, DefaultStartingLP, c.Current().Players[1].LP)
}

func TestIdleCommandProjection(t *testing.T) {
	c, engine := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{drawStep(0, 101, 103)},
			Result:   ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgSelectIdleCmd{
					Player: 0,
					Summons: []ocg.IdleCommand{
						{Code: 101, Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					},
					Activates: []ocg.IdleCommand{
						{Code: 100, Controller: 0, Location: ocg.LocationHand, Sequence: 1, Description: 100<<20 | 1},
					},
					ToEnd: true,
				},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	actions := c.Actions()
	require.Len(t, actions, 2)
	// Activations project first.
	assert.Equal(t, ActionActivate, actions[0].Kind)
	assert.Equal(t, "Alpha effect", actions[0].Description)
	assert.Equal(t, ActionSummon, actions[1].Kind)

	assert.False(t, c.CanEnterBattle())
	assert.True(t, c.CanEndTurn())

	c.Take(actions[1])
	responses := engine.Responses()
	require.Len(t, responses, 1)
	resp, ok := responses[0].(ocg.ResponseSelectIdleCmd)
	require.True(t, ok)
	assert.Equal(t, ocg.IdleActionSummon, resp.Action)
	assert.Equal(t, 0, resp.Index)

	// Answering clears the projection.
	assert.Empty(t, c.Actions())
	assert.False(t, c.CanEndTurn())
}

func TestActionBundlesCollapsePileCandidates(t *testing.T) {
	c, _ := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{drawStep(0, 101, 103, 105)},
			Result:   ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgMove{
					Card: 101,
					From: ocg.CardLocPos{Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationGrave, Sequence: 0, Position: ocg.PositionFaceUpAttack},
				},
				ocg.MsgMove{
					Card: 103,
					From: ocg.CardLocPos{Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					To:   ocg.CardLocPos{Controller: 0, Location: ocg.LocationGrave, Sequence: 1, Position: ocg.PositionFaceUpAttack},
				},
			},
			Result: ocg.ProcessContinue,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgSelectIdleCmd{
					Player: 0,
					Activates: []ocg.IdleCommand{
						{Code: 101, Controller: 0, Location: ocg.LocationGrave, Sequence: 0},
						{Code: 103, Controller: 0, Location: ocg.LocationGrave, Sequence: 1},
					},
					SpSummons: []ocg.IdleCommand{
						{Code: 103, Controller: 0, Location: ocg.LocationGrave, Sequence: 1},
					},
					Summons: []ocg.IdleCommand{
						{Code: 105, Controller: 0, Location: ocg.LocationHand, Sequence: 0},
					},
				},
			},
			Result: ocg.ProcessWaiting,
		},
	)

	groups := c.ActionGroups()
	require.Len(t, groups, 2)

	// Both grave candidates anchor to the grave's top card; same-kind actions
	// collapse into one bundle, other kinds stay separate bundles.
	grave := groups[0]
	assert.Equal(t, uint32(103), grave.Card.Code)
	require.Len(t, grave.Bundles, 2)
	assert.Equal(t, ActionActivate, grave.Bundles[0].Kind)
	require.Len(t, grave.Bundles[0].Candidates, 2)
	assert.Equal(t, uint32(101), grave.Bundles[0].Candidates[0].Card.Code)
	assert.Equal(t, uint32(103), grave.Bundles[0].Candidates[1].Card.Code)
	assert.Equal(t, ActionSpecialSummon, grave.Bundles[1].Kind)
	require.Len(t, grave.Bundles[1].Candidates, 1)

	hand := groups[1]
	assert.Equal(t, uint32(105), hand.Card.Code)
	require.Len(t, hand.Bundles, 1)
	assert.Equal(t, ActionSummon, hand.Bundles[0].Kind)
}

func TestEffectYnDialogTitle(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectEffectYn{
				Player:   0,
				Code:     100,
				Location: ocg.LocationMonsterZone,
				Sequence: 2,
			},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	assert.Equal(t, DialogEffectYn, d.Kind)
	// Card name fills the first placeholder, zone name the second.
	assert.Equal(t, "Use the effect of Alpha in the Monster Zone?", d.Title)

	c.AnswerNo()
	responses := engine.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, ocg.ResponseSelectEffectYn{Yes: false}, responses[0])
}

func TestYesNoDialog(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectYesNo{Player: 0, Description: 203},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	assert.Equal(t, DialogYesNo, d.Kind)
	assert.Equal(t, "Chain?", d.Title)

	c.AnswerYes()
	responses := engine.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, ocg.ResponseSelectYesNo{Yes: true}, responses[0])
	assert.Nil(t, c.Dialog())
}

func TestCardSelectDialogBounds(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectCard{
				Player: 0,
				Min:    1,
				Max:    1,
				Selects: []ocg.CardSel{
					{Code: 100, Controller: 0, Location: ocg.LocationGrave, Sequence: 0},
					{Code: 200, Controller: 1, Location: ocg.LocationGrave, Sequence: 0},
				},
			},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	require.Len(t, d.Cards, 2)
	assert.Equal(t, "Alpha", d.Cards[0].Name)

	// Out-of-bounds answers are dropped without consuming the dialog.
	c.AnswerCards([]int{0, 1})
	assert.NotNil(t, c.Dialog())
	c.AnswerCards([]int{5})
	assert.NotNil(t, c.Dialog())

	c.AnswerCards([]int{1})
	responses := engine.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, ocg.ResponseSelectCard{Indices: []int{1}}, responses[0])
}

func TestZeroCandidateChainAutoResponds(t *testing.T) {
	c, engine := startDuel(t,
		ocg.ScriptedStep{
			Messages: []ocg.Message{
				ocg.MsgSelectChain{Player: 0},
			},
			Result: ocg.ProcessWaiting,
		},
		ocg.ScriptedStep{
			Messages: []ocg.Message{drawStep(0, 101)},
			Result:   ocg.ProcessWaiting,
		},
	)

	// No dialog ever surfaced; the decline went back synchronously and the
	// engine kept producing output.
	assert.Nil(t, c.Dialog())
	responses := engine.Responses()
	require.Len(t, responses, 1)
	resp, ok := responses[0].(ocg.ResponseSelectChain)
	require.True(t, ok)
	assert.Nil(t, resp.Index)

	assert.Equal(t, 1, c.PendingEvents(), "post-decline draw decoded in the same step")
}

func TestChainDialogForcedCannotCancel(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectChain{
				Player: 0,
				Forced: true,
				Selects: []ocg.CardSel{
					{Code: 100, Controller: 0, Location: ocg.LocationSpellZone, Sequence: 0},
				},
			},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	assert.True(t, d.Forced)

	c.AnswerCancel()
	assert.Empty(t, engine.Responses(), "forced chain cannot be declined")

	c.AnswerChain(0)
	responses := engine.Responses()
	require.Len(t, responses, 1)
	resp := responses[0].(ocg.ResponseSelectChain)
	require.NotNil(t, resp.Index)
	assert.Equal(t, 0, *resp.Index)
}

func TestSelectPositionDialog(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectPosition{
				Player:    0,
				Code:      100,
				Positions: ocg.PositionFaceUpAttack | ocg.PositionFaceDownDefense,
			},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	require.Len(t, d.Positions, 2)
	assert.Equal(t, duel.FaceUpAttack, d.Positions[0].Facing)
	assert.Equal(t, duel.FaceDownDefense, d.Positions[1].Facing)

	c.AnswerPosition(1)
	responses := engine.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, ocg.ResponseSelectPosition{Position: ocg.PositionFaceDownDefense}, responses[0])
}

func TestSelectPlaceFieldSelect(t *testing.T) {
	open := uint32(1<<2) | uint32(1<<8)
	mask := ^uint32(0) &^ open

	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectPlace{Player: 0, Count: 1, FieldMask: mask},
		},
		Result: ocg.ProcessWaiting,
	})

	f := c.FieldSelect()
	require.NotNil(t, f)
	assert.Equal(t, 1, f.Count)
	require.Len(t, f.Places, 2)

	// Wrong cardinality is dropped.
	c.AnswerPlaces(f.Places)
	assert.Empty(t, engine.Responses())

	c.AnswerPlaces(f.Places[:1])
	responses := engine.Responses()
	require.Len(t, responses, 1)
	resp := responses[0].(ocg.ResponseSelectPlace)
	require.Len(t, resp.Places, 1)
	assert.Equal(t, ocg.LocationMonsterZone, resp.Places[0].Location)
	assert.Equal(t, int32(2), resp.Places[0].Sequence)

	assert.Nil(t, c.FieldSelect())
}

func TestSelectUnselectIndexOffset(t *testing.T) {
	c, engine := startDuel(t, ocg.ScriptedStep{
		Messages: []ocg.Message{
			ocg.MsgSelectUnselectCard{
				Player:     0,
				Finishable: true,
				Min:        1,
				Max:        3,
				SelectCards: []ocg.CardSel{
					{Code: 100, Controller: 0, Location: ocg.LocationGrave, Sequence: 0},
				},
				UnselectCards: []ocg.CardSel{
					{Code: 200, Controller: 0, Location: ocg.LocationGrave, Sequence: 1},
				},
			},
		},
		Result: ocg.ProcessWaiting,
	})

	d := c.Dialog()
	require.NotNil(t, d)
	require.Len(t, d.Cards, 1)
	require.Len(t, d.Unselects, 1)
	assert.True(t, d.CanFinish)

	// Index 1 addresses the first unselect candidate, which on the wire
	// continues past the select list.
	c.AnswerSelectUnselect(1)
	responses := engine.Responses()
	require.Len(t, responses, 1)
	resp := responses[0].(ocg.ResponseSelectUnselectCard)
	require.NotNil(t, resp.Index)
	assert.Equal(t, 1, *resp.Index)
}

func TestDuelEndsWhenScriptRunsOut(t *testing.T) {
	c, _ := startDuel(t)
	assert.True(t, c.Ended())
	c.ProcessStep() // further steps are harmless
	assert.True(t, c.Ended())
}

func TestAcknowledgeEmptyPanics(t *testing.T) {
	c, _ := startDuel(t)
	assert.Panics(t, func() { c.Acknowledge() })
}

func TestResponseBeforeSetupDropped(t *testing.T) {
	c := New(ocg.NewScriptedEngine(), testStrings(), zap.NewNop())
	c.SendResponse(ocg.ResponseSelectYesNo{Yes: true})
	assert.False(t, c.Ended())
}
