package client

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/duel/position"
	"github.com/duelview/duelview/internal/ocg"
)

// ActionKind names what a card action does when taken.
type ActionKind string

const (
	ActionActivate      ActionKind = "activate"
	ActionSummon        ActionKind = "summon"
	ActionSpecialSummon ActionKind = "specialSummon"
	ActionSetMonster    ActionKind = "setMonster"
	ActionSetSpell      ActionKind = "setSpell"
	ActionChangePos     ActionKind = "changePos"
)

// CardAction is one thing the player can currently do with a specific card.
// The response is prebuilt; taking the action just sends it.
type CardAction struct {
	Kind        ActionKind
	Card        duel.Card
	Description string
	response    ocg.Response
}

// ActionBundle collapses the otherwise-identical actions of one kind at an
// anchor card into a single descriptor. Candidates keeps the underlying
// per-card actions in projection order; taking one goes through Take as usual.
type ActionBundle struct {
	Kind        ActionKind
	Description string
	Candidates  []CardAction
}

// ActionGroup bundles the actions attached to one visible card, one bundle
// per action kind. Actions on non-top pile cards fold into the group of the
// pile's visible top so the presentation layer has one anchor per stack.
type ActionGroup struct {
	Card    duel.Card
	Bundles []ActionBundle
}

// DialogKind discriminates what a dialog asks for.
type DialogKind string

const (
	DialogYesNo          DialogKind = "yesno"
	DialogEffectYn       DialogKind = "effectyn"
	DialogCards          DialogKind = "cards"
	DialogChain          DialogKind = "chain"
	DialogPosition       DialogKind = "position"
	DialogOption         DialogKind = "option"
	DialogSelectUnselect DialogKind = "selectUnselect"
)

// DialogCard is one selectable candidate shown inside a dialog.
type DialogCard struct {
	Card     duel.Card
	Name     string
	response ocg.Response
}

// DialogOptionItem is one effect option of an option dialog.
type DialogOptionItem struct {
	Text     string
	response ocg.Response
}

// DialogPositionItem is one orientation choice of a position dialog.
type DialogPositionItem struct {
	Facing   duel.Facing
	response ocg.Response
}

// Dialog is the single modal question currently posed to the player, if any.
// At most one dialog is live at a time; answering it (through the Answer*
// methods) clears it and resumes the engine.
type Dialog struct {
	ID     string
	Kind   DialogKind
	Title  string
	Player duel.Controller

	Min       int
	Max       int
	CanCancel bool
	CanFinish bool
	Forced    bool

	Cards     []DialogCard
	Unselects []DialogCard
	Positions []DialogPositionItem
	Options   []DialogOptionItem
}

// FieldSelect is a pending request to pick open field slots. It rides beside
// the dialog because the presentation for it is the field itself, not a modal.
type FieldSelect struct {
	Player duel.Controller
	Count  int
	Places []duel.Place
}

// Actions returns the live card actions.
func (c *Client) Actions() []CardAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CardAction, len(c.actions))
	copy(out, c.actions)
	return out
}

// ActionGroups returns the live actions bundled per visible card and, within
// a card, per action kind. Actions on buried pile cards anchor to the pile
// top, so several same-kind candidates in one pile collapse into a single
// bundle there.
func (c *Client) ActionGroups() []ActionGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.latestLocked()
	groups := make([]ActionGroup, 0, len(c.actions))
	groupIndex := make(map[string]int)
	bundleIndex := make(map[string]int)

	for _, action := range c.actions {
		anchor := action.Card
		if pos := anchor.Pos; pos.Location.IsPile() &&
			!duel.IsPileTop(pos.Location, pos.Sequence, state.PileSizes(pos.Controller)) {
			if top := pileTopCard(state, pos.Controller, pos.Location); top != nil {
				anchor = *top
			}
		}
		gi, ok := groupIndex[anchor.ID]
		if !ok {
			gi = len(groups)
			groupIndex[anchor.ID] = gi
			groups = append(groups, ActionGroup{Card: anchor})
		}
		key := anchor.ID + "/" + string(action.Kind)
		if bi, ok := bundleIndex[key]; ok {
			groups[gi].Bundles[bi].Candidates = append(groups[gi].Bundles[bi].Candidates, action)
			continue
		}
		bundleIndex[key] = len(groups[gi].Bundles)
		groups[gi].Bundles = append(groups[gi].Bundles, ActionBundle{
			Kind:        action.Kind,
			Description: action.Description,
			Candidates:  []CardAction{action},
		})
	}
	return groups
}

// Dialog returns the live dialog, or nil.
func (c *Client) Dialog() *Dialog {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog == nil {
		return nil
	}
	d := *c.dialog
	return &d
}

// FieldSelect returns the pending field-slot request, or nil.
func (c *Client) FieldSelect() *FieldSelect {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fieldSelect == nil {
		return nil
	}
	f := *c.fieldSelect
	f.Places = append([]duel.Place(nil), c.fieldSelect.Places...)
	return &f
}

// CanEnterBattle reports whether the idle menu currently offers the battle
// phase.
func (c *Client) CanEnterBattle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canToBattle
}

// CanEndTurn reports whether the idle menu currently offers ending the turn.
func (c *Client) CanEndTurn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canToEnd
}

// CanShuffleHand reports whether the idle menu currently offers reshuffling
// the hand.
func (c *Client) CanShuffleHand() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canShuffleHand
}

// Take sends the prebuilt response of a card action.
func (c *Client) Take(action CardAction) {
	c.SendResponse(action.response)
}

// EnterBattlePhase answers the idle menu with the battle-phase transition.
// Dropped when the menu does not offer it.
func (c *Client) EnterBattlePhase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canToBattle {
		return
	}
	c.sendResponseLocked(ocg.ResponseSelectIdleCmd{Action: ocg.IdleActionToBattle})
}

// EndTurn answers the idle menu with the end-phase transition. Dropped when
// the menu does not offer it.
func (c *Client) EndTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canToEnd {
		return
	}
	c.sendResponseLocked(ocg.ResponseSelectIdleCmd{Action: ocg.IdleActionToEnd})
}

// ShuffleHand answers the idle menu with a hand reshuffle. Dropped when the
// menu does not offer it.
func (c *Client) ShuffleHand() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canShuffleHand {
		return
	}
	c.sendResponseLocked(ocg.ResponseSelectIdleCmd{Action: ocg.IdleActionShuffle})
}

// AnswerYes answers the live yes/no or effect dialog.
func (c *Client) AnswerYes() { c.answerBool(true) }

// AnswerNo answers the live yes/no or effect dialog.
func (c *Client) AnswerNo() { c.answerBool(false) }

func (c *Client) answerBool(yes bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil {
		return
	}
	switch d.Kind {
	case DialogYesNo:
		c.sendResponseLocked(ocg.ResponseSelectYesNo{Yes: yes})
	case DialogEffectYn:
		c.sendResponseLocked(ocg.ResponseSelectEffectYn{Yes: yes})
	}
}

// AnswerOption picks an option of the live option dialog by index.
func (c *Client) AnswerOption(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogOption || index < 0 || index >= len(d.Options) {
		return
	}
	c.sendResponseLocked(d.Options[index].response)
}

// AnswerCards answers the live card-select dialog with the chosen candidate
// indices.
func (c *Client) AnswerCards(indices []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogCards {
		return
	}
	if len(indices) < d.Min || len(indices) > d.Max {
		return
	}
	for _, i := range indices {
		if i < 0 || i >= len(d.Cards) {
			return
		}
	}
	c.sendResponseLocked(ocg.ResponseSelectCard{Indices: indices})
}

// AnswerCancel declines the live dialog where the request allowed it: a
// cancellable card select, a non-forced chain, or a cancellable
// select/unselect.
func (c *Client) AnswerCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil {
		return
	}
	switch d.Kind {
	case DialogCards:
		if d.CanCancel {
			c.sendResponseLocked(ocg.ResponseSelectCard{Cancel: true})
		}
	case DialogChain:
		if !d.Forced {
			c.sendResponseLocked(ocg.ResponseSelectChain{})
		}
	case DialogSelectUnselect:
		if d.CanCancel {
			c.sendResponseLocked(ocg.ResponseSelectUnselectCard{Cancel: true})
		}
	}
}

// AnswerChain picks a chain candidate of the live chain dialog by index.
func (c *Client) AnswerChain(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogChain || index < 0 || index >= len(d.Cards) {
		return
	}
	c.sendResponseLocked(d.Cards[index].response)
}

// AnswerPosition picks an orientation of the live position dialog by index.
func (c *Client) AnswerPosition(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogPosition || index < 0 || index >= len(d.Positions) {
		return
	}
	c.sendResponseLocked(d.Positions[index].response)
}

// AnswerSelectUnselect toggles one candidate of the live incremental
// selection. Indices address Cards first, then Unselects.
func (c *Client) AnswerSelectUnselect(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogSelectUnselect {
		return
	}
	if index >= 0 && index < len(d.Cards) {
		c.sendResponseLocked(d.Cards[index].response)
		return
	}
	index -= len(d.Cards)
	if index >= 0 && index < len(d.Unselects) {
		c.sendResponseLocked(d.Unselects[index].response)
	}
}

// AnswerFinish ends the live incremental selection where the request allowed
// finishing early.
func (c *Client) AnswerFinish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dialog
	if d == nil || d.Kind != DialogSelectUnselect || !d.CanFinish {
		return
	}
	c.sendResponseLocked(ocg.ResponseSelectUnselectCard{Finish: true})
}

// AnswerPlaces answers the pending field-slot request with the chosen places.
func (c *Client) AnswerPlaces(places []duel.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.fieldSelect
	if f == nil || len(places) != f.Count {
		return
	}
	locs := make([]ocg.CardLoc, 0, len(places))
	for _, p := range places {
		locs = append(locs, position.Encode(p))
	}
	c.sendResponseLocked(ocg.ResponseSelectPlace{Places: locs})
}

// Projection: input-request messages to actions and dialogs.

// projectIdleCommands converts the idle menu into card actions. The engine
// repeats a card across candidate lists; each occurrence becomes one action
// carrying a response indexed into its own list.
func (c *Client) projectIdleCommands(m ocg.MsgSelectIdleCmd) {
	c.clearInputLocked()
	c.canToBattle = m.ToBattle
	c.canToEnd = m.ToEnd
	c.canShuffleHand = m.CanShuffle

	add := func(cmds []ocg.IdleCommand, kind ActionKind, action ocg.IdleAction) {
		for i, cmd := range cmds {
			card, ok := c.resolveIdleCard(cmd)
			if !ok {
				c.warnSkip("idle candidate at unresolvable address",
					zap.Uint32("code", cmd.Code), zap.String("kind", string(kind)))
				continue
			}
			act := CardAction{
				Kind:     kind,
				Card:     card,
				response: ocg.ResponseSelectIdleCmd{Action: action, Index: i},
			}
			if kind == ActionActivate {
				act.Description = c.desc(cmd.Description)
			}
			c.actions = append(c.actions, act)
		}
	}

	add(m.Activates, ActionActivate, ocg.IdleActionActivate)
	add(m.Summons, ActionSummon, ocg.IdleActionSummon)
	add(m.SpSummons, ActionSpecialSummon, ocg.IdleActionSpSummon)
	add(m.MonsterSets, ActionSetMonster, ocg.IdleActionMonsterSet)
	add(m.SpellSets, ActionSetSpell, ocg.IdleActionSpellSet)
	add(m.PosChanges, ActionChangePos, ocg.IdleActionPosChange)
}

// resolveIdleCard merges the tracked card at the candidate's address with the
// authoritative code from the message. Candidates outside tracked zones get a
// stub card so the action still renders.
func (c *Client) resolveIdleCard(cmd ocg.IdleCommand) (duel.Card, bool) {
	place, ok := position.Decode(cmd.Loc())
	if !ok {
		return duel.Card{}, false
	}
	if cur := c.latestLocked().CardAt(place); cur != nil {
		card := *cur
		if card.Code == 0 && cmd.Code != 0 {
			card.Code = cmd.Code
		}
		return card, true
	}
	return duel.NewCard(cmd.Code, place, duel.FaceUpAttack), true
}

// resolveCandidate does the same for SELECT-family candidates.
func (c *Client) resolveCandidate(sel ocg.CardSel) duel.Card {
	place, ok := position.Decode(sel.Loc())
	if !ok {
		return duel.NewCard(sel.Code, duel.At(sel.Controller, duel.LocationGrave, 0), duel.FaceUpAttack)
	}
	if cur := c.latestLocked().CardAt(place); cur != nil {
		card := *cur
		if card.Code == 0 && sel.Code != 0 {
			card.Code = sel.Code
		}
		return card
	}
	return duel.NewCard(sel.Code, place, duel.FaceUpAttack)
}

func (c *Client) projectSelectOption(m ocg.MsgSelectOption) {
	c.clearInputLocked()
	options := make([]DialogOptionItem, 0, len(m.Options))
	for i, desc := range m.Options {
		options = append(options, DialogOptionItem{
			Text:     c.desc(desc),
			response: ocg.ResponseSelectOption{Index: i},
		})
	}
	c.dialog = &Dialog{
		ID:      uuid.NewString(),
		Kind:    DialogOption,
		Title:   c.sysString(556),
		Player:  m.Player,
		Options: options,
	}
}

func (c *Client) projectSelectCard(m ocg.MsgSelectCard) {
	c.clearInputLocked()
	cards := make([]DialogCard, 0, len(m.Selects))
	for _, sel := range m.Selects {
		card := c.resolveCandidate(sel)
		cards = append(cards, DialogCard{Card: card, Name: c.cardName(card.Code)})
	}
	c.dialog = &Dialog{
		ID:        uuid.NewString(),
		Kind:      DialogCards,
		Title:     c.sysString(560),
		Player:    m.Player,
		Min:       int(m.Min),
		Max:       int(m.Max),
		CanCancel: m.CanCancel,
		Cards:     cards,
	}
}

// projectSelectChain poses the chain question. An empty candidate list means
// the engine is only offering the formality of declining: stage the decline
// and let the decode loop feed it back without a round trip to the player.
func (c *Client) projectSelectChain(m ocg.MsgSelectChain) {
	c.clearInputLocked()
	if len(m.Selects) == 0 {
		c.autoResponse = ocg.ResponseSelectChain{}
		return
	}
	cards := make([]DialogCard, 0, len(m.Selects))
	for i, sel := range m.Selects {
		card := c.resolveCandidate(sel)
		idx := i
		cards = append(cards, DialogCard{
			Card:     card,
			Name:     c.cardName(card.Code),
			response: ocg.ResponseSelectChain{Index: &idx},
		})
	}
	c.dialog = &Dialog{
		ID:     uuid.NewString(),
		Kind:   DialogChain,
		Title:  c.sysString(203),
		Player: m.Player,
		Forced: m.Forced,
		Cards:  cards,
	}
}

func (c *Client) projectSelectPosition(m ocg.MsgSelectPosition) {
	c.clearInputLocked()
	positions := make([]DialogPositionItem, 0, 4)
	for _, bit := range m.Positions.Split() {
		facing, ok := position.DecodeFacing(bit)
		if !ok {
			continue
		}
		positions = append(positions, DialogPositionItem{
			Facing:   facing,
			response: ocg.ResponseSelectPosition{Position: bit},
		})
	}
	c.dialog = &Dialog{
		ID:        uuid.NewString(),
		Kind:      DialogPosition,
		Title:     fmt.Sprintf("%s: %s", c.sysString(561), c.cardName(m.Code)),
		Player:    m.Player,
		Positions: positions,
	}
}

func (c *Client) projectYesNo(m ocg.MsgSelectYesNo) {
	c.clearInputLocked()
	c.dialog = &Dialog{
		ID:     uuid.NewString(),
		Kind:   DialogYesNo,
		Title:  c.desc(m.Description),
		Player: m.Player,
	}
}

func (c *Client) projectEffectYn(m ocg.MsgSelectEffectYn) {
	c.clearInputLocked()
	c.dialog = &Dialog{
		ID:     uuid.NewString(),
		Kind:   DialogEffectYn,
		Title:  c.effectYnTitle(m),
		Player: m.Player,
	}
}

func (c *Client) projectSelectUnselect(m ocg.MsgSelectUnselectCard) {
	c.clearInputLocked()
	selects := make([]DialogCard, 0, len(m.SelectCards))
	for i, sel := range m.SelectCards {
		card := c.resolveCandidate(sel)
		idx := i
		selects = append(selects, DialogCard{
			Card:     card,
			Name:     c.cardName(card.Code),
			response: ocg.ResponseSelectUnselectCard{Index: &idx},
		})
	}
	unselects := make([]DialogCard, 0, len(m.UnselectCards))
	for i, sel := range m.UnselectCards {
		card := c.resolveCandidate(sel)
		// Unselect indices continue past the select list on the wire.
		idx := len(m.SelectCards) + i
		unselects = append(unselects, DialogCard{
			Card:     card,
			Name:     c.cardName(card.Code),
			response: ocg.ResponseSelectUnselectCard{Index: &idx},
		})
	}
	c.dialog = &Dialog{
		ID:        uuid.NewString(),
		Kind:      DialogSelectUnselect,
		Title:     c.sysString(560),
		Player:    m.Player,
		Min:       int(m.Min),
		Max:       int(m.Max),
		CanCancel: m.Cancelable,
		CanFinish: m.Finishable,
		Cards:     selects,
		Unselects: unselects,
	}
}

// effectYnTitle renders the optional-effect prompt. Description 0 and 221 are
// engine stock phrasings parameterized on the card's name and location; other
// descriptions resolve through the packed string table with %ls placeholders
// filled in order.
func (c *Client) effectYnTitle(m ocg.MsgSelectEffectYn) string {
	name := c.cardName(m.Code)
	loc := c.formatLocation(m.Location, m.Sequence)

	switch m.Description {
	case 0:
		return fillPlaceholders(c.sysString(200), name, loc)
	case 221:
		return fillPlaceholders(c.sysString(221), name, loc) + "\n" + c.sysString(223)
	default:
		text := c.desc(m.Description)
		return fillPlaceholders(text, name)
	}
}

// fillPlaceholders substitutes %ls markers left to right. Leftover markers
// stay as-is; extra arguments are dropped.
func fillPlaceholders(text string, args ...string) string {
	for _, arg := range args {
		i := strings.Index(text, "%ls")
		if i < 0 {
			break
		}
		text = text[:i] + arg + text[i+len("%ls"):]
	}
	return text
}

// formatLocation renders a wire zone for dialog text using the system string
// table's zone names.
func (c *Client) formatLocation(loc ocg.Location, sequence int32) string {
	if loc == ocg.LocationSpellZone {
		if sequence == 5 {
			return c.sysString(1008)
		}
		return c.sysString(1003)
	}
	if loc == ocg.LocationFieldZone {
		return c.sysString(1008)
	}
	if loc == ocg.LocationPendulum {
		return c.sysString(1009)
	}
	for i := 0; i < 32; i++ {
		if loc&(1<<i) != 0 {
			return c.sysString(1000 + i)
		}
	}
	return ""
}

func pileTopCard(state duel.State, controller duel.Controller, location duel.Location) *duel.Card {
	sizes := state.PileSizes(controller)
	var seq int
	switch location {
	case duel.LocationDeck:
		if sizes.Deck == 0 {
			return nil
		}
		seq = 0
	case duel.LocationGrave:
		if sizes.Grave == 0 {
			return nil
		}
		seq = sizes.Grave - 1
	case duel.LocationBanish:
		if sizes.Banish == 0 {
			return nil
		}
		seq = sizes.Banish - 1
	case duel.LocationExtra:
		if sizes.Extra == 0 {
			return nil
		}
		if sizes.ExtraFaceUp > 0 {
			seq = sizes.Extra - 1
		}
	case duel.LocationHand:
		return nil
	default:
		return nil
	}
	return state.CardAt(duel.At(controller, location, seq))
}
