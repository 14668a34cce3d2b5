package ocg

// Response is the answer to exactly one input-request message. The shape must
// match what the preceding request demanded; the engine does not validate, so
// the projector builds every response itself rather than accepting raw ones.
type Response interface {
	isResponse()
}

// IdleAction discriminates the candidate list an idle-command response
// indexes into.
type IdleAction uint8

const (
	IdleActionSummon IdleAction = iota
	IdleActionSpSummon
	IdleActionPosChange
	IdleActionMonsterSet
	IdleActionSpellSet
	IdleActionActivate
	IdleActionToBattle
	IdleActionToEnd
	IdleActionShuffle
)

// ResponseSelectOption picks one option by index.
type ResponseSelectOption struct {
	Index int
}

// ResponseSelectIdleCmd picks one idle-command candidate.
type ResponseSelectIdleCmd struct {
	Action IdleAction
	Index  int
}

// ResponseSelectCard answers a card selection with candidate indices, or
// cancels when the request allowed it.
type ResponseSelectCard struct {
	Indices []int
	Cancel  bool
}

// ResponseSelectChain picks a chain candidate; a nil index declines to chain.
type ResponseSelectChain struct {
	Index *int
}

// ResponseSelectPlace picks field slots.
type ResponseSelectPlace struct {
	Places []CardLoc
}

// ResponseSelectPosition picks a card orientation.
type ResponseSelectPosition struct {
	Position Position
}

// ResponseSelectYesNo answers a yes/no question.
type ResponseSelectYesNo struct {
	Yes bool
}

// ResponseSelectEffectYn answers an optional-effect prompt.
type ResponseSelectEffectYn struct {
	Yes bool
}

// ResponseSelectUnselectCard toggles one candidate, or cancels/finishes the
// incremental selection.
type ResponseSelectUnselectCard struct {
	Index  *int
	Cancel bool
	Finish bool
}

func (ResponseSelectOption) isResponse()       {}
func (ResponseSelectIdleCmd) isResponse()      {}
func (ResponseSelectCard) isResponse()         {}
func (ResponseSelectChain) isResponse()        {}
func (ResponseSelectPlace) isResponse()        {}
func (ResponseSelectPosition) isResponse()     {}
func (ResponseSelectYesNo) isResponse()        {}
func (ResponseSelectEffectYn) isResponse()     {}
func (ResponseSelectUnselectCard) isResponse() {}
