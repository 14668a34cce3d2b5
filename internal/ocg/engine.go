package ocg

// ProcessResult is what one simulation step of the engine reports.
type ProcessResult int

const (
	// ProcessEnd means the duel is over.
	ProcessEnd ProcessResult = 0
	// ProcessWaiting means the engine is blocked on a response to an
	// input-request message.
	ProcessWaiting ProcessResult = 1
	// ProcessContinue means more output is available immediately.
	ProcessContinue ProcessResult = 2
)

// NewCardInfo registers a card with the engine during setup.
type NewCardInfo struct {
	Team       uint8
	Duelist    uint8
	Controller uint8
	Code       uint32
	Location   Location
	Sequence   int32
	Position   Position
}

// Engine is the opaque duel simulation oracle. It is assumed non-reentrant:
// callers serialize Process/SetResponse on a single logical thread. The rules
// behind it are a black box; this module only decodes its output.
type Engine interface {
	// NewCard registers a card before the duel starts.
	NewCard(info NewCardInfo)
	// QueryCount returns how many cards sit in the given zone.
	QueryCount(controller uint8, location Location) int
	// Start begins the duel after setup.
	Start()
	// Process advances the simulation until it blocks or finishes.
	Process() ProcessResult
	// TakeMessages drains the messages produced since the last call.
	TakeMessages() []Message
	// SetResponse hands the engine the answer to its pending input request.
	SetResponse(resp Response)
}
