package ocg

// ScriptedEngine replays a pre-recorded message script. Each Process call
// consumes one step; the script author decides where the engine "blocks" by
// marking a step ProcessWaiting. Used by tests and the offline demo in place
// of a real simulator.
type ScriptedEngine struct {
	steps   []ScriptedStep
	cursor  int
	pending []Message

	started   bool
	responses []Response
	cards     []NewCardInfo
}

// ScriptedStep is one Process call's worth of output.
type ScriptedStep struct {
	Messages []Message
	Result   ProcessResult
}

// NewScriptedEngine builds an engine that will play the given steps in order.
// Once the script runs out every further Process reports ProcessEnd.
func NewScriptedEngine(steps ...ScriptedStep) *ScriptedEngine {
	return &ScriptedEngine{steps: steps}
}

func (e *ScriptedEngine) NewCard(info NewCardInfo) {
	e.cards = append(e.cards, info)
}

func (e *ScriptedEngine) QueryCount(controller uint8, location Location) int {
	count := 0
	for _, c := range e.cards {
		if c.Controller == controller && c.Location == location {
			count++
		}
	}
	return count
}

func (e *ScriptedEngine) Start() {
	e.started = true
}

func (e *ScriptedEngine) Process() ProcessResult {
	if !e.started || e.cursor >= len(e.steps) {
		return ProcessEnd
	}
	step := e.steps[e.cursor]
	e.cursor++
	e.pending = append(e.pending, step.Messages...)
	return step.Result
}

func (e *ScriptedEngine) TakeMessages() []Message {
	out := e.pending
	e.pending = nil
	return out
}

func (e *ScriptedEngine) SetResponse(resp Response) {
	e.responses = append(e.responses, resp)
}

// Responses returns every response the client has sent, in order.
func (e *ScriptedEngine) Responses() []Response {
	return e.responses
}

// RegisteredCards returns every card registered during setup, in order.
func (e *ScriptedEngine) RegisteredCards() []NewCardInfo {
	return e.cards
}
