// Package client is the synchronization layer between the opaque duel engine
// and the presentation layer. It owns the only mutable process state: the
// playback queue, the live action list, the live dialog and the field-select
// request. All match-state transitions are pure; the engine call path and the
// acknowledgment path are the only two external write triggers.
package client

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/duel/playback"
	"github.com/duelview/duelview/internal/ocg"
)

// StringSource resolves card names and packed description strings for dialog
// titles. A nil source degrades to numeric fallbacks.
type StringSource interface {
	CardName(code uint32) string
	SystemString(id int) (string, bool)
	Desc(packed uint64) (string, bool)
}

// Client drives the decode → project → queue → replay pipeline for one duel.
//
// The engine is assumed non-reentrant and is only ever invoked from inside
// the client's lock, so one ProcessStep drains completely before any consumer
// observes new state. Acknowledge and SendResponse take the same lock, which
// enforces the no-interleave contract between the decode loop and the
// animation-completion signal.
type Client struct {
	logger  *zap.Logger
	engine  ocg.Engine
	strings StringSource

	mu      sync.Mutex
	started bool
	ended   bool

	// current is the presentation state: the state resulting from the last
	// acknowledged event. The authoritative state lives at the queue tail.
	current duel.State
	queue   *playback.Queue

	actions     []CardAction
	dialog      *Dialog
	fieldSelect *FieldSelect

	canToBattle    bool
	canToEnd       bool
	canShuffleHand bool

	// autoResponse is staged by the decoder for requests that resolve without
	// player involvement (a zero-candidate chain select) and fed back to the
	// engine once the current batch is fully decoded.
	autoResponse ocg.Response

	msgLog []ocg.Message
}

// New builds a client over an engine. The engine may be nil until setup;
// engine-facing calls are no-ops until Setup succeeds.
func New(engine ocg.Engine, strings StringSource, logger *zap.Logger) *Client {
	return &Client{
		logger:  logger,
		engine:  engine,
		strings: strings,
		current: duel.NewState(),
		queue:   playback.NewQueue(),
	}
}

// Current returns the presentation state: what the consumer should be
// displaying right now (the head clock).
func (c *Client) Current() duel.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// Latest returns the authoritative state: the resulting state of the most
// recently appended event (the tail clock). Game-logic reads, including
// everything fed back to the engine, use this.
func (c *Client) Latest() duel.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestLocked()
}

// Events returns the queued, unacknowledged playback entries in FIFO order.
func (c *Client) Events() []playback.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Entries()
}

// PendingEvents reports how many entries await acknowledgment.
func (c *Client) PendingEvents() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// Head returns the entry currently being presented, if any.
func (c *Client) Head() (playback.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Head()
}

// Acknowledge consumes the head entry after the presentation layer finishes
// showing it, advancing the presentation state. It is the only way an entry
// leaves the queue. Acknowledging with nothing queued panics: that is a
// consumer bug, not a recoverable condition.
func (c *Client) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.queue.Acknowledge()
	c.current = entry.Next
}

// Ended reports whether the engine has declared the duel over.
func (c *Client) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Messages returns a copy of the raw message log for debug inspection.
func (c *Client) Messages() []ocg.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ocg.Message, len(c.msgLog))
	copy(out, c.msgLog)
	return out
}

// ProcessStep invokes the engine and decodes everything it produced, running
// until the engine blocks on player input or goes quiet. Safe to call before
// setup: it is a no-op then.
func (c *Client) ProcessStep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processStepLocked()
}

// SendResponse answers the engine's pending input request. Exactly one
// request is outstanding at a time, so the action list, dialog and
// field-select state are all cleared before the engine resumes. The decode
// loop then runs synchronously until the engine blocks again. A response
// sent before setup completes is dropped.
func (c *Client) SendResponse(resp ocg.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendResponseLocked(resp)
}

func (c *Client) sendResponseLocked(resp ocg.Response) {
	if c.engine == nil || !c.started {
		if c.logger != nil {
			c.logger.Debug("response dropped, engine not ready")
		}
		return
	}
	c.clearInputLocked()
	c.engine.SetResponse(resp)
	c.processStepLocked()
}

func (c *Client) clearInputLocked() {
	c.actions = nil
	c.dialog = nil
	c.fieldSelect = nil
	c.canToBattle = false
	c.canToEnd = false
	c.canShuffleHand = false
}

func (c *Client) processStepLocked() {
	if c.engine == nil || !c.started {
		return
	}
	for !c.ended {
		var batch []ocg.Message
		for {
			res := c.engine.Process()
			batch = append(batch, c.engine.TakeMessages()...)
			if res != ocg.ProcessContinue {
				if res == ocg.ProcessEnd {
					c.ended = true
				}
				break
			}
		}

		c.msgLog = append(c.msgLog, batch...)
		for _, m := range batch {
			c.handleMessage(m)
		}

		if c.autoResponse == nil || c.ended {
			break
		}
		resp := c.autoResponse
		c.autoResponse = nil
		c.engine.SetResponse(resp)
	}
}

// currentLocked is the head-clock state.
func (c *Client) currentLocked() duel.State {
	return c.current
}

// latestLocked is the tail-clock state: the newest queued snapshot, or the
// presentation state when nothing is queued.
func (c *Client) latestLocked() duel.State {
	if tail, ok := c.queue.Tail(); ok {
		return tail.Next
	}
	return c.current
}

func (c *Client) queueEvent(event duel.Event, next duel.State) {
	c.queue.Enqueue(event, next)
}

func (c *Client) replaceTailEvent(event duel.Event, next duel.State) {
	c.queue.ReplaceTail(event, next)
}

// revealCards propagates face reveals into the presentation state and every
// queued snapshot, so a card drawn now is already known in the snapshots the
// consumer has not animated yet.
func (c *Client) revealCards(codes map[string]uint32) {
	if len(codes) == 0 {
		return
	}
	c.current = c.current.UpdateCardCodes(codes)
	c.queue.RewriteStates(func(s duel.State) duel.State {
		return s.UpdateCardCodes(codes)
	})
}

func (c *Client) desc(packed uint64) string {
	if c.strings != nil {
		if text, ok := c.strings.Desc(packed); ok {
			return text
		}
	}
	return strconv.FormatUint(packed, 10)
}

func (c *Client) sysString(id int) string {
	if c.strings != nil {
		if text, ok := c.strings.SystemString(id); ok {
			return text
		}
	}
	return ""
}

func (c *Client) cardName(code uint32) string {
	if c.strings != nil {
		return c.strings.CardName(code)
	}
	return strconv.FormatUint(uint64(code), 10)
}
