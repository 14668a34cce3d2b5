// Package gateway exposes one duel client over a WebSocket. Every state
// transition pushes a full snapshot frame; the peer answers with small command
// frames (acknowledge, take action, answer dialog). One connection drives one
// duel.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duelview/duelview/internal/config"
	"github.com/duelview/duelview/internal/duel"
	"github.com/duelview/duelview/internal/duel/client"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, same-origin rules don't apply
	},
}

// Server serves the duel client over HTTP/WebSocket.
type Server struct {
	logger *zap.Logger
	cfg    config.GatewayConfig
	duel   *client.Client

	mu sync.Mutex // serializes writes per connection
}

// New builds a gateway over a duel client.
func New(duelClient *client.Client, cfg config.GatewayConfig, logger *zap.Logger) *Server {
	return &Server{logger: logger, cfg: cfg, duel: duelClient}
}

// Handler returns the HTTP handler serving the WebSocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("gateway listening", zap.String("address", s.cfg.Address))
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Frame is the wire envelope in both directions.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// snapshot is the full client view pushed after every transition.
type snapshot struct {
	State        duel.State       `json:"state"`
	HeadEvent    *headEvent       `json:"headEvent,omitempty"`
	Pending      int              `json:"pending"`
	Actions      []actionView     `json:"actions"`
	Dialog       *dialogView      `json:"dialog,omitempty"`
	FieldSelect  *fieldSelectView `json:"fieldSelect,omitempty"`
	CanToBattle  bool             `json:"canToBattle"`
	CanToEnd     bool             `json:"canToEnd"`
	CanShuffle   bool             `json:"canShuffleHand"`
	Ended        bool             `json:"ended"`
}

type headEvent struct {
	ID    string     `json:"id"`
	Kind  string     `json:"kind"`
	Event duel.Event `json:"event"`
}

type actionView struct {
	Index       int        `json:"index"`
	Kind        string     `json:"kind"`
	Card        duel.Card  `json:"card"`
	Description string     `json:"description,omitempty"`
}

type dialogView struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Title     string           `json:"title"`
	Player    duel.Controller  `json:"player"`
	Min       int              `json:"min"`
	Max       int              `json:"max"`
	CanCancel bool             `json:"canCancel"`
	CanFinish bool             `json:"canFinish"`
	Forced    bool             `json:"forced"`
	Cards     []dialogCardView `json:"cards,omitempty"`
	Unselects []dialogCardView `json:"unselects,omitempty"`
	Positions []string         `json:"positions,omitempty"`
	Options   []string         `json:"options,omitempty"`
}

type dialogCardView struct {
	Card duel.Card `json:"card"`
	Name string    `json:"name"`
}

type fieldSelectView struct {
	Player duel.Controller `json:"player"`
	Count  int             `json:"count"`
	Places []duel.Place    `json:"places"`
}

// Inbound command payloads.

type indexCommand struct {
	Index int `json:"index"`
}

type indicesCommand struct {
	Indices []int `json:"indices"`
}

type placesCommand struct {
	Places []duel.Place `json:"places"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	s.logger.Info("peer connected", zap.String("remote", conn.RemoteAddr().String()))

	if err := s.push(conn); err != nil {
		return
	}

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read error", zap.Error(err))
			}
			return
		}
		s.dispatch(frame)
		if err := s.push(conn); err != nil {
			s.logger.Warn("push failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(frame Frame) {
	switch frame.Type {
	case "ack":
		if _, ok := s.duel.Head(); ok {
			s.duel.Acknowledge()
		}
	case "take":
		var cmd indexCommand
		if json.Unmarshal(frame.Data, &cmd) != nil {
			return
		}
		actions := s.duel.Actions()
		if cmd.Index >= 0 && cmd.Index < len(actions) {
			s.duel.Take(actions[cmd.Index])
		}
	case "toBattle":
		s.duel.EnterBattlePhase()
	case "endTurn":
		s.duel.EndTurn()
	case "shuffleHand":
		s.duel.ShuffleHand()
	case "yes":
		s.duel.AnswerYes()
	case "no":
		s.duel.AnswerNo()
	case "option":
		var cmd indexCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerOption(cmd.Index)
		}
	case "cards":
		var cmd indicesCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerCards(cmd.Indices)
		}
	case "chain":
		var cmd indexCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerChain(cmd.Index)
		}
	case "position":
		var cmd indexCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerPosition(cmd.Index)
		}
	case "selectUnselect":
		var cmd indexCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerSelectUnselect(cmd.Index)
		}
	case "finish":
		s.duel.AnswerFinish()
	case "cancel":
		s.duel.AnswerCancel()
	case "places":
		var cmd placesCommand
		if json.Unmarshal(frame.Data, &cmd) == nil {
			s.duel.AnswerPlaces(cmd.Places)
		}
	default:
		s.logger.Debug("unknown frame", zap.String("type", frame.Type))
	}
}

func (s *Server) push(conn *websocket.Conn) error {
	snap := s.buildSnapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return conn.WriteJSON(Frame{Type: "snapshot", Data: data})
}

func (s *Server) buildSnapshot() snapshot {
	snap := snapshot{
		State:       s.duel.Current(),
		Pending:     s.duel.PendingEvents(),
		CanToBattle: s.duel.CanEnterBattle(),
		CanToEnd:    s.duel.CanEndTurn(),
		CanShuffle:  s.duel.CanShuffleHand(),
		Ended:       s.duel.Ended(),
		Actions:     []actionView{},
	}

	if head, ok := s.duel.Head(); ok {
		snap.HeadEvent = &headEvent{ID: head.ID, Kind: head.Event.Kind(), Event: head.Event}
	}

	for i, action := range s.duel.Actions() {
		snap.Actions = append(snap.Actions, actionView{
			Index:       i,
			Kind:        string(action.Kind),
			Card:        action.Card,
			Description: action.Description,
		})
	}

	if d := s.duel.Dialog(); d != nil {
		view := &dialogView{
			ID:        d.ID,
			Kind:      string(d.Kind),
			Title:     d.Title,
			Player:    d.Player,
			Min:       d.Min,
			Max:       d.Max,
			CanCancel: d.CanCancel,
			CanFinish: d.CanFinish,
			Forced:    d.Forced,
		}
		for _, card := range d.Cards {
			view.Cards = append(view.Cards, dialogCardView{Card: card.Card, Name: card.Name})
		}
		for _, card := range d.Unselects {
			view.Unselects = append(view.Unselects, dialogCardView{Card: card.Card, Name: card.Name})
		}
		for _, pos := range d.Positions {
			view.Positions = append(view.Positions, pos.Facing.String())
		}
		for _, opt := range d.Options {
			view.Options = append(view.Options, opt.Text)
		}
		snap.Dialog = view
	}

	if f := s.duel.FieldSelect(); f != nil {
		snap.FieldSelect = &fieldSelectView{Player: f.Player, Count: f.Count, Places: f.Places}
	}

	return snap
}
