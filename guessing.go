// Guessbox Guessing Game
//
// Each round every player in a game is secretly assigned a number, and
// players take turns guessing. A guess earns 100 minus its distance from
// the player's own number, plus bonuses for an exact match, a
// reversed-digit match, or hitting another player's number. The first
// player to reach the configured point limit ends the game.
//
// This file is the transport adapter only; the rules live in games/guess.
//
// Features:
// - One WebSocket per player: /path/ws
// - JSON verb messages: host, join, configure, start, play, restart, players
// - First host/join message claims the connection's player name
// - Duplicate player names rejected across the server
// - Turn outcomes broadcast to every connected member of the game
// - Disconnecting destroys the player (and their hosted game)
// - Player roster at /path/players
// - QR code to share the server URL, backed by go-qrcode

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Seednode/guessbox/games/guess"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// ClientMessage carries one verb from a client.
type ClientMessage struct {
	Type      string `json:"type"`                 // "host", "join", "configure", "start", "play", "restart", "players"
	Name      string `json:"name,omitempty"`       // host / join: player name claimed by this connection
	GameName  string `json:"game_name,omitempty"`  // host: optional display label
	Target    string `json:"target,omitempty"`     // join: existing player whose game to join
	Guess     int    `json:"guess,omitempty"`      // play
	MaxPoints int    `json:"max_points,omitempty"` // configure
	MaxGuess  int    `json:"max_guess,omitempty"`  // configure
}

// ErrorMessage reports a rejected verb to the offending client only.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Kind    string `json:"kind"` // machine-readable error kind
	Message string `json:"message"`
}

// AckMessage confirms a verb that carries no turn outcome.
type AckMessage struct {
	Type string `json:"type"` // "hosted", "joined", "configured"
	Game string `json:"game,omitempty"`
}

// PlayersMessage is the roster snapshot reply.
type PlayersMessage struct {
	Type    string   `json:"type"` // "players"
	Players []string `json:"players"`
}

// OutcomeMessage broadcasts a start/play/restart result to every member
// of the affected game.
type OutcomeMessage struct {
	Type   string         `json:"type"` // "next_turn", "next_round", "game_ended"
	Game   string         `json:"game"`
	Player string         `json:"player"` // the player whose verb produced this outcome
	Round  int            `json:"round"`
	Next   string         `json:"next,omitempty"`
	Totals map[string]int `json:"totals,omitempty"`
}

// errorKind maps an engine error onto its wire name.
func errorKind(err error) string {
	switch {
	case errors.Is(err, guess.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, guess.ErrNameTaken):
		return "player_name_taken"
	case errors.Is(err, guess.ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, guess.ErrNotHost):
		return "player_not_host"
	case errors.Is(err, guess.ErrPlayerInGame):
		return "player_in_game"
	case errors.Is(err, guess.ErrInvalidAction):
		return "invalid_action_for_state"
	case errors.Is(err, guess.ErrWrongTurn):
		return "wrong_turn"
	case errors.Is(err, guess.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, guess.ErrUnavailable):
		return "entity_unavailable"
	default:
		return "internal"
	}
}

func outcomeType(kind guess.OutcomeKind) string {
	switch kind {
	case guess.OutcomeNextRound:
		return "next_round"
	case guess.OutcomeEnded:
		return "game_ended"
	default:
		return "next_turn"
	}
}

type wsClient struct {
	conn *websocket.Conn
	send chan any
	name string
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// guessBox wires the engine to its connected clients.
type guessBox struct {
	cfg   *Config
	games *guess.Server

	mu      sync.Mutex
	clients map[*wsClient]bool
}

func newGuessBox(cfg *Config) *guessBox {
	return &guessBox{
		cfg: cfg,
		games: guess.NewServer(guess.ServerOptions{
			Defaults: guess.Config{
				MaxPoints: cfg.maxPoints,
				MaxGuess:  cfg.maxGuess,
			},
			Logf: func(format string, args ...any) {
				logf(cfg, format, args...)
			},
		}),
		clients: make(map[*wsClient]bool),
	}
}

func (gb *guessBox) add(c *wsClient) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	gb.clients[c] = true
}

func (gb *guessBox) remove(c *wsClient) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	if _, ok := gb.clients[c]; ok {
		delete(gb.clients, c)
		close(c.send)
	}
}

// reply sends to a single client, dropping the client if its send
// buffer is full.
func (gb *guessBox) reply(c *wsClient, msg any) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	if !gb.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(gb.clients, c)
		close(c.send)
	}
}

// broadcast sends to every connected member of the identified game.
func (gb *guessBox) broadcast(gameID string, msg any) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	for c := range gb.clients {
		if c.name == "" {
			continue
		}

		g, err := gb.games.Game(c.name)
		if err != nil || g.Host() != gameID {
			continue
		}

		select {
		case c.send <- msg:
		default:
			delete(gb.clients, c)
			close(c.send)
		}
	}
}

// claimName binds the connection to a player name on its first host or
// join verb.
func (gb *guessBox) claimName(c *wsClient, name string) error {
	if c.name != "" {
		return nil
	}
	if name == "" {
		return guess.ErrPlayerNotFound
	}

	if _, err := gb.games.Connect(name); err != nil {
		return err
	}

	// Broadcasts read other connections' names, so the write happens
	// under the same lock.
	gb.mu.Lock()
	c.name = name
	gb.mu.Unlock()

	return nil
}

func (gb *guessBox) handle(c *wsClient, msg ClientMessage) {
	switch msg.Type {
	case "host":
		if err := gb.claimName(c, msg.Name); err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		g, err := gb.games.Host(c.name, msg.GameName)
		if err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		gb.reply(c, AckMessage{Type: "hosted", Game: g.Name()})

	case "join":
		if err := gb.claimName(c, msg.Name); err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		if err := gb.games.Join(c.name, msg.Target); err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		g, err := gb.games.Game(c.name)
		if err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		gb.reply(c, AckMessage{Type: "joined", Game: g.Name()})

	case "configure":
		err := gb.games.Configure(c.name, guess.Options{
			MaxPoints: msg.MaxPoints,
			MaxGuess:  msg.MaxGuess,
		})
		if err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		gb.reply(c, AckMessage{Type: "configured"})

	case "start", "play", "restart":
		var outcome guess.Outcome
		var err error

		switch msg.Type {
		case "start":
			outcome, err = gb.games.Start(c.name)
		case "play":
			outcome, err = gb.games.Play(c.name, msg.Guess)
		case "restart":
			outcome, err = gb.games.Restart(c.name)
		}
		if err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		g, err := gb.games.Game(c.name)
		if err != nil {
			gb.reply(c, ErrorMessage{Type: "error", Kind: errorKind(err), Message: err.Error()})
			return
		}

		gb.broadcast(g.Host(), OutcomeMessage{
			Type:   outcomeType(outcome.Kind),
			Game:   g.Name(),
			Player: c.name,
			Round:  outcome.Round,
			Next:   outcome.Next,
			Totals: outcome.Totals,
		})

	case "players":
		gb.reply(c, PlayersMessage{Type: "players", Players: gb.games.Players()})

	default:
		// ignore unknown types
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (gb *guessBox) serveWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(gb.cfg, "ERROR: upgrade from %s: %v", realIP(r), err)
			return
		}

		client := &wsClient{
			conn: conn,
			send: make(chan any, 8),
		}

		gb.add(client)

		go client.writePump()
		gb.readPump(client)
	}
}

func (gb *guessBox) readPump(c *wsClient) {
	defer func() {
		gb.remove(c)
		if c.name != "" {
			gb.games.Disconnect(c.name)
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		gb.handle(c, msg)
	}
}

func (gb *guessBox) servePlayers() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(gb.cfg, w)

		players := gb.games.Players()
		if players == nil {
			players = []string{}
		}

		if err := json.NewEncoder(w).Encode(players); err != nil {
			logf(gb.cfg, "ERROR: players page to %s: %v", realIP(r), err)
		}
	}
}

// qrHandler generates a PNG QR code for the game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../qr; strip the trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// registerGuessingGame sets up routes so that:
//   - $path          → game info page
//   - $path/ws       → per-player WebSocket
//   - $path/players  → JSON roster snapshot
//   - $path/qr       → PNG QR code for the game URL
func registerGuessingGame(cfg *Config, path string, mux *httprouter.Router) {
	gb := newGuessBox(cfg)

	mux.GET(cfg.prefix+path, serveGamePage(cfg))

	mux.GET(cfg.prefix+path+"/ws", gb.serveWS())

	mux.GET(cfg.prefix+path+"/players", gb.servePlayers())

	mux.GET(cfg.prefix+path+"/qr", qrHandler)
}

func serveGamePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(newPage("guessbox", "Connect a client to ./ws to play.")))
	}
}
