package guess

import (
	"errors"
	"fmt"
)

// ServerOptions configures a Server. The zero value is usable: defaults
// apply, numbers come from the process-wide generator, and logging is
// discarded.
type ServerOptions struct {
	// Defaults seeds the configuration of newly hosted games. Zero
	// fields fall back to the standard values.
	Defaults Config

	// Pick draws an assigned number in [1, max]. Tests inject a
	// deterministic source here.
	Pick func(max int) int

	// Logf receives game event logging.
	Logf func(format string, args ...any)
}

// Server owns the two registries and composes them with the game and
// player entities into the player-facing verbs. It is constructed once
// and passed into every entry point; Reset gives tests a clean slate.
type Server struct {
	players  *PlayerRegistry
	games    *GameRegistry
	defaults Config
	pick     func(max int) int
	logf     func(format string, args ...any)
}

// NewServer returns a server with empty registries.
func NewServer(opts ServerOptions) *Server {
	defaults := opts.Defaults
	if defaults.MaxPoints <= 0 {
		defaults.MaxPoints = DefaultMaxPoints
	}
	if defaults.MaxGuess <= 0 {
		defaults.MaxGuess = DefaultMaxGuess
	}

	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Server{
		players:  NewPlayerRegistry(),
		games:    NewGameRegistry(),
		defaults: defaults,
		pick:     opts.Pick,
		logf:     logf,
	}
}

// Connect registers a new player. It fails with ErrNameTaken while
// another live player holds the name.
func (s *Server) Connect(name string) (*Player, error) {
	p := NewPlayer(name)
	if err := s.players.Register(name, p); err != nil {
		return nil, err
	}

	s.logf("GAMES: Player %q connected", name)

	return p, nil
}

// Disconnect destroys the named player. If the player was hosting their
// current game, the game is unregistered with them.
func (s *Server) Disconnect(name string) {
	game, err := s.players.CurrentGame(name)
	if err != nil {
		return
	}

	s.players.Unregister(name)
	if game == name {
		s.games.Unregister(game)
	}

	s.logf("GAMES: Player %q disconnected", name)
}

// Host creates a new game with the player as host and sole roster
// member, registering the player first if needed. Hosting again replaces
// the player's previous game. An empty gameName gets a default label.
func (s *Server) Host(player, gameName string) (*Game, error) {
	p, err := s.ensurePlayer(player)
	if err != nil {
		return nil, err
	}

	if gameName == "" {
		gameName = fmt.Sprintf("%s's game", player)
	}

	g := NewGame(p, gameName, s.defaults, s.pick)
	g.SetLogf(s.logf)

	s.games.Unregister(player)
	if err := s.games.Register(player, g); err != nil {
		return nil, err
	}

	if err := s.players.SetGame(player, player); err != nil {
		return nil, err
	}

	s.logf("GAMES: Player %q hosted %q", player, gameName)

	return g, nil
}

// Join adds the player to an existing game, registering the player first
// if needed. With a target name, the player joins that player's current
// game; otherwise the most recently created game.
func (s *Server) Join(player, target string) error {
	p, err := s.ensurePlayer(player)
	if err != nil {
		return err
	}

	var g *Game
	if target == "" {
		g, err = s.games.Latest()
		if err != nil {
			return err
		}
	} else {
		id, err := s.players.CurrentGame(target)
		if err != nil {
			return err
		}
		if id == "" {
			return ErrGameNotFound
		}

		g, err = s.games.Lookup(id)
		if err != nil {
			return fmt.Errorf("%w: game %q", ErrUnavailable, id)
		}
	}

	if err := g.AddPlayer(p); err != nil {
		return err
	}

	return s.players.SetGame(player, g.Host())
}

// Configure applies settings to the caller's current game. Only the host
// may configure.
func (s *Server) Configure(host string, opts Options) error {
	g, err := s.currentGame(host)
	if err != nil {
		return err
	}

	if g.Host() != host {
		return ErrNotHost
	}

	return g.Configure(opts)
}

// Start begins the caller's current game, with the caller as the host
// claim.
func (s *Server) Start(player string) (Outcome, error) {
	g, err := s.currentGame(player)
	if err != nil {
		return Outcome{}, err
	}

	return g.Start(player)
}

// Play submits a guess to the caller's current game.
func (s *Server) Play(player string, guess int) (Outcome, error) {
	g, err := s.currentGame(player)
	if err != nil {
		return Outcome{}, err
	}

	return g.Play(player, guess)
}

// Restart resets and re-begins the caller's current game, with the
// caller as the host claim.
func (s *Server) Restart(player string) (Outcome, error) {
	g, err := s.currentGame(player)
	if err != nil {
		return Outcome{}, err
	}

	return g.Restart(player)
}

// Players returns a snapshot of all registered player names.
func (s *Server) Players() []string {
	return s.players.List()
}

// Games returns a snapshot of all registered game identities.
func (s *Server) Games() []string {
	return s.games.List()
}

// Game resolves the named player's current game.
func (s *Server) Game(player string) (*Game, error) {
	return s.currentGame(player)
}

// Reset clears both registries. Resetting an already empty server
// succeeds.
func (s *Server) Reset() {
	s.players.Clear()
	s.games.Clear()
}

// ensurePlayer resolves the named player, registering a fresh one on
// first use. A registration lost to a concurrent caller falls back to
// the winner's entry.
func (s *Server) ensurePlayer(name string) (*Player, error) {
	p, err := s.players.Lookup(name)
	if err == nil {
		return p, nil
	}

	p = NewPlayer(name)
	if err := s.players.Register(name, p); err != nil {
		if errors.Is(err, ErrNameTaken) {
			return s.players.Lookup(name)
		}
		return nil, err
	}

	return p, nil
}

// currentGame resolves the named player's current game, distinguishing
// "no current game" from a game the registry can no longer reach.
func (s *Server) currentGame(player string) (*Game, error) {
	id, err := s.players.CurrentGame(player)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrGameNotFound
	}

	g, err := s.games.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("%w: game %q", ErrUnavailable, id)
	}

	return g, nil
}
