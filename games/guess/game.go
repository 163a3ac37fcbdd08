package guess

import (
	"math/rand"
	"sync"
)

// State is the phase of a game's lifecycle.
type State int

const (
	// StateSettingUp is the initial state: roster open, configuration mutable.
	StateSettingUp State = iota
	// StateInPlay means rounds are proceeding; roster and configuration frozen.
	StateInPlay
	// StateEnded means the game concluded; restart is permitted.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateSettingUp:
		return "setting up"
	case StateInPlay:
		return "in play"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Default game configuration.
const (
	DefaultMaxPoints = 300
	DefaultMaxGuess  = 100
)

// Config holds a game's settings. Guesses and assigned numbers are drawn
// from [1, MaxGuess]; the first player whose total reaches MaxPoints ends
// the game.
type Config struct {
	MaxPoints int
	MaxGuess  int
}

// DefaultConfig returns the standard 300-point, 1-100 configuration.
func DefaultConfig() Config {
	return Config{
		MaxPoints: DefaultMaxPoints,
		MaxGuess:  DefaultMaxGuess,
	}
}

// Options describes a configuration change. A zero field keeps the
// current value.
type Options struct {
	MaxPoints int
	MaxGuess  int
}

// OutcomeKind tags the result of a successful start, play, or restart.
type OutcomeKind int

const (
	OutcomeUnspecified OutcomeKind = iota
	// OutcomeNextTurn means the round continues with the next player.
	OutcomeNextTurn
	// OutcomeNextRound means the round closed and a new one began.
	OutcomeNextRound
	// OutcomeEnded means a player reached the point limit and the game is over.
	OutcomeEnded
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNextTurn:
		return "next turn"
	case OutcomeNextRound:
		return "next round"
	case OutcomeEnded:
		return "game ended"
	default:
		return "unspecified"
	}
}

// Outcome reports the result of a successful start, play, or restart.
// Next names the player to act, except when the game ended. Totals
// carries per-player running totals once a full round has closed.
type Outcome struct {
	Kind   OutcomeKind
	Next   string
	Round  int
	Totals map[string]int
}

// Game is the turn-based state machine for one session. The host creates
// it and is its registry identity; the roster is kept in join order,
// which fixes turn order when the game starts. All methods serialize on
// the game's own mutex. A game calls into its players' ledgers while
// handling a play, but players never call back into the game.
type Game struct {
	host string
	name string
	pick func(max int) int
	logf func(format string, args ...any)

	mu      sync.Mutex
	players []string
	members map[string]*Player
	order   []string
	round   int
	turn    int
	config  Config
	state   State
}

// NewGame creates a game in the setting-up state with the host as its
// sole roster member. A nil pick falls back to the process-wide random
// generator.
func NewGame(host *Player, name string, config Config, pick func(max int) int) *Game {
	if config.MaxPoints <= 0 {
		config.MaxPoints = DefaultMaxPoints
	}
	if config.MaxGuess <= 0 {
		config.MaxGuess = DefaultMaxGuess
	}
	if pick == nil {
		pick = func(max int) int {
			return rand.Intn(max) + 1
		}
	}

	return &Game{
		host:    host.Name(),
		name:    name,
		pick:    pick,
		logf:    func(string, ...any) {},
		players: []string{host.Name()},
		members: map[string]*Player{host.Name(): host},
		config:  config,
	}
}

// SetLogf routes the game's event logging through fn.
func (g *Game) SetLogf(fn func(format string, args ...any)) {
	if fn != nil {
		g.logf = fn
	}
}

// Host returns the name of the player who created the game. The host
// name is also the game's registry identity.
func (g *Game) Host() string {
	return g.host
}

// Name returns the game's display label.
func (g *Game) Name() string {
	return g.name
}

// State returns the game's current lifecycle phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Config returns the game's current configuration.
func (g *Game) Config() Config {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.config
}

// Round returns the current round ordinal.
func (g *Game) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.round
}

// Players returns the roster in join order.
func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string(nil), g.players...)
}

// AddPlayer appends a player to the roster. The roster is open while the
// game is setting up, and again after it ends, ahead of a restart.
func (g *Game) AddPlayer(p *Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateInPlay {
		return ErrInvalidAction
	}

	if _, ok := g.members[p.Name()]; ok {
		return ErrPlayerInGame
	}

	g.players = append(g.players, p.Name())
	g.members[p.Name()] = p

	g.logf("GAMES: Player %q joined %q", p.Name(), g.host)

	return nil
}

// Configure replaces the game's settings. Zero fields keep their current
// values; negative values are rejected. Configuration is frozen while
// the game is in play.
func (g *Game) Configure(opts Options) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateInPlay {
		return ErrInvalidAction
	}

	if opts.MaxPoints < 0 || opts.MaxGuess < 0 {
		return ErrOutOfRange
	}

	if opts.MaxPoints > 0 {
		g.config.MaxPoints = opts.MaxPoints
	}
	if opts.MaxGuess > 0 {
		g.config.MaxGuess = opts.MaxGuess
	}

	return nil
}

// Start begins play. Only the host may start, and only while the game is
// setting up or after it ended. Turn order is snapshotted from the
// roster's join order, every player is assigned a number for round 0,
// and the first player in the order acts first.
func (g *Game) Start(caller string) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateInPlay {
		return Outcome{}, ErrInvalidAction
	}

	if caller != g.host {
		return Outcome{}, ErrNotHost
	}

	g.beginRoundLocked(0)
	g.state = StateInPlay

	g.logf("GAMES: Game %q started with %d players", g.host, len(g.order))

	return Outcome{
		Kind:  OutcomeNextTurn,
		Next:  g.order[0],
		Round: 0,
	}, nil
}

// Restart resets every player's ledger and begins play again at round 0.
// Only the host may restart, and only once the game has started at least
// once. Configuration carries over; players who joined after the game
// ended are picked up in the new turn order.
func (g *Game) Restart(caller string) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateSettingUp {
		return Outcome{}, ErrInvalidAction
	}

	if caller != g.host {
		return Outcome{}, ErrNotHost
	}

	for _, p := range g.members {
		p.Reset()
	}

	g.beginRoundLocked(0)
	g.state = StateInPlay

	g.logf("GAMES: Game %q restarted", g.host)

	return Outcome{
		Kind:  OutcomeNextTurn,
		Next:  g.order[0],
		Round: 0,
	}, nil
}

// Play records the acting player's guess and advances the turn. The
// guess earns the closeness points plus any bonuses, the acting player's
// round closes, and either the next player is up, a new round begins, or
// the game ends because a player reached the point limit.
func (g *Game) Play(caller string, guess int) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateInPlay {
		return Outcome{}, ErrInvalidAction
	}

	if g.order[g.turn] != caller {
		return Outcome{}, ErrWrongTurn
	}

	if guess < 1 || guess > g.config.MaxGuess {
		return Outcome{}, ErrOutOfRange
	}

	actor := g.members[caller]
	assigned, _ := actor.CurrentAssigned()

	actor.RecordGuess(guess)

	others := make([]OtherAssigned, 0, len(g.order)-1)
	for _, name := range g.order {
		if name == caller {
			continue
		}
		if n, ok := g.members[name].CurrentAssigned(); ok {
			others = append(others, OtherAssigned{Name: name, Assigned: n})
		}
	}

	actor.AddBonuses(EvaluateBonuses(assigned, guess, others)...)
	actor.CloseRound()

	g.logf("GAMES: Player %q guessed %d in %q (round %d)", caller, guess, g.host, g.round)

	if g.turn < len(g.order)-1 {
		g.turn++

		return Outcome{
			Kind:  OutcomeNextTurn,
			Next:  g.order[g.turn],
			Round: g.round,
		}, nil
	}

	// Last player of the round: close any round left open, take stock,
	// and either finish the game or deal the next round.
	totals := make(map[string]int, len(g.order))
	finished := false
	for _, name := range g.order {
		p := g.members[name]
		p.CloseRound()
		total := p.Total()
		totals[name] = total
		if total >= g.config.MaxPoints {
			finished = true
		}
	}

	if finished {
		g.state = StateEnded

		g.logf("GAMES: Game %q ended after round %d", g.host, g.round)

		return Outcome{
			Kind:   OutcomeEnded,
			Round:  g.round,
			Totals: totals,
		}, nil
	}

	g.beginRoundLocked(g.round + 1)

	return Outcome{
		Kind:   OutcomeNextRound,
		Next:   g.order[0],
		Round:  g.round,
		Totals: totals,
	}, nil
}

// beginRoundLocked re-reads turn order from the roster when starting at
// round 0, assigns every player a fresh number, and resets the turn.
func (g *Game) beginRoundLocked(round int) {
	if round == 0 {
		g.order = append([]string(nil), g.players...)
	}

	g.round = round
	g.turn = 0

	for _, name := range g.order {
		g.members[name].BeginRound(round, g.pick(g.config.MaxGuess))
	}
}
