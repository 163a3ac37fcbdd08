package guess

import (
	"errors"
	"testing"
)

func newTestServer(picks ...int) *Server {
	opts := ServerOptions{}
	if len(picks) > 0 {
		opts.Pick = queuePick(picks...)
	}
	return NewServer(opts)
}

func TestServerConnect(t *testing.T) {
	s := newTestServer()

	if _, err := s.Connect("alice"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.Connect("alice"); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("duplicate connect error = %v, want %v", err, ErrNameTaken)
	}

	s.Disconnect("alice")
	if _, err := s.Connect("alice"); err != nil {
		t.Fatalf("reconnect after disconnect: %v", err)
	}
}

func TestServerHostRegistersPlayerAndGame(t *testing.T) {
	s := newTestServer()

	g, err := s.Host("alice", "")
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	if g.Host() != "alice" {
		t.Fatalf("unexpected host: %q", g.Host())
	}
	if g.Name() != "alice's game" {
		t.Fatalf("unexpected game name: %q", g.Name())
	}

	if players := s.Players(); len(players) != 1 || players[0] != "alice" {
		t.Fatalf("unexpected players: %v", players)
	}

	current, err := s.Game("alice")
	if err != nil {
		t.Fatalf("current game: %v", err)
	}
	if current != g {
		t.Fatal("host's current game is not the hosted game")
	}
}

// TestServerHostAgainReplacesGame checks a second host call swaps out
// the host's previous game.
func TestServerHostAgainReplacesGame(t *testing.T) {
	s := newTestServer()

	first, err := s.Host("alice", "one")
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	second, err := s.Host("alice", "two")
	if err != nil {
		t.Fatalf("host again: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh game")
	}

	current, err := s.Game("alice")
	if err != nil {
		t.Fatalf("current game: %v", err)
	}
	if current != second {
		t.Fatal("expected the replacement game")
	}
}

func TestServerJoinByTarget(t *testing.T) {
	s := newTestServer()

	if _, err := s.Host("alice", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if err := s.Join("bob", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	g, err := s.Game("bob")
	if err != nil {
		t.Fatalf("current game: %v", err)
	}
	if g.Host() != "alice" {
		t.Fatalf("joined the wrong game: %q", g.Host())
	}

	if err := s.Join("carol", "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("join unknown target error = %v, want %v", err, ErrPlayerNotFound)
	}

	if _, err := s.Connect("dave"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := s.Join("carol", "dave"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("join target without game error = %v, want %v", err, ErrGameNotFound)
	}
}

// TestServerJoinLatest checks joining without a target lands in the most
// recently created game.
func TestServerJoinLatest(t *testing.T) {
	s := newTestServer()

	if err := s.Join("bob", ""); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("join with no games error = %v, want %v", err, ErrGameNotFound)
	}

	if _, err := s.Host("alice", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if _, err := s.Host("carol", ""); err != nil {
		t.Fatalf("host: %v", err)
	}

	if err := s.Join("bob", ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	g, err := s.Game("bob")
	if err != nil {
		t.Fatalf("current game: %v", err)
	}
	if g.Host() != "carol" {
		t.Fatalf("expected the most recent game, joined %q", g.Host())
	}
}

func TestServerConfigureRequiresHost(t *testing.T) {
	s := newTestServer()

	if _, err := s.Host("alice", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if err := s.Join("bob", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := s.Configure("bob", Options{MaxPoints: 50}); !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host configure error = %v, want %v", err, ErrNotHost)
	}
	if err := s.Configure("alice", Options{MaxPoints: 50}); err != nil {
		t.Fatalf("configure: %v", err)
	}
}

func TestServerGameScopedErrors(t *testing.T) {
	s := newTestServer()

	if _, err := s.Play("ghost", 10); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("play as unknown player error = %v, want %v", err, ErrPlayerNotFound)
	}

	if _, err := s.Connect("alice"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.Play("alice", 10); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("play without game error = %v, want %v", err, ErrGameNotFound)
	}
}

// TestServerUnavailableGame checks that a stale current-game reference
// surfaces as ErrUnavailable rather than a domain error.
func TestServerUnavailableGame(t *testing.T) {
	s := newTestServer(10, 99)

	if _, err := s.Host("alice", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if err := s.Join("bob", "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// The host disconnecting takes the hosted game down with them.
	s.Disconnect("alice")

	if _, err := s.Play("bob", 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("play against missing game error = %v, want %v", err, ErrUnavailable)
	}
}

// TestServerPlayToCompletion runs the configure-then-play-until-ended
// scenario end to end through the facade.
func TestServerPlayToCompletion(t *testing.T) {
	s := newTestServer(10, 99)

	if _, err := s.Host("H", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if err := s.Join("P", "H"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := s.Configure("H", Options{MaxPoints: 50}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	outcome, err := s.Start("H")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if outcome.Kind != OutcomeNextTurn || outcome.Next != "H" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	if _, err := s.Play("H", 10); err != nil {
		t.Fatalf("H play: %v", err)
	}

	outcome, err = s.Play("P", 1)
	if err != nil {
		t.Fatalf("P play: %v", err)
	}
	if outcome.Kind != OutcomeEnded {
		t.Fatalf("expected game to end, got %+v", outcome)
	}
	if outcome.Totals["H"] != 150 || outcome.Totals["P"] != 2 {
		t.Fatalf("unexpected final totals: %v", outcome.Totals)
	}

	if _, err := s.Play("H", 10); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("play after end error = %v, want %v", err, ErrInvalidAction)
	}

	outcome, err = s.Restart("H")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if outcome.Kind != OutcomeNextTurn || outcome.Next != "H" || outcome.Round != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

// TestServerResetIdempotent wipes the server twice and expects both
// registries empty each time.
func TestServerResetIdempotent(t *testing.T) {
	s := newTestServer()

	if _, err := s.Host("alice", ""); err != nil {
		t.Fatalf("host: %v", err)
	}
	if err := s.Join("bob", ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	s.Reset()
	if len(s.Players()) != 0 || len(s.Games()) != 0 {
		t.Fatal("expected empty registries after reset")
	}

	s.Reset()
	if len(s.Players()) != 0 || len(s.Games()) != 0 {
		t.Fatal("expected empty registries after second reset")
	}

	// Names freed by the reset are usable again.
	if _, err := s.Connect("alice"); err != nil {
		t.Fatalf("connect after reset: %v", err)
	}
}
