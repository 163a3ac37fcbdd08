package guess

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// TestPlayerRegistryConcurrentRegistration races many registrations of
// the same name; compare-and-insert admits exactly one.
func TestPlayerRegistryConcurrentRegistration(t *testing.T) {
	r := NewPlayerRegistry()

	var wg sync.WaitGroup
	var wins atomic.Int32

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Register("alice", NewPlayer("alice")); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly 1 successful registration, got %d", wins.Load())
	}
}

// TestGameConcurrentPlays races many guesses by the current actor; the
// turn must advance exactly once, with every loser told it is not their
// turn.
func TestGameConcurrentPlays(t *testing.T) {
	host := NewPlayer("host")
	bob := NewPlayer("bob")

	g := NewGame(host, "", DefaultConfig(), queuePick(50, 60))
	if err := g.AddPlayer(bob); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := g.Start("host"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	var wins atomic.Int32

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Play("host", 40)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrWrongTurn):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly 1 successful play, got %d", wins.Load())
	}
	// The single accepted guess is durably applied: one closed round.
	if host.Total() != 90 {
		t.Fatalf("expected host total 90, got %d", host.Total())
	}
}

// TestServerConcurrentHosts races independent games and players on one
// server; every entity mutation stays isolated to its own game.
func TestServerConcurrentHosts(t *testing.T) {
	s := NewServer(ServerOptions{Pick: func(max int) int { return 1 }})

	names := []string{"a", "b", "c", "d", "e"}

	var wg sync.WaitGroup
	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Host(name, ""); err != nil {
				t.Errorf("host %q: %v", name, err)
				return
			}
			if _, err := s.Start(name); err != nil {
				t.Errorf("start %q: %v", name, err)
				return
			}
			if _, err := s.Play(name, 1); err != nil {
				t.Errorf("play %q: %v", name, err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.Games()); got != len(names) {
		t.Fatalf("expected %d games, got %d", len(names), got)
	}

	for _, name := range names {
		p, err := s.players.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %q: %v", name, err)
		}
		// Assigned 1, guessed 1: exact match.
		if p.Total() != 150 {
			t.Fatalf("total for %q = %d, want 150", name, p.Total())
		}
	}
}
