package guess

import "sync"

// Player holds one player's identity and round ledger. Rounds are kept
// newest-first. All methods serialize on the player's own mutex, so a
// player is never mutated by more than one caller at a time.
type Player struct {
	name string

	mu     sync.Mutex
	rounds []Round
}

// NewPlayer returns a player with an empty ledger.
func NewPlayer(name string) *Player {
	return &Player{name: name}
}

// Name returns the player's identity.
func (p *Player) Name() string {
	return p.name
}

// BeginRound opens a new current round with the given ordinal and
// assigned number.
func (p *Player) BeginRound(ordinal, assigned int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rounds = append([]Round{{Round: ordinal, Assigned: assigned}}, p.rounds...)
}

// CurrentAssigned returns the assigned number of the current round, and
// false if no round has been started.
func (p *Player) CurrentAssigned() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.rounds) == 0 {
		return 0, false
	}
	return p.rounds[0].Assigned, true
}

// RecordGuess sets the guess on the current round.
func (p *Player) RecordGuess(guess int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.rounds) == 0 || p.rounds[0].Closed {
		return
	}
	p.rounds[0].Guess = guess
	p.rounds[0].Guessed = true
}

// AddBonuses appends bonuses to the current round. Bonuses are only
// accepted after a guess has been recorded and before the round closes.
func (p *Player) AddBonuses(bonuses ...Bonus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.rounds) == 0 || !p.rounds[0].Guessed || p.rounds[0].Closed {
		return
	}
	p.rounds[0].Bonuses = append(p.rounds[0].Bonuses, bonuses...)
}

// CloseRound finalizes the current round's points. Closing twice, or
// closing before a guess was recorded, is a no-op.
func (p *Player) CloseRound() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.rounds) == 0 {
		return
	}
	p.rounds[0].close()
}

// Total returns the sum of points across all closed rounds.
func (p *Player) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, r := range p.rounds {
		if r.Closed {
			total += r.Points
		}
	}
	return total
}

// Rounds returns a copy of the player's ledger, newest first.
func (p *Player) Rounds() []Round {
	p.mu.Lock()
	defer p.mu.Unlock()

	rounds := make([]Round, len(p.rounds))
	copy(rounds, p.rounds)
	for i := range rounds {
		if len(p.rounds[i].Bonuses) > 0 {
			rounds[i].Bonuses = append([]Bonus(nil), p.rounds[i].Bonuses...)
		}
	}
	return rounds
}

// Reset clears the player's ledger, returning the total to zero.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rounds = nil
}
