package guess

// Round is one player's scoring unit within a game round. A round is
// created with an assigned number when the game starts the round, records
// the player's guess, accumulates bonuses, and is closed once its points
// are computed. A closed round is never mutated again except by a full
// player reset.
type Round struct {
	Round    int
	Assigned int
	Guess    int
	Guessed  bool
	Points   int
	Closed   bool
	Bonuses  []Bonus
}

// close computes the round's final points and marks it closed. Closing is
// idempotent and a no-op until a guess has been recorded.
func (r *Round) close() {
	if r.Closed || !r.Guessed {
		return
	}

	points := RoundPoints(r.Assigned, r.Guess)
	for _, b := range r.Bonuses {
		points += b.Value
	}

	r.Points = points
	r.Closed = true
}
