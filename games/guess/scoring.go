package guess

const (
	basePoints   = 100
	exactValue   = 50
	reverseValue = 25
	otherValue   = 25
)

// BonusReason identifies the rule that produced a bonus.
type BonusReason int

const (
	BonusUnspecified BonusReason = iota
	// BonusExactMatch is awarded for guessing the assigned number exactly.
	BonusExactMatch
	// BonusReverseMatch is awarded for guessing the assigned number's
	// digits in reverse order.
	BonusReverseMatch
	// BonusOtherMatch is awarded for guessing another player's assigned
	// number.
	BonusOtherMatch
)

func (r BonusReason) String() string {
	switch r {
	case BonusExactMatch:
		return "exact match"
	case BonusReverseMatch:
		return "reverse match"
	case BonusOtherMatch:
		return "other match"
	default:
		return "unspecified"
	}
}

// Bonus is a point award beyond the base closeness formula. Other is the
// matched player's name when Reason is BonusOtherMatch, empty otherwise.
type Bonus struct {
	Value  int
	Reason BonusReason
	Other  string
}

// OtherAssigned pairs another player's name with that player's current
// assigned number, for other-match evaluation.
type OtherAssigned struct {
	Name     string
	Assigned int
}

// RoundPoints returns the base points for a guess: 100 minus the distance
// from the assigned number. The result is not clamped, so a guess range
// wider than the 100-point scale can produce negative points.
func RoundPoints(assigned, guess int) int {
	d := guess - assigned
	if d < 0 {
		d = -d
	}
	return basePoints - d
}

// reverseNumber reverses n's decimal digits numerically, so trailing
// zeros collapse: 47 -> 74, but 40 -> 4.
func reverseNumber(n int) int {
	r := 0
	for n > 0 {
		r = r*10 + n%10
		n /= 10
	}
	return r
}

// EvaluateBonuses returns the bonuses earned by a guess against the
// player's own assigned number and every other player's current assigned
// number. An exact match excludes the reverse match; other matches are
// independent and stack, in roster order.
func EvaluateBonuses(assigned, guess int, others []OtherAssigned) []Bonus {
	var bonuses []Bonus

	switch {
	case guess == assigned:
		bonuses = append(bonuses, Bonus{Value: exactValue, Reason: BonusExactMatch})
	case guess == reverseNumber(assigned):
		bonuses = append(bonuses, Bonus{Value: reverseValue, Reason: BonusReverseMatch})
	}

	for _, other := range others {
		if other.Assigned == guess {
			bonuses = append(bonuses, Bonus{Value: otherValue, Reason: BonusOtherMatch, Other: other.Name})
		}
	}

	return bonuses
}
