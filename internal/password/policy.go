// Package password implements the client-side password strength policy.
// Evaluation runs on every keystroke, so it is a single pass over the
// candidate with no allocation and no regex.
package password

// MinLength is the minimum acceptable password length.
const MinLength = 8

// symbols is the fixed punctuation set counted as the symbol requirement.
const symbols = `!@#$%^&*(),.?":{}|<>`

// MaxScore is the score of a password satisfying every rule.
const MaxScore = 4

// Strength reports which policy rules a candidate password satisfies.
type Strength struct {
	MinLength bool
	HasNumber bool
	HasUpper  bool
	HasSymbol bool
	// Score is the count of satisfied rules, 0..4.
	Score int
}

// Tier is the qualitative rating shown alongside the score.
type Tier string

const (
	TierWeak   Tier = "weak"
	TierMedium Tier = "medium"
	TierStrong Tier = "strong"
)

// Evaluate scores pwd against the signup policy: length >= 8, at least one
// digit, one uppercase ASCII letter, and one symbol from the fixed set.
func Evaluate(pwd string) Strength {
	s := Strength{MinLength: len(pwd) >= MinLength}
	for i := 0; i < len(pwd); i++ {
		c := pwd[i]
		switch {
		case c >= '0' && c <= '9':
			s.HasNumber = true
		case c >= 'A' && c <= 'Z':
			s.HasUpper = true
		default:
			if !s.HasSymbol && isSymbol(c) {
				s.HasSymbol = true
			}
		}
	}
	for _, ok := range []bool{s.MinLength, s.HasNumber, s.HasUpper, s.HasSymbol} {
		if ok {
			s.Score++
		}
	}
	return s
}

// Tier maps the score to the qualitative rating: weak <= 2, medium = 3,
// strong = 4.
func (s Strength) Tier() Tier {
	switch {
	case s.Score <= 2:
		return TierWeak
	case s.Score == 3:
		return TierMedium
	default:
		return TierStrong
	}
}

func isSymbol(c byte) bool {
	for i := 0; i < len(symbols); i++ {
		if symbols[i] == c {
			return true
		}
	}
	return false
}
