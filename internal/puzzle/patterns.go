package puzzle

import "github.com/n4ze3m/num-shift/internal/models"

const (
	PatternTriple     = "triple"
	PatternPalindrome = "palindrome"
	PatternAscending  = "ascending"
)

// SpecialPatterns lists the bonus shapes attached to every config.
func SpecialPatterns() []models.SpecialPattern {
	return []models.SpecialPattern{
		{Name: PatternTriple, Bonus: 5, Description: "Three or more identical digits in a row"},
		{Name: PatternPalindrome, Bonus: 10, Description: "Palindrome sequence"},
		{Name: PatternAscending, Bonus: 7, Description: "Sequence of ascending digits"},
	}
}

// PatternBonus sums the bonuses of every pattern number forms and returns
// the ones that matched. Unknown pattern names never match.
func PatternBonus(number string, patterns []models.SpecialPattern) (int, []models.SpecialPattern) {
	total := 0
	var matched []models.SpecialPattern
	for _, p := range patterns {
		if matchPattern(p.Name, number) {
			total += p.Bonus
			matched = append(matched, p)
		}
	}
	return total, matched
}

func matchPattern(name, s string) bool {
	switch name {
	case PatternTriple:
		return hasTriple(s)
	case PatternPalindrome:
		return hasMirroredSix(s)
	case PatternAscending:
		return hasAscendingRun(s)
	}
	return false
}

func hasTriple(s string) bool {
	for i := 2; i < len(s); i++ {
		if s[i] == s[i-1] && s[i] == s[i-2] {
			return true
		}
	}
	return false
}

// hasMirroredSix looks for any window abccba.
func hasMirroredSix(s string) bool {
	for i := 0; i+6 <= len(s); i++ {
		w := s[i : i+6]
		if w[0] == w[5] && w[1] == w[4] && w[2] == w[3] {
			return true
		}
	}
	return false
}

// hasAscendingRun looks for three consecutive digits counting up by one,
// with 8,9,0 also counting.
func hasAscendingRun(s string) bool {
	for i := 2; i < len(s); i++ {
		a, b, c := s[i-2], s[i-1], s[i]
		if a == '8' && b == '9' && c == '0' {
			return true
		}
		if a >= '0' && c <= '9' && b == a+1 && c == b+1 {
			return true
		}
	}
	return false
}
