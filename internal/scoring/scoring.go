package scoring

import (
	"sort"
	"strings"

	"hashquest/internal/models"
)

// Normalize upper-cases and trims a submitted guess so comparisons against
// the target phrase are case- and whitespace-insensitive.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Evaluate compares a guess against the target phrase. Greens count positions
// where the characters match exactly, up to the shorter length. Yellows count
// letters present in both strings outside the green positions, with each
// letter capped by the smaller of its remaining counts so duplicates are not
// over-counted. Spaces never contribute to yellows.
func Evaluate(guess, target string) (greens, yellows int) {
	g := Normalize(guess)
	t := Normalize(target)

	shorter := len(g)
	if len(t) < shorter {
		shorter = len(t)
	}

	var guessRemaining, targetRemaining [26]int
	for i := 0; i < shorter; i++ {
		if g[i] == t[i] {
			greens++
			continue
		}
		countLetter(&guessRemaining, g[i])
		countLetter(&targetRemaining, t[i])
	}
	for i := shorter; i < len(g); i++ {
		countLetter(&guessRemaining, g[i])
	}
	for i := shorter; i < len(t); i++ {
		countLetter(&targetRemaining, t[i])
	}

	for i := 0; i < 26; i++ {
		if guessRemaining[i] < targetRemaining[i] {
			yellows += guessRemaining[i]
		} else {
			yellows += targetRemaining[i]
		}
	}
	return greens, yellows
}

func countLetter(counts *[26]int, c byte) {
	if c >= 'A' && c <= 'Z' {
		counts[c-'A']++
	}
}

// BestScore returns the strongest guess a team has made: highest greens,
// ties broken by yellows. A team with no guesses scores (0, 0).
func BestScore(guesses []string, target string) (greens, yellows int) {
	for _, guess := range guesses {
		g, y := Evaluate(guess, target)
		if g > greens || (g == greens && y > yellows) {
			greens, yellows = g, y
		}
	}
	return greens, yellows
}

// LetterPositions returns the zero-based positions of letter in the target
// phrase, or an empty slice if the letter does not occur.
func LetterPositions(target, letter string) []int {
	t := Normalize(target)
	l := Normalize(letter)
	if len(l) != 1 {
		return []int{}
	}

	positions := []int{}
	for i := 0; i < len(t); i++ {
		if t[i] == l[0] {
			positions = append(positions, i)
		}
	}
	return positions
}

// Rank orders leaderboard rows by greens descending, then first solves
// descending, then yellows descending. Remaining ties keep insertion order.
func Rank(rows []models.LeaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Greens != rows[j].Greens {
			return rows[i].Greens > rows[j].Greens
		}
		if rows[i].FirstSolves != rows[j].FirstSolves {
			return rows[i].FirstSolves > rows[j].FirstSolves
		}
		return rows[i].Yellows > rows[j].Yellows
	})
}
