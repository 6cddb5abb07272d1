package engine

import "fmt"

const (
	// MaxPly bounds the search stack, PV buffers and killer slots.
	MaxPly = 128

	Infinity  = 32700
	MateScore = 32500
	// Scores beyond MateInMaxPly are forced mates measured in plies from the root.
	MateInMaxPly = MateScore - MaxPly
	DrawScore    = 0
)

// MatedIn is the score of being mated ply plies from the root.
func MatedIn(ply int) int { return -MateScore + ply }

// MateIn is the score of mating ply plies from the root.
func MateIn(ply int) int { return MateScore - ply }

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool { return Abs(score) > MateInMaxPly }

// ScoreToTT converts a root-relative mate score into a node-relative one
// before storing, so the entry stays valid wherever it is reused.
func ScoreToTT(score, ply int) int {
	switch {
	case score > MateInMaxPly:
		return score + ply
	case score < -MateInMaxPly:
		return score - ply
	}
	return score
}

// ScoreFromTT reverses ScoreToTT at the probing ply.
func ScoreFromTT(score, ply int) int {
	switch {
	case score > MateInMaxPly:
		return score - ply
	case score < -MateInMaxPly:
		return score + ply
	}
	return score
}

// FormatScore renders a score for the UCI info line: "cp N" or "mate N"
// where N counts full moves and is negative when the engine is mated.
func FormatScore(score int) string {
	if score > MateInMaxPly {
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	}
	if score < -MateInMaxPly {
		return fmt.Sprintf("mate %d", -(MateScore+score)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
