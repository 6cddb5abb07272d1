package engine

import "math"

// =============================================================================
// MARGINS
// =============================================================================
var RFPMargins = [7]int{0, 100, 200, 300, 400, 500, 600}

// =============================================================================
// LMR/PRUNING PARAMETERS
// =============================================================================
var (
	LMRDepthLimit            = 3
	LMRMoveLimit             = 3
	LMRHistoryReductionScale = 4096
	NullMoveMinDepth         = 3
	DeltaMargin              = 200
	aspirationWindowSize     = 35
	aspirationMinDepth       = 5
)

const lmrSize = 64

// LMR holds the base late-move reduction indexed by [depth][moves searched].
var LMR [lmrSize][lmrSize]int

func init() {
	initLMRTable()
}

// Reductions grow with the product of log depth and log move number, after
// the quiet-move formula used by Weiss.
func initLMRTable() {
	for d := 1; d < lmrSize; d++ {
		for m := 1; m < lmrSize; m++ {
			LMR[d][m] = int(1.82 + math.Log10(float64(d))*math.Log10(float64(m))/2.68)
		}
	}
}

// lmrReduction returns how many plies to take off a late quiet move.
func lmrReduction(depth, moveCount int, isPVNode, improving bool, history int32) int {
	if depth < LMRDepthLimit || moveCount < LMRMoveLimit {
		return 0
	}
	r := LMR[min(depth, lmrSize-1)][min(moveCount, lmrSize-1)]
	if isPVNode {
		r--
	}
	if !improving {
		r++
	}
	// History bonus: good moves get less reduction
	r -= int(history) / LMRHistoryReductionScale
	return Clamp(r, 0, depth-2)
}

func rfpMargin(depth int, improving bool) int {
	m := RFPMargins[depth]
	if !improving {
		m -= 50 // More aggressive when not improving
	}
	return m
}
