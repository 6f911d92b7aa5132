package graph

// ImportanceScore ranks how much of the codebase leans on a file:
//
//	Score = (FanIn * 2) + (FanOut * 1) + (Depth * 0.5) + (InCycle ? 10 : 0)
func ImportanceScore(fanIn, fanOut, depth int, inCycle bool) float64 {
	score := float64(fanIn*2) + float64(fanOut) + float64(depth)*0.5
	if inCycle {
		score += 10
	}
	return score
}
