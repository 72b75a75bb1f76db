package engine

// SegmentCount tallies the segments of one ship kind on a grid
type SegmentCount struct {
	Total int `json:"total"`
	Hit   int `json:"hit"`
}

// Remaining returns the number of segments not yet hit
func (s SegmentCount) Remaining() int {
	return s.Total - s.Hit
}

// CountSegments counts ship segments per kind on the grid
func CountSegments(grid ShipGrid) map[ShipKind]SegmentCount {
	counts := make(map[ShipKind]SegmentCount)
	for _, row := range grid {
		for _, sq := range row {
			if !sq.IsShip() {
				continue
			}
			c := counts[sq.Ship]
			c.Total++
			if sq.Hit {
				c.Hit++
			}
			counts[sq.Ship] = c
		}
	}
	return counts
}

// CountSquareKind counts the squares of the given kind on the grid
func CountSquareKind(grid ShipGrid, kind SquareKind) int {
	count := 0
	for _, row := range grid {
		for _, sq := range row {
			if sq.Kind == kind {
				count++
			}
		}
	}
	return count
}

// Accuracy returns hits over resolved shots on a shot grid, or 0 before any shot
func Accuracy(shots ShotGrid) float64 {
	hits := shots.Count(ShipShot)
	total := hits + shots.Count(WaterShot)
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
