package services

// PositionStep is the gap left between appended siblings. The large step
// lets a client drop an item between two neighbors by picking any value in
// the gap, without the server renumbering the rest of the group.
const PositionStep = 1000

// NextPosition returns the position for an item appended after its siblings.
// existingMax is nil when the group is empty; the first item lands on
// PositionStep rather than 0 so there is room to insert before it too.
func NextPosition(existingMax *float64) float64 {
	if existingMax == nil {
		return PositionStep
	}
	return *existingMax + PositionStep
}
