package grid

// GetGridCoords converts a linear cell index into column/row coordinates
// for a grid that is cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Window returns the first index of the page of size cols*rows that
// contains index, so a cursor can be kept on screen while it walks.
func Window(index, cols, rows int) int {
	page := cols * rows
	if page <= 0 {
		return 0
	}
	return (index / page) * page
}
