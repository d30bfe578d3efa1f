package row

// Metrics converts character cells to pixels.
type Metrics struct {
	// CellWidth is the width of one cell.
	CellWidth float64

	// LineHeight is the height of one visual line.
	LineHeight float64
}

// DefaultMetrics returns metrics for a character-cell terminal, where one
// pixel is one cell.
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 1, LineHeight: 1}
}

func (m Metrics) normalized() Metrics {
	if m.CellWidth <= 0 {
		m.CellWidth = 1
	}
	if m.LineHeight <= 0 {
		m.LineHeight = 1
	}
	return m
}

// Columns converts a pixel width to whole cells. A width <= 0 means no
// limit and returns 0.
func (m Metrics) Columns(width float64) int {
	if width <= 0 {
		return 0
	}
	m = m.normalized()
	cols := int(width / m.CellWidth)
	if cols < 1 {
		cols = 1
	}
	return cols
}
