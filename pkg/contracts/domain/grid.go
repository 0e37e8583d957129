package domain

// Cell is a single raw spreadsheet cell value as supplied by the
// spreadsheet-reading collaborator. It holds one of: nil (absent),
// string, float64 (numeric / serial date) or time.Time (native date).
type Cell any

// Grid is a rectangular spreadsheet extract: an ordered sequence of rows,
// each an ordered sequence of raw cell values. The engine never opens files
// itself; it receives grids already decoded.
type Grid [][]Cell
