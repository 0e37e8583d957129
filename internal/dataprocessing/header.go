package dataprocessing

import (
	"strings"

	"trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

// headerScanLimit bounds how deep into a file the header row may sit. Site
// exports routinely carry title banners and blank rows above the real header.
const headerScanLimit = 50

// NoColumn is the sentinel index for an optional column that is entirely
// absent from the file. Consumers must treat its values as absent.
const NoColumn = -1

// ColumnGroup is one logical column and the header-name synonyms that may
// label it. A row qualifies as the header row only when every non-optional
// group has at least one synonym present among its cells.
type ColumnGroup struct {
	Name     string
	Synonyms []string
	Optional bool
}

// Header is a resolved header row: the trimmed original-case cell values,
// the row index, and a logical-name lookup built from the column groups.
type Header struct {
	Row     int
	Cells   []string
	columns map[string]int
}

// ResolveHeader scans at most the first headerScanLimit rows of the grid for
// a row satisfying all required column groups. Matching is case-insensitive
// exact match after trimming; when several columns could satisfy a group the
// first in document order wins. Failure is fatal for the file.
func ResolveHeader(grid domain.Grid, file string, groups []ColumnGroup) (*Header, error) {
	limit := len(grid)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		lowered := make([]string, len(grid[i]))
		for j, cell := range grid[i] {
			lowered[j] = strings.ToLower(strings.TrimSpace(CellString(cell)))
		}

		if !rowSatisfies(lowered, groups) {
			continue
		}

		h := &Header{
			Row:     i,
			Cells:   make([]string, len(grid[i])),
			columns: make(map[string]int, len(groups)),
		}
		for j, cell := range grid[i] {
			h.Cells[j] = strings.TrimSpace(CellString(cell))
		}
		for _, g := range groups {
			h.columns[g.Name] = findSynonym(lowered, g.Synonyms)
		}
		return h, nil
	}

	required := make([]string, 0, len(groups))
	for _, g := range groups {
		if !g.Optional {
			// The first synonym is the canonical column name.
			required = append(required, g.Synonyms[0])
		}
	}
	return nil, errors.NewMissingHeaderError(file, required)
}

// Column returns the resolved index of a logical column, or NoColumn when an
// optional column is absent.
func (h *Header) Column(name string) int {
	if idx, ok := h.columns[name]; ok {
		return idx
	}
	return NoColumn
}

// FindColumn returns the first column whose lower-cased trimmed header cell
// satisfies the predicate, or NoColumn. Used for heuristic matches such as
// "any header containing age".
func (h *Header) FindColumn(match func(lowered string) bool) int {
	for j, cell := range h.Cells {
		if match(strings.ToLower(cell)) {
			return j
		}
	}
	return NoColumn
}

func rowSatisfies(lowered []string, groups []ColumnGroup) bool {
	for _, g := range groups {
		if g.Optional {
			continue
		}
		if findSynonym(lowered, g.Synonyms) == NoColumn {
			return false
		}
	}
	return true
}

func findSynonym(lowered []string, synonyms []string) int {
	for j, cell := range lowered {
		for _, syn := range synonyms {
			if cell == strings.ToLower(syn) {
				return j
			}
		}
	}
	return NoColumn
}
