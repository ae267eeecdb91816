package model

import (
	"encoding/json"
	"strconv"
)

// Cell is a numeric spreadsheet value that may be absent.
type Cell struct {
	v     float64
	valid bool
}

// Number returns a cell holding v.
func Number(v float64) Cell { return Cell{v: v, valid: true} }

// Null returns an empty cell.
func Null() Cell { return Cell{} }

// Value returns the number and whether the cell holds one.
func (c Cell) Value() (float64, bool) { return c.v, c.valid }

// IsNull reports whether the cell is empty.
func (c Cell) IsNull() bool { return !c.valid }

func (c Cell) String() string {
	if !c.valid {
		return "null"
	}
	return strconv.FormatFloat(c.v, 'g', -1, 64)
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.v)
}
