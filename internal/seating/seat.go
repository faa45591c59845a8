// Package seating owns seat selection for a single screening: which seats
// are selected, the visual variant of each seat and the derived total.
package seating

import "github.com/iliyamo/cinema-seat-picker/internal/model"

// Variant is the mutually exclusive visual state of a seat.
type Variant string

const (
    VariantFree     Variant = "free"
    VariantSelected Variant = "selected"
    VariantReserved Variant = "reserved"
)

// VariantOf renders a seat purely from its inputs.  Reserved wins over
// selected.
func VariantOf(reserved, selected bool) Variant {
    switch {
    case reserved:
        return VariantReserved
    case selected:
        return VariantSelected
    default:
        return VariantFree
    }
}

// SeatView is what the grid needs to draw one cell.
type SeatView struct {
    ID       model.SeatID `json:"id"`
    Reserved bool         `json:"reserved"`
    Selected bool         `json:"selected"`
    Variant  Variant      `json:"variant"`
}
