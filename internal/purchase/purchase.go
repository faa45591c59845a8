// Package purchase holds the purchase button view model and the outcome of a
// purchase confirmation.
package purchase

import "fmt"

// Kind tags the result of a purchase confirmation.
type Kind string

const (
    KindSuccess         Kind = "success"
    KindNoSeatsSelected Kind = "no_seats_selected"
)

const (
    msgSuccess         = "Compra realizada com sucesso!"
    msgNoSeatsSelected = "Nenhum assento selecionado."
)

// Outcome is returned instead of raising a dialog so the presentation layer
// decides how to surface it.
type Outcome struct {
    Kind       Kind   `json:"outcome"`
    Message    string `json:"message"`
    TotalCents int64  `json:"total_cents"`
    TotalLabel string `json:"total"`
}

// Decide maps a total to its outcome.  Any positive total is a success.
func Decide(totalCents int64) Outcome {
    o := Outcome{TotalCents: totalCents, TotalLabel: FormatCents(totalCents)}
    if totalCents > 0 {
        o.Kind, o.Message = KindSuccess, msgSuccess
    } else {
        o.Kind, o.Message = KindNoSeatsSelected, msgNoSeatsSelected
    }
    return o
}

// OK reports whether the purchase went through.
func (o Outcome) OK() bool { return o.Kind == KindSuccess }

// Button is the stateless purchase control.  It shows whatever total it is
// given; sign validation is the page's job.
type Button struct {
    TotalCents int64
}

// Label is the fixed caption of the button.
func (b Button) Label() string { return "Comprar" }

// Price is the currency-formatted total shown next to the label.
func (b Button) Price() string { return FormatCents(b.TotalCents) }

// FormatCents renders cents as a fixed-point amount with two fraction digits.
func FormatCents(cents int64) string {
    sign := ""
    if cents < 0 {
        sign = "-"
        cents = -cents
    }
    return fmt.Sprintf("R$ %s%d.%02d", sign, cents/100, cents%100)
}
