// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseQueueName is the durable queue carrying confirmed purchases.
const PurchaseQueueName = "purchase.confirmed"

// PurchaseConfirmedEvent is published when a page confirms a purchase with at
// least one seat selected.  It carries enough for downstream consumers to
// log or notify without looking at the session store.
type PurchaseConfirmedEvent struct {
    SessionID         string   `json:"session_id"`
    MovieTitle        string   `json:"movie_title"`
    Showtime          string   `json:"showtime"`
    SeatIDs           []string `json:"seats"`
    PricePerSeatCents int64    `json:"price_per_seat_cents"`
    TotalAmountCents  int64    `json:"total_amount_cents"`
    ConfirmedAt       string   `json:"confirmed_at"`
}
