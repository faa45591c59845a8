package seating

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
    "github.com/iliyamo/cinema-seat-picker/internal/purchase"
)

func screening(price float64, seats ...model.SeatDescriptor) *model.Screening {
    return &model.Screening{Title: "Test", Price: price, Seats: seats}
}

type call struct {
    id       model.SeatID
    selected bool
}

func TestVariantOf(t *testing.T) {
    assert.Equal(t, VariantFree, VariantOf(false, false))
    assert.Equal(t, VariantSelected, VariantOf(false, true))
    assert.Equal(t, VariantReserved, VariantOf(true, false))
    assert.Equal(t, VariantReserved, VariantOf(true, true))
}

func TestClick_ReservedSeatIsInert(t *testing.T) {
    sel := NewSelection(screening(25, model.SeatDescriptor{ID: "R", Reserved: true}))
    var calls []call
    sel.OnSelect(func(id model.SeatID, s bool) { calls = append(calls, call{id, s}) })

    for i := 0; i < 5; i++ {
        now, err := sel.Click("R")
        require.NoError(t, err)
        assert.False(t, now)
        assert.False(t, sel.IsSelected("R"))
    }
    assert.Empty(t, calls)
    assert.Zero(t, sel.TotalCents())
}

func TestClick_FreeSeatAlternates(t *testing.T) {
    sel := NewSelection(screening(25, model.SeatDescriptor{ID: "A"}))
    var calls []call
    sel.OnSelect(func(id model.SeatID, s bool) { calls = append(calls, call{id, s}) })

    want := []bool{true, false, true, false}
    for _, w := range want {
        now, err := sel.Click("A")
        require.NoError(t, err)
        assert.Equal(t, w, now)
        assert.Equal(t, w, sel.IsSelected("A"))
    }
    require.Len(t, calls, len(want))
    for i, w := range want {
        assert.Equal(t, call{"A", w}, calls[i])
    }
}

func TestClick_UnknownSeat(t *testing.T) {
    sel := NewSelection(screening(25, model.SeatDescriptor{ID: "A"}))
    _, err := sel.Click("nope")
    assert.ErrorIs(t, err, ErrUnknownSeat)
}

func TestTotalTracksSelection(t *testing.T) {
    seats := []model.SeatDescriptor{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D", Reserved: true}}
    sel := NewSelection(screening(12.5, seats...))
    clicks := []model.SeatID{"A", "B", "D", "A", "C", "C", "C", "B", "D", "A"}
    for _, id := range clicks {
        _, err := sel.Click(id)
        require.NoError(t, err)
        assert.Equal(t, int64(1250)*int64(sel.Count()), sel.TotalCents())
    }
    assert.Equal(t, []model.SeatID{"A", "C"}, sel.Selected())
}

func TestWorkedExample(t *testing.T) {
    sel := NewSelection(screening(25, model.SeatDescriptor{ID: "A"}, model.SeatDescriptor{ID: "B"}, model.SeatDescriptor{ID: "C"}))

    _, _ = sel.Click("A")
    assert.Equal(t, int64(2500), sel.TotalCents())
    _, _ = sel.Click("B")
    assert.Equal(t, int64(5000), sel.TotalCents())
    _, _ = sel.Click("A")
    assert.Equal(t, int64(2500), sel.TotalCents())

    o := sel.Confirm()
    assert.Equal(t, purchase.KindSuccess, o.Kind)
    assert.Equal(t, "R$ 25.00", o.TotalLabel)
}

func TestAllReserved(t *testing.T) {
    sel := NewSelection(screening(25, model.SeatDescriptor{ID: "A", Reserved: true}, model.SeatDescriptor{ID: "B", Reserved: true}))
    for i := 0; i < 3; i++ {
        _, _ = sel.Click("A")
        _, _ = sel.Click("B")
    }
    assert.Zero(t, sel.TotalCents())
    assert.Equal(t, purchase.KindNoSeatsSelected, sel.Confirm().Kind)
}

func TestRestoreSkipsReservedAndUnknown(t *testing.T) {
    sel := NewSelection(screening(10, model.SeatDescriptor{ID: "A"}, model.SeatDescriptor{ID: "B", Reserved: true}))
    fired := false
    sel.OnSelect(func(model.SeatID, bool) { fired = true })

    sel.Restore([]model.SeatID{"A", "B", "Z"})
    assert.False(t, fired)
    assert.Equal(t, []model.SeatID{"A"}, sel.Selected())
    assert.Equal(t, int64(1000), sel.TotalCents())

    views := sel.Seats()
    require.Len(t, views, 2)
    assert.Equal(t, VariantSelected, views[0].Variant)
    assert.Equal(t, VariantReserved, views[1].Variant)
}

func TestOnSelectUnsubscribe(t *testing.T) {
    sel := NewSelection(screening(10, model.SeatDescriptor{ID: "A"}))
    n := 0
    unsub := sel.OnSelect(func(model.SeatID, bool) { n++ })
    _, _ = sel.Click("A")
    unsub()
    unsub()
    _, _ = sel.Click("A")
    assert.Equal(t, 1, n)
}
