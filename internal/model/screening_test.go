package model

import (
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseScreening(t *testing.T) {
    doc := `{
        "titulo": "Duna",
        "horario": "20:30",
        "sinopse": "Arrakis.",
        "dataLancamento": "2021-10-21",
        "direcao": "Denis Villeneuve",
        "preco": 25.5,
        "lugares": [{"id": 1, "reservado": false}, {"id": "B2", "reservado": true}]
    }`
    s, err := ParseScreening([]byte(doc))
    require.NoError(t, err)
    assert.Equal(t, "Duna", s.Title)
    assert.Equal(t, int64(2550), s.PriceCents())
    assert.Equal(t, SeatID("1"), s.Seats[0].ID)
    assert.Equal(t, SeatID("B2"), s.Seats[1].ID)
    assert.True(t, s.Seats[1].Reserved)

    d, ok := s.Seat("B2")
    assert.True(t, ok)
    assert.True(t, d.Reserved)
    _, ok = s.Seat("Z9")
    assert.False(t, ok)
}

func TestSeatIDNumbers(t *testing.T) {
    tests := []struct {
        raw  string
        want SeatID
    }{
        {`12`, "12"},
        {`12.0`, "12"},
        {`1.2e1`, "12"},
        {`-0`, "0"},
        {`12.5`, "12.5"},
        {`" A1 "`, "A1"},
    }
    for _, tc := range tests {
        t.Run(tc.raw, func(t *testing.T) {
            var id SeatID
            require.NoError(t, id.UnmarshalJSON([]byte(tc.raw)))
            assert.Equal(t, tc.want, id)
        })
    }

    var id SeatID
    assert.Error(t, id.UnmarshalJSON([]byte(`true`)))
}

func TestParseScreening_EquivalentNumericIDsCollide(t *testing.T) {
    doc := `{"titulo": "x", "preco": 10, "lugares": [{"id": 12}, {"id": 12.0}]}`
    _, err := ParseScreening([]byte(doc))
    assert.ErrorIs(t, err, ErrInvalidScreening)
}

func TestValidate(t *testing.T) {
    seats := []SeatDescriptor{{ID: "1"}, {ID: "2"}}
    tests := []struct {
        name    string
        s       *Screening
        wantErr bool
    }{
        {name: "valid", s: &Screening{Title: "x", Price: 10, Seats: seats}},
        {name: "nil record", s: nil, wantErr: true},
        {name: "missing title", s: &Screening{Price: 10, Seats: seats}, wantErr: true},
        {name: "zero price", s: &Screening{Title: "x", Seats: seats}, wantErr: true},
        {name: "negative price", s: &Screening{Title: "x", Price: -1, Seats: seats}, wantErr: true},
        {name: "no seats", s: &Screening{Title: "x", Price: 10}, wantErr: true},
        {name: "empty seat id", s: &Screening{Title: "x", Price: 10, Seats: []SeatDescriptor{{ID: ""}}}, wantErr: true},
        {name: "duplicate seat id", s: &Screening{Title: "x", Price: 10, Seats: []SeatDescriptor{{ID: "1"}, {ID: "1"}}}, wantErr: true},
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            err := tc.s.Validate()
            if !tc.wantErr {
                assert.NoError(t, err)
                return
            }
            assert.True(t, errors.Is(err, ErrInvalidScreening), "got %v", err)
        })
    }
}

func TestParseScreening_Malformed(t *testing.T) {
    _, err := ParseScreening([]byte(`{"titulo": `))
    assert.ErrorIs(t, err, ErrInvalidScreening)

    _, err = ParseScreening([]byte(`{"titulo": "x", "preco": 10, "lugares": [{"id": true}]}`))
    assert.ErrorIs(t, err, ErrInvalidScreening)
}
