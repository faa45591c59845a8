package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    ev := PurchaseConfirmedEvent{
        SessionID:        "01HX",
        MovieTitle:       "Interestelar",
        Showtime:         "19:40",
        SeatIDs:          []string{"1", "2"},
        TotalAmountCents: 5000,
        ConfirmedAt:      "2024-01-01T00:00:00Z",
    }
    body, err := json.Marshal(ev)
    require.NoError(t, err)

    require.NoError(t, handleMessage(dir, body))
    require.NoError(t, handleMessage(dir, body))

    data, err := os.ReadFile(filepath.Join(dir, "purchase.log"))
    require.NoError(t, err)
    want := "[2024-01-01T00:00:00Z] Purchase confirmed | session_id=01HX | movie=\"Interestelar\" | showtime=\"19:40\" | total=5000 cents | seats=[1,2]\n"
    assert.Equal(t, want+want, string(data))
}

func TestHandleMessage_RejectsGarbage(t *testing.T) {
    assert.Error(t, handleMessage(t.TempDir(), []byte("{not json")))
}
