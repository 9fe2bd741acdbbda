package eventbus

import (
	"testing"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeNow() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	original := sampleTransactionEvent()

	raw, err := encodeEnvelope(original)
	require.NoError(t, err)

	decoded, err := decodeEnvelope(raw)
	require.NoError(t, err)
	txEvt, ok := decoded.(*events.TransactionEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID, txEvt.EventID)
	assert.Equal(t, "A1", txEvt.AccountNumber)
	assert.Equal(t, account.Withdraw, txEvt.TransactionType)
	assert.True(t, txEvt.Balance.Equal(decimal.NewFromInt(60)))
	assert.True(t, txEvt.Delta.Equal(decimal.NewFromInt(-40)))
}

func TestEnvelope_DecodeErrors(t *testing.T) {
	_, err := decodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = decodeEnvelope([]byte(`{"type":"nope","payload":{}}`))
	assert.ErrorContains(t, err, "unknown event type")
}
