package gmail

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist/internal/config"
)

const sampleRaw = "From: Chef <chef@example.com>\r\n" +
	"Subject: Plan de repas\r\n" +
	"Date: Mon, 12 Jan 2026 08:30:00 -0500\r\n" +
	"Message-ID: <plan-3@example.com>\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
	"- 500 g carottes\r\n"

func TestDecodeBase64URL(t *testing.T) {
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding} {
		got, err := decodeBase64URL(enc.EncodeToString([]byte(sampleRaw)))
		require.NoError(t, err)
		assert.Equal(t, sampleRaw, string(got))
	}
	_, err := decodeBase64URL("***")
	assert.Error(t, err)
}

func TestToFetchedReadsHeaders(t *testing.T) {
	fetched := toFetched("18c0ffee", 0, []byte(sampleRaw))
	assert.Equal(t, Provider, fetched.Provider)
	assert.Equal(t, "<plan-3@example.com>", fetched.MessageID)
	assert.Equal(t, "Plan de repas", fetched.Subject)
	assert.Equal(t, "Chef <chef@example.com>", fetched.From)
	assert.Equal(t, "2026-01-12T13:30:00Z", fetched.ReceivedAt)
}

func TestToFetchedFallsBackToGmailFields(t *testing.T) {
	raw := "Subject: Sans date\r\n\r\nsel\r\n"
	fetched := toFetched("18c0ffee", 1768224600000, []byte(raw))
	assert.Equal(t, "18c0ffee", fetched.MessageID)
	assert.Equal(t, "2026-01-12T13:30:00Z", fetched.ReceivedAt)
}

func TestNewConnectorRequiresCredentials(t *testing.T) {
	_, err := NewConnector(context.Background(), config.Config{GmailClientID: "id"})
	assert.ErrorContains(t, err, "GMAIL_CLIENT_SECRET")
}
