package notificator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custos-watch/custos/internal/models"
)

func TestParseWalletSpec(t *testing.T) {
	address, token, err := parseWalletSpec("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa btc")
	require.NoError(t, err)
	require.Equal(t, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", address)
	require.Equal(t, models.TokenBTC, token)
}

func TestParseWalletSpecUppercaseToken(t *testing.T) {
	_, token, err := parseWalletSpec("TQn9Y2khEsLJW1ChVWFMSMeRDow5KcbLSE TRON")
	require.NoError(t, err)
	require.Equal(t, models.TokenTRON, token)
}

func TestParseWalletSpecRejectsUnknownToken(t *testing.T) {
	_, _, err := parseWalletSpec("addr doge")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown token")
}

func TestParseWalletSpecRejectsBadShape(t *testing.T) {
	for _, input := range []string{"", "only-address", "a b c"} {
		_, _, err := parseWalletSpec(input)
		require.Error(t, err, input)
	}
}
