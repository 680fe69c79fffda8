package models

import "fmt"

// Token is the chain family of a tracked wallet.
type Token string

const (
	TokenBTC  Token = "btc"
	TokenETH  Token = "eth"
	TokenTON  Token = "ton"
	TokenTRON Token = "tron"
)

// AllTokens lists the supported chain families in report order.
var AllTokens = []Token{TokenBTC, TokenETH, TokenTON, TokenTRON}

// ParseToken validates a user-supplied token string.
func ParseToken(s string) (Token, error) {
	switch Token(s) {
	case TokenBTC, TokenETH, TokenTON, TokenTRON:
		return Token(s), nil
	}
	return "", fmt.Errorf("unknown token %q, allowed: btc, eth, ton, tron", s)
}
