package models

import (
	"errors"
	"time"
)

// ErrWalletExists is returned when an administrator adds a wallet that is
// already tracked.
var ErrWalletExists = errors.New("wallet already exists")

type Repository interface {
	AddWallet(wallet *Wallet) error
	RemoveWallet(address string, token Token) (bool, error)
	ListWallets() ([]*Wallet, error)

	AddBalance(balance *Balance) error
	LastTwoBalances(walletID int64) ([]*Balance, error)
	LatestBalances() ([]*BalanceExport, error)
	BalanceHistory() ([]*BalanceExport, error)

	AddFlow(flow *CryptoFlow) error
	RecentFlows(limit int) ([]*CryptoFlow, error)
	InflowSince(since time.Time) (float64, error)

	UpsertCurrency(coin string, price float64) error
	GetCurrency(coin string) (*Currency, error)

	GetOrCreateUser(chatID int64) (*User, error)
	ActivateUser(chatID int64) error
	ActiveUsers() ([]*User, error)

	Close() error
}
