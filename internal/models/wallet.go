package models

import "time"

// Wallet represents a tracked (address, chain) pair whose balance is polled.
type Wallet struct {
	// ID is the unique identifier for the wallet.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the on-chain address, unique per chain family.
	Address string `json:"address" gorm:"column:address;not null;uniqueIndex:idx_wallet_address_token"`
	// Token is the chain family of the wallet (btc, eth, ton, tron).
	Token Token `json:"token" gorm:"column:token;not null;uniqueIndex:idx_wallet_address_token"`
	// CreatedAt is the date when the wallet was added by an administrator.
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// Balance is one timestamped balance observation for a wallet. Rows are
// append-only: one per wallet per poll cycle.
type Balance struct {
	// ID is the unique identifier for the observation.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// WalletID is the owning wallet.
	WalletID int64 `json:"wallet_id" gorm:"column:wallet_id;index;not null"`
	// Coin is the chain family recorded with the observation.
	Coin Token `json:"coin" gorm:"column:coin;not null"`
	// Amount is the balance in native units (BTC, ETH, TON, USDT).
	Amount float64 `json:"amount" gorm:"column:amount"`
	// USDValue is the USD valuation of Amount at observation time.
	USDValue float64 `json:"usd_value" gorm:"column:usd_value"`
	// ObservedAt is when the poll cycle read the balance.
	ObservedAt time.Time `json:"observed_at" gorm:"column:observed_at;index"`
}

// CryptoFlow is the signed change between two consecutive observations of a
// wallet. A row exists only when the amount actually changed.
type CryptoFlow struct {
	// ID is the unique identifier for the flow record.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// WalletID is the wallet the delta belongs to.
	WalletID int64 `json:"wallet_id" gorm:"column:wallet_id;index;not null"`
	// Coin is the chain family of the wallet.
	Coin Token `json:"coin" gorm:"column:coin;not null"`
	// Amount is the signed native-unit delta (current minus previous).
	Amount float64 `json:"amount" gorm:"column:amount"`
	// USDValue is the signed USD delta.
	USDValue float64 `json:"usd_value" gorm:"column:usd_value"`
	// CreatedAt is when the delta was detected.
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
}

// Currency is the last known USD spot price per coin, used as a fallback
// when the live price lookup fails.
type Currency struct {
	// Coin is the price cache key (btc, eth, ton, usdt).
	Coin string `json:"coin" gorm:"column:coin;primaryKey"`
	// Price is the USD price per native unit.
	Price float64 `json:"price" gorm:"column:price"`
	// UpdatedAt is the time of the last successful live quote.
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// User is a chat subscriber. Created lazily on first contact, activated by
// password.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// ChatID is the external chat identifier, unique per user.
	ChatID int64 `json:"chat_id" gorm:"column:chat_id;unique;not null"`
	// IsActive indicates whether the user has passed the password gate.
	IsActive bool `json:"is_active" gorm:"column:is_active;default:false"`
	// CreatedAt is the date of first contact.
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// BalanceExport is a balance observation joined with its wallet, as written
// to the CSV export.
type BalanceExport struct {
	Address    string    `json:"address"`
	Token      Token     `json:"token"`
	Amount     float64   `json:"amount"`
	USDValue   float64   `json:"usd_value"`
	ObservedAt time.Time `json:"observed_at"`
}
