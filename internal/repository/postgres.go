package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/custos-watch/custos/internal/models"
	"github.com/custos-watch/custos/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard logger
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,                   // Suppress "record not found" errors
			Colorful:                  true,                   // Enable colorful logs
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(&models.Wallet{}, &models.Balance{}, &models.CryptoFlow{}, &models.Currency{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) AddWallet(wallet *models.Wallet) error {
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now().UTC()
	}
	if err := db.Conn.Create(wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrWalletExists
		}
		return fmt.Errorf("failed to create new wallet: %s", err)
	}

	return nil
}

// RemoveWallet deletes a wallet and its balance observations. Flow records
// are kept so inflow statistics survive wallet rotation.
func (db *PostgresDB) RemoveWallet(address string, token models.Token) (bool, error) {
	var wallet models.Wallet
	if err := db.Conn.Where("address = ? AND token = ?", address, token).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up wallet: %s", err)
	}

	if err := db.Conn.Where("wallet_id = ?", wallet.ID).Delete(&models.Balance{}).Error; err != nil {
		return false, fmt.Errorf("failed to delete wallet balances: %s", err)
	}
	if err := db.Conn.Delete(&wallet).Error; err != nil {
		return false, fmt.Errorf("failed to delete wallet: %s", err)
	}

	return true, nil
}

func (db *PostgresDB) ListWallets() ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	if err := db.Conn.Order("id").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %s", err)
	}

	return wallets, nil
}

func (db *PostgresDB) AddBalance(balance *models.Balance) error {
	if err := db.Conn.Create(balance).Error; err != nil {
		return fmt.Errorf("failed to record balance observation: %s", err)
	}

	return nil
}

// LastTwoBalances returns up to two most recent observations for a wallet,
// newest first.
func (db *PostgresDB) LastTwoBalances(walletID int64) ([]*models.Balance, error) {
	var balances []*models.Balance
	if err := db.Conn.Where("wallet_id = ?", walletID).
		Order("observed_at DESC").Order("id DESC").
		Limit(2).Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("failed to get last balances: %s", err)
	}

	return balances, nil
}

func (db *PostgresDB) LatestBalances() ([]*models.BalanceExport, error) {
	var rows []*models.BalanceExport
	if err := db.Conn.Model(&models.Balance{}).
		Select("wallets.address, wallets.token, balances.amount, balances.usd_value, balances.observed_at").
		Joins("JOIN wallets ON wallets.id = balances.wallet_id").
		Where("balances.id IN (SELECT MAX(id) FROM balances GROUP BY wallet_id)").
		Order("wallets.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest balances: %s", err)
	}

	return rows, nil
}

func (db *PostgresDB) BalanceHistory() ([]*models.BalanceExport, error) {
	var rows []*models.BalanceExport
	if err := db.Conn.Model(&models.Balance{}).
		Select("wallets.address, wallets.token, balances.amount, balances.usd_value, balances.observed_at").
		Joins("JOIN wallets ON wallets.id = balances.wallet_id").
		Order("balances.observed_at").Order("balances.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get balance history: %s", err)
	}

	return rows, nil
}

func (db *PostgresDB) AddFlow(flow *models.CryptoFlow) error {
	if err := db.Conn.Create(flow).Error; err != nil {
		return fmt.Errorf("failed to record crypto flow: %s", err)
	}

	return nil
}

func (db *PostgresDB) RecentFlows(limit int) ([]*models.CryptoFlow, error) {
	var flows []*models.CryptoFlow
	if err := db.Conn.Order("created_at DESC").Order("id DESC").
		Limit(limit).Find(&flows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent flows: %s", err)
	}

	return flows, nil
}

// InflowSince sums the USD value of positive deltas recorded since the given
// time.
func (db *PostgresDB) InflowSince(since time.Time) (float64, error) {
	var total *float64
	if err := db.Conn.Model(&models.CryptoFlow{}).
		Select("SUM(usd_value)").
		Where("usd_value > 0 AND created_at >= ?", since).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum inflows: %s", err)
	}
	if total == nil {
		return 0, nil
	}

	return *total, nil
}

func (db *PostgresDB) UpsertCurrency(coin string, price float64) error {
	currency := models.Currency{Coin: coin, Price: price, UpdatedAt: time.Now().UTC()}
	if err := db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coin"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&currency).Error; err != nil {
		return fmt.Errorf("failed to upsert currency price: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetCurrency(coin string) (*models.Currency, error) {
	var currency models.Currency
	if err := db.Conn.Where("coin = ?", coin).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get currency price: %s", err)
	}

	return &currency, nil
}

func (db *PostgresDB) GetOrCreateUser(chatID int64) (*models.User, error) {
	var user models.User
	err := db.Conn.Where("chat_id = ?", chatID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %s", err)
	}

	user = models.User{ChatID: chatID, CreatedAt: time.Now().UTC()}
	if err := db.Conn.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %s", err)
	}

	return &user, nil
}

func (db *PostgresDB) ActivateUser(chatID int64) error {
	if err := db.Conn.Model(&models.User{}).Where("chat_id = ?", chatID).Update("is_active", true).Error; err != nil {
		return fmt.Errorf("failed to activate user: %s", err)
	}

	return nil
}

func (db *PostgresDB) ActiveUsers() ([]*models.User, error) {
	var users []*models.User
	if err := db.Conn.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get active users: %s", err)
	}

	return users, nil
}
