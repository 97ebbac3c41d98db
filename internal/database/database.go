// Package database keeps a local archive of trades observed on the remote
// bot, so the history survives dashboard restarts even though the bot only
// reports a rolling log. The view model is never restored from here; the
// archive is write-through bookkeeping only.
package database

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/web3guy0/algodash/internal/model"
)

type Database struct {
	db *gorm.DB
}

// TradeRecord is one archived trade. The remote bot assigns no IDs, so
// (time, action, price) identifies an entry; re-observing the same rolling
// log on every poll is a no-op.
type TradeRecord struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	TradeTime string          `gorm:"uniqueIndex:idx_trade_identity"`
	Action    string          `gorm:"uniqueIndex:idx_trade_identity"` // "BUY" or "SELL"
	Price     decimal.Decimal `gorm:"uniqueIndex:idx_trade_identity;type:decimal(20,6)"`
	RSI       *float64
	MACD      *float64
	WalletUSD decimal.Decimal `gorm:"type:decimal(20,2)"`
	WalletBTC decimal.Decimal `gorm:"type:decimal(20,6)"`
	CreatedAt time.Time
}

// New opens the archive. A postgres:// or postgresql:// path selects
// PostgreSQL; anything else is treated as a SQLite file path.
func New(dbPath string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(dbPath, "postgres://") || strings.HasPrefix(dbPath, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Trade archive connected (PostgreSQL)")
	} else {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", dbPath).Msg("Trade archive initialized (SQLite)")
	}

	if err := db.AutoMigrate(&TradeRecord{}); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// ArchiveTrades upserts a batch of trade log entries. Entries already
// archived are skipped.
func (d *Database) ArchiveTrades(entries []model.TradeLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]TradeRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, TradeRecord{
			TradeTime: e.Time,
			Action:    e.Action,
			Price:     e.Price,
			RSI:       e.RSI,
			MACD:      e.MACD,
			WalletUSD: e.Wallet.USD,
			WalletBTC: e.Wallet.BTC,
		})
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error
}

// RecentTrades returns the newest archived trades, newest first.
func (d *Database) RecentTrades(limit int) ([]TradeRecord, error) {
	var records []TradeRecord
	err := d.db.Order("id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// Stats summarizes the archive.
func (d *Database) Stats() (map[string]interface{}, error) {
	var total, buys, sells int64
	if err := d.db.Model(&TradeRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&TradeRecord{}).Where("action = ?", "BUY").Count(&buys).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&TradeRecord{}).Where("action = ?", "SELL").Count(&sells).Error; err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total": total,
		"buys":  buys,
		"sells": sells,
	}, nil
}
