package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sparetrack/backend/models"
	"gorm.io/gorm"
)

// LedgerService reads and clears the append-only transaction ledger.
// Appending happens inside InventoryService's database transactions;
// Record exists for callers that manage their own transaction.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// LedgerFilter narrows a ledger query. Zero values mean "no filter".
type LedgerFilter struct {
	ItemName string
	Type     models.TransactionType
	User     string
	Limit    int
	Offset   int
}

// LedgerPage is the {total, data} contract of the history endpoint.
type LedgerPage struct {
	Total int64                `json:"total"`
	Data  []models.Transaction `json:"data"`
}

// Record appends one transaction. Only schema validation is applied: the
// type must be a known enum value and the quantity non-negative.
func (s *LedgerService) Record(tx *gorm.DB, entry *models.Transaction) error {
	if tx == nil {
		tx = s.db
	}
	if !entry.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, entry.Type)
	}
	if entry.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return tx.Create(entry).Error
}

// Query returns filtered transactions, newest first.
func (s *LedgerService) Query(filter LedgerFilter) (*LedgerPage, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := s.db.Model(&models.Transaction{})
	if filter.ItemName != "" {
		query = query.Where("item_name ILIKE ?", "%"+strings.ToLower(filter.ItemName)+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.User != "" {
		query = query.Where("username = ?", filter.User)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	transactions := []models.Transaction{}
	err := query.Order("timestamp DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	return &LedgerPage{Total: total, Data: transactions}, nil
}

// QueryMonth returns every transaction whose timestamp falls within the
// given calendar month (month is 1-12).
func (s *LedgerService) QueryMonth(month time.Month, year int) ([]models.Transaction, error) {
	if month < time.January || month > time.December || year <= 0 {
		return nil, fmt.Errorf("%w: invalid month or year", ErrValidation)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	transactions := []models.Transaction{}
	err := s.db.
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query month: %w", err)
	}
	return transactions, nil
}

// Clear wipes the whole ledger. Irreversible, admin only.
func (s *LedgerService) Clear() error {
	err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Transaction{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}
