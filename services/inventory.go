// Package services provides business logic services
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sparetrack/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerSubject is the NATS subject committed transactions are published to.
const LedgerSubject = "ledger.transactions"

// InventoryService owns every inventory mutation. All counter updates go
// through a single database transaction that locks the item row, so two
// concurrent takes on the same item can never jointly overdraw stock, and
// an item is never mutated without its ledger entry (or vice versa).
type InventoryService struct {
	db       *gorm.DB
	natsConn *nats.Conn
}

// NewInventoryService creates the service. natsConn may be nil (tests,
// cleanup command); then no ledger events are published.
func NewInventoryService(db *gorm.DB, natsConn *nats.Conn) *InventoryService {
	return &InventoryService{db: db, natsConn: natsConn}
}

// NewItemInput carries the fields of an admin add-item request.
type NewItemInput struct {
	Name          string
	Make          string
	Model         string
	Specification string
	Rack          string
	Bin           string
	Available     int
}

// List returns all inventory items sorted by name.
func (s *InventoryService) List() ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	if err := s.db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// Search matches term case-insensitively as a substring of name, make,
// model or specification. An empty term returns an empty result, not the
// full list.
func (s *InventoryService) Search(term string) ([]models.InventoryItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.InventoryItem{}, nil
	}

	pattern := "%" + term + "%"
	items := []models.InventoryItem{}
	err := s.db.
		Where("name ILIKE ? OR make ILIKE ? OR model ILIKE ? OR specification ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	return items, nil
}

// Get returns a single item by its case-insensitive name.
func (s *InventoryService) Get(name string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.First(&item, "name = ?", strings.ToLower(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

// Create adds a new item and records a new_item transaction in the same
// database transaction. Names are stored lowercase.
func (s *InventoryService) Create(input NewItemInput, username string) (*models.InventoryItem, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Available < 0 {
		return nil, fmt.Errorf("%w: available must not be negative", ErrValidation)
	}

	item := models.InventoryItem{
		Name:          name,
		Make:          input.Make,
		Model:         input.Model,
		Specification: input.Specification,
		Rack:          input.Rack,
		Bin:           input.Bin,
		Available:     input.Available,
		QuantityTaken: 0,
		UpdatedBy:     username,
	}

	var entry models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.InventoryItem{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		entry = models.Transaction{
			Type:     models.TransactionNewItem,
			ItemName: name,
			Quantity: input.Available,
			User:     username,
			Details: models.NewJSONB(map[string]interface{}{
				"make":          input.Make,
				"model":         input.Model,
				"specification": input.Specification,
				"rack":          input.Rack,
				"bin":           input.Bin,
			}),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishLedgerEvent(entry)
	return &item, nil
}

// Take withdraws quantity units of an item for any authenticated user. The
// item row is locked for the duration of the read-check-write so a stale
// stock check can never overdraw the shelf.
func (s *InventoryService) Take(name string, quantity int, username string) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity taken must be positive", ErrValidation)
	}
	name = strings.ToLower(strings.TrimSpace(name))

	var item models.InventoryItem
	var entry models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if quantity > item.CurrentStock() {
			return ErrInsufficientStock
		}

		previousTaken := item.QuantityTaken
		item.QuantityTaken += quantity
		item.UpdatedBy = username
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		entry = models.Transaction{
			Type:     models.TransactionTake,
			ItemName: item.Name,
			Quantity: quantity,
			User:     username,
			Details: models.NewJSONB(map[string]interface{}{
				"available":     item.Available,
				"previousTaken": previousTaken,
				"newTaken":      item.QuantityTaken,
			}),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishLedgerEvent(entry)
	return &item, nil
}

// Restock adds quantity units to an item's provisioned stock (admin only).
// The input is a delta, not the new absolute value.
func (s *InventoryService) Restock(name string, quantity int, username string) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	name = strings.ToLower(strings.TrimSpace(name))

	var item models.InventoryItem
	var entry models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		previousAvailable := item.Available
		item.Available += quantity
		item.UpdatedBy = username
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		entry = models.Transaction{
			Type:     models.TransactionAdd,
			ItemName: item.Name,
			Quantity: quantity,
			User:     username,
			Details: models.NewJSONB(map[string]interface{}{
				"previousAvailable": previousAvailable,
				"newAvailable":      item.Available,
			}),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishLedgerEvent(entry)
	return &item, nil
}

// Delete removes an item (admin only) and records a delete_item transaction
// holding the full item snapshot.
func (s *InventoryService) Delete(name string, username string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	var entry models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		entry = models.Transaction{
			Type:     models.TransactionDeleteItem,
			ItemName: item.Name,
			Quantity: item.CurrentStock(),
			User:     username,
			Details: models.NewJSONB(map[string]interface{}{
				"make":          item.Make,
				"model":         item.Model,
				"specification": item.Specification,
				"rack":          item.Rack,
				"bin":           item.Bin,
				"available":     item.Available,
				"quantityTaken": item.QuantityTaken,
			}),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return err
	}

	s.publishLedgerEvent(entry)
	return nil
}

// publishLedgerEvent pushes a committed transaction onto the ledger subject.
// Fire-and-forget: a dropped event never fails the mutation that caused it.
func (s *InventoryService) publishLedgerEvent(entry models.Transaction) {
	if s.natsConn == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.natsConn.Publish(LedgerSubject, data); err != nil {
		log.Printf("⚠️ Failed to publish ledger event: %v", err)
	}
}
