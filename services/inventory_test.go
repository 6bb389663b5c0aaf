package services

import (
	"os"
	"sync"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sparetrack/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	_ = godotenv.Load("../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping database tests")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.InventoryItem{}, &models.Transaction{}))

	// Truncate tables to ensure clean state
	require.NoError(t, db.Exec("TRUNCATE TABLE inventory_items, transactions RESTART IDENTITY").Error)

	return db
}

func seedItem(t *testing.T, svc *InventoryService, name string, available int) {
	_, err := svc.Create(NewItemInput{
		Name:          name,
		Make:          "SKF",
		Model:         "6204-2RS",
		Specification: "20x47x14mm sealed",
		Rack:          "A1",
		Bin:           "03",
		Available:     available,
	}, "admin")
	require.NoError(t, err)
}

func ledgerRows(t *testing.T, db *gorm.DB, txType models.TransactionType, item string) []models.Transaction {
	var rows []models.Transaction
	require.NoError(t, db.Where("type = ? AND item_name = ?", txType, item).Find(&rows).Error)
	return rows
}

func TestCreateRecordsLedgerEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "Bearing 6204", 10)

	item, err := svc.Get("BEARING 6204")
	require.NoError(t, err)
	assert.Equal(t, "bearing 6204", item.Name)
	assert.Equal(t, 10, item.Available)
	assert.Equal(t, 0, item.QuantityTaken)
	assert.Equal(t, 10, item.CurrentStock())

	rows := ledgerRows(t, db, models.TransactionNewItem, "bearing 6204")
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Quantity)
	assert.Equal(t, "admin", rows[0].User)
}

func TestCreateDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)

	_, err := svc.Create(NewItemInput{Name: "Bearing 6204", Available: 5}, "admin")
	assert.ErrorIs(t, err, ErrDuplicateName)

	// The failed create must not leave a ledger entry behind
	rows := ledgerRows(t, db, models.TransactionNewItem, "bearing 6204")
	assert.Len(t, rows, 1)
}

func TestTakeUpdatesCountersAndLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)

	item, err := svc.Take("bearing 6204", 4, "ravi")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Available)
	assert.Equal(t, 4, item.QuantityTaken)
	assert.Equal(t, 6, item.CurrentStock())
	assert.Equal(t, "ravi", item.UpdatedBy)

	rows := ledgerRows(t, db, models.TransactionTake, "bearing 6204")
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, "ravi", rows[0].User)
}

func TestTakeInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)

	_, err := svc.Take("bearing 6204", 4, "ravi")
	require.NoError(t, err)

	// Current stock is 6, taking 7 must fail and change nothing
	_, err = svc.Take("bearing 6204", 7, "ravi")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	item, err := svc.Get("bearing 6204")
	require.NoError(t, err)
	assert.Equal(t, 4, item.QuantityTaken)

	rows := ledgerRows(t, db, models.TransactionTake, "bearing 6204")
	assert.Len(t, rows, 1)
}

func TestTakeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)

	_, err := svc.Take("bearing 6204", 0, "ravi")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Take("missing item", 1, "ravi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestockAddsDelta(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)
	_, err := svc.Take("bearing 6204", 4, "ravi")
	require.NoError(t, err)

	item, err := svc.Restock("bearing 6204", 5, "admin")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Available)
	assert.Equal(t, 4, item.QuantityTaken)
	assert.Equal(t, 11, item.CurrentStock())

	rows := ledgerRows(t, db, models.TransactionAdd, "bearing 6204")
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestDeleteRecordsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)
	_, err := svc.Take("bearing 6204", 3, "ravi")
	require.NoError(t, err)

	require.NoError(t, svc.Delete("bearing 6204", "admin"))

	_, err = svc.Get("bearing 6204")
	assert.ErrorIs(t, err, ErrNotFound)

	rows := ledgerRows(t, db, models.TransactionDeleteItem, "bearing 6204")
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].Quantity) // current stock at deletion

	assert.ErrorIs(t, svc.Delete("bearing 6204", "admin"), ErrNotFound)
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)
	seedItem(t, svc, "v-belt b42", 5)

	// Empty term returns empty result, not the full list
	items, err := svc.Search("")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.Search("  ")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Case-insensitive substring match on name
	items, err = svc.Search("BEAR")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bearing 6204", items[0].Name)

	// Matches on make/model/specification too
	items, err = svc.Search("skf")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.Search("47x14")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.Search("no such thing")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConcurrentTakesCannotOverdraw(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db, nil)

	seedItem(t, svc, "bearing 6204", 10)

	// 6 + 7 > 10: at most one of these takes may succeed
	var wg sync.WaitGroup
	errs := make([]error, 2)
	quantities := []int{6, 7}
	for i, qty := range quantities {
		wg.Add(1)
		go func(i, qty int) {
			defer wg.Done()
			_, errs[i] = svc.Take("bearing 6204", qty, "ravi")
		}(i, qty)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)

	item, err := svc.Get("bearing 6204")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, item.CurrentStock(), 0)

	rows := ledgerRows(t, db, models.TransactionTake, "bearing 6204")
	assert.Len(t, rows, succeeded)
}
