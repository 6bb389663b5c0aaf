package services

import (
	"testing"
	"time"

	"github.com/sparetrack/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidation(t *testing.T) {
	svc := NewLedgerService(nil)

	err := svc.Record(nil, &models.Transaction{Type: "refund", ItemName: "x", Quantity: 1, User: "ravi"})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Record(nil, &models.Transaction{Type: models.TransactionTake, ItemName: "x", Quantity: -1, User: "ravi"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestQueryMonthValidation(t *testing.T) {
	svc := NewLedgerService(nil)

	_, err := svc.QueryMonth(0, 2025)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.QueryMonth(13, 2025)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.QueryMonth(time.March, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func seedLedger(t *testing.T, svc *LedgerService, entries []models.Transaction) {
	for i := range entries {
		require.NoError(t, svc.Record(nil, &entries[i]))
	}
}

func TestQueryFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	now := time.Now().UTC()
	seedLedger(t, svc, []models.Transaction{
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 4, User: "ravi", Timestamp: now.Add(-3 * time.Hour)},
		{Type: models.TransactionTake, ItemName: "v-belt b42", Quantity: 2, User: "anita", Timestamp: now.Add(-2 * time.Hour)},
		{Type: models.TransactionAdd, ItemName: "bearing 6204", Quantity: 10, User: "admin", Timestamp: now.Add(-1 * time.Hour)},
	})

	page, err := svc.Query(LedgerFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Data, 3)
	// Newest first
	assert.Equal(t, models.TransactionAdd, page.Data[0].Type)

	page, err = svc.Query(LedgerFilter{ItemName: "BEARING"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.Query(LedgerFilter{Type: models.TransactionTake, User: "anita"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "v-belt b42", page.Data[0].ItemName)

	page, err = svc.Query(LedgerFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Data, 2)

	page, err = svc.Query(LedgerFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestQueryMonthWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	seedLedger(t, svc, []models.Transaction{
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 1, User: "ravi",
			Timestamp: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 2, User: "ravi",
			Timestamp: time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)},
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 3, User: "ravi",
			Timestamp: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 4, User: "ravi",
			Timestamp: time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC)},
	})

	transactions, err := svc.QueryMonth(time.March, 2025)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	report := Summarize(transactions)
	assert.Equal(t, 3, report.Summary.TotalItemsTaken)
}

func TestClear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLedgerService(db)

	seedLedger(t, svc, []models.Transaction{
		{Type: models.TransactionTake, ItemName: "bearing 6204", Quantity: 1, User: "ravi"},
		{Type: models.TransactionAdd, ItemName: "bearing 6204", Quantity: 5, User: "admin"},
	})

	require.NoError(t, svc.Clear())

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
