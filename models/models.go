package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// TransactionType enum
type TransactionType string

const (
	TransactionTake       TransactionType = "take"
	TransactionAdd        TransactionType = "add"
	TransactionNewItem    TransactionType = "new_item"
	TransactionDeleteItem TransactionType = "delete_item"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTake, TransactionAdd, TransactionNewItem, TransactionDeleteItem:
		return true
	}
	return false
}

// JSONB type for GORM - can handle both objects and arrays
// Using a pointer to interface{} so we can implement both Value() and Scan()
type JSONB struct {
	Data interface{} `json:"-"`
}

// NewJSONB creates a new JSONB from any value
func NewJSONB(v interface{}) JSONB {
	return JSONB{Data: v}
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if j.Data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(j.Data)
}

func (j JSONB) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	return json.Marshal(j.Data)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		j.Data = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j.Data)
}

// InventoryItem model. Name is the primary key and is always stored
// lowercase so lookups stay case-insensitive.
type InventoryItem struct {
	Name          string `gorm:"primaryKey;column:name" json:"name"`
	Make          string `gorm:"column:make" json:"make"`
	Model         string `gorm:"column:model" json:"model"`
	Specification string `gorm:"column:specification" json:"specification"`
	Rack          string `gorm:"column:rack" json:"rack"`
	Bin           string `gorm:"column:bin" json:"bin"`

	// Available is the cumulative stock admins have provisioned,
	// QuantityTaken the cumulative amount withdrawn. The live stock
	// level is always the difference of the two.
	Available     int `gorm:"column:available;not null;default:0" json:"available"`
	QuantityTaken int `gorm:"column:quantity_taken;not null;default:0" json:"quantityTaken"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updatedBy"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// CurrentStock returns the quantity actually sitting on the shelf.
func (i InventoryItem) CurrentStock() int {
	return i.Available - i.QuantityTaken
}

// MarshalJSON adds the derived currentStock field to item responses
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type alias InventoryItem
	return json.Marshal(struct {
		alias
		CurrentStock int `json:"currentStock"`
	}{alias(i), i.CurrentStock()})
}

// Transaction model - append-only audit record of one inventory mutation.
// Rows are never updated or deleted individually, only bulk-cleared.
type Transaction struct {
	ID        int64           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Type      TransactionType `gorm:"column:type;not null" json:"type"`
	ItemName  string          `gorm:"column:item_name;index;not null" json:"itemName"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	User      string          `gorm:"column:username;not null" json:"user"`
	Timestamp time.Time       `gorm:"column:timestamp;index;default:CURRENT_TIMESTAMP" json:"timestamp"`
	Details   JSONB           `gorm:"type:jsonb;column:details" json:"details"`
}

func (Transaction) TableName() string {
	return "transactions"
}
