package services

import (
	"sort"

	"github.com/sparetrack/backend/models"
)

// MonthlySummary aggregates one month of ledger activity.
type MonthlySummary struct {
	TotalTransactions int `json:"totalTransactions"`
	TotalItemsTaken   int `json:"totalItemsTaken"`
	TotalItemsAdded   int `json:"totalItemsAdded"`
	UniqueItems       int `json:"uniqueItems"`
	ActiveUsers       int `json:"activeUsers"`
}

// ItemConsumption is one row of the top-consumed-items ranking.
type ItemConsumption struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// UserActivity is one row of the per-user consumption ranking.
type UserActivity struct {
	User     string `json:"user"`
	Quantity int    `json:"quantity"`
}

// MonthlyReport is the full payload of the history report endpoint.
type MonthlyReport struct {
	Summary      MonthlySummary       `json:"summary"`
	TopItems     []ItemConsumption    `json:"topItems"`
	UserActivity []UserActivity       `json:"userActivity"`
	Transactions []models.Transaction `json:"transactions"`
}

// topItemsLimit caps the consumption ranking, matching the original
// ten-row "top items" list.
const topItemsLimit = 10

// Summarize reduces a transaction set to its monthly report. Pure and
// deterministic: rankings sort by quantity descending with name ascending
// as the tiebreak, so the same input set always yields the same output
// regardless of ordering.
func Summarize(transactions []models.Transaction) MonthlyReport {
	summary := MonthlySummary{TotalTransactions: len(transactions)}

	uniqueItems := make(map[string]bool)
	activeUsers := make(map[string]bool)
	itemConsumption := make(map[string]int)
	userConsumption := make(map[string]int)

	for _, t := range transactions {
		uniqueItems[t.ItemName] = true
		activeUsers[t.User] = true

		switch t.Type {
		case models.TransactionTake:
			summary.TotalItemsTaken += t.Quantity
			itemConsumption[t.ItemName] += t.Quantity
			userConsumption[t.User] += t.Quantity
		case models.TransactionAdd:
			summary.TotalItemsAdded += t.Quantity
		}
	}

	summary.UniqueItems = len(uniqueItems)
	summary.ActiveUsers = len(activeUsers)

	topItems := make([]ItemConsumption, 0, len(itemConsumption))
	for name, qty := range itemConsumption {
		topItems = append(topItems, ItemConsumption{ItemName: name, Quantity: qty})
	}
	sort.Slice(topItems, func(i, j int) bool {
		if topItems[i].Quantity != topItems[j].Quantity {
			return topItems[i].Quantity > topItems[j].Quantity
		}
		return topItems[i].ItemName < topItems[j].ItemName
	})
	if len(topItems) > topItemsLimit {
		topItems = topItems[:topItemsLimit]
	}

	userActivity := make([]UserActivity, 0, len(userConsumption))
	for user, qty := range userConsumption {
		userActivity = append(userActivity, UserActivity{User: user, Quantity: qty})
	}
	sort.Slice(userActivity, func(i, j int) bool {
		if userActivity[i].Quantity != userActivity[j].Quantity {
			return userActivity[i].Quantity > userActivity[j].Quantity
		}
		return userActivity[i].User < userActivity[j].User
	})

	return MonthlyReport{
		Summary:      summary,
		TopItems:     topItems,
		UserActivity: userActivity,
		Transactions: transactions,
	}
}
