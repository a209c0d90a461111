package model

// Expense — клиентское представление записи о расходе.
// Повторяет wire-формат сервера; владелец (email) на клиенте не хранится.
type Expense struct {
	ID                   string  `json:"id"`
	DateSpent            string  `json:"dateSpent"` // YYYY-MM-DD
	AmountSpent          float64 `json:"amountSpent"`
	SpentOn              string  `json:"spentOn"`
	SpentThrough         string  `json:"spentThrough"`
	SelfOrOthersIncluded string  `json:"selfOrOthersIncluded"`
	PaidTo               string  `json:"paidTo"`
	Description          string  `json:"description"`
	CreatedAt            string  `json:"createdAt"`
}
