package model

// Expense — серверная модель записи о расходе.
// Уникальность записи — составной ключ (id, email): одна и та же запись
// может существовать у разных пользователей независимо. Email никогда не
// отдаётся наружу вместе с записью.
type Expense struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Email string `gorm:"primaryKey;index" json:"-"`

	DateSpent            string  `gorm:"not null;index" json:"dateSpent"` // календарная дата YYYY-MM-DD
	AmountSpent          float64 `gorm:"not null" json:"amountSpent"`
	SpentOn              string  `gorm:"not null" json:"spentOn"`
	SpentThrough         string  `gorm:"not null" json:"spentThrough"`
	SelfOrOthersIncluded string  `gorm:"not null" json:"selfOrOthersIncluded"`
	PaidTo               string  `json:"paidTo"`
	Description          string  `json:"description"`

	// Устанавливается один раз при первой записи и больше не перезаписывается.
	CreatedAt string `gorm:"not null" json:"createdAt"`
}

// Закрытые перечисления полей записи.
var (
	Categories     = []string{"Food", "Travel", "Shopping", "Bills", "Entertainment", "Other"}
	PaymentMethods = []string{"Cash", "UPI", "Card"}
	SpentScopes    = []string{"Self", "Others"}
)

// DefaultPaidTo — значение paidTo, когда получатель не указан.
const DefaultPaidTo = "Others"

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidCategory сообщает, входит ли категория в закрытый список.
func ValidCategory(v string) bool { return contains(Categories, v) }

// ValidPaymentMethod сообщает, входит ли способ оплаты в закрытый список.
func ValidPaymentMethod(v string) bool { return contains(PaymentMethods, v) }

// ValidSpentScope проверяет значение selfOrOthersIncluded.
func ValidSpentScope(v string) bool { return contains(SpentScopes, v) }
