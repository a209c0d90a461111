package repo

import (
	"VoiceLedger/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseRepository — контракт доступа к основному хранилищу расходов.
// Все операции жёстко ограничены email владельца.
type ExpenseRepository interface {
	// Upsert вставляет запись или заменяет её изменяемые поля.
	// created_at при повторном upsert сохраняется от первой записи.
	Upsert(ctx context.Context, email string, exp *model.Expense) error

	// List возвращает записи пользователя, отсортированные по created_at по
	// возрастанию. При year > 0 и month in [1..12] фильтрует по префиксу даты
	// "YYYY-MM" в date_spent.
	List(ctx context.Context, email string, year, month int) ([]model.Expense, error)

	// Delete удаляет запись по (id, email). Возвращает true, если запись
	// существовала и была удалена. Удаление по одному id без email невозможно.
	Delete(ctx context.Context, email, id string) (bool, error)
}

type expenseRepo struct {
	db *gorm.DB
}

// NewExpenseRepository создаёт реализацию репозитория для Expense.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Upsert(ctx context.Context, email string, exp *model.Expense) error {
	row := *exp
	row.Email = email
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}, {Name: "email"}},
		// created_at намеренно не входит в список обновляемых столбцов:
		// first-write wins.
		DoUpdates: clause.AssignmentColumns([]string{
			"date_spent", "amount_spent", "spent_on", "spent_through",
			"self_or_others_included", "paid_to", "description",
		}),
	}).Create(&row)
	return tx.Error
}

func (r *expenseRepo) List(ctx context.Context, email string, year, month int) ([]model.Expense, error) {
	q := r.db.WithContext(ctx).Where("email = ?", email)
	if year > 0 && month >= 1 && month <= 12 {
		prefix := fmt.Sprintf("%04d-%02d", year, month)
		q = q.Where("date_spent LIKE ?", prefix+"%")
	}
	var res []model.Expense
	if err := q.Order("created_at asc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *expenseRepo) Delete(ctx context.Context, email, id string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND email = ?", id, email).
		Delete(&model.Expense{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
