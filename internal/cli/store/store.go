package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"VoiceLedger/internal/cli/model"

	_ "modernc.org/sqlite"
)

// Store — локальная БД расходов текущего пользователя.
// Это первичная запись клиента: расход сначала фиксируется здесь,
// и только потом уходит на сервер.
type Store struct {
	db *sql.DB
}

// OpenForUser открывает (и при необходимости создаёт) SQLite-файл,
// сегрегированный по логину. base — базовый каталог (обычно
// cfg.ClientDBPath); при пустом значении берётся CLIENT_DB_PATH из
// окружения, затем каталог конфигурации пользователя.
func OpenForUser(login, base string) (*Store, string, error) {
	if login == "" {
		return nil, "", errors.New("empty login for user store")
	}
	if base == "" {
		base = os.Getenv("CLIENT_DB_PATH")
	}
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		base = filepath.Join(cfgDir, "VoiceLedger", "users")
	}
	dir := filepath.Join(base, login)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "client.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &Store{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимой таблицы.
// seq сохраняет порядок вставки в пределах файла.
func (s *Store) Migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS expenses (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  date_spent TEXT NOT NULL,
  amount_spent REAL NOT NULL,
  spent_on TEXT NOT NULL,
  spent_through TEXT NOT NULL,
  self_or_others TEXT NOT NULL,
  paid_to TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_date_spent ON expenses(date_spent);
`
	_, err := s.db.Exec(ddl)
	return err
}

// Append вставляет или заменяет запись по id, сохраняя её позицию вставки.
func (s *Store) Append(e model.Expense) error {
	if e.ID == "" {
		return errors.New("expense id is required")
	}
	_, err := s.db.Exec(`INSERT INTO expenses(
        id, date_spent, amount_spent, spent_on, spent_through, self_or_others, paid_to, description, created_at
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET
        date_spent = excluded.date_spent,
        amount_spent = excluded.amount_spent,
        spent_on = excluded.spent_on,
        spent_through = excluded.spent_through,
        self_or_others = excluded.self_or_others,
        paid_to = excluded.paid_to,
        description = excluded.description,
        created_at = excluded.created_at`,
		e.ID, e.DateSpent, e.AmountSpent, e.SpentOn, e.SpentThrough,
		e.SelfOrOthersIncluded, e.PaidTo, e.Description, e.CreatedAt,
	)
	return err
}

// Remove удаляет запись по id. Отсутствие записи — не ошибка.
func (s *Store) Remove(id string) error {
	if id == "" {
		return errors.New("expense id is required")
	}
	_, err := s.db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	return err
}

// Get возвращает запись по id.
func (s *Store) Get(id string) (*model.Expense, error) {
	var e model.Expense
	err := s.db.QueryRow(`SELECT id, date_spent, amount_spent, spent_on, spent_through, self_or_others, paid_to, description, created_at
        FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.DateSpent, &e.AmountSpent, &e.SpentOn, &e.SpentThrough,
			&e.SelfOrOthersIncluded, &e.PaidTo, &e.Description, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %q not found", id)
		}
		return nil, err
	}
	return &e, nil
}

// List возвращает записи за месяц (date_spent с префиксом YYYY-MM)
// в порядке вставки. year/month <= 0 — все записи.
func (s *Store) List(year, month int) ([]model.Expense, error) {
	q := `SELECT id, date_spent, amount_spent, spent_on, spent_through, self_or_others, paid_to, description, created_at FROM expenses`
	var args []any
	if year > 0 && month > 0 {
		q += ` WHERE date_spent LIKE ?`
		args = append(args, fmt.Sprintf("%04d-%02d%%", year, month))
	}
	q += ` ORDER BY seq ASC`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(&e.ID, &e.DateSpent, &e.AmountSpent, &e.SpentOn, &e.SpentThrough,
			&e.SelfOrOthersIncluded, &e.PaidTo, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// ReplaceMonth атомарно заменяет локальную партицию месяца свежим
// серверным списком, сохраняя его порядок.
func (s *Store) ReplaceMonth(year, month int, expenses []model.Expense) error {
	if year <= 0 || month <= 0 {
		return errors.New("year and month are required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	prefix := fmt.Sprintf("%04d-%02d%%", year, month)
	if _, err := tx.Exec(`DELETE FROM expenses WHERE date_spent LIKE ?`, prefix); err != nil {
		return err
	}
	for _, e := range expenses {
		if _, err := tx.Exec(`INSERT INTO expenses(
            id, date_spent, amount_spent, spent_on, spent_through, self_or_others, paid_to, description, created_at
        ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            date_spent = excluded.date_spent,
            amount_spent = excluded.amount_spent,
            spent_on = excluded.spent_on,
            spent_through = excluded.spent_through,
            self_or_others = excluded.self_or_others,
            paid_to = excluded.paid_to,
            description = excluded.description,
            created_at = excluded.created_at`,
			e.ID, e.DateSpent, e.AmountSpent, e.SpentOn, e.SpentThrough,
			e.SelfOrOthersIncluded, e.PaidTo, e.Description, e.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
