package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cardgate/cardgate/internal/gate/store"
)

// EmployeeStore reads the dashboard-owned employees table. This
// subsystem never writes it, so there is no Worker here.
type EmployeeStore struct {
	db *sql.DB
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func (s *EmployeeStore) FindByCardNumber(ctx context.Context, cardNumber string) (store.EmployeeRecord, error) {
	cardNumber = strings.TrimSpace(cardNumber)
	if cardNumber == "" {
		return store.EmployeeRecord{}, store.ErrNotFound
	}

	var (
		rec        store.EmployeeRecord
		permission int
		photo      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
SELECT employee_id, first_name, last_name, card_number, access_permission, photo_url
FROM employees
WHERE card_number = ?;
`, cardNumber).Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.CardNumber, &permission, &photo)

	if err == sql.ErrNoRows {
		return store.EmployeeRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.EmployeeRecord{}, fmt.Errorf("FindByCardNumber query: %w", err)
	}

	rec.AccessPermission = permission == 1
	if photo.Valid {
		rec.PhotoURL = photo.String
	}
	return rec, nil
}
