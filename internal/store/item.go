package store

import (
	"database/sql"
	"fmt"

	"github.com/taskmaster-app/taskmaster/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var listID sql.NullInt64
	err := scanner.Scan(&item.ID, &item.Title, &item.UserID, &listID, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if listID.Valid {
		item.ListID = &listID.Int64
	}
	return &item, nil
}

const itemCols = `id, title, user_id, list_id, created_at`

// ListByUser returns all items owned by the user in insertion order.
func (s *ItemStore) ListByUser(userID int64) ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT `+itemCols+` FROM items WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) Create(userID int64, title string, listID *int64) (*model.Item, error) {
	var lID sql.NullInt64
	if listID != nil {
		lID = sql.NullInt64{Int64: *listID, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO items (title, user_id, list_id) VALUES (?, ?, ?)`,
		title, userID, lID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// UpdateTitle changes an item's title. The user id is part of the predicate,
// so a caller can never edit an item they do not own. Returns the number of
// rows changed (0 means the item does not exist or belongs to someone else).
func (s *ItemStore) UpdateTitle(itemID, userID int64, title string) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE items SET title = ? WHERE id = ? AND user_id = ?`,
		title, itemID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("update item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Delete removes an item owned by the user. Deleting an id that does not
// exist, or that belongs to someone else, is a no-op.
func (s *ItemStore) Delete(itemID, userID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
