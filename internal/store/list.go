package store

import (
	"database/sql"
	"fmt"

	"github.com/taskmaster-app/taskmaster/internal/model"
)

// DefaultListTitle is the title given to the list created on a user's first visit.
const DefaultListTitle = "My List"

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	err := scanner.Scan(&l.ID, &l.Title, &l.UserID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, list_title, user_id, created_at`

// ListByUser returns all lists owned by the user in insertion order.
func (s *ListStore) ListByUser(userID int64) ([]model.List, error) {
	rows, err := s.db.Query(`SELECT `+listCols+` FROM lists WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ListStore) Create(userID int64, title string) (*model.List, error) {
	result, err := s.db.Exec(
		`INSERT INTO lists (list_title, user_id) VALUES (?, ?)`,
		title, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	return scanList(row)
}

// EnsureDefault creates the default list for the user if they own no lists,
// then returns the full set. The conditional insert is a single statement, so
// two concurrent first visits cannot both create a default list.
func (s *ListStore) EnsureDefault(userID int64) ([]model.List, error) {
	_, err := s.db.Exec(
		`INSERT INTO lists (list_title, user_id)
		 SELECT ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM lists WHERE user_id = ?)`,
		DefaultListTitle, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure default list: %w", err)
	}
	return s.ListByUser(userID)
}

// Rename updates a list's title. The user id is part of the predicate, so a
// caller can never rename a list they do not own. Returns the number of rows
// changed (0 means the list does not exist or belongs to someone else).
func (s *ListStore) Rename(listID, userID int64, title string) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE lists SET list_title = ? WHERE id = ? AND user_id = ?`,
		title, listID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("rename list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// GetByID returns the list only if it belongs to the user.
func (s *ListStore) GetByID(listID, userID int64) (*model.List, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ? AND user_id = ?`, listID, userID)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}
