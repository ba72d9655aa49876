package db

import "fmt"

// SaveCategories upserts resolved category names.
func (db *DB) SaveCategories(names map[int64]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for id, name := range names {
		_, err := tx.Exec(`
			INSERT INTO categories (category_id, name) VALUES (?, ?)
			ON CONFLICT(category_id) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP
		`, id, name)
		if err != nil {
			return fmt.Errorf("failed to save category %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit categories: %w", err)
	}
	return nil
}

// LoadCategories returns every stored category name by id.
func (db *DB) LoadCategories() (map[int64]string, error) {
	rows, err := db.Query("SELECT category_id, name FROM categories")
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
