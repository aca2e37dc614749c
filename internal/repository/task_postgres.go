package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/szahir/taskboard/internal/model"
)

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.Description, task.Status, task.Priority, task.DueDate,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, ownerID, taskID string) (model.Task, error) {
	query := `
		SELECT id, owner_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2`

	row := r.db.QueryRowContext(ctx, query, taskID, ownerID)
	return scanTask(row)
}

// Replace overwrites every mutable column; id, owner and created_at never change.
func (r *PostgresTaskRepository) Replace(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = now()
		WHERE id = $6 AND owner_id = $7
		RETURNING id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.ID, task.OwnerID,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	query := `
		SELECT id, owner_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (model.Task, error) {
	var t model.Task
	var dueDate sql.NullTime
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &dueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return t, nil
}

func scanTaskFromRows(rows *sql.Rows) (model.Task, error) {
	var t model.Task
	var dueDate sql.NullTime
	err := rows.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &dueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task row: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ TaskRepository = (*PostgresTaskRepository)(nil)
