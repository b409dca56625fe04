package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/smart-todo/internal/models"
)

// TaskWriteRepository handles owner-scoped task writes.
type TaskWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTaskWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TaskWriteRepository {
	return &TaskWriteRepository{db: db, txGetter: txGetter}
}

// executor returns the request transaction when one is attached to ctx, the pool otherwise.
func (r *TaskWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Create inserts a task for owner under a freshly generated id.
func (r *TaskWriteRepository) Create(
	ctx context.Context,
	owner, title string,
	description *string,
	completed bool,
) (*models.TaskDB, error) {
	const query = `
		INSERT INTO tasks (task_id, owner, title, description, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING task_id, owner, title, description, completed, created_at, updated_at
	`
	args := []any{uuid.New(), owner, title, description, completed}

	var task models.TaskDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &task, query, args...)

	logQuery(query, args, task.TaskID, err)

	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update replaces the mutable fields of the task matching (taskID, owner).
// A task owned by someone else is reported as ErrNotFound.
func (r *TaskWriteRepository) Update(
	ctx context.Context,
	taskID, owner, title string,
	description *string,
	completed bool,
) error {
	const query = `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, updated_at = clock_timestamp()
		WHERE task_id = $1 AND owner = $2
	`

	id, err := uuid.Parse(taskID)
	if err != nil {
		return ErrNotFound
	}
	args := []any{id, owner, title, description, completed}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	return checkAffected(query, args, res, err)
}

// Delete removes the task matching (taskID, owner).
func (r *TaskWriteRepository) Delete(ctx context.Context, taskID, owner string) error {
	const query = `
		DELETE FROM tasks
		WHERE task_id = $1 AND owner = $2
	`

	id, err := uuid.Parse(taskID)
	if err != nil {
		return ErrNotFound
	}
	args := []any{id, owner}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	return checkAffected(query, args, res, err)
}

func checkAffected(query string, args []any, res sql.Result, err error) error {
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskReadRepository handles owner-scoped task reads.
type TaskReadRepository struct {
	db *sqlx.DB
}

func NewTaskReadRepository(db *sqlx.DB) *TaskReadRepository {
	return &TaskReadRepository{db: db}
}

// ListByOwner returns the tasks of owner in insertion order.
func (r *TaskReadRepository) ListByOwner(ctx context.Context, owner string) ([]models.TaskDB, error) {
	const query = `
		SELECT task_id, owner, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE owner = $1
		ORDER BY created_at, task_id
	`

	tasks := make([]models.TaskDB, 0)
	err := r.db.SelectContext(ctx, &tasks, query, owner)

	logQuery(query, []any{owner}, len(tasks), err)

	if err != nil {
		return nil, err
	}
	return tasks, nil
}
