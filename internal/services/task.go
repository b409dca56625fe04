package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/models"
	"github.com/sbilibin2017/smart-todo/internal/repositories"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=task.go -destination=mock_task_test.go -package=services

// ErrTaskNotFound is returned when a task does not exist or belongs to another user.
var ErrTaskNotFound = errors.New("task not found")

// TaskWriter defines owner-scoped task writes.
type TaskWriter interface {
	Create(ctx context.Context, owner, title string, description *string, completed bool) (*models.TaskDB, error)
	Update(ctx context.Context, taskID, owner, title string, description *string, completed bool) error
	Delete(ctx context.Context, taskID, owner string) error
}

// TaskReader defines owner-scoped task reads.
type TaskReader interface {
	ListByOwner(ctx context.Context, owner string) ([]models.TaskDB, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// DefaultPublishTimeout bounds a single task event write to Kafka.
const DefaultPublishTimeout = 2 * time.Second

// TaskService handles task operations for an authenticated owner and publishes change events.
type TaskService struct {
	writer         TaskWriter
	reader         TaskReader
	kafkaWriter    KafkaWriter
	afterCommit    func(ctx context.Context, fn func())
	publishTimeout time.Duration
}

// TaskServiceOpt configures a TaskService.
type TaskServiceOpt func(*TaskService)

// WithAfterCommit defers event publishing until the surrounding transaction commits.
func WithAfterCommit(afterCommit func(ctx context.Context, fn func())) TaskServiceOpt {
	return func(s *TaskService) {
		s.afterCommit = afterCommit
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) TaskServiceOpt {
	return func(s *TaskService) {
		s.publishTimeout = d
	}
}

// NewTaskService creates a new TaskService. kafkaWriter may be nil.
func NewTaskService(writer TaskWriter, reader TaskReader, kafkaWriter KafkaWriter, opts ...TaskServiceOpt) *TaskService {
	s := &TaskService{
		writer:         writer,
		reader:         reader,
		kafkaWriter:    kafkaWriter,
		afterCommit:    func(_ context.Context, fn func()) { fn() },
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new task owned by owner.
func (s *TaskService) Create(
	ctx context.Context,
	owner, title string,
	description *string,
	completed bool,
) (*models.TaskDB, error) {
	task, err := s.writer.Create(ctx, owner, title, description, completed)
	if err != nil {
		logger.Log.Errorw("failed to create task", "owner", owner, "error", err)
		return nil, err
	}

	s.publish(ctx, owner, task.TaskID.String(), models.TaskOperationCreate)
	return task, nil
}

// List returns every task owned by owner.
func (s *TaskService) List(ctx context.Context, owner string) ([]models.TaskDB, error) {
	tasks, err := s.reader.ListByOwner(ctx, owner)
	if err != nil {
		logger.Log.Errorw("failed to list tasks", "owner", owner, "error", err)
		return nil, err
	}
	return tasks, nil
}

// Update replaces the fields of a task owned by owner.
func (s *TaskService) Update(
	ctx context.Context,
	taskID, owner, title string,
	description *string,
	completed bool,
) error {
	if err := s.writer.Update(ctx, taskID, owner, title, description, completed); err != nil {
		return s.mapWriteError(err, "update", taskID, owner)
	}

	s.publish(ctx, owner, taskID, models.TaskOperationUpdate)
	return nil
}

// Delete removes a task owned by owner.
func (s *TaskService) Delete(ctx context.Context, taskID, owner string) error {
	if err := s.writer.Delete(ctx, taskID, owner); err != nil {
		return s.mapWriteError(err, "delete", taskID, owner)
	}

	s.publish(ctx, owner, taskID, models.TaskOperationDelete)
	return nil
}

func (s *TaskService) mapWriteError(err error, op, taskID, owner string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Infow("task not found", "op", op, "task_id", taskID, "owner", owner)
		return ErrTaskNotFound
	}
	logger.Log.Errorw("failed to "+op+" task", "task_id", taskID, "owner", owner, "error", err)
	return err
}

// publish sends a task event to Kafka once the change is committed.
// The write is detached from request cancellation and bounded by publishTimeout.
// Failures are logged and never surface to the caller.
func (s *TaskService) publish(ctx context.Context, owner, taskID, operation string) {
	event := models.TaskEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Owner:     owner,
		TaskID:    taskID,
		Operation: operation,
	}

	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal task event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(owner),
		Value: data,
	}

	s.afterCommit(ctx, func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
		defer cancel()

		if err := s.kafkaWriter.WriteMessages(writeCtx, msg); err != nil {
			logger.Log.Errorw("Failed to publish task event to Kafka", "event_id", event.EventID, "error", err)
		} else {
			logger.Log.Infow("Task event published to Kafka", "event_id", event.EventID, "operation", operation)
		}
	})
}
