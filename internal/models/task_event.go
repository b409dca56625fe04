package models

// Task event operations.
const (
	TaskOperationCreate = "create"
	TaskOperationUpdate = "update"
	TaskOperationDelete = "delete"
)

// TaskEvent describes a committed change to a task, published for downstream consumers.
type TaskEvent struct {
	EventID   string `json:"event_id"`  // Unique identifier of the event
	Timestamp int64  `json:"timestamp"` // Unix timestamp (seconds) of the change
	Owner     string `json:"owner"`     // Username owning the task
	TaskID    string `json:"task_id"`   // Identifier of the changed task
	Operation string `json:"operation"` // One of create, update, delete
}
