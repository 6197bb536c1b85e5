package notify

import (
	"context"

	"github.com/hibiken/asynq"
)

// InlineEnqueuer доставляет уведомление сразу, без Redis. Для STORE=memory и CLI.
type InlineEnqueuer struct {
	Worker *Worker
}

func (e InlineEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if err := e.Worker.HandleDeliver(ctx, task); err != nil {
		return nil, err
	}
	return &asynq.TaskInfo{Type: task.Type(), State: asynq.TaskStateCompleted}, nil
}
