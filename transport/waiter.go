package transport

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"
	"time"
)

// Task status values the service is known to report. Anything else is a
// protocol defect and is surfaced instead of being polled forever.
const (
	taskStatusPublished = "published"
	taskStatusPending   = "notPublished"
)

// taskDispatcher is the slice of the Dispatcher the waiter depends on
type taskDispatcher interface {
	Do(ctx context.Context, role Role, req *Request) (*Response, error)
}

// TaskWaiter polls an asynchronous indexing task until the service reports
// it published. The poll loop itself is unbounded; transport retries inside
// each poll remain governed by the write-role budget. Polls for one task
// are strictly sequential.
type TaskWaiter struct {
	dispatcher taskDispatcher
	interval   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewTaskWaiter creates a waiter polling at the given interval
func NewTaskWaiter(d *Dispatcher, interval time.Duration) *TaskWaiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TaskWaiter{dispatcher: d, interval: interval, sleep: sleepContext}
}

// Wait blocks until the task is published, a dispatch-level error occurs,
// or the context is canceled. Dispatch errors are propagated verbatim and
// stop the polling loop.
func (w *TaskWaiter) Wait(ctx context.Context, index string, taskID int64) error {
	path := fmt.Sprintf("/1/indexes/%s/task/%d", url.PathEscape(index), taskID)

	for {
		resp, err := w.dispatcher.Do(ctx, RoleWrite, &Request{
			Method: nethttp.MethodGet,
			Path:   path,
		})
		if err != nil {
			return err
		}

		var task struct {
			Status string `json:"status"`
		}
		if err := resp.Decode(&task); err != nil {
			return err
		}

		switch task.Status {
		case taskStatusPublished:
			return nil
		case taskStatusPending:
			if err := w.sleep(ctx, w.interval); err != nil {
				return NewNetworkError("task wait canceled", err)
			}
		default:
			return NewDecodeError(fmt.Sprintf("unrecognized task status %q", task.Status), nil)
		}
	}
}

// sleepContext blocks for d or until the context is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
