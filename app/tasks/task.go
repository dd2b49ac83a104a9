package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type TaskType string

const (
	TaskTypeExtractContent TaskType = "extract_content"
	TaskTypeImportUpstream TaskType = "import_upstream"
	TaskTypeSyncSiteConfig TaskType = "sync_site_config"
)

// RetryPolicy controls how often and how late a failed task runs again.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Delay returns the wait before the given retry attempt (1-based): BaseDelay
// doubled per earlier attempt, capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay << uint(min(attempt-1, 16))
	return min(delay, p.MaxDelay)
}

var retryPolicies = map[TaskType]RetryPolicy{
	TaskTypeImportUpstream: {MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
	TaskTypeSyncSiteConfig: {MaxRetries: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
	// Article failures are recorded per post; pending posts are picked up on the next tick.
	TaskTypeExtractContent: {MaxRetries: 0},
}

// RetryPolicyFor returns the policy of a task type. Unknown types never retry.
func RetryPolicyFor(taskType TaskType) RetryPolicy {
	return retryPolicies[taskType]
}

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSiteName() string
	GetRetryCount() int
	// NextRetry records a failed attempt and returns the wait before the next
	// one. It returns false once the retry policy is exhausted.
	NextRetry() (time.Duration, bool)
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by all site tasks.
type Task struct {
	ID         string
	Type       TaskType
	SiteName   string
	RetryCount int
	Policy     RetryPolicy
	StartedAt  *time.Time
}

var taskSeq atomic.Uint64

func NewTask(taskType TaskType, siteName string) Task {
	return Task{
		ID:       fmt.Sprintf("%s:%s:%d", taskType, siteName, taskSeq.Add(1)),
		Type:     taskType,
		SiteName: siteName,
		Policy:   RetryPolicyFor(taskType),
	}
}

func (t *Task) GetID() string       { return t.ID }
func (t *Task) GetType() TaskType   { return t.Type }
func (t *Task) GetSiteName() string { return t.SiteName }
func (t *Task) GetRetryCount() int  { return t.RetryCount }

func (t *Task) NextRetry() (time.Duration, bool) {
	if t.RetryCount >= t.Policy.MaxRetries {
		return 0, false
	}
	t.RetryCount++
	return t.Policy.Delay(t.RetryCount), true
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}
