package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"go.uber.org/zap"
)

// Определение пользовательских ошибок.
var (
	ErrJobQueueIsFull = errors.New("очередь заданий заполнена")
	ErrJobQueueClosed = errors.New("очередь заданий закрыта")
)

// Job задание, выполняемое воркером очереди.
type Job func(ctx context.Context)

// JobQueueService очередь фоновых заданий вне основного конвейера заявок.
// Используется для публикации событий, чтобы не задерживать ответ покупателю.
type JobQueueService struct {
	jobs chan Job
	wg   sync.WaitGroup

	// mu защищает отправку в jobs от одновременного закрытия канала.
	mu     sync.RWMutex
	closed bool
}

// NewJobQueueService создает очередь ёмкостью capacity и запускает workers воркеров.
func NewJobQueueService(ctx context.Context, capacity, workers int) *JobQueueService {
	service := &JobQueueService{
		jobs: make(chan Job, capacity),
	}
	service.start(ctx, workers)

	return service
}

func (jqs *JobQueueService) start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		jqs.wg.Add(1)

		go func(workerID int) {
			defer jqs.wg.Done()

			for {
				select {
				case job, ok := <-jqs.jobs:
					if !ok {
						return
					}
					jqs.run(ctx, workerID, job)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}
}

// run выполняет задание, не давая панике остановить воркер.
func (jqs *JobQueueService) run(ctx context.Context, workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Задание завершилось паникой",
				zap.Int("worker", workerID),
				zap.Any("panic", r),
			)
		}
	}()

	job(ctx)
}

// Enqueue добавляет задание в очередь без ожидания.
func (jqs *JobQueueService) Enqueue(job Job) error {
	jqs.mu.RLock()
	defer jqs.mu.RUnlock()

	if jqs.closed {
		return ErrJobQueueClosed
	}

	select {
	case jqs.jobs <- job:
		return nil
	default:
		return ErrJobQueueIsFull
	}
}

// Dispatch то же, что Enqueue, для вызывающих без зависимости от типа Job.
func (jqs *JobQueueService) Dispatch(job func(ctx context.Context)) error {
	return jqs.Enqueue(job)
}

// Shutdown закрывает очередь и ждёт завершения воркеров.
func (jqs *JobQueueService) Shutdown() {
	jqs.mu.Lock()
	if jqs.closed {
		jqs.mu.Unlock()
		return
	}
	jqs.closed = true
	close(jqs.jobs)
	jqs.mu.Unlock()

	jqs.wg.Wait()
}
