package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/joelbobai/Manzo-BE/config"
	bookingRepo "github.com/joelbobai/Manzo-BE/database/repository/booking"
	"github.com/joelbobai/Manzo-BE/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReconcile = "booking:reconcile"

// stalledAfter is how long a booking run may sit in a non-terminal
// state before the sweep treats it as stalled.
const stalledAfter = 30 * time.Minute

// reconcilePayload is the task body for a reconciliation run.
type reconcilePayload struct {
	SagaID string `json:"sagaId"`
}

// Enqueuer pushes reconciliation tasks onto the queue. The booking
// service hands it saga IDs for runs that failed after carrier-side
// effects had already happened.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer builds an Enqueuer backed by the configured Redis queue.
func NewEnqueuer() *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(queueRedisOpts())}
}

// EnqueueReconcile schedules a reconciliation task for the given saga.
func (e *Enqueuer) EnqueueReconcile(ctx context.Context, sagaID string) error {
	payload, err := json.Marshal(reconcilePayload{SagaID: sagaID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingReconcile, payload)
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(2*time.Minute))
	return err
}

// Close releases the underlying queue connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReconcileWorker runs the async reconciliation worker in the
// background, plus a periodic sweep that enqueues any booking run that
// stalled without ever asking for reconciliation (process crash between
// transitions).
func InitReconcileWorker(sagas bookingRepo.SagaRepository, bookings bookingRepo.Repository) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingReconcile, handleReconcileTask(sagas, bookings))

	go sweepStalledSagas(sagas)

	go func() {
		log.Println("[ReconcileWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReconcileTask(sagas bookingRepo.SagaRepository, bookings bookingRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p reconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReconcileHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		saga, err := sagas.FindByID(ctx, p.SagaID)
		if err != nil {
			log.Printf("[ReconcileHandler] 🔴 Saga %s not found: %v", p.SagaID, err)
			return err
		}
		if saga.State == models.SagaStateDone {
			return nil
		}

		// The happy case: the booking record made it to the database
		// after all. Close the run out.
		if _, err := bookings.FindByReference(ctx, saga.Reference); err == nil {
			saga.State = models.SagaStateDone
			saga.Reason = "record found on reconcile"
			if err := sagas.Upsert(ctx, *saga); err != nil {
				return err
			}
			log.Printf("[ReconcileHandler] ✅ Reference %s recovered, saga %s closed", saga.Reference, saga.ID)
			return nil
		}

		// No local record. What is orphaned depends on how far the run
		// got before it aborted.
		switch saga.FailedAt {
		case models.SagaStateIssue:
			log.Printf("[ReconcileHandler] ⚠️ Reference %s: reservation %s exists but ticket issuance failed. Manual follow-up required.", saga.Reference, saga.OrderID)
		case models.SagaStatePersist:
			log.Printf("[ReconcileHandler] ⚠️ Reference %s: ticket issued on order %s but no local record. Manual follow-up required.", saga.Reference, saga.OrderID)
		default:
			log.Printf("[ReconcileHandler] ⚠️ Reference %s stalled in state %s (order %q). Manual follow-up required.", saga.Reference, saga.State, saga.OrderID)
		}

		saga.State = models.SagaStateFailed
		if saga.Reason == "" {
			saga.Reason = "flagged for manual follow-up"
		}
		return sagas.Upsert(ctx, *saga)
	}
}

// sweepStalledSagas periodically enqueues reconciliation for runs that
// sat in a non-terminal state for too long.
func sweepStalledSagas(sagas bookingRepo.SagaRepository) {
	enqueuer := NewEnqueuer()
	ticker := time.NewTicker(stalledAfter)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		stalled, err := sagas.FindStalled(ctx, stalledAfter)
		if err != nil {
			log.Printf("[ReconcileSweep] ⚠️ Failed to list stalled runs: %v", err)
			cancel()
			continue
		}
		for _, saga := range stalled {
			if err := enqueuer.EnqueueReconcile(ctx, saga.ID); err != nil {
				log.Printf("[ReconcileSweep] ⚠️ Failed to enqueue saga %s: %v", saga.ID, err)
			}
		}
		if len(stalled) > 0 {
			log.Printf("[ReconcileSweep] 🔁 Enqueued %d stalled booking run(s)", len(stalled))
		}
		cancel()
	}
}
