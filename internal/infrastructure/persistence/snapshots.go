package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Blobs is the consumer-side contract the snapshot writer needs from the
// blob store.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}

// EncodeFunc produces the current serialized aggregate. It is supplied by
// the composition root and must be safe to call from the writer's timer
// goroutine.
type EncodeFunc func() ([]byte, error)

// SnapshotWriter implements the write-coalescing persistence policy: rapid
// successive mutations mark the state dirty and a single write happens after
// a quiet period. Flush is the unconditional must-persist path used by
// explicit save points and shutdown. Before every successful write the
// previous blob is rotated into the backup key as a rollback copy.
type SnapshotWriter struct {
	store     Blobs
	encode    EncodeFunc
	key       string
	backupKey string
	quiet     time.Duration
	log       *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewSnapshotWriter creates a snapshot writer. quiet is the coalescing
// period between the first MarkDirty and the actual write.
func NewSnapshotWriter(store Blobs, encode EncodeFunc, key, backupKey string, quiet time.Duration, log *zap.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		store:     store,
		encode:    encode,
		key:       key,
		backupKey: backupKey,
		quiet:     quiet,
		log:       log,
	}
}

// MarkDirty schedules a write after the quiet period. Calls while a write is
// already scheduled coalesce into it.
func (w *SnapshotWriter) MarkDirty() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = true
	if w.timer != nil {
		return
	}
	w.timer = time.AfterFunc(w.quiet, func() {
		if err := w.Flush(context.Background()); err != nil {
			// in-memory state is retained; the next mutation
			// schedules another attempt
			w.log.Warn("debounced snapshot write failed", zap.Error(err))
		}
	})
}

// Flush writes the current aggregate immediately, rotating the previous blob
// into the backup key first. A failure leaves in-memory state untouched.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = false
	w.mu.Unlock()

	data, err := w.encode()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	prev, err := w.store.Get(ctx, w.key)
	if err != nil {
		return fmt.Errorf("failed to read previous snapshot: %w", err)
	}
	if prev != nil {
		if err := w.store.Set(ctx, w.backupKey, prev); err != nil {
			return fmt.Errorf("failed to rotate backup snapshot: %w", err)
		}
	}

	if err := w.store.Set(ctx, w.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	w.log.Debug("snapshot written", zap.Int("bytes", len(data)))
	return nil
}

// Close stops the coalescing timer and flushes any pending write. Called on
// shutdown.
func (w *SnapshotWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	pending := w.pending
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if !pending {
		return nil
	}
	return w.Flush(ctx)
}
