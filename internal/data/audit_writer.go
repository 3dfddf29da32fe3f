package data

import (
	"context"
	"sync"
	"time"

	"DonorLane/internal/conf"
	pkgerrors "DonorLane/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

const (
	defaultAuditBufferSize = 1000
	auditWriteTimeout      = 5 * time.Second
)

// AuditWriter persists audit entries on a background goroutine. Entries are
// queued on a bounded channel; a full queue drops the entry with a warning
// and a persistence failure is logged. Neither is reported to the caller.
type AuditWriter struct {
	db      *gorm.DB
	logChan chan *AuditLog
	done    chan struct{}
	logger  *log.Helper
	entries *prometheus.CounterVec

	mu     sync.RWMutex
	closed bool
}

// NewAuditWriter creates the writer, starts its goroutine and returns a
// cleanup func that drains the queue.
func NewAuditWriter(db *gorm.DB, c *conf.Audit, reg prometheus.Registerer, logger log.Logger) (*AuditWriter, func()) {
	size := defaultAuditBufferSize
	if c != nil && c.BufferSize > 0 {
		size = int(c.BufferSize)
	}

	w := &AuditWriter{
		db:      db,
		logChan: make(chan *AuditLog, size),
		done:    make(chan struct{}),
		logger:  log.NewHelper(logger),
		entries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "donorlane_audit_entries_total",
			Help: "Audit entries by outcome (written, failed, dropped).",
		}, []string{"result"}),
	}

	go w.start()

	return w, w.Close
}

// start processes audit entries from the channel until it is closed.
func (w *AuditWriter) start() {
	defer close(w.done)

	for entry := range w.logChan {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		err := w.db.WithContext(ctx).Create(entry).Error
		cancel()

		if err != nil {
			dbErr := pkgerrors.ClassifyDBError(err)
			w.entries.WithLabelValues("failed").Inc()
			w.logger.Errorw("msg", "failed to write audit log",
				"action", entry.Action,
				"entity_type", entry.EntityType,
				"kind", dbErr.Kind(),
				"error", dbErr.Error(),
				"type", "audit")
			continue
		}

		w.entries.WithLabelValues("written").Inc()
		w.logger.Debugw("msg", "audit log written",
			"id", entry.ID,
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"type", "audit")
	}
}

// Enqueue queues entry without blocking. It reports whether the entry was accepted.
func (w *AuditWriter) Enqueue(ctx context.Context, entry *AuditLog) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.logger.WithContext(ctx).Warnw("msg", "audit writer closed, dropping event",
			"action", entry.Action, "entity_type", entry.EntityType)
		w.entries.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case w.logChan <- entry:
		return true
	default:
		w.logger.WithContext(ctx).Warnw("msg", "audit log channel full, dropping event",
			"action", entry.Action, "entity_type", entry.EntityType)
		w.entries.WithLabelValues("dropped").Inc()
		return false
	}
}

// Close stops accepting entries and waits until queued ones are written.
func (w *AuditWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.logChan)
	w.mu.Unlock()

	<-w.done
	w.logger.Info("audit writer drained")
}
