package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/api/metrics"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	deliverTimeout = 10 * time.Second
)

// Dispatcher delivers emergency alerts on a fixed set of workers, sharded by
// report owner so one reporter's alerts go out in submission order.
type Dispatcher struct {
	workers  []chan ports.EmergencyAlert
	notifier ports.EmergencyNotifier
	log      zerolog.Logger
	wg       sync.WaitGroup

	// mu guards stopped so Enqueue never sends on a closed channel.
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.EmergencyNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.EmergencyAlert, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmergencyAlert, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the worker queues and blocks until every alert already
// enqueued has been delivered. Alerts enqueued after Stop are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Enqueue hands an alert to the worker responsible for its owner. It never
// blocks the caller: when the worker's buffer is full the alert is dropped
// and logged.
func (d *Dispatcher) Enqueue(alert ports.EmergencyAlert) {
	idx := d.shardIndex(alert.Report.OwnerID)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		metrics.AlertsDispatchedTotal.WithLabelValues("dropped").Inc()
		d.log.Error().
			Str("report_id", alert.Report.ID).
			Msg("dispatcher stopped, dropping emergency alert")
		return
	}
	select {
	case d.workers[idx] <- alert:
		metrics.AlertsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AlertsDispatchedTotal.WithLabelValues("dropped").Inc()
		d.log.Error().
			Str("report_id", alert.Report.ID).
			Int("worker_id", idx).
			Msg("alert queue full, dropping emergency alert")
	}
}

// shardIndex maps an owner id deterministically to a worker index.
func (d *Dispatcher) shardIndex(ownerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.EmergencyAlert) {
	defer d.wg.Done()
	depth := metrics.AlertsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for alert := range ch {
		depth.Dec()
		d.deliver(id, alert)
	}
}

// deliver uses its own deadline so alerts drained during shutdown still go out.
func (d *Dispatcher) deliver(workerID int, alert ports.EmergencyAlert) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	start := time.Now()
	err := d.notifier.NotifyEmergency(ctx, alert)
	metrics.AlertDeliveryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AlertsDispatchedTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("report_id", alert.Report.ID).
			Int("worker_id", workerID).
			Msg("emergency alert delivery failed")
		return
	}
	metrics.AlertsDispatchedTotal.WithLabelValues("sent").Inc()
}
