package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"api_reports/internal/config"
)

// LowStockAlert is raised when a product's stock crosses the threshold.
type LowStockAlert struct {
	ProductID   int64
	ProductName string
	Stock       int
}

// RecipientFinder returns the addresses that receive stock alerts.
type RecipientFinder interface {
	ActiveStaffEmails(ctx context.Context) ([]string, error)
}

// Result is the outcome of one send. Only the notifier's logger reads it.
type Result struct {
	JobID      string
	Subject    string
	Recipients int
	Duration   time.Duration
	Err        error
}

type job struct {
	id  string
	msg Message
}

// Notifier sends alert emails from a fixed pool of workers fed by a bounded
// queue. Enqueueing never blocks: a full queue drops the job.
type Notifier struct {
	finder  RecipientFinder
	mailer  Mailer
	from    string
	timeout time.Duration
	logger  *zap.Logger

	jobs    chan job
	results chan Result

	mu     sync.RWMutex
	closed bool

	workers   sync.WaitGroup
	reporter  sync.WaitGroup
	closeOnce sync.Once
}

// NewNotifier starts the workers. Call Close to drain and stop them.
func NewNotifier(finder RecipientFinder, mailer Mailer, from string, cfg config.NotifierConfig, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	n := &Notifier{
		finder:  finder,
		mailer:  mailer,
		from:    from,
		timeout: cfg.SendTimeout,
		logger:  logger,
		jobs:    make(chan job, cfg.QueueSize),
		results: make(chan Result, cfg.QueueSize+cfg.Workers),
	}

	n.reporter.Add(1)
	go n.report()

	n.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go n.work()
	}

	logger.Info("notifier started",
		zap.Int("workers", cfg.Workers),
		zap.Int("queue_size", cfg.QueueSize),
		zap.Duration("send_timeout", cfg.SendTimeout))
	return n
}

// NotifyLowStock looks up the staff and queues the alert email. It reports
// whether a job was queued; every reason for not queuing is logged.
func (n *Notifier) NotifyLowStock(ctx context.Context, alert LowStockAlert) bool {
	recipients, err := n.finder.ActiveStaffEmails(ctx)
	if err != nil {
		n.logger.Warn("low stock alert skipped, recipient lookup failed",
			zap.String("product", alert.ProductName), zap.Error(err))
		return false
	}
	if len(recipients) == 0 {
		n.logger.Warn("low stock alert skipped, no staff emails found",
			zap.String("product", alert.ProductName))
		return false
	}

	j := job{
		id: uuid.NewString(),
		msg: Message{
			From:    n.from,
			To:      recipients,
			Subject: LowStockSubject(alert),
			Body:    LowStockBody(alert),
		},
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Error("low stock alert dropped, notifier closed", zap.String("product", alert.ProductName))
		return false
	}

	select {
	case n.jobs <- j:
		n.logger.Info("low stock alert queued",
			zap.String("job_id", j.id),
			zap.String("product", alert.ProductName),
			zap.Int("recipients", len(recipients)))
		return true
	default:
		n.logger.Error("low stock alert dropped, queue full",
			zap.String("product", alert.ProductName),
			zap.Int("queue_size", cap(n.jobs)))
		return false
	}
}

// Close stops accepting jobs, waits for queued ones to be sent and stops the workers.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.jobs)
		n.mu.Unlock()

		n.workers.Wait()
		close(n.results)
		n.reporter.Wait()
		n.logger.Info("notifier stopped")
	})
}

func (n *Notifier) work() {
	defer n.workers.Done()
	for j := range n.jobs {
		n.results <- n.send(j)
	}
}

func (n *Notifier) send(j job) Result {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	start := time.Now()
	err := n.mailer.Send(ctx, j.msg)
	return Result{
		JobID:      j.id,
		Subject:    j.msg.Subject,
		Recipients: len(j.msg.To),
		Duration:   time.Since(start),
		Err:        err,
	}
}

func (n *Notifier) report() {
	defer n.reporter.Done()
	for r := range n.results {
		if r.Err != nil {
			n.logger.Error("low stock email failed",
				zap.String("job_id", r.JobID),
				zap.String("subject", r.Subject),
				zap.Error(r.Err))
			continue
		}
		n.logger.Info("low stock email sent",
			zap.String("job_id", r.JobID),
			zap.Int("recipients", r.Recipients),
			zap.Duration("took", r.Duration))
	}
}

// LowStockSubject is the alert email subject.
func LowStockSubject(alert LowStockAlert) string {
	return "¡ALERTA DE STOCK BAJO! - " + alert.ProductName
}

// LowStockBody is the alert email body.
func LowStockBody(alert LowStockAlert) string {
	return fmt.Sprintf(`Hola equipo de SmartSales365,

El stock del producto '%s' (ID: %d) ha alcanzado un nivel crítico.

Stock Actual: %d unidades.

Por favor, contactar al proveedor para reabastecer el inventario.

- Sistema Automático de Alertas
`, alert.ProductName, alert.ProductID, alert.Stock)
}
