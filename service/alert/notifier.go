// Package alert runs the scheduled low-stock check and mails the configured group.
package alert

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inventory.GO/model/entity"
)

// Scanner is the read side of the stock ledger.
type Scanner interface {
	ScanLowStock(ctx context.Context) ([]entity.ProductVariation, error)
	Count(ctx context.Context) (int64, error)
}

// RecipientSource resolves a group name to email addresses.
type RecipientSource interface {
	RecipientsInGroup(ctx context.Context, group string) ([]string, error)
}

// Summary of one check run.
type Summary struct {
	RunID   string `json:"run_id"`
	Scanned int64  `json:"scanned"`
	Flagged int    `json:"flagged"`
	Sent    int64  `json:"sent"`
	Failed  int64  `json:"failed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Checked %d items, %d low stock", s.Scanned, s.Flagged)
}

type Notifier struct {
	scanner     Scanner
	recipients  RecipientSource
	mailer      Mailer
	group       string
	concurrency int
	logger      *zap.Logger
}

func NewNotifier(scanner Scanner, recipients RecipientSource, mailer Mailer, group string, concurrency int, logger *zap.Logger) *Notifier {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		scanner:     scanner,
		recipients:  recipients,
		mailer:      mailer,
		group:       group,
		concurrency: concurrency,
		logger:      logger,
	}
}

// LowStockMessage renders the alert for one variation.
func LowStockMessage(v entity.ProductVariation) (subject, body string) {
	subject = "Low Stock Alert: " + v.SKUCode
	body = fmt.Sprintf("LOW STOCK ALERT: '%s' is at %d units (Reorder level is %d).", v.SKUCode, v.StockLevel, v.ReorderLevel)
	return subject, body
}

// RunDailyCheck sends one message per flagged variation and recipient. Delivery failures
// are logged and counted; only scan or recipient lookup failures are returned.
func (n *Notifier) RunDailyCheck(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := n.logger.With(zap.String("run_id", sum.RunID))

	total, err := n.scanner.Count(ctx)
	if err != nil {
		return sum, fmt.Errorf("count variations: %w", err)
	}
	sum.Scanned = total

	low, err := n.scanner.ScanLowStock(ctx)
	if err != nil {
		return sum, err
	}
	sum.Flagged = len(low)
	if len(low) == 0 {
		log.Info("low stock check finished", zap.String("summary", sum.String()))
		return sum, nil
	}

	to, err := n.recipients.RecipientsInGroup(ctx, n.group)
	if err != nil {
		return sum, fmt.Errorf("recipients for %q: %w", n.group, err)
	}
	if len(to) == 0 {
		log.Warn("no recipients for low stock alerts", zap.String("group", n.group), zap.Int("flagged", len(low)))
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for _, v := range low {
		subject, body := LowStockMessage(v)
		for _, addr := range to {
			msg := Message{To: addr, Subject: subject, Body: body}
			sku := v.SKUCode
			g.Go(func() error {
				if err := n.mailer.Send(ctx, msg); err != nil {
					failed.Add(1)
					log.Error("low stock alert delivery failed",
						zap.String("sku", sku),
						zap.String("recipient", msg.To),
						zap.Error(err),
					)
					return nil
				}
				sent.Add(1)
				return nil
			})
		}
	}
	_ = g.Wait()

	sum.Sent = sent.Load()
	sum.Failed = failed.Load()
	log.Info("low stock check finished",
		zap.String("summary", sum.String()),
		zap.Int64("sent", sum.Sent),
		zap.Int64("failed", sum.Failed),
	)
	return sum, nil
}
