// Package notify is the fire-and-forget warning sink the engines report
// stock issues through. The engines call it but own none of the presentation.
package notify

import (
	"context"
	"log/slog"

	"github.com/sebagonz91/promo-storefront/internal/metrics"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// Warning messages emitted by the cart and quotation engines. All stock
// warnings use SeverityError.
const (
	MsgInsufficientStock = "Not enough stock to add that quantity."
	MsgAlreadyAtMax      = "You already have the maximum available of this product in the cart."
	MsgOutOfStock        = "This product is out of stock."
	MsgNotOrderable      = "This product is not available to add to the cart."
)

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a sink that writes warnings to the structured log
// and counts them in the metrics registry.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(_ context.Context, message string, severity Severity) {
	metrics.RecordStockWarning(string(severity))

	switch severity {
	case SeverityError:
		n.logger.Warn("Stock warning", slog.String("message", message))
	default:
		n.logger.Info("Notification", slog.String("message", message))
	}
}
