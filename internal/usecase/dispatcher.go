package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"NewsDigest/internal/domain"
)

// ErrRunInFlight is returned when a recipient already has a digest run
// in progress; refusing early prevents duplicate overlapping
// notifications.
var ErrRunInFlight = errors.New("digest run already in flight for recipient")

// RecipientSender delivers a message to an explicit recipient,
// overriding any statically configured default.
type RecipientSender interface {
	SendTo(ctx context.Context, recipient, message string) domain.NotificationResult
}

// Dispatcher runs pipeline executions fire-and-forget on background
// goroutines and delivers the outcome to the requesting recipient.
// The dispatching caller is never blocked by the run itself.
type Dispatcher struct {
	pipeline *Pipeline
	sender   RecipientSender
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// NewDispatcher wires a dispatcher over an existing pipeline. The
// sender routes results to whoever asked, not the pipeline's static
// notify channel.
func NewDispatcher(pipeline *Pipeline, sender RecipientSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pipeline: pipeline,
		sender:   sender,
		logger:   logger,
		inflight: map[string]struct{}{},
	}
}

// Dispatch starts a pipeline run for url on behalf of recipient. The
// digest, or a failure notice, is pushed back to that same recipient
// when the run finishes. At most one run per recipient may be in
// flight; a second request is rejected synchronously with
// ErrRunInFlight.
func (d *Dispatcher) Dispatch(url, recipient string) error {
	d.mu.Lock()
	if _, busy := d.inflight[recipient]; busy {
		d.mu.Unlock()
		return ErrRunInFlight
	}
	d.inflight[recipient] = struct{}{}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			delete(d.inflight, recipient)
			d.mu.Unlock()
		}()

		ctx := context.Background()
		report := d.pipeline.Process(ctx, url, false)
		d.deliver(ctx, recipient, report)

		if d.logger == nil {
			return
		}
		if report.Success {
			d.logger.Info("digest delivered", "url", url, "recipient", recipient, "title", report.Title)
		} else {
			d.logger.Warn("digest run failed",
				"url", url, "recipient", recipient,
				"stage", report.FailedStage, "error", report.ErrorMessage)
		}
	}()

	return nil
}

// deliver pushes the run outcome to the requesting recipient. Failed
// runs are reported there too, not just logged.
func (d *Dispatcher) deliver(ctx context.Context, recipient string, report domain.Report) {
	if d.sender == nil {
		return
	}

	message := digestMessage(report.Title, report.Summary)
	if !report.Success {
		message = failureNotice(report)
	}

	if result := d.sender.SendTo(ctx, recipient, message); !result.Success && d.logger != nil {
		d.logger.Warn("delivery failed", "recipient", recipient, "error", result.ErrorMessage)
	}
}

func failureNotice(report domain.Report) string {
	switch report.FailedStage {
	case domain.StageFetch, domain.StageExtract:
		return "❌ 爬取失敗：" + report.ErrorMessage
	case domain.StageSummarize:
		return "❌ 摘要生成失敗：" + report.ErrorMessage
	default:
		return "❌ 處理時發生錯誤：" + report.ErrorMessage
	}
}

// Wait blocks until all dispatched runs finish; used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
