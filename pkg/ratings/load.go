package ratings

import (
	"context"
	"fmt"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/codeGROOVE-dev/cpratings/pkg/widget"
)

// NotificationStyleID guards the notification stylesheet against double injection.
const NotificationStyleID = "notification-styles"

const notificationCSS = `.notification{position:fixed;top:20px;right:20px;padding:1rem 1.5rem;border-radius:8px;color:#fff;z-index:1000;animation:slideIn .3s ease}
.notification.success{background:#10b981}
.notification.error{background:#ef4444}
@keyframes slideIn{from{transform:translateX(100%);opacity:0}to{transform:translateX(0);opacity:1}}`

// NewDocument creates a Document holding one widget per platform and the notification stylesheet.
func NewDocument(platforms []rating.Platform) *widget.Document {
	ids := make([]string, len(platforms))
	for i, p := range platforms {
		ids[i] = p.ElementID()
	}
	doc := widget.NewDocument(ids...)
	doc.InjectStyle(NotificationStyleID, notificationCSS)
	return doc
}

// Summary counts the outcome of one load.
type Summary struct {
	Loaded  int
	Errored int
}

// Load fetches from src and writes every tracked widget in doc.
// Failures end up on the widgets and in the log; nothing is returned as an error.
func Load(ctx context.Context, src rating.Source, doc *widget.Document, opts ...Option) Summary {
	cfg := newConfig(opts)
	logger := cfg.logger

	results, err := fetchSafely(ctx, src)
	if err != nil {
		logger.Error("rating source failed", "source", src.Name(), "error", err)
	}

	var (
		sum    Summary
		seen   = make(map[rating.Platform]bool, len(results))
		loaded []*rating.Record
	)
	for _, r := range results {
		el := doc.Element(r.Platform.ElementID())
		if el == nil {
			logger.Debug("no widget for platform", "platform", r.Platform)
			continue
		}
		seen[r.Platform] = true

		if r.Err != nil || r.Record == nil {
			logger.Warn("rating unavailable", "platform", r.Platform, "source", src.Name(), "error", r.Err)
			el.Error()
			sum.Errored++
			continue
		}
		el.Update(r.Record.Value, r.Record.Subtitle, r.Record.Color)
		loaded = append(loaded, r.Record)
		sum.Loaded++
	}

	for _, p := range src.Platforms() {
		if seen[p] {
			continue
		}
		el := doc.Element(p.ElementID())
		if el == nil {
			continue
		}
		logger.Warn("rating unavailable", "platform", p, "source", src.Name(), "error", "no result")
		el.Error()
		sum.Errored++
	}

	if cfg.recorder != nil && len(loaded) > 0 {
		if err := cfg.recorder.Record(ctx, loaded); err != nil {
			logger.Warn("failed to record rating history", "error", err)
		}
	}

	logger.Info("ratings loaded", "source", src.Name(), "loaded", sum.Loaded, "errored", sum.Errored)
	return sum
}

func fetchSafely(ctx context.Context, src rating.Source) (results []rating.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return src.Fetch(ctx), nil
}
