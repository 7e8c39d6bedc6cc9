package imaging

import (
	"context"
	"log/slog"

	"go-web-gallery/internal/event"
)

// Worker listens on the event bus and generates variants for freshly
// uploaded photos outside the request path.
type Worker struct {
	bus       event.Bus
	processor *Processor
}

func NewWorker(bus event.Bus, processor *Processor) *Worker {
	return &Worker{bus: bus, processor: processor}
}

// Run consumes upload events until ctx is cancelled. It is meant to be
// started once as a goroutine from the app.
func (w *Worker) Run(ctx context.Context) {
	events, unsubscribe := w.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			w.handle(e)
		}
	}
}

func (w *Worker) handle(e event.Event) {
	switch e.Type {
	case event.TypePhotoUploaded:
		payload, ok := e.Payload.(event.PhotoUploaded)
		if !ok {
			slog.Error("unexpected payload for upload event", "event_id", e.ID)
			return
		}
		slog.Debug("generating variants", "photo_id", payload.PhotoID, "file", payload.FullPath)
		if err := w.processor.GenerateVariants(payload.FullPath); err != nil {
			slog.Error("variant generation failed", "photo_id", payload.PhotoID, "error", err)
		}
	default:
	}
}
