package service

import (
	"context"

	"github.com/listenupapp/bestsellers/internal/watcher"
)

// FollowChanges reloads the dataset whenever the watched file settles after
// a change. A removed file is logged and the current snapshot is kept.
// It returns when ctx is done or the event channel closes.
func (s *DashboardService) FollowChanges(ctx context.Context, events <-chan watcher.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case watcher.EventChanged:
				s.logger.Info("dataset file changed, reloading", "path", ev.Path, "size", ev.Size)
				// Load logs its own failures and keeps the previous snapshot.
				_, _ = s.Load(ctx)
			case watcher.EventRemoved:
				s.logger.Warn("dataset file removed, keeping current snapshot", "path", ev.Path)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}
