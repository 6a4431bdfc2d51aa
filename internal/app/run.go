package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run blocks until the context is cancelled or a component fails. All
// components stop together: the first error cancels the group.
func (r *Runtime) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	if r.watcher != nil {
		group.Go(func() error {
			return r.watcher.Start(groupCtx)
		})
	}
	if r.scheduler != nil {
		group.Go(func() error {
			return r.scheduler.Start(groupCtx)
		})
	}

	group.Go(func() error {
		r.logger.Info("http api listening", "addr", r.httpServer.Addr)
		err := r.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return r.httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Close releases resources held outside Run.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
