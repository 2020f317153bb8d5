package main

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// httpServer 抽象 HTTP 服务器，便于测试优雅关闭逻辑。
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type backgroundRunner interface {
	Start(ctx context.Context) error
}

// runServer 同时跑 HTTP 服务与后台调度，上下文取消时优雅关闭。
func runServer(ctx context.Context, srv httpServer, pipe backgroundRunner, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	pipeDone := make(chan struct{})
	go func() {
		defer close(pipeDone)
		_ = pipe.Start(ctx)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-pipeDone
	return nil
}
