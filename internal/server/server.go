// Package server 组装路由、中间件并运行 HTTP 服务
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hostgate/internal/auth"
	"hostgate/internal/models"
	"hostgate/internal/ops"
	"hostgate/internal/redirect"
)

const notFoundDescription = "404 Not Found: The requested URL was not found on the server. " +
	"If you entered the URL manually please check your spelling and try again."

// Deps 路由依赖
type Deps struct {
	Verifier   *auth.Verifier
	Operations *ops.Handler
	Logger     *slog.Logger
}

// NewHandler 注册全部路由：三个跳转页面和 /v 无需认证，POST / 需要 Basic 认证
func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v", redirect.Link)
	mux.HandleFunc("GET /pay", redirect.Pay)
	mux.HandleFunc("GET /red", redirect.Red)
	mux.HandleFunc("GET /red_vl", redirect.RedVL)
	mux.HandleFunc("POST /{$}", auth.RequireAuth(d.Verifier, d.Operations.ServeHTTP))
	mux.HandleFunc("/", NotFound(d.Logger))
	return withRecover(d.Logger, withRequestLog(d.Logger, mux))
}

// NotFound 未匹配的路由返回 JSON 404
func NotFound(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn("route not found", "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusNotFound, models.Fail("Not found: "+notFoundDescription))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run 启动 HTTP 服务，ctx 结束后在 shutdownTimeout 内优雅退出
func Run(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
