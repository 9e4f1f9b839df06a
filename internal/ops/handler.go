package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"hostgate/internal/audit"
	"hostgate/internal/auth"
	"hostgate/internal/models"
)

// Handler POST /：解析请求体，交给 Dispatcher 执行并记录审计日志
type Handler struct {
	Dispatcher *Dispatcher
	Audit      *audit.Log
}

// ParseRequest 解析 {"command": "...", "path": "..."}；键不存在时对应字段为 nil
func ParseRequest(body []byte) (models.OperationRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.OperationRequest{}, fmt.Errorf("invalid json body: %w", err)
	}
	if raw == nil {
		return models.OperationRequest{}, fmt.Errorf("invalid json body: expected an object")
	}
	var req models.OperationRequest
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"command", &req.Command},
		{"path", &req.Path},
	} {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil || strings.TrimSpace(string(v)) == "null" {
			return models.OperationRequest{}, fmt.Errorf("%s must be a string", f.key)
		}
		*f.dst = &s
	}
	return req, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		result models.Result
		status int
		req    models.OperationRequest
	)
	body, err := readBody(r)
	if err == nil {
		req, err = ParseRequest(body)
	}
	if err != nil {
		result, status = h.Dispatcher.fail(err)
	} else {
		// 客户端断开不终止已启动的命令
		result, status = h.Dispatcher.Handle(context.WithoutCancel(r.Context()), req)
	}

	entry := audit.Entry{Remote: r.RemoteAddr, Status: status, Err: result.Error}
	if c, ok := auth.CredentialFrom(r.Context()); ok {
		entry.User = c.Username
	}
	if req.Command != nil {
		entry.Command = *req.Command
	}
	if req.Path != nil {
		entry.Path = *req.Path
	}
	if err := h.Audit.Operation(entry); err != nil {
		h.Dispatcher.logger().Warn("audit", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
