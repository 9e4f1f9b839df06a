package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"hostgate/internal/models"
)

type ctxKey struct{}

// UnauthorizedMessage 认证失败时固定的错误信息，不区分是用户名还是密码错误
const UnauthorizedMessage = "Unauthorized access"

// RequireAuth 包装 handler，Basic 认证缺失或未通过时返回 401
func RequireAuth(v *Verifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 没有 Authorization 头时用户名和密码均为空，同样交给 Verify（测试模式下放行）
		username, password, _ := r.BasicAuth()
		if !v.Verify(username, password) {
			v.logger().Warn("authorization failed", "remote", r.RemoteAddr)
			w.Header().Set("WWW-Authenticate", `Basic realm="Authentication Required"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.Fail(UnauthorizedMessage))
			return
		}
		cred := models.Credential{Username: username, Password: password}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, cred)))
	}
}

// CredentialFrom 取出 RequireAuth 放入 context 的凭据
func CredentialFrom(ctx context.Context) (models.Credential, bool) {
	c, ok := ctx.Value(ctxKey{}).(models.Credential)
	return c, ok
}
