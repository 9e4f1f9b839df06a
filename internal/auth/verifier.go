package auth

import (
	"crypto/subtle"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"hostgate/internal/logging"
)

const (
	DefaultLogin     = "__login__"
	DefaultCheckWord = "__password__"
)

// CheckWord 取密码中第 2、4、6… 个字符（从 1 开始计数），保持顺序并转为小写
func CheckWord(password string) string {
	var b strings.Builder
	i := 0
	for _, r := range password {
		i++
		if i%2 == 0 {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Verifier 校验 Basic 认证的用户名和密码。
// 密码本身不与任何值比较，而是比较由 CheckWord 推导出的校验词。
type Verifier struct {
	Login         string
	CheckWord     string
	CheckWordHash string // bcrypt 哈希，设置后优先于 CheckWord
	// TestMode 为 true 时接受任何凭据，只能在启动时显式开启
	TestMode bool
	Logger   *slog.Logger
}

// NewVerifier 使用默认登录名和校验词
func NewVerifier() *Verifier {
	return &Verifier{Login: DefaultLogin, CheckWord: DefaultCheckWord}
}

func (v *Verifier) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return logging.GetLogger()
}

// Verify 返回凭据是否通过校验。每次调用都会记录原始的用户名和密码。
func (v *Verifier) Verify(username, password string) bool {
	log := v.logger()
	if v.TestMode {
		log.Debug("auth bypassed by test mode", "username", username)
		return true
	}
	log.Debug("auth request", "username", username, "password", password)

	if username != v.Login {
		log.Warn("wrong login", "username", username)
		return false
	}
	if !v.matches(CheckWord(password)) {
		log.Warn("wrong password", "password", password)
		return false
	}
	log.Info("password accepted", "password", password)
	return true
}

func (v *Verifier) matches(word string) bool {
	if v.CheckWordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(v.CheckWordHash), []byte(word)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(word), []byte(v.CheckWord)) == 1
}
