// Package logging 提供全局 slog 日志、按天分割的日志文件以及过期日志清理
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// DefaultName 日志行中的 logger 名称
const DefaultName = "hostgate"

var (
	once          sync.Once
	defaultLogger *slog.Logger
)

// ForTestsOnlyResetLogger 仅供测试使用：重置 sync.Once，使 Init 可以再次生效
func ForTestsOnlyResetLogger() {
	once = sync.Once{}
	defaultLogger = nil
}

// Init 初始化全局 logger，只有第一次调用生效
func Init(level slog.Level, output io.Writer) {
	once.Do(func() {
		defaultLogger = slog.New(NewHandler(output, DefaultName, &slog.HandlerOptions{Level: level}))
	})
}

// GetLogger 返回全局 logger；未调用 Init 时默认输出到 stderr，级别 Info
func GetLogger() *slog.Logger {
	once.Do(func() {
		defaultLogger = slog.New(NewHandler(os.Stderr, DefaultName, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return defaultLogger
}

// ParseLevel 将 debug/info/warn/error 转为 slog.Level，无法识别时返回 Info 和 false
func ParseLevel(s string) (slog.Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return l, true
}
