// Package ops 处理认证后的 POST / 请求：执行 shell 命令和/或读取文件
package ops

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	"hostgate/internal/logging"
	"hostgate/internal/models"
)

const (
	MsgNoCommandAndPath    = "No command and path"
	MsgEmptyCommandAndPath = "Empty command and path"
)

// Dispatcher 按 command / path 执行请求
type Dispatcher struct {
	Runner Runner
	Fs     afero.Fs
	Logger *slog.Logger
}

// NewDispatcher 使用本机 shell 和文件系统
func NewDispatcher(shell string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{Runner: ShellRunner{Shell: shell}, Fs: afero.NewOsFs(), Logger: logger}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.GetLogger()
}

// Handle 返回结果和 HTTP 状态码。
//
// command 非空时同步执行，path 为空则直接返回命令输出；path 非空时读取文件，
// 命令输出被丢弃，只返回文件内容。任何错误都转为 404。
func (d *Dispatcher) Handle(ctx context.Context, req models.OperationRequest) (models.Result, int) {
	log := d.logger()
	if req.Command == nil && req.Path == nil {
		log.Warn("no command and path")
		return models.Fail(MsgNoCommandAndPath), http.StatusNotFound
	}
	var command, path string
	if req.Command != nil {
		command = *req.Command
	}
	if req.Path != nil {
		path = *req.Path
	}
	if strings.TrimSpace(command) == "" && strings.TrimSpace(path) == "" {
		log.Warn("empty command and path")
		return models.Fail(MsgEmptyCommandAndPath), http.StatusNotFound
	}
	log.Debug("operation request", "command", command, "path", path)

	if command != "" {
		log.Warn("running command", "command", command)
		data, err := d.runCommand(ctx, command)
		if err != nil {
			return d.fail(err)
		}
		if path == "" {
			log.Debug("command finished", "command", command, "data", data)
			return models.OK(data), http.StatusCreated
		}
	}

	content, err := afero.ReadFile(d.Fs, path)
	if err != nil {
		return d.fail(err)
	}
	data, err := decodeText(content)
	if err != nil {
		return d.fail(err)
	}
	log.Debug("file read", "path", path, "data", data)
	return models.OK(data), http.StatusCreated
}

func (d *Dispatcher) runCommand(ctx context.Context, command string) (string, error) {
	stdout, stderr, err := d.Runner.Run(ctx, command)
	if err != nil {
		return "", err
	}
	out, err := decodeText(stdout)
	if err != nil {
		return "", err
	}
	errText, err := decodeText(stderr)
	if err != nil {
		return "", err
	}
	if errText != "" {
		out += "\n\n" + errText
	}
	return out, nil
}

func (d *Dispatcher) fail(err error) (models.Result, int) {
	d.logger().Warn("operation failed", "error", err)
	return models.Fail("Error: " + err.Error()), http.StatusNotFound
}
