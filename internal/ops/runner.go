package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Runner 执行一条 shell 命令并返回完整的 stdout 和 stderr
type Runner interface {
	Run(ctx context.Context, command string) (stdout, stderr []byte, err error)
}

// ShellRunner 通过 "<Shell> -c <command>" 执行命令（Windows 下为 cmd /C）。
// 命令的退出码不作为错误返回，失败信息只体现在 stderr 中；没有超时。
type ShellRunner struct {
	Shell string
}

// DefaultShell 当前平台默认的 shell
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "/bin/sh"
}

func (s ShellRunner) Run(ctx context.Context, command string) ([]byte, []byte, error) {
	shell := s.Shell
	if shell == "" {
		shell = DefaultShell()
	}
	flag := "-c"
	if runtime.GOOS == "windows" && shell == "cmd" {
		flag = "/C"
	}
	cmd := exec.CommandContext(ctx, shell, flag, command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("run %q: %w", command, err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}
