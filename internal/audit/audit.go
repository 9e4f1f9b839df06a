package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// FileName 审计日志文件名，与运行日志放在同一目录
const FileName = "access.log"

// Entry 一次 POST / 操作的记录
type Entry struct {
	Remote  string
	User    string
	Command string
	Path    string
	Status  int
	Err     string
}

// Log 以追加方式把操作写入 Dir/access.log；nil *Log 不记录任何内容
type Log struct {
	Fs  afero.Fs
	Dir string
	Now func() time.Time

	mu sync.Mutex
}

// New 创建写入 dir 的审计日志
func New(fs afero.Fs, dir string) *Log {
	return &Log{Fs: fs, Dir: dir, Now: time.Now}
}

// writeLogLine 向 access.log 写入一行并立即 Sync，确保进程异常退出时也能落盘
func (l *Log) writeLogLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.Fs.MkdirAll(l.Dir, 0700); err != nil {
		return err
	}
	f, err := l.Fs.OpenFile(filepath.Join(l.Dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return err
	}
	return f.Sync()
}

// Operation 记录一次操作；写入失败只返回错误，不影响请求结果
func (l *Log) Operation(e Entry) error {
	if l == nil {
		return nil
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	status := "success"
	if e.Status >= 300 {
		status = "failure"
	}
	line := fmt.Sprintf("%s op remote=%s user=%s command=%s path=%s code=%d %s",
		now().UTC().Format(time.RFC3339), e.Remote, escape(e.User), escape(e.Command), escape(e.Path), e.Status, status)
	if e.Err != "" {
		line += fmt.Sprintf(" err=%s", escape(e.Err))
	}
	line += "\n"
	if err := l.writeLogLine(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func escape(s string) string {
	if s == "" {
		return `""`
	}
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "\t", "_")
	if strings.ContainsAny(s, "\n\"\\") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
