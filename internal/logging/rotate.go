package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// FileName 返回某一天的日志文件名：server_DD_MM_YY.log
func FileName(t time.Time) string {
	return "server_" + t.Format("02_01_06") + ".log"
}

// DailyFile 按自然日写入 Dir 下的日志文件，跨天自动切换到新文件
type DailyFile struct {
	Fs  afero.Fs
	Dir string
	Now func() time.Time

	mu   sync.Mutex
	f    afero.File
	name string
}

// NewDailyFile 创建写入 dir 的 DailyFile
func NewDailyFile(fs afero.Fs, dir string) *DailyFile {
	return &DailyFile{Fs: fs, Dir: dir, Now: time.Now}
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	name := FileName(now())
	if d.f == nil || name != d.name {
		if d.f != nil {
			_ = d.f.Close()
			d.f = nil
		}
		if err := d.Fs.MkdirAll(d.Dir, 0755); err != nil {
			return 0, fmt.Errorf("create log dir: %w", err)
		}
		f, err := d.Fs.OpenFile(filepath.Join(d.Dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return 0, fmt.Errorf("open log file: %w", err)
		}
		d.f, d.name = f, name
	}
	return d.f.Write(p)
}

// Close 关闭当前打开的日志文件
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Prune 删除 dir 中修改时间早于 now-retention 的普通文件，返回被删除的文件路径。
// 目录不存在时不做任何事。
func Prune(fs afero.Fs, dir string, retention time.Duration, now time.Time) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	threshold := now.Add(-retention)
	var removed []string
	var errs []error
	for _, e := range entries {
		if !e.Mode().IsRegular() || !e.ModTime().Before(threshold) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := fs.Remove(p); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, p)
	}
	return removed, errors.Join(errs...)
}
