// Package config 汇总命令行参数、HOSTGATE_* 环境变量和可选的 YAML 配置文件
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hostgate/internal/auth"
	"hostgate/internal/logging"
)

const (
	EnvPrefix              = "HOSTGATE"
	DefaultListen          = "0.0.0.0:43234"
	DefaultLogDir          = "logs"
	DefaultLogLevel        = "debug"
	DefaultLogRetention    = 5 * 24 * time.Hour
	DefaultShutdownTimeout = 5 * time.Second
)

// Settings 启动时解析一次，之后只读
type Settings struct {
	ConfigFile      string
	Listen          string
	Login           string
	CheckWord       string
	CheckWordHash   string
	TestMode        bool
	LogDir          string
	LogLevel        slog.Level
	LogRetention    time.Duration
	Shell           string
	ShutdownTimeout time.Duration
	Takeover        bool
}

// configPath 默认配置文件路径：os.UserConfigDir()/hostgate/config.yaml
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hostgate", "config.yaml"), nil
}

// BindFlags 注册 serve 使用的参数，并绑定到 v（同时支持 HOSTGATE_* 环境变量）
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	f := cmd.Flags()
	f.String("config", "", "YAML 配置文件，默认读取 "+defaultConfigHint()+"（存在时）. Env: HOSTGATE_CONFIG")
	f.String("listen", DefaultListen, "HTTP 监听地址. Env: HOSTGATE_LISTEN")
	f.String("login", auth.DefaultLogin, "Basic 认证用户名. Env: HOSTGATE_LOGIN")
	f.String("check-word", auth.DefaultCheckWord, "由密码偶数位字符推导出的校验词. Env: HOSTGATE_CHECK_WORD")
	f.String("check-word-hash", "", "校验词的 bcrypt 哈希（hostgate hash 生成），设置后忽略 check-word. Env: HOSTGATE_CHECK_WORD_HASH")
	f.Bool("test-mode", false, "接受任何凭据，仅用于测试环境. Env: HOSTGATE_TEST_MODE")
	f.String("log-dir", DefaultLogDir, "日志目录. Env: HOSTGATE_LOG_DIR")
	f.String("log-level", DefaultLogLevel, "日志级别 debug|info|warn|error. Env: HOSTGATE_LOG_LEVEL")
	f.Duration("log-retention", DefaultLogRetention, "启动时删除早于该时长的日志文件. Env: HOSTGATE_LOG_RETENTION")
	f.String("shell", "", "执行命令使用的 shell，默认 /bin/sh（Windows 为 cmd）. Env: HOSTGATE_SHELL")
	f.Duration("shutdown-timeout", DefaultShutdownTimeout, "优雅退出的等待时间. Env: HOSTGATE_SHUTDOWN_TIMEOUT")
	f.Bool("takeover", false, "启动前结束占用监听端口的进程. Env: HOSTGATE_TAKEOVER")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(f)
}

func defaultConfigHint() string {
	p, err := configPath()
	if err != nil {
		return "$XDG_CONFIG_HOME/hostgate/config.yaml"
	}
	return p
}

// Load 读取配置文件（如有）并生成 Settings。优先级：参数 > 环境变量 > 配置文件 > 默认值。
func Load(v *viper.Viper) (*Settings, error) {
	path := v.GetString("config")
	if path == "" {
		if p, err := configPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	level, ok := logging.ParseLevel(v.GetString("log-level"))
	if !ok {
		return nil, fmt.Errorf("invalid log-level %q", v.GetString("log-level"))
	}
	s := &Settings{
		ConfigFile:      path,
		Listen:          strings.TrimSpace(v.GetString("listen")),
		Login:           v.GetString("login"),
		CheckWord:       v.GetString("check-word"),
		CheckWordHash:   strings.TrimSpace(v.GetString("check-word-hash")),
		TestMode:        v.GetBool("test-mode"),
		LogDir:          v.GetString("log-dir"),
		LogLevel:        level,
		LogRetention:    v.GetDuration("log-retention"),
		Shell:           v.GetString("shell"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		Takeover:        v.GetBool("takeover"),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate 检查配置是否可用
func (s *Settings) Validate() error {
	var errs []error
	if s.Login == "" {
		errs = append(errs, errors.New("login must not be empty"))
	}
	if s.CheckWord == "" && s.CheckWordHash == "" {
		errs = append(errs, errors.New("check-word or check-word-hash is required"))
	}
	if s.LogRetention <= 0 {
		errs = append(errs, fmt.Errorf("log-retention must be positive, got %s", s.LogRetention))
	}
	if s.LogDir == "" {
		errs = append(errs, errors.New("log-dir must not be empty"))
	}
	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		errs = append(errs, fmt.Errorf("invalid listen address %q: %w", s.Listen, err))
	}
	return errors.Join(errs...)
}

// Verifier 根据配置创建认证校验器
func (s *Settings) Verifier(logger *slog.Logger) *auth.Verifier {
	return &auth.Verifier{
		Login:         s.Login,
		CheckWord:     s.CheckWord,
		CheckWordHash: s.CheckWordHash,
		TestMode:      s.TestMode,
		Logger:        logger,
	}
}
