package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hostgate/internal/audit"
	"hostgate/internal/config"
	"hostgate/internal/logging"
	"hostgate/internal/ops"
	"hostgate/internal/server"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "hostgate",
		Short:         "认证后执行命令/读取文件，并提供代理链接跳转页面",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}
	if err := config.BindFlags(root, v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root.AddCommand(newHashCmd(), newLinkCmd(), &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hostgate %s\n", version)
		},
	})
	return root
}

func runServe(parent context.Context, cfg *config.Settings, stderr io.Writer) error {
	fs := afero.NewOsFs()
	logFile := logging.NewDailyFile(fs, cfg.LogDir)
	defer logFile.Close()
	logging.Init(cfg.LogLevel, io.MultiWriter(stderr, logFile))
	log := logging.GetLogger()

	removed, err := logging.Prune(fs, cfg.LogDir, cfg.LogRetention, time.Now())
	if err != nil {
		log.Warn("log cleanup failed", "dir", cfg.LogDir, "error", err)
	}
	for _, p := range removed {
		log.Info("removed old log file", "path", p)
	}

	if cfg.ConfigFile != "" {
		log.Info("config loaded", "file", cfg.ConfigFile)
	}
	if cfg.TestMode {
		log.Warn("TEST MODE: every credential is accepted")
	}
	if cfg.Takeover {
		if pids := server.KillProcessOnPort(server.ListenPort(cfg.Listen)); len(pids) > 0 {
			log.Warn("killed processes holding the listen port", "pids", pids)
			time.Sleep(800 * time.Millisecond)
		}
	}

	h := server.NewHandler(server.Deps{
		Verifier: cfg.Verifier(log),
		Operations: &ops.Handler{
			Dispatcher: ops.NewDispatcher(cfg.Shell, log),
			Audit:      audit.New(fs, cfg.LogDir),
		},
		Logger: log,
	})

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, cfg.Listen, h, cfg.ShutdownTimeout, log); err != nil {
		log.Error("server failed", "error", err)
		return err
	}
	log.Info("shutdown complete")
	return nil
}
