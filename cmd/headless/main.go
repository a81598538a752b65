// headless 以本地 HTTP 服务运行，不启动桌面窗口。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statsboard/frontend"
	"statsboard/internal/config"
	"statsboard/internal/httpapi"
	"statsboard/internal/logger"
	"statsboard/internal/service"
	"statsboard/internal/storage/db"
	"statsboard/internal/storage/model"
	"statsboard/pkg/api"

	gl "gorm.io/gorm/logger"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address, overrides http.addr")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	l := logger.New(logger.Options{Level: cfg.Log.Level, Writers: cfg.Log.Writer})
	if err := run(cfg, l); err != nil {
		l.Err(err, "headless 模式退出")
		os.Exit(1)
	}
}

// run 启动服务直到收到退出信号，返回前关闭服务层与数据库
func run(cfg *config.Config, l logger.Logger) error {
	gdb, err := db.New(db.Options{
		Name:   cfg.Sqlite.Db,
		Prefix: cfg.Sqlite.Prefix,
		Logger: db.NewLogger(l).LogMode(gl.Warn),
	})
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb, model.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	svc := api.NewService(service.Options{Config: cfg, Logger: l, DB: gdb})
	defer svc.Close()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(svc, l, http.FileServer(http.FS(frontend.Dist()))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		l.Info("HTTP 服务已启动", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP 服务异常退出: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Err(err, "HTTP 服务关闭失败")
	}
	l.Info("HTTP 服务已关闭")
	return nil
}
