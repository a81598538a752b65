package gui

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"statsboard/internal/config"
	"statsboard/internal/httpapi"
	"statsboard/internal/logger"
	"statsboard/internal/nav"
	"statsboard/internal/service"
	"statsboard/internal/storage/db"
	"statsboard/internal/storage/model"
	"statsboard/pkg/api"
	"statsboard/pkg/domain"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"gorm.io/gorm"
	gl "gorm.io/gorm/logger"
)

// 推送给前端的事件名
const (
	EventNavigate = "navigate"
	EventActivity = "activity"
)

// App 负责组装服务、管理数据库与事件推送，供前端调用。
type App struct {
	ctx     context.Context
	cfg     *config.Config
	log     logger.Logger
	service api.Service
	gdb     *gorm.DB
	handler atomic.Pointer[http.Handler]

	cancelSubscribe context.CancelFunc
	stopOnce        sync.Once
}

// NewApp 创建并返回一个新的 App 实例。
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Writers: cfg.Log.Writer,
	})
	return &App{cfg: cfg, log: log}
}

// Startup 初始化数据库、服务层并启动活动推送。
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("应用启动", "version", a.cfg.Version)

	gormLogger := db.NewLogger(a.log).LogMode(gl.Warn)
	gdb, err := db.New(db.Options{
		Name:   a.cfg.Sqlite.Db,
		Prefix: a.cfg.Sqlite.Prefix,
		Logger: gormLogger,
	})
	if err != nil {
		// 数据库不可用时会话只保存在内存中
		a.log.Err(err, "数据库初始化失败")
	} else if err := db.Migrate(gdb, model.All()...); err != nil {
		a.log.Err(err, "数据库迁移失败")
		_ = db.Close(gdb)
	} else {
		a.gdb = gdb
		a.log.Debug("数据持久化层初始化完成")
	}

	a.service = api.NewService(service.Options{
		Config:       a.cfg,
		Logger:       a.log,
		DB:           a.gdb,
		Navigator:    nav.NavigatorFunc(a.emitNavigate),
		LiveActivity: true,
	})
	var h http.Handler = httpapi.NewRouter(a.service, a.log, nil)
	a.handler.Store(&h)

	subCtx, cancel := context.WithCancel(ctx)
	a.cancelSubscribe = cancel
	go a.subscribeActivity(subCtx)
}

// Shutdown 负责清理资源。
func (a *App) Shutdown(ctx context.Context) {
	a.stopOnce.Do(func() {
		a.log.Info("应用关闭中...")

		if a.cancelSubscribe != nil {
			a.cancelSubscribe()
		}
		if a.service != nil {
			a.service.Close()
		}
		if a.gdb != nil {
			_ = db.Close(a.gdb)
		}

		a.log.Info("应用已关闭")
	})
}

// Handler 资源服务器的兜底处理器，提供 /rpc 与图表图像。
// 不作为 App 的方法，避免被绑定到前端。
func Handler(a *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := a.handler.Load()
		if h == nil {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		(*h).ServeHTTP(w, r)
	})
}

// Login 提交登录表单，token 为 MFA 验证码。
func (a *App) Login(email, password, token string) api.Response[RouteData] {
	msg, err := a.service.Login(a.ctx, domain.LoginForm{Email: email, Password: password, MFACode: token})
	if err != nil {
		code, m := a.translateError(err)
		return api.Fail[RouteData](code, m)
	}
	return api.OKWithMessage(RouteData{Route: string(a.service.Route())}, msg)
}

// Register 提交注册表单，成功后返回 MFA 绑定二维码。
func (a *App) Register(email, username, password string) api.Response[RegisterData] {
	reg, err := a.service.Register(a.ctx, domain.RegisterForm{Email: email, Username: username, Password: password})
	if err != nil {
		code, m := a.translateError(err)
		return api.Fail[RegisterData](code, m)
	}
	return api.OKWithMessage(RegisterData{QRCodeURL: reg.QRCodeURL}, reg.Message)
}

// OpenHome 加载首页，未登录时前端会收到跳转事件。
func (a *App) OpenHome() api.Response[HomeData] {
	home, err := a.service.OpenHome(a.ctx)
	if err != nil {
		code, m := a.translateError(err)
		return api.Fail[HomeData](code, m)
	}
	return api.OKWithMessage(HomeData{Email: home.Email, Token: home.Token}, home.Message)
}

// OpenDashboard 校验会话、获取统计并绘制图表。
func (a *App) OpenDashboard() api.Response[DashboardData] {
	view, err := a.service.OpenDashboard(a.ctx)
	data := newDashboardData(view)
	if err != nil {
		code, m := a.translateError(err)
		return api.FailWithData(code, m, data)
	}
	return api.OKWithMessage(data, view.Message)
}

// Logout 退出登录，延迟跳转登录页。
func (a *App) Logout() api.Response[DashboardData] {
	view, err := a.service.Logout(a.ctx)
	data := newDashboardData(view)
	if err != nil {
		code, m := a.translateError(err)
		return api.FailWithData(code, m, data)
	}
	return api.OKWithMessage(data, view.Message)
}

// Navigate 切换视图。
func (a *App) Navigate(route string) api.Response[RouteData] {
	if err := a.service.Navigate(domain.Route(route)); err != nil {
		code, m := a.translateError(err)
		return api.Fail[RouteData](code, m)
	}
	return api.OK(RouteData{Route: route})
}

// GetRoute 返回当前视图。
func (a *App) GetRoute() api.Response[RouteData] {
	return api.OK(RouteData{Route: string(a.service.Route())})
}

// ListActivity 查询最近的会话活动。
func (a *App) ListActivity(limit int) api.Response[ActivityListData] {
	acts, err := a.service.ListActivity(a.ctx, limit)
	if err != nil {
		code, m := a.translateError(err)
		return api.Fail[ActivityListData](code, m)
	}
	return api.OK(ActivityListData{Activities: acts})
}

// GetVersion 获取应用版本号
func (a *App) GetVersion() api.Response[VersionData] {
	return api.OK(VersionData{Version: a.cfg.Version})
}

// emitNavigate 通过 Wails 事件系统通知前端跳转。
func (a *App) emitNavigate(route domain.Route) {
	if a.ctx == nil {
		return
	}
	a.log.Debug("跳转", "route", route)
	runtime.EventsEmit(a.ctx, EventNavigate, string(route))
}

// subscribeActivity 将会话活动推送到前端。
func (a *App) subscribeActivity(ctx context.Context) {
	ch := a.service.Activities()
	for {
		select {
		case act, ok := <-ch:
			if !ok {
				return
			}
			runtime.EventsEmit(a.ctx, EventActivity, act)
		case <-ctx.Done():
			a.log.Debug("活动订阅已取消")
			return
		}
	}
}
