package service

import (
	"context"
	"strings"
	"sync"

	"statsboard/internal/audit"
	"statsboard/internal/auth"
	"statsboard/internal/backend"
	"statsboard/internal/chart"
	"statsboard/internal/config"
	"statsboard/internal/dashboard"
	"statsboard/internal/guard"
	"statsboard/internal/logger"
	"statsboard/internal/nav"
	"statsboard/internal/session"
	"statsboard/internal/storage/repo"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"

	"gorm.io/gorm"
)

// 实时活动通道容量
const activityBuffer = 64

// Options 服务层依赖
type Options struct {
	Config *config.Config
	Logger logger.Logger
	// DB 为空时会话只保存在内存中，活动记录不落库
	DB *gorm.DB
	// Navigator 前端跳转通知，可为空
	Navigator nav.Navigator
	// Scheduler 为空时使用 time.AfterFunc
	Scheduler nav.Scheduler
	// Backend 为空时根据配置创建 HTTP 客户端
	Backend backend.API
	// LiveActivity 为 true 时通过 Activities() 推送实时活动，调用方需持续读取
	LiveActivity bool
}

type svc struct {
	cfg    *config.Config
	log    logger.Logger
	router *nav.Recorder

	activities *repo.ActivityRepo
	events     chan domain.Activity
	auditor    *audit.Auditor

	forms *auth.Forms
	dash  *dashboard.Dashboard

	closeOnce sync.Once
}

// New 组装全部组件
func New(opts Options) *svc {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = nav.TimerScheduler{}
	}
	cfg, log := opts.Config, opts.Logger

	s := &svc{
		cfg:    cfg,
		log:    log,
		router: nav.NewRecorder(opts.Navigator),
	}
	if opts.LiveActivity {
		s.events = make(chan domain.Activity, activityBuffer)
	}

	var store session.Store
	var sink audit.Sink
	if opts.DB != nil {
		store = session.NewRepoStore(repo.NewSessionRepo(opts.DB))
		s.activities = repo.NewActivityRepo(opts.DB, log)
		sink = s.activities
		if days := cfg.Activity.RetentionDays; days > 0 {
			if n, err := s.activities.Cleanup(context.Background(), days); err != nil {
				log.Err(err, "清理过期活动记录失败")
			} else if n > 0 {
				log.Info("已清理过期活动记录", "count", n)
			}
		}
	} else {
		store = session.NewMemoryStore()
	}
	s.auditor = audit.New(sink, s.events, log)

	api := opts.Backend
	if api == nil {
		api = backend.New(backend.Options{
			AuthURL:  cfg.Backend.AuthURL,
			StatsURL: cfg.Backend.StatsURL,
			Timeout:  cfg.Backend.Timeout,
			Logger:   log,
		})
	}

	sess := session.New(store)
	g := guard.New(guard.Options{
		Session:   sess,
		Verifier:  api,
		Navigator: s.router,
		Scheduler: opts.Scheduler,
		Delay:     cfg.UI.RedirectDelay,
		Logger:    log,
	})
	s.forms = auth.New(auth.Options{
		Backend:   api,
		Session:   sess,
		Navigator: s.router,
		Tracker:   s.auditor,
		Logger:    log,
	})
	s.dash = dashboard.New(dashboard.Options{
		Guard: g,
		Stats: api,
		Renderer: chart.NewRenderer(chart.Options{
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Pair:   pairOf(cfg.Servers),
			Logger: log,
		}),
		Session:   sess,
		Navigator: s.router,
		Tracker:   s.auditor,
		Logger:    log,
	})
	return s
}

func pairOf(servers []string) chart.Pair {
	var p chart.Pair
	if len(servers) > 0 {
		p.First = servers[0]
	}
	if len(servers) > 1 {
		p.Second = servers[1]
	}
	return p
}

// Login 提交登录表单
func (s *svc) Login(ctx context.Context, form domain.LoginForm) (string, error) {
	return s.forms.Login(ctx, form)
}

// Register 提交注册表单
func (s *svc) Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error) {
	return s.forms.Register(ctx, form)
}

// OpenHome 加载首页
func (s *svc) OpenHome(ctx context.Context) (dashboard.HomeView, error) {
	s.router.Navigate(domain.RouteHome)
	return s.dash.Home(ctx)
}

// OpenDashboard 加载统计视图
func (s *svc) OpenDashboard(ctx context.Context) (dashboard.View, error) {
	s.router.Navigate(domain.RouteDashboard)
	return s.dash.Open(ctx)
}

// Logout 退出登录
func (s *svc) Logout(ctx context.Context) (dashboard.View, error) {
	return s.dash.Logout(ctx)
}

// Navigate 切换视图
func (s *svc) Navigate(route domain.Route) error {
	if !route.Valid() {
		return errx.Wrap(errx.CodeInvalidInput, domain.ErrInvalidInput, "unknown route "+string(route))
	}
	s.router.Navigate(route)
	return nil
}

// Route 当前视图
func (s *svc) Route() domain.Route {
	return s.router.Current()
}

// Chart 返回图表 PNG，slot 可带 .png 后缀
func (s *svc) Chart(slot string) ([]byte, error) {
	id, ok := chart.ParseSlot(strings.TrimSuffix(slot, ".png"))
	if !ok {
		return nil, errx.Wrap(errx.CodeInvalidInput, domain.ErrChartNotFound, slot)
	}
	return s.dash.Chart(id)
}

// ListActivity 最近的会话活动，未启用持久化时返回空
func (s *svc) ListActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	if s.activities == nil {
		return []domain.Activity{}, nil
	}
	acts, err := s.activities.Recent(ctx, limit)
	if err != nil {
		return nil, errx.Wrap(errx.CodeStorage, err, "")
	}
	return acts, nil
}

// Activities 实时活动通道，未开启 LiveActivity 时为 nil
func (s *svc) Activities() <-chan domain.Activity {
	return s.events
}

// Close 停止后台写入，未落库的活动会在此刷新
func (s *svc) Close() {
	s.closeOnce.Do(func() {
		if s.activities != nil {
			s.activities.Stop()
		}
	})
}
