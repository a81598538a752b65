// Package dashboard 实现受保护的统计视图与首页视图。
package dashboard

import (
	"context"
	"sync"

	"statsboard/internal/chart"
	"statsboard/internal/guard"
	"statsboard/internal/logger"
	"statsboard/internal/nav"
	"statsboard/internal/session"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"
)

// StatsSource 统计数据来源
type StatsSource interface {
	FetchStats(ctx context.Context, token string) (*domain.StatsDocument, error)
}

// Tracker 会话活动记录
type Tracker interface {
	Track(kind domain.ActivityKind, email, detail string)
}

// ChartRef 已绑定图表的引用
type ChartRef struct {
	Slot  chart.Slot `json:"slot"`
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Spec  chart.Spec `json:"spec"`
}

// View 统计视图状态
type View struct {
	Message     string     `json:"message"`
	Redirecting bool       `json:"redirecting"`
	Charts      []ChartRef `json:"charts,omitempty"`
}

// HomeView 首页视图状态
type HomeView struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Options 视图配置
type Options struct {
	Guard     *guard.Guard
	Stats     StatsSource
	Renderer  *chart.Renderer
	Session   *session.Context
	Navigator nav.Navigator
	Tracker   Tracker
	Logger    logger.Logger
}

// Dashboard 统计视图：校验令牌、获取统计、绘制图表
type Dashboard struct {
	guard    *guard.Guard
	stats    StatsSource
	renderer *chart.Renderer
	sess     *session.Context
	nav      nav.Navigator
	tracker  Tracker
	log      logger.Logger

	// mu 串行化视图加载，保证同一时刻只有一次校验和绘制
	mu  sync.Mutex
	doc *domain.StatsDocument
}

// New 创建统计视图
func New(opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Dashboard{
		guard:    opts.Guard,
		stats:    opts.Stats,
		renderer: opts.Renderer,
		sess:     opts.Session,
		nav:      opts.Navigator,
		tracker:  opts.Tracker,
		log:      opts.Logger,
	}
}

// Open 加载统计视图。
// 未授权时返回 CodeMissingCredential 或 CodeInvalidCredential 并已调度跳转；
// 获取统计失败时返回 CodeStatsUnavailable 或 CodeNetwork，此时不绘制图表。
func (d *Dashboard) Open(ctx context.Context) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.guard.Check(ctx)
	switch out.State {
	case guard.StateMissing:
		d.clear()
		return View{Message: out.Message, Redirecting: true},
			errx.Wrap(errx.CodeMissingCredential, out.Reason, out.Message)
	case guard.StateRejected:
		d.track(ctx, domain.ActivityVerifyFailed, out.Reason.Error())
		d.clear()
		return View{Message: out.Message, Redirecting: true},
			errx.Wrap(errx.CodeInvalidCredential, out.Reason, out.Message)
	}

	doc, err := d.stats.FetchStats(ctx, out.Token)
	if err != nil {
		msg := domain.MsgConnectFailed
		code := errx.CodeNetwork
		if errx.Is(err, errx.CodeStatsUnavailable) {
			msg = domain.MsgStatsFailed
			code = errx.CodeStatsUnavailable
		}
		d.log.Warn("获取统计失败", "error", err.Error())
		d.track(ctx, domain.ActivityStatsFailed, err.Error())
		d.clear()
		return View{Message: msg}, errx.Wrap(code, err, msg)
	}

	d.doc = doc
	handles, err := d.renderer.Render(ctx, doc)
	if err != nil {
		// 部分图表绘制失败仍展示其余图表
		d.log.Err(err, "部分图表绘制失败")
	}
	refs := make([]ChartRef, 0, len(handles))
	for _, h := range handles {
		refs = append(refs, ChartRef{Slot: h.Slot, ID: h.ID, Title: h.Spec.Title, Spec: h.Spec})
	}
	d.track(ctx, domain.ActivityStatsLoaded, "")
	return View{Message: domain.MsgLoadingCharts, Charts: refs}, nil
}

// clear 丢弃上一次加载的文档与图表，调用方需持有 mu
func (d *Dashboard) clear() {
	d.renderer.Registry().Reset()
	d.doc = nil
}

// Chart 返回位置上当前绑定的图表图像
func (d *Dashboard) Chart(slot chart.Slot) ([]byte, error) {
	h, ok := d.renderer.Registry().Get(slot)
	if !ok {
		return nil, errx.Wrap(errx.CodeInvalidInput, domain.ErrChartNotFound, string(slot))
	}
	png, ok := h.PNG()
	if !ok {
		return nil, errx.Wrap(errx.CodeInvalidInput, domain.ErrChartNotFound, string(slot))
	}
	return png, nil
}

// Document 最近一次获取的统计文档
func (d *Dashboard) Document() *domain.StatsDocument {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc
}

// Logout 结束会话：清除令牌、释放图表并延迟跳转登录
func (d *Dashboard) Logout(ctx context.Context) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.track(ctx, domain.ActivityLogout, "")
	out, err := d.guard.Expire(ctx)
	d.clear()
	if err != nil {
		d.log.Err(err, "清除令牌失败")
		return View{Message: out.Message, Redirecting: true}, errx.Wrap(errx.CodeStorage, err, out.Message)
	}
	return View{Message: out.Message, Redirecting: true}, nil
}

// Home 首页：无令牌时立即跳转登录，否则展示欢迎信息和令牌
func (d *Dashboard) Home(ctx context.Context) (HomeView, error) {
	token, ok, err := d.sess.Token(ctx)
	if err != nil {
		d.log.Err(err, "读取本地令牌失败")
	}
	if !ok {
		if d.nav != nil {
			d.nav.Navigate(domain.RouteLogin)
		}
		return HomeView{}, errx.Wrap(errx.CodeMissingCredential, domain.ErrNoToken, "")
	}
	email := d.sess.Email(ctx)
	return HomeView{
		Message: domain.MsgWelcomePrefix + email,
		Email:   email,
		Token:   token,
	}, nil
}

func (d *Dashboard) track(ctx context.Context, kind domain.ActivityKind, detail string) {
	if d.tracker == nil {
		return
	}
	d.tracker.Track(kind, d.sess.Email(ctx), detail)
}
