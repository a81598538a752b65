// Package guard 在受保护视图加载时校验本地令牌。
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"statsboard/internal/logger"
	"statsboard/internal/nav"
	"statsboard/internal/session"
	"statsboard/pkg/domain"
)

// Verifier 令牌校验接口
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (bool, error)
}

// State 校验结果状态
type State string

const (
	// StateAuthorized 令牌有效，可以继续加载
	StateAuthorized State = "authorized"
	// StateMissing 本地没有令牌，即将跳转登录
	StateMissing State = "missing"
	// StateRejected 令牌被拒绝或校验失败，已清除令牌并即将跳转登录
	StateRejected State = "rejected"
)

// Outcome 一次校验的结果
type Outcome struct {
	State   State
	Message string
	Token   string
	// Reason 未授权时的原因
	Reason error
}

// Authorized 是否可以继续加载
func (o Outcome) Authorized() bool {
	return o.State == StateAuthorized
}

// Options 守卫配置
type Options struct {
	Session   *session.Context
	Verifier  Verifier
	Navigator nav.Navigator
	Scheduler nav.Scheduler
	Delay     time.Duration
	Logger    logger.Logger
}

// Guard 会话守卫
type Guard struct {
	sess  *session.Context
	api   Verifier
	nav   nav.Navigator
	sched nav.Scheduler
	delay time.Duration
	log   logger.Logger
}

// New 创建守卫
func New(opts Options) *Guard {
	if opts.Scheduler == nil {
		opts.Scheduler = nav.TimerScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Guard{
		sess:  opts.Session,
		api:   opts.Verifier,
		nav:   opts.Navigator,
		sched: opts.Scheduler,
		delay: opts.Delay,
		log:   opts.Logger,
	}
}

// Check 校验令牌。
// 无令牌时不发起网络请求；校验失败（包括网络错误和无法解析的响应）一律清除令牌。
func (g *Guard) Check(ctx context.Context) Outcome {
	token, ok, err := g.sess.Token(ctx)
	if err != nil {
		g.log.Err(err, "读取本地令牌失败")
	}
	if !ok {
		g.redirect()
		return Outcome{State: StateMissing, Message: domain.MsgNotAuthorized, Reason: domain.ErrNoToken}
	}

	valid, err := g.api.VerifyToken(ctx, token)
	if err == nil && valid {
		return Outcome{State: StateAuthorized, Message: domain.MsgLoadingCharts, Token: token}
	}

	reason := err
	if reason == nil {
		reason = domain.ErrTokenInvalid
	}
	g.log.Warn("令牌校验未通过", "error", reason.Error())
	if cerr := g.sess.Invalidate(ctx); cerr != nil {
		g.log.Err(cerr, "清除令牌失败")
		reason = errors.Join(reason, fmt.Errorf("clear token: %w", cerr))
	}
	g.redirect()
	return Outcome{State: StateRejected, Message: domain.MsgSessionExpired, Reason: reason}
}

// Expire 主动结束会话：清除令牌并延迟跳转登录
func (g *Guard) Expire(ctx context.Context) (Outcome, error) {
	err := g.sess.Invalidate(ctx)
	g.redirect()
	return Outcome{State: StateRejected, Message: domain.MsgSessionExpired, Reason: domain.ErrTokenInvalid}, err
}

func (g *Guard) redirect() {
	nav.Redirect(g.sched, g.nav, g.delay, domain.RouteLogin)
}
