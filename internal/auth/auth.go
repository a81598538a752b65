// Package auth 实现登录与注册表单的提交逻辑。
package auth

import (
	"context"
	"errors"
	"strings"

	"statsboard/internal/logger"
	"statsboard/internal/nav"
	"statsboard/internal/session"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"
)

// Backend 认证接口
type Backend interface {
	Login(ctx context.Context, form domain.LoginForm) (domain.LoginResult, error)
	Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error)
}

// Tracker 会话活动记录
type Tracker interface {
	Track(kind domain.ActivityKind, email, detail string)
}

// Options 表单控制器配置
type Options struct {
	Backend   Backend
	Session   *session.Context
	Navigator nav.Navigator
	Tracker   Tracker
	Logger    logger.Logger
}

// Forms 登录与注册表单控制器
type Forms struct {
	api     Backend
	sess    *session.Context
	nav     nav.Navigator
	tracker Tracker
	log     logger.Logger
}

// New 创建表单控制器
func New(opts Options) *Forms {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Forms{
		api:     opts.Backend,
		sess:    opts.Session,
		nav:     opts.Navigator,
		tracker: opts.Tracker,
		log:     opts.Logger,
	}
}

// Login 提交登录表单。
// 成功后保存令牌与账号并跳转首页；失败时 errx.Error.Msg 为展示文本，本地不保存任何数据。
func (f *Forms) Login(ctx context.Context, form domain.LoginForm) (string, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.MFACode = strings.TrimSpace(form.MFACode)
	if form.Email == "" || form.Password == "" || form.MFACode == "" {
		return "", errx.Wrap(errx.CodeInvalidInput, domain.ErrInvalidInput, domain.MsgMissingFields)
	}
	if !numeric(form.MFACode) {
		return "", errx.Wrap(errx.CodeInvalidInput, domain.ErrInvalidInput, domain.MsgInvalidMFACode)
	}

	res, err := f.api.Login(ctx, form)
	if err != nil {
		f.log.Warn("登录失败", "email", form.Email, "error", err.Error())
		f.track(domain.ActivityLoginFailed, form.Email, errx.MessageOf(err))
		return "", failure(err, domain.MsgLoginFailed)
	}

	if err := f.sess.Begin(ctx, res.Token, form.Email); err != nil {
		f.log.Err(err, "保存会话失败", "email", form.Email)
		return "", errx.Wrap(errx.CodeStorage, err, domain.MsgServerError)
	}
	f.log.Info("登录成功", "email", form.Email)
	f.track(domain.ActivityLogin, form.Email, "")
	if f.nav != nil {
		f.nav.Navigate(domain.RouteHome)
	}
	return domain.MsgLoginSuccess, nil
}

// Register 提交注册表单，成功后返回 MFA 绑定二维码，不跳转
func (f *Forms) Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	if form.Email == "" || form.Username == "" || form.Password == "" {
		return domain.Registration{}, errx.Wrap(errx.CodeInvalidInput, domain.ErrInvalidInput, domain.MsgMissingFields)
	}

	reg, err := f.api.Register(ctx, form)
	if err != nil {
		f.log.Warn("注册失败", "email", form.Email, "error", err.Error())
		return domain.Registration{}, failure(err, domain.MsgRegisterFailed)
	}
	f.log.Info("注册成功", "email", form.Email)
	f.track(domain.ActivityRegister, form.Email, "")
	return domain.Registration{
		QRCodeURL: reg.QRCodeURL,
		Message:   domain.MsgRegisterSuccess,
	}, nil
}

func (f *Forms) track(kind domain.ActivityKind, email, detail string) {
	if f.tracker != nil {
		f.tracker.Track(kind, email, detail)
	}
}

// failure 将后端错误转换为展示文本：
// 被拒绝时使用后端 message 原文，缺失时使用 fallback；网络错误与无法解析的响应统一为服务器错误。
func failure(err error, fallback string) error {
	switch errx.CodeOf(err) {
	case errx.CodeRejected:
		msg := errx.MessageOf(err)
		if msg == "" {
			msg = fallback
		}
		return errx.Wrap(errx.CodeRejected, unwrap(err), msg)
	case errx.CodeNetwork:
		return errx.Wrap(errx.CodeNetwork, unwrap(err), domain.MsgServerError)
	default:
		return errx.Wrap(errx.CodeInvalidResponse, unwrap(err), domain.MsgServerError)
	}
}

func unwrap(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}

func numeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
