package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"statsboard/internal/logger"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// 后端接口路径
const (
	PathRegister    = "/api/register"
	PathLogin       = "/api/login"
	PathVerifyToken = "/api/verify-token"
	PathServerStats = "/api/server-stats"
)

// maxBodySize 响应体读取上限
const maxBodySize = 4 << 20

// API 后端接口，视图只依赖这个接口而不接触传输细节
type API interface {
	// VerifyToken 校验令牌，返回后端给出的 valid 标志
	VerifyToken(ctx context.Context, token string) (bool, error)

	// FetchStats 获取两台服务器的聚合统计文档
	FetchStats(ctx context.Context, token string) (*domain.StatsDocument, error)

	// Login 使用邮箱、密码与 MFA 验证码登录
	Login(ctx context.Context, form domain.LoginForm) (domain.LoginResult, error)

	// Register 注册账号并获取 MFA 绑定二维码
	Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error)
}

// Options 客户端配置
type Options struct {
	// AuthURL 登录与注册服务地址
	AuthURL string
	// StatsURL 令牌校验与统计服务地址
	StatsURL string
	// Timeout 单次请求超时，HTTPClient 非空时忽略
	Timeout time.Duration
	// HTTPClient 自定义 HTTP 客户端
	HTTPClient *http.Client
	// Logger 日志
	Logger logger.Logger
}

// Client API 的 HTTP 实现
type Client struct {
	authURL  string
	statsURL string
	http     *http.Client
	log      logger.Logger
}

var _ API = (*Client)(nil)

// New 创建后端客户端
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewNop()
	}
	return &Client{
		authURL:  strings.TrimRight(opts.AuthURL, "/"),
		statsURL: strings.TrimRight(opts.StatsURL, "/"),
		http:     hc,
		log:      l,
	}
}

// VerifyToken 校验令牌。无论状态码如何都以响应体中的 valid 字段为准，缺失视为无效。
func (c *Client) VerifyToken(ctx context.Context, token string) (bool, error) {
	_, body, err := c.do(ctx, http.MethodPost, c.statsURL+PathVerifyToken, token, nil)
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(body, "valid").Bool(), nil
}

// FetchStats 获取统计文档，success=false 时返回 CodeStatsUnavailable
func (c *Client) FetchStats(ctx context.Context, token string) (*domain.StatsDocument, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.statsURL+PathServerStats, token, nil)
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if !res.Get("success").Bool() {
		return nil, errx.Wrap(errx.CodeStatsUnavailable, domain.ErrStatsUnavailable, res.Get("message").String())
	}
	doc, err := DecodeStats(res.Get("data"))
	if err != nil {
		return nil, errx.Wrap(errx.CodeInvalidResponse, err, "")
	}
	c.log.Debug("统计文档已获取", "servers", doc.Servers())
	return doc, nil
}

// Login 登录，非 2xx 响应返回 CodeRejected，Msg 为后端 message 原文
func (c *Client) Login(ctx context.Context, form domain.LoginForm) (domain.LoginResult, error) {
	status, body, err := c.postJSON(ctx, c.authURL+PathLogin, form)
	if err != nil {
		return domain.LoginResult{}, err
	}
	res := gjson.ParseBytes(body)
	if !isOK(status) {
		return domain.LoginResult{}, errx.Wrap(errx.CodeRejected, domain.ErrRejected, res.Get("message").String())
	}
	token := res.Get("token").String()
	if token == "" {
		return domain.LoginResult{}, errx.Wrap(errx.CodeInvalidResponse, domain.ErrInvalidResponse, "")
	}
	return domain.LoginResult{Token: token, Message: res.Get("message").String()}, nil
}

// Register 注册，非 2xx 响应返回 CodeRejected，Msg 为后端 message 原文
func (c *Client) Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error) {
	status, body, err := c.postJSON(ctx, c.authURL+PathRegister, form)
	if err != nil {
		return domain.Registration{}, err
	}
	res := gjson.ParseBytes(body)
	if !isOK(status) {
		return domain.Registration{}, errx.Wrap(errx.CodeRejected, domain.ErrRejected, res.Get("message").String())
	}
	return domain.Registration{
		QRCodeURL: res.Get("qrCodeUrl").String(),
		Message:   res.Get("message").String(),
	}, nil
}

// postJSON 发送 JSON 请求体
func (c *Client) postJSON(ctx context.Context, url string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errx.Wrap(errx.CodeInvalidInput, err, "")
	}
	c.log.Debug("发送请求", "url", url, "body", redact(data))
	return c.do(ctx, http.MethodPost, url, "", data)
}

// do 执行请求并读取响应体。响应体必须是合法 JSON，否则返回 CodeInvalidResponse。
func (c *Client) do(ctx context.Context, method, url, token string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, errx.Wrap(errx.CodeInvalidInput, err, "")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil || method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Err(err, "请求失败", "method", method, "url", url)
		return 0, nil, errx.Wrap(errx.CodeNetwork, fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err), "")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, errx.Wrap(errx.CodeNetwork, fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err), "")
	}
	c.log.Debug("收到响应", "method", method, "url", url, "status", resp.StatusCode, "bytes", len(raw), "ms", time.Since(start).Milliseconds())

	if !gjson.ValidBytes(raw) {
		return resp.StatusCode, nil, errx.Wrap(errx.CodeInvalidResponse, domain.ErrInvalidResponse, "")
	}
	return resp.StatusCode, raw, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

// redact 日志输出前遮盖密码与 MFA 验证码
func redact(body []byte) string {
	out := body
	for _, field := range []string{"password", "token"} {
		if !gjson.GetBytes(out, field).Exists() {
			continue
		}
		if b, err := sjson.SetBytes(out, field, "***"); err == nil {
			out = b
		}
	}
	return string(out)
}
