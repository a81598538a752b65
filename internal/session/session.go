package session

import (
	"context"
	"strings"
)

// Context 显式的会话上下文，视图通过它读写令牌，而不是访问全局状态
type Context struct {
	store Store
}

// New 创建会话上下文
func New(store Store) *Context {
	return &Context{store: store}
}

// Token 读取令牌，空白值视为不存在
func (c *Context) Token(ctx context.Context) (string, bool, error) {
	tok, ok, err := c.store.Get(ctx, KeyToken)
	if err != nil || !ok {
		return "", false, err
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", false, nil
	}
	return tok, true, nil
}

// Email 读取登录账号
func (c *Context) Email(ctx context.Context) string {
	email, _, _ := c.store.Get(ctx, KeyEmail)
	return email
}

// Begin 登录成功后保存令牌与账号，账号写入失败时撤回令牌
func (c *Context) Begin(ctx context.Context, token, email string) error {
	if err := c.store.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := c.store.Set(ctx, KeyEmail, email); err != nil {
		_ = c.store.Clear(ctx, KeyToken)
		return err
	}
	return nil
}

// Invalidate 令牌失效时只删除令牌，账号保留用于下次登录
func (c *Context) Invalidate(ctx context.Context) error {
	return c.store.Clear(ctx, KeyToken)
}
