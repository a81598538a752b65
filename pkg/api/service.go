package api

import (
	"context"

	"statsboard/internal/dashboard"
	"statsboard/internal/service"
	"statsboard/pkg/domain"
)

// Service 服务接口
type Service interface {
	// Login 登录，成功后保存会话并跳转首页
	Login(ctx context.Context, form domain.LoginForm) (string, error)

	// Register 注册，返回 MFA 绑定二维码
	Register(ctx context.Context, form domain.RegisterForm) (domain.Registration, error)

	// OpenHome 加载首页
	OpenHome(ctx context.Context) (dashboard.HomeView, error)

	// OpenDashboard 校验会话、获取统计并绘制图表
	OpenDashboard(ctx context.Context) (dashboard.View, error)

	// Logout 退出登录
	Logout(ctx context.Context) (dashboard.View, error)

	// Navigate 切换视图
	Navigate(route domain.Route) error

	// Route 当前视图
	Route() domain.Route

	// Chart 获取图表图像
	Chart(slot string) ([]byte, error)

	// ListActivity 最近的会话活动
	ListActivity(ctx context.Context, limit int) ([]domain.Activity, error)

	// Activities 订阅实时活动
	Activities() <-chan domain.Activity

	// Close 释放资源
	Close()
}

// NewService 创建并返回服务接口实现
func NewService(opts service.Options) Service {
	return service.New(opts)
}
