package gui

import (
	"statsboard/internal/dashboard"
	"statsboard/pkg/domain"
)

// RouteData 路由数据
type RouteData struct {
	Route string `json:"route"`
}

// RegisterData 注册结果
type RegisterData struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

// HomeData 首页数据
type HomeData struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ChartData 单张图表，URL 指向资源服务器上的图像
type ChartData struct {
	Slot  string `json:"slot"`
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DashboardData 统计视图数据
type DashboardData struct {
	Redirecting bool        `json:"redirecting"`
	Charts      []ChartData `json:"charts"`
}

func newDashboardData(v dashboard.View) DashboardData {
	charts := make([]ChartData, 0, len(v.Charts))
	for _, c := range v.Charts {
		charts = append(charts, ChartData{
			Slot:  string(c.Slot),
			ID:    c.ID,
			Title: c.Title,
			// id 作为查询参数避免前端缓存旧图
			URL: "/charts/" + string(c.Slot) + ".png?v=" + c.ID,
		})
	}
	return DashboardData{Redirecting: v.Redirecting, Charts: charts}
}

// ActivityListData 活动列表数据
type ActivityListData struct {
	Activities []domain.Activity `json:"activities"`
}

// VersionData 版本数据
type VersionData struct {
	Version string `json:"version"`
}
