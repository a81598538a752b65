package domain

// Route 前端视图路由
type Route string

const (
	RouteLogin     Route = "/"
	RouteRegister  Route = "/register"
	RouteHome      Route = "/home"
	RouteDashboard Route = "/graficas"
)

// Valid 判断路由是否为已知视图
func (r Route) Valid() bool {
	switch r {
	case RouteLogin, RouteRegister, RouteHome, RouteDashboard:
		return true
	}
	return false
}

// LoginForm 登录表单
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"token"` // 后端字段名为 token
}

// LoginResult 登录结果
type LoginResult struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// RegisterForm 注册表单
type RegisterForm struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration 注册结果，QRCodeURL 用于 MFA 绑定
type Registration struct {
	QRCodeURL string `json:"qrCodeUrl"`
	Message   string `json:"message,omitempty"`
}

// ActivityKind 会话活动类型
type ActivityKind string

const (
	ActivityLogin        ActivityKind = "login"
	ActivityLoginFailed  ActivityKind = "login_failed"
	ActivityRegister     ActivityKind = "register"
	ActivityVerifyFailed ActivityKind = "verify_failed"
	ActivityStatsLoaded  ActivityKind = "stats_loaded"
	ActivityStatsFailed  ActivityKind = "stats_failed"
	ActivityLogout       ActivityKind = "logout"
)

// Activity 一条会话活动
type Activity struct {
	Kind      ActivityKind `json:"kind"`
	Email     string       `json:"email,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	Timestamp int64        `json:"timestamp"`
}
