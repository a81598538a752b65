package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"statsboard/internal/logger"
	api "statsboard/pkg/api"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"

	"github.com/gorilla/mux"
)

// 最近活动的默认条数
const defaultActivityLimit = 50

// Server 提供给前端的 HTTP 接口入口
type Server struct {
	svc api.Service
	log logger.Logger
}

// NewServer 创建 HTTP 接口服务
func NewServer(svc api.Service, l logger.Logger) *Server {
	if l == nil {
		l = logger.NewNop()
	}
	return &Server{svc: svc, log: l}
}

// NewRouter 注册 /rpc 与图表路由，static 不为空时兜底提供静态资源
func NewRouter(svc api.Service, l logger.Logger, static http.Handler) *mux.Router {
	s := NewServer(svc, l)
	r := mux.NewRouter()
	r.Handle("/rpc", s).Methods(http.MethodPost)
	r.HandleFunc("/charts/{slot:[A-Za-z]+}.png", s.handleChart).Methods(http.MethodGet)
	if static != nil {
		r.PathPrefix("/").Handler(static).Methods(http.MethodGet)
	}
	return r
}

// ServeHTTP 处理 /rpc 请求
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest.withError(err))
		return
	}
	res := s.dispatch(r.Context(), &req)
	writeResponse(w, res)
}

// Request 表示通用请求结构
type Request struct {
	Method string          `json:"method"`
	ID     string          `json:"id,omitempty"`
	Params json.RawMessage `json:"params"`
}

// Response 表示通用响应结构。失败时 Result 仍可能携带视图状态（例如跳转提示）
type Response struct {
	ID     string       `json:"id,omitempty"`
	Result interface{}  `json:"result,omitempty"`
	Error  *ErrorObject `json:"error,omitempty"`
}

// ErrorObject 表示错误信息
type ErrorObject struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ApiError 表示内部错误类型
type ApiError struct {
	Code string
	Err  error
}

func (e ApiError) withError(err error) ApiError {
	return ApiError{Code: e.Code, Err: err}
}

var (
	// ErrInvalidRequest 无效请求
	ErrInvalidRequest = ApiError{Code: "invalid_request"}
	// ErrMethodNotFound 方法不存在
	ErrMethodNotFound = ApiError{Code: "method_not_found"}
	// ErrInvalidParams 参数错误
	ErrInvalidParams = ApiError{Code: "invalid_params"}
	// ErrInternal 内部错误
	ErrInternal = ApiError{Code: "internal"}
)

// loginParams 登录参数，token 为 MFA 验证码
type loginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// registerParams 注册参数
type registerParams struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// navigateParams 跳转参数
type navigateParams struct {
	Route string `json:"route"`
}

// activityParams 活动查询参数
type activityParams struct {
	Limit int `json:"limit"`
}

// messageResult 仅含提示的结果
type messageResult struct {
	Message string `json:"message"`
	Route   string `json:"route"`
}

// routeResult 当前路由
type routeResult struct {
	Route string `json:"route"`
}

// dispatch 根据 method 分发请求
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	var (
		result interface{}
		err    *ErrorObject
	)
	switch req.Method {
	case "auth.login":
		result, err = s.handleLogin(ctx, req.Params)
	case "auth.register":
		result, err = s.handleRegister(ctx, req.Params)
	case "view.home":
		result, err = s.handleHome(ctx)
	case "view.dashboard":
		result, err = s.handleDashboard(ctx)
	case "session.logout":
		result, err = s.handleLogout(ctx)
	case "view.navigate":
		result, err = s.handleNavigate(req.Params)
	case "view.route":
		result = routeResult{Route: string(s.svc.Route())}
	case "activity.list":
		result, err = s.handleActivityList(ctx, req.Params)
	default:
		err = toErrorObject(ErrMethodNotFound)
	}
	return &Response{ID: req.ID, Result: result, Error: err}
}

// writeResponse 写出统一响应
func writeResponse(w http.ResponseWriter, res *Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	_ = enc.Encode(res)
}

// writeError 写出错误响应
func writeError(w http.ResponseWriter, apiErr ApiError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	_ = enc.Encode(&Response{Error: toErrorObject(apiErr)})
}

// toErrorObject 转换错误为响应错误对象
func toErrorObject(e ApiError) *ErrorObject {
	msg := e.Code
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return &ErrorObject{Code: e.Code, Message: msg}
}

// fromServiceError 服务层错误保留错误码与展示文本，其余视为内部错误
func fromServiceError(err error) *ErrorObject {
	code := errx.CodeOf(err)
	if code == "" {
		return toErrorObject(ErrInternal.withError(err))
	}
	return &ErrorObject{Code: string(code), Message: errx.MessageOf(err)}
}

// handleLogin 处理登录
func (s *Server) handleLogin(ctx context.Context, params json.RawMessage) (interface{}, *ErrorObject) {
	var p loginParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, toErrorObject(ErrInvalidParams.withError(err))
	}
	msg, err := s.svc.Login(ctx, domain.LoginForm{Email: p.Email, Password: p.Password, MFACode: p.Token})
	if err != nil {
		return nil, fromServiceError(err)
	}
	return messageResult{Message: msg, Route: string(s.svc.Route())}, nil
}

// handleRegister 处理注册
func (s *Server) handleRegister(ctx context.Context, params json.RawMessage) (interface{}, *ErrorObject) {
	var p registerParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, toErrorObject(ErrInvalidParams.withError(err))
	}
	reg, err := s.svc.Register(ctx, domain.RegisterForm{Email: p.Email, Username: p.Username, Password: p.Password})
	if err != nil {
		return nil, fromServiceError(err)
	}
	return reg, nil
}

// handleHome 处理首页加载
func (s *Server) handleHome(ctx context.Context) (interface{}, *ErrorObject) {
	home, err := s.svc.OpenHome(ctx)
	if err != nil {
		return routeResult{Route: string(s.svc.Route())}, fromServiceError(err)
	}
	return home, nil
}

// handleDashboard 处理统计视图加载
func (s *Server) handleDashboard(ctx context.Context) (interface{}, *ErrorObject) {
	view, err := s.svc.OpenDashboard(ctx)
	if err != nil {
		return view, fromServiceError(err)
	}
	return view, nil
}

// handleLogout 处理退出登录
func (s *Server) handleLogout(ctx context.Context) (interface{}, *ErrorObject) {
	view, err := s.svc.Logout(ctx)
	if err != nil {
		return view, fromServiceError(err)
	}
	return view, nil
}

// handleNavigate 处理视图跳转
func (s *Server) handleNavigate(params json.RawMessage) (interface{}, *ErrorObject) {
	var p navigateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, toErrorObject(ErrInvalidParams.withError(err))
	}
	if p.Route == "" {
		return nil, toErrorObject(ErrInvalidParams.withError(errors.New("route is required")))
	}
	if err := s.svc.Navigate(domain.Route(p.Route)); err != nil {
		return nil, fromServiceError(err)
	}
	return routeResult{Route: p.Route}, nil
}

// handleActivityList 处理最近活动查询
func (s *Server) handleActivityList(ctx context.Context, params json.RawMessage) (interface{}, *ErrorObject) {
	var p activityParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, toErrorObject(ErrInvalidParams.withError(err))
		}
	}
	acts, err := s.svc.ListActivity(ctx, defaultInt(p.Limit, defaultActivityLimit))
	if err != nil {
		return nil, fromServiceError(err)
	}
	return acts, nil
}

// handleChart 输出当前绑定的图表图像
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]
	png, err := s.svc.Chart(slot)
	if err != nil {
		if errors.Is(err, domain.ErrChartNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Err(err, "读取图表失败", "slot", slot)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// defaultInt 整型默认值
func defaultInt(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}
