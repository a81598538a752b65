package service_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"statsboard/internal/chart"
	"statsboard/internal/config"
	"statsboard/internal/nav"
	"statsboard/internal/service"
	"statsboard/internal/storage/db"
	"statsboard/internal/storage/model"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"

	"gorm.io/gorm"
)

// fakeAPI 内存后端：token 为 "jwt" 时有效
type fakeAPI struct {
	mu  sync.Mutex
	doc *domain.StatsDocument
}

func (f *fakeAPI) VerifyToken(_ context.Context, token string) (bool, error) {
	return token == "jwt", nil
}

func (f *fakeAPI) FetchStats(_ context.Context, _ string) (*domain.StatsDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, nil
}

func (f *fakeAPI) Login(_ context.Context, form domain.LoginForm) (domain.LoginResult, error) {
	if form.Password != "secret" {
		return domain.LoginResult{}, errx.Wrap(errx.CodeRejected, domain.ErrRejected, "Invalid credentials")
	}
	return domain.LoginResult{Token: "jwt"}, nil
}

func (f *fakeAPI) Register(_ context.Context, _ domain.RegisterForm) (domain.Registration, error) {
	return domain.Registration{QRCodeURL: "data:qr"}, nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.New(db.Options{Name: db.MemoryName, Prefix: "test_"})
	if err != nil {
		t.Fatalf("创建内存数据库失败: %v", err)
	}
	if err := db.Migrate(gdb, model.All()...); err != nil {
		t.Fatalf("迁移数据库失败: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func TestFlow_LoginDashboardLogout(t *testing.T) {
	gdb := setupDB(t)
	sched := &nav.ManualScheduler{}
	doc := domain.NewStatsDocument()
	s1 := &domain.ServerStats{TotalRequests: 3}
	s1.Methods.Set("GET", 3)
	doc.Put("Server1", s1)

	svc := service.New(service.Options{
		Config:    config.NewConfig(),
		DB:        gdb,
		Scheduler: sched,
		Backend:   &fakeAPI{doc: doc},
	})
	ctx := context.Background()

	if _, err := svc.OpenDashboard(ctx); !errx.Is(err, errx.CodeMissingCredential) {
		t.Fatalf("未登录时应拒绝: %v", err)
	}
	sched.Fire()
	if svc.Route() != domain.RouteLogin {
		t.Errorf("应跳转登录页: %s", svc.Route())
	}

	if _, err := svc.Login(ctx, domain.LoginForm{Email: "a@b.c", Password: "bad", MFACode: "1"}); errx.MessageOf(err) != "Invalid credentials" {
		t.Fatalf("应原样展示后端提示: %v", err)
	}
	msg, err := svc.Login(ctx, domain.LoginForm{Email: "a@b.c", Password: "secret", MFACode: "123456"})
	if err != nil || msg != domain.MsgLoginSuccess {
		t.Fatalf("登录失败: %v", err)
	}
	if svc.Route() != domain.RouteHome {
		t.Errorf("登录后应在首页: %s", svc.Route())
	}

	home, err := svc.OpenHome(ctx)
	if err != nil || home.Message != "Welcome, a@b.c" {
		t.Fatalf("首页错误: %+v %v", home, err)
	}

	view, err := svc.OpenDashboard(ctx)
	if err != nil {
		t.Fatalf("统计视图加载失败: %v", err)
	}
	if len(view.Charts) != len(chart.Slots) {
		t.Errorf("图表数量错误: %d", len(view.Charts))
	}
	png, err := svc.Chart("methods.png")
	if err != nil || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("图表获取失败: %v", err)
	}
	if _, err := svc.Chart("pie"); err == nil {
		t.Error("未知图表应报错")
	}

	if _, err := svc.Logout(ctx); err != nil {
		t.Fatalf("退出失败: %v", err)
	}
	sched.Fire()
	if svc.Route() != domain.RouteLogin {
		t.Errorf("退出后应跳转登录页: %s", svc.Route())
	}

	svc.Close()
	acts, err := svc.ListActivity(ctx, 10)
	if err != nil {
		t.Fatalf("查询活动失败: %v", err)
	}
	kinds := make(map[domain.ActivityKind]bool)
	for _, a := range acts {
		kinds[a.Kind] = true
	}
	for _, k := range []domain.ActivityKind{domain.ActivityLoginFailed, domain.ActivityLogin, domain.ActivityStatsLoaded, domain.ActivityLogout} {
		if !kinds[k] {
			t.Errorf("缺少活动记录 %s: %+v", k, acts)
		}
	}
}

func TestNavigate(t *testing.T) {
	svc := service.New(service.Options{Backend: &fakeAPI{}})
	defer svc.Close()

	if err := svc.Navigate(domain.RouteRegister); err != nil {
		t.Fatalf("跳转失败: %v", err)
	}
	if svc.Route() != domain.RouteRegister {
		t.Errorf("当前路由错误: %s", svc.Route())
	}
	if err := svc.Navigate("/admin"); !errx.Is(err, errx.CodeInvalidInput) {
		t.Errorf("未知路由应报错: %v", err)
	}
}

func TestListActivity_WithoutDB(t *testing.T) {
	svc := service.New(service.Options{Backend: &fakeAPI{}})
	defer svc.Close()

	acts, err := svc.ListActivity(context.Background(), 10)
	if err != nil || len(acts) != 0 {
		t.Errorf("无数据库时应返回空: %v %v", acts, err)
	}
}

func TestActivitiesChannel(t *testing.T) {
	svc := service.New(service.Options{Backend: &fakeAPI{}, LiveActivity: true})
	defer svc.Close()

	_, _ = svc.Login(context.Background(), domain.LoginForm{Email: "a@b.c", Password: "secret", MFACode: "1"})
	select {
	case a := <-svc.Activities():
		if a.Kind != domain.ActivityLogin {
			t.Errorf("活动类型错误: %s", a.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("未收到实时活动")
	}
}

// 未开启实时推送时不创建通道，登录不受影响
func TestActivitiesDisabled(t *testing.T) {
	svc := service.New(service.Options{Backend: &fakeAPI{}})
	defer svc.Close()

	if svc.Activities() != nil {
		t.Fatal("未开启实时推送时通道应为 nil")
	}
	for i := 0; i < 100; i++ {
		if _, err := svc.Login(context.Background(), domain.LoginForm{Email: "a@b.c", Password: "secret", MFACode: "1"}); err != nil {
			t.Fatalf("第 %d 次登录失败: %v", i, err)
		}
	}
}
