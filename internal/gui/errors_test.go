package gui

import (
	"errors"
	"fmt"
	"testing"

	"statsboard/internal/chart"
	"statsboard/internal/dashboard"
	"statsboard/internal/logger"
	"statsboard/pkg/domain"
	"statsboard/pkg/errx"
)

func TestTranslateError(t *testing.T) {
	a := &App{log: logger.NewNop()}

	cases := []struct {
		name string
		err  error
		code errx.Code
		msg  string
	}{
		{"nil", nil, "", ""},
		{"带错误码", errx.Wrap(errx.CodeRejected, domain.ErrRejected, "Invalid MFA code"), errx.CodeRejected, "Invalid MFA code"},
		{"领域错误", fmt.Errorf("load: %w", domain.ErrNoToken), errx.CodeMissingCredential, ""},
		{"未知错误", errors.New("boom"), CodeUnknown, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := a.translateError(tc.err)
			if code != tc.code || msg != tc.msg {
				t.Errorf("got (%s, %q), want (%s, %q)", code, msg, tc.code, tc.msg)
			}
		})
	}
}

func TestNewDashboardData(t *testing.T) {
	data := newDashboardData(dashboard.View{
		Charts: []dashboard.ChartRef{{Slot: chart.SlotMethods, ID: "abc", Title: "HTTP methods"}},
	})
	if len(data.Charts) != 1 {
		t.Fatalf("图表数量错误: %d", len(data.Charts))
	}
	if got := data.Charts[0].URL; got != "/charts/methods.png?v=abc" {
		t.Errorf("图表地址错误: %s", got)
	}

	empty := newDashboardData(dashboard.View{Redirecting: true})
	if !empty.Redirecting || empty.Charts == nil {
		t.Errorf("空视图应保留跳转标记且图表为空数组: %+v", empty)
	}
}
