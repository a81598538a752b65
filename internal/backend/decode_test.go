package backend

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestDecodeStats_NotObject(t *testing.T) {
	if _, err := DecodeStats(gjson.Parse(`[1,2]`)); err == nil {
		t.Error("data 不是对象时应返回错误")
	}
	if _, err := DecodeStats(gjson.Parse(`null`)); err == nil {
		t.Error("data 为 null 时应返回错误")
	}
}

func TestDecodeStats_MissingServer(t *testing.T) {
	doc, err := DecodeStats(gjson.Parse(`{"Server1": {"totalRequests": 3}}`))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if doc.Server("Server2").TotalRequests != 0 {
		t.Error("缺失的服务器应返回零值统计")
	}
	if doc.Server("Server1").Methods.Get("GET") != 0 {
		t.Error("缺失的映射应返回零值")
	}
}

func TestRedact(t *testing.T) {
	out := redact([]byte(`{"email":"a@b.c","password":"secret","token":"123456"}`))
	if strings.Contains(out, "secret") || strings.Contains(out, "123456") {
		t.Errorf("日志中不应出现密码或验证码: %s", out)
	}
	if !strings.Contains(out, "a@b.c") {
		t.Errorf("非敏感字段应保留: %s", out)
	}

	// 注册请求没有 token 字段，不应被添加
	out = redact([]byte(`{"username":"ana","password":"p"}`))
	if strings.Contains(out, `"token"`) {
		t.Errorf("不应添加不存在的字段: %s", out)
	}
}
