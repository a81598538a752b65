package chart

import (
	"reflect"
	"testing"

	"statsboard/pkg/domain"
)

var pair = Pair{First: "Server1", Second: "Server2"}

func counts(kv ...any) domain.Counts {
	var c domain.Counts
	for i := 0; i+1 < len(kv); i += 2 {
		c.Set(kv[i].(string), int64(kv[i+1].(int)))
	}
	return c
}

func endpoints(kv ...any) domain.OrderedMap[domain.EndpointStat] {
	var m domain.OrderedMap[domain.EndpointStat]
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(domain.EndpointStat))
	}
	return m
}

func TestBuild_SlotsInOrder(t *testing.T) {
	specs := Build(domain.NewStatsDocument(), pair)
	if len(specs) != len(Slots) {
		t.Fatalf("图表数量错误: %d", len(specs))
	}
	for i, s := range specs {
		if s.Slot != Slots[i] {
			t.Errorf("第 %d 张图表位置错误: %s", i, s.Slot)
		}
	}
}

func TestMethods_ZeroFill(t *testing.T) {
	a := &domain.ServerStats{Methods: counts("GET", 10)}
	b := &domain.ServerStats{Methods: counts("POST", 5)}

	spec := MethodsChart(pair, a, b)
	if !reflect.DeepEqual(spec.Labels, Methods) {
		t.Fatalf("类别错误: %v", spec.Labels)
	}
	if got := spec.Series[0].Values; !reflect.DeepEqual(got, []float64{10, 0, 0, 0}) {
		t.Errorf("Server1 值错误: %v", got)
	}
	if got := spec.Series[1].Values; !reflect.DeepEqual(got, []float64{0, 5, 0, 0}) {
		t.Errorf("Server2 值错误: %v", got)
	}
}

func TestLogLevels_MissingServer(t *testing.T) {
	doc := domain.NewStatsDocument()
	doc.Put("Server1", &domain.ServerStats{LogLevels: counts("error", 3)})

	spec := Build(doc, pair)[4]
	if spec.Slot != SlotLogLevels {
		t.Fatalf("位置错误: %s", spec.Slot)
	}
	if got := spec.Series[0].Values; !reflect.DeepEqual(got, []float64{0, 0, 3, 0}) {
		t.Errorf("Server1 值错误: %v", got)
	}
	if got := spec.Series[1].Values; !reflect.DeepEqual(got, []float64{0, 0, 0, 0}) {
		t.Errorf("缺失服务器应全为零: %v", got)
	}
}

func TestStatusCodes_SortedUnion(t *testing.T) {
	a := &domain.ServerStats{StatusCodes: counts("500", 1, "200", 9)}
	b := &domain.ServerStats{StatusCodes: counts("404", 2, "200", 4)}

	spec := StatusCodes(pair, a, b)
	if want := []string{"200", "404", "500"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Fatalf("类别应排序: %v", spec.Labels)
	}
	if got := spec.Series[1].Values; !reflect.DeepEqual(got, []float64{4, 2, 0}) {
		t.Errorf("Server2 值错误: %v", got)
	}
}

func TestResponseTime_EncounterOrder(t *testing.T) {
	a := &domain.ServerStats{Endpoints: endpoints(
		"/z", domain.EndpointStat{Count: 1, AvgTime: 10},
		"/y", domain.EndpointStat{Count: 100, AvgTime: 20},
		"/x", domain.EndpointStat{Count: 1, AvgTime: 30},
	)}
	b := &domain.ServerStats{Endpoints: endpoints(
		"/y", domain.EndpointStat{Count: 1, AvgTime: 5},
		"/w", domain.EndpointStat{Count: 1, AvgTime: 6},
		"/v", domain.EndpointStat{Count: 1, AvgTime: 7},
		"/u", domain.EndpointStat{Count: 1, AvgTime: 8},
	)}

	spec := ResponseTime(pair, a, b)
	if want := []string{"/z", "/y", "/x", "/w", "/v"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Fatalf("应按出现顺序取前五个: %v", spec.Labels)
	}
	if got := spec.Series[0].Values; !reflect.DeepEqual(got, []float64{10, 20, 30, 0, 0}) {
		t.Errorf("Server1 值错误: %v", got)
	}
	if got := spec.Series[1].Values; !reflect.DeepEqual(got, []float64{0, 5, 0, 6, 7}) {
		t.Errorf("Server2 值错误: %v", got)
	}
}

func TestEndpointResponseTime_TopFive(t *testing.T) {
	a := &domain.ServerStats{Endpoints: endpoints(
		"A", domain.EndpointStat{Count: 10, AvgTime: 1},
		"B", domain.EndpointStat{Count: 5, AvgTime: 2},
		"C", domain.EndpointStat{Count: 20, AvgTime: 3},
		"D", domain.EndpointStat{Count: 1, AvgTime: 4},
		"E", domain.EndpointStat{Count: 8, AvgTime: 5},
		"F", domain.EndpointStat{Count: 30, AvgTime: 6},
	)}
	b := &domain.ServerStats{}

	spec := EndpointResponseTime(pair, a, b)
	if want := []string{"F", "C", "A", "E", "B"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Fatalf("前五个接口错误: %v", spec.Labels)
	}
	if len(spec.Series) != 4 {
		t.Fatalf("系列数量错误: %d", len(spec.Series))
	}
	if s := spec.Series[0]; s.Kind != KindBar || s.Axis != AxisPrimary {
		t.Errorf("耗时系列应为主轴柱状: %+v", s)
	}
	if s := spec.Series[2]; s.Kind != KindLine || s.Axis != AxisSecondary {
		t.Errorf("请求数系列应为次轴折线: %+v", s)
	}
	if got := spec.Series[2].Values; !reflect.DeepEqual(got, []float64{30, 20, 10, 8, 5}) {
		t.Errorf("请求数错误: %v", got)
	}
	if !spec.HasSecondary() {
		t.Error("应包含次纵轴")
	}
}

func TestUserAgents_CombinedTiesKeepOrder(t *testing.T) {
	a := &domain.ServerStats{UserAgents: counts("curl", 3, "go", 1, "wget", 2)}
	b := &domain.ServerStats{UserAgents: counts("go", 2, "edge", 9, "safari", 3, "opera", 1)}

	spec := UserAgents(pair, a, b)
	// curl=3 go=3 wget=2 edge=9 safari=3 opera=1
	if want := []string{"edge", "curl", "go", "safari", "wget"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Fatalf("排序错误: %v", spec.Labels)
	}
	if got := spec.Series[0].Values; !reflect.DeepEqual(got, []float64{0, 3, 1, 0, 2}) {
		t.Errorf("Server1 值错误: %v", got)
	}
}

func TestTotalRequests(t *testing.T) {
	spec := TotalRequests(pair, &domain.ServerStats{TotalRequests: 7}, &domain.ServerStats{})
	if want := []string{"Server1", "Server2"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Fatalf("类别错误: %v", spec.Labels)
	}
	if len(spec.Series) != 1 || !reflect.DeepEqual(spec.Series[0].Values, []float64{7, 0}) {
		t.Errorf("系列错误: %+v", spec.Series)
	}
}

func TestParseSlot(t *testing.T) {
	if s, ok := ParseSlot("statusCodes"); !ok || s != SlotStatusCodes {
		t.Errorf("解析失败: %v %v", s, ok)
	}
	if _, ok := ParseSlot("pie"); ok {
		t.Error("未知位置不应解析成功")
	}
}
