package chart

import (
	"slices"
	"sort"

	"statsboard/pkg/domain"
)

// Slot 图表挂载位置标识
type Slot string

const (
	SlotTotalRequests        Slot = "totalRequests"
	SlotMethods              Slot = "methods"
	SlotStatusCodes          Slot = "statusCodes"
	SlotResponseTime         Slot = "responseTime"
	SlotLogLevels            Slot = "logLevels"
	SlotUserAgents           Slot = "userAgents"
	SlotEndpointResponseTime Slot = "endpointResponseTime"
)

// Slots 全部图表位置，顺序即页面展示顺序
var Slots = []Slot{
	SlotTotalRequests,
	SlotMethods,
	SlotStatusCodes,
	SlotResponseTime,
	SlotLogLevels,
	SlotUserAgents,
	SlotEndpointResponseTime,
}

// ParseSlot 解析图表位置
func ParseSlot(s string) (Slot, bool) {
	slot := Slot(s)
	return slot, slices.Contains(Slots, slot)
}

// 固定的类别集合
var (
	Methods   = []string{"GET", "POST", "PUT", "DELETE"}
	LogLevels = []string{"info", "warning", "error", "debug"}
)

// topN 截取的类别数量
const topN = 5

// Kind 系列绘制方式
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Axis 系列使用的纵轴
type Axis string

const (
	AxisPrimary   Axis = "primary"
	AxisSecondary Axis = "secondary"
)

// Series 一组数据，Values 与 Spec.Labels 一一对应
type Series struct {
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Axis   Axis      `json:"axis"`
	Values []float64 `json:"values"`
}

// Spec 一张图表的完整描述，不含样式
type Spec struct {
	Slot   Slot     `json:"slot"`
	Title  string   `json:"title"`
	YName  string   `json:"yName,omitempty"`
	Y2Name string   `json:"y2Name,omitempty"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// HasSecondary 是否存在使用次纵轴的系列
func (s Spec) HasSecondary() bool {
	for _, se := range s.Series {
		if se.Axis == AxisSecondary {
			return true
		}
	}
	return false
}

// Pair 参与对比的两台服务器
type Pair struct {
	First  string
	Second string
}

// Build 生成全部七张图表的描述，顺序与 Slots 一致
func Build(doc *domain.StatsDocument, p Pair) []Spec {
	a, b := doc.Server(p.First), doc.Server(p.Second)
	return []Spec{
		TotalRequests(p, a, b),
		MethodsChart(p, a, b),
		StatusCodes(p, a, b),
		ResponseTime(p, a, b),
		LogLevelsChart(p, a, b),
		UserAgents(p, a, b),
		EndpointResponseTime(p, a, b),
	}
}

// TotalRequests 两台服务器的请求总数对比
func TotalRequests(p Pair, a, b *domain.ServerStats) Spec {
	return Spec{
		Slot:   SlotTotalRequests,
		Title:  "Total requests per server",
		YName:  "Requests",
		Labels: []string{p.First, p.Second},
		Series: []Series{{
			Name:   "Total requests",
			Kind:   KindBar,
			Axis:   AxisPrimary,
			Values: []float64{float64(a.TotalRequests), float64(b.TotalRequests)},
		}},
	}
}

// MethodsChart HTTP 方法分布，类别固定
func MethodsChart(p Pair, a, b *domain.ServerStats) Spec {
	return countsSpec(SlotMethods, "HTTP methods", "Requests", p, Methods, &a.Methods, &b.Methods)
}

// StatusCodes 状态码分布，类别为两台服务器状态码的并集并排序
func StatusCodes(p Pair, a, b *domain.ServerStats) Spec {
	labels := union(a.StatusCodes.Keys(), b.StatusCodes.Keys())
	sort.Strings(labels)
	return countsSpec(SlotStatusCodes, "HTTP status codes", "Requests", p, labels, &a.StatusCodes, &b.StatusCodes)
}

// LogLevelsChart 日志级别分布，类别固定
func LogLevelsChart(p Pair, a, b *domain.ServerStats) Spec {
	return countsSpec(SlotLogLevels, "Log levels", "Log entries", p, LogLevels, &a.LogLevels, &b.LogLevels)
}

// UserAgents 合计请求数最多的五个 User-Agent
func UserAgents(p Pair, a, b *domain.ServerStats) Spec {
	keys := union(a.UserAgents.Keys(), b.UserAgents.Keys())
	labels := rank(keys, func(k string) int64 {
		return a.UserAgents.Get(k) + b.UserAgents.Get(k)
	})
	return countsSpec(SlotUserAgents, "Top user agents", "Requests", p, labels, &a.UserAgents, &b.UserAgents)
}

// ResponseTime 按出现顺序取前五个接口的平均响应时间（不排序）
func ResponseTime(p Pair, a, b *domain.ServerStats) Spec {
	labels := union(a.Endpoints.Keys(), b.Endpoints.Keys())
	if len(labels) > topN {
		labels = labels[:topN]
	}
	return Spec{
		Slot:   SlotResponseTime,
		Title:  "Average response time (first 5 endpoints)",
		YName:  "ms",
		Labels: labels,
		Series: []Series{
			bar(p.First+" (ms)", labels, avgTime(a)),
			bar(p.Second+" (ms)", labels, avgTime(b)),
		},
	}
}

// EndpointResponseTime 合计请求数最多的五个接口：柱状为平均耗时，折线为请求数（次纵轴）
func EndpointResponseTime(p Pair, a, b *domain.ServerStats) Spec {
	keys := union(a.Endpoints.Keys(), b.Endpoints.Keys())
	labels := rank(keys, func(k string) int64 {
		return a.Endpoints.Get(k).Count + b.Endpoints.Get(k).Count
	})
	return Spec{
		Slot:   SlotEndpointResponseTime,
		Title:  "Response time and volume per endpoint",
		YName:  "Time (ms)",
		Y2Name: "Requests",
		Labels: labels,
		Series: []Series{
			bar(p.First+" - Time (ms)", labels, avgTime(a)),
			bar(p.Second+" - Time (ms)", labels, avgTime(b)),
			line(p.First+" - Requests", labels, endpointCount(a)),
			line(p.Second+" - Requests", labels, endpointCount(b)),
		},
	}
}

func countsSpec(slot Slot, title, yName string, p Pair, labels []string, a, b *domain.Counts) Spec {
	return Spec{
		Slot:   slot,
		Title:  title,
		YName:  yName,
		Labels: labels,
		Series: []Series{
			bar(p.First, labels, countOf(a)),
			bar(p.Second, labels, countOf(b)),
		},
	}
}

func bar(name string, labels []string, value func(string) float64) Series {
	return Series{Name: name, Kind: KindBar, Axis: AxisPrimary, Values: values(labels, value)}
}

func line(name string, labels []string, value func(string) float64) Series {
	return Series{Name: name, Kind: KindLine, Axis: AxisSecondary, Values: values(labels, value)}
}

// values 缺失的键取零
func values(labels []string, value func(string) float64) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		out[i] = value(l)
	}
	return out
}

func countOf(c *domain.Counts) func(string) float64 {
	return func(k string) float64 { return float64(c.Get(k)) }
}

func avgTime(s *domain.ServerStats) func(string) float64 {
	return func(k string) float64 { return s.Endpoints.Get(k).AvgTime }
}

func endpointCount(s *domain.ServerStats) func(string) float64 {
	return func(k string) float64 { return float64(s.Endpoints.Get(k).Count) }
}

// union 合并两组键，保留首次出现的顺序
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// rank 按得分降序取前 topN 个，得分相同保持原顺序
func rank(keys []string, score func(string) int64) []string {
	out := slices.Clone(keys)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
