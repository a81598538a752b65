package backend

import (
	"fmt"

	"statsboard/pkg/domain"

	"github.com/tidwall/gjson"
)

// DecodeStats 把 data 对象解析为统计文档。
// 使用 gjson 逐键遍历以保留后端给出的键顺序，接口时间图表依赖这个顺序。
func DecodeStats(data gjson.Result) (*domain.StatsDocument, error) {
	if !data.IsObject() {
		return nil, fmt.Errorf("%w: data is not an object", domain.ErrInvalidResponse)
	}

	doc := domain.NewStatsDocument()
	data.ForEach(func(server, value gjson.Result) bool {
		doc.Put(server.String(), decodeServer(value))
		return true
	})
	return doc, nil
}

func decodeServer(v gjson.Result) *domain.ServerStats {
	s := &domain.ServerStats{
		TotalRequests: v.Get("totalRequests").Int(),
	}
	decodeCounts(v.Get("methods"), &s.Methods)
	decodeCounts(v.Get("statusCodes"), &s.StatusCodes)
	decodeCounts(v.Get("logLevels"), &s.LogLevels)
	decodeCounts(v.Get("userAgents"), &s.UserAgents)

	endpoints := v.Get("endpoints")
	if endpoints.IsObject() {
		endpoints.ForEach(func(path, e gjson.Result) bool {
			s.Endpoints.Set(path.String(), domain.EndpointStat{
				Count:   e.Get("count").Int(),
				AvgTime: e.Get("avgTime").Float(),
			})
			return true
		})
	}
	return s
}

// decodeCounts 非对象（缺失、null）时保持为空
func decodeCounts(v gjson.Result, into *domain.Counts) {
	if !v.IsObject() {
		return
	}
	v.ForEach(func(key, n gjson.Result) bool {
		into.Set(key.String(), n.Int())
		return true
	})
}
