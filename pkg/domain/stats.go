package domain

// OrderedMap 保持插入顺序的映射，后端 JSON 对象的键顺序即为插入顺序。
// 零值可直接使用。
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set 写入键值，已存在的键保持原有位置
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get 读取键值，缺失时返回零值
func (m *OrderedMap[V]) Get(key string) V {
	return m.values[key]
}

// Lookup 读取键值并报告是否存在
func (m *OrderedMap[V]) Lookup(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys 按插入顺序返回所有键的副本
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len 返回键数量
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Counts 计数映射
type Counts = OrderedMap[int64]

// EndpointStat 单个接口的统计
type EndpointStat struct {
	Count   int64   `json:"count"`
	AvgTime float64 `json:"avgTime"`
}

// ServerStats 单台服务器的聚合日志统计
type ServerStats struct {
	TotalRequests int64
	Methods       Counts
	StatusCodes   Counts
	Endpoints     OrderedMap[EndpointStat]
	LogLevels     Counts
	UserAgents    Counts
}

// StatsDocument 按服务器标识聚合的统计文档，获取后不再修改
type StatsDocument struct {
	servers OrderedMap[*ServerStats]
}

// NewStatsDocument 创建空文档
func NewStatsDocument() *StatsDocument {
	return &StatsDocument{}
}

// Put 写入某台服务器的统计
func (d *StatsDocument) Put(server string, s *ServerStats) {
	d.servers.Set(server, s)
}

// Server 返回指定服务器的统计，缺失时返回空统计
func (d *StatsDocument) Server(name string) *ServerStats {
	if d == nil {
		return &ServerStats{}
	}
	if s, ok := d.servers.Lookup(name); ok && s != nil {
		return s
	}
	return &ServerStats{}
}

// Servers 返回文档中出现的服务器标识
func (d *StatsDocument) Servers() []string {
	return d.servers.Keys()
}
