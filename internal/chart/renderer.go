package chart

import (
	"context"

	"statsboard/internal/logger"
	"statsboard/internal/pool"
	"statsboard/pkg/domain"
)

// Renderer 将统计文档绘制到注册表中的各个位置
type Renderer struct {
	width    int
	height   int
	workers  int
	pair     Pair
	registry *Registry
	log      logger.Logger
}

// Options 渲染器配置
type Options struct {
	Width    int
	Height   int
	// Workers 并发绘制数，默认 4
	Workers  int
	Pair     Pair
	Registry *Registry
	Logger   logger.Logger
}

// NewRenderer 创建渲染器
func NewRenderer(opts Options) *Renderer {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Renderer{
		width:    opts.Width,
		height:   opts.Height,
		workers:  opts.Workers,
		pair:     opts.Pair,
		registry: opts.Registry,
		log:      opts.Logger,
	}
}

// Registry 返回渲染器使用的注册表
func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Render 绘制全部七张图表，返回值顺序与 Slots 一致。
// 每个位置在绘制前先释放旧实例，单张失败不影响其他位置，返回第一个错误。
func (r *Renderer) Render(ctx context.Context, doc *domain.StatsDocument) ([]*Handle, error) {
	specs := Build(doc, r.pair)
	drawn := make([]*Handle, len(specs))

	p := pool.New(r.workers)
	p.SetLogger(r.log)
	for i, spec := range specs {
		i, spec := i, spec
		err := p.Go(ctx, func() error {
			r.registry.Release(spec.Slot)
			png, err := Draw(spec, r.width, r.height)
			if err != nil {
				r.log.Err(err, "绘制图表失败", "slot", spec.Slot)
				return err
			}
			h := NewHandle(spec, png)
			r.registry.Bind(h)
			drawn[i] = h
			return nil
		})
		if err != nil {
			_ = p.Wait()
			return compact(drawn), err
		}
	}
	err := p.Wait()

	handles := compact(drawn)
	r.log.Debug("图表绘制完成", "count", len(handles))
	return handles, err
}

func compact(hs []*Handle) []*Handle {
	out := make([]*Handle, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
