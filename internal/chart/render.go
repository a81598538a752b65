package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// 柱组占一个类别宽度的比例
const groupWidth = 0.7

// 每台服务器对应的颜色，柱状使用半透明填充，折线使用实色
var palette = []drawing.Color{
	{R: 54, G: 162, B: 235, A: 255},
	{R: 241, G: 60, B: 60, A: 255},
}

// Draw 将图表描述绘制为 PNG
func Draw(spec Spec, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", width, height)
	}
	if spec.Slot == SlotTotalRequests {
		return drawTotals(spec, width, height)
	}
	return drawGrouped(spec, width, height)
}

// drawTotals 单系列，每个柱子使用各自服务器的颜色
func drawTotals(spec Spec, width, height int) ([]byte, error) {
	bars := make([]gochart.Value, 0, len(spec.Labels))
	var vals []float64
	if len(spec.Series) > 0 {
		vals = spec.Series[0].Values
	}
	for i, label := range spec.Labels {
		c := palette[i%len(palette)]
		bars = append(bars, gochart.Value{
			Label: label,
			Value: valueAt(vals, i),
			Style: gochart.Style{
				FillColor:   c.WithAlpha(178),
				StrokeColor: c,
				StrokeWidth: 1,
			},
		})
	}
	bc := gochart.BarChart{
		Title:    spec.Title,
		Width:    width,
		Height:   height,
		BarWidth: width / 6,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: gochart.YAxis{
			Name:           spec.YName,
			Range:          &gochart.ContinuousRange{Min: 0, Max: upper(vals)},
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", spec.Slot, err)
	}
	return buf.Bytes(), nil
}

// drawGrouped 分组柱状图，可叠加次纵轴折线。
// 每个柱状系列绘制为一条贴着零线的折线并填充其下方区域。
func drawGrouped(spec Spec, width, height int) ([]byte, error) {
	n := len(spec.Labels)
	ticks := categoryTicks(spec.Labels)

	var barCount int
	var primary, secondary []float64
	for _, s := range spec.Series {
		if s.Kind == KindBar {
			barCount++
		}
		if s.Axis == AxisSecondary {
			secondary = append(secondary, s.Values...)
		} else {
			primary = append(primary, s.Values...)
		}
	}

	series := make([]gochart.Series, 0, len(spec.Series)+1)
	var barIdx, lineIdx int
	for _, s := range spec.Series {
		switch s.Kind {
		case KindLine:
			series = append(series, lineSeries(s, n, palette[lineIdx%len(palette)]))
			lineIdx++
		default:
			series = append(series, barSeries(s, n, barIdx, barCount, palette[barIdx%len(palette)]))
			barIdx++
		}
	}

	ch := gochart.Chart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:           spec.YName,
			Range:          &gochart.ContinuousRange{Min: 0, Max: upper(primary)},
			ValueFormatter: formatterFor(spec),
		},
		Series: series,
	}
	if spec.HasSecondary() {
		ch.YAxisSecondary = gochart.YAxis{
			Name:           spec.Y2Name,
			Range:          &gochart.ContinuousRange{Min: 0, Max: upper(secondary)},
			ValueFormatter: countFormatter,
		}
	}
	if n == 0 {
		// 无类别时仍需要一个系列才能完成绘制
		ch.Series = []gochart.Series{gochart.ContinuousSeries{
			XValues: []float64{-0.5, 0.5},
			YValues: []float64{0, 0},
			Style:   gochart.Style{StrokeColor: drawing.Color{}, StrokeWidth: 1},
		}}
	} else {
		ch.Background.Padding.Bottom += legendHeight
		ch.Elements = []gochart.Renderable{legend(spec.Series, height)}
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", spec.Slot, err)
	}
	return buf.Bytes(), nil
}

// categoryTicks 类别刻度位于整数位置，两端各加一个空白刻度。
// 横轴范围取自刻度的最小和最大值，两端刻度保证首尾柱组完整显示，单一类别时范围也不为零。
func categoryTicks(labels []string) []gochart.Tick {
	n := len(labels)
	ticks := make([]gochart.Tick, 0, n+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, label := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	return append(ticks, gochart.Tick{Value: math.Max(float64(n)-0.5, 0.5)})
}

// 图例占用的底部高度与色块边长
const (
	legendHeight = 24
	swatchSize   = 12
)

// legend 在绘图区下方绘制一行图例，柱状系列使用色块，折线系列使用线段
func legend(series []Series, height int) gochart.Renderable {
	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		text := gochart.Style{FontSize: 9, FontColor: gochart.DefaultTextColor}.InheritFrom(defaults)
		y := height - legendHeight/2 - 4
		x := cb.Left
		var barIdx, lineIdx int
		for _, s := range series {
			var c drawing.Color
			if s.Kind == KindLine {
				c = palette[lineIdx%len(palette)]
				lineIdx++
				r.SetStrokeColor(c)
				r.SetStrokeWidth(2)
				r.SetStrokeDashArray(nil)
				r.MoveTo(x, y)
				r.LineTo(x+swatchSize, y)
				r.Stroke()
			} else {
				c = palette[barIdx%len(palette)]
				barIdx++
				gochart.Draw.Box(r, gochart.Box{
					Top:    y - swatchSize/2,
					Left:   x,
					Right:  x + swatchSize,
					Bottom: y + swatchSize/2,
				}, gochart.Style{FillColor: c.WithAlpha(178), StrokeColor: c, StrokeWidth: 1})
			}

			text.WriteTextOptionsToRenderer(r)
			tb := r.MeasureText(s.Name)
			r.Text(s.Name, x+swatchSize+4, y+tb.Height()/2)
			x += swatchSize + 4 + tb.Width() + 16
		}
	}
}

// barSeries 第 idx 个柱状系列，count 为柱状系列总数
func barSeries(s Series, n, idx, count int, c drawing.Color) gochart.ContinuousSeries {
	w := groupWidth / float64(count)
	xs := make([]float64, 0, 4*n)
	ys := make([]float64, 0, 4*n)
	for i := 0; i < n; i++ {
		left := float64(i) - groupWidth/2 + w*float64(idx)
		right := left + w*0.9
		v := valueAt(s.Values, i)
		xs = append(xs, left, left, right, right)
		ys = append(ys, 0, v, v, 0)
	}
	return gochart.ContinuousSeries{
		Name:    s.Name,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: c,
			StrokeWidth: 1,
			FillColor:   c.WithAlpha(178),
		},
	}
}

func lineSeries(s Series, n int, c drawing.Color) gochart.ContinuousSeries {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = valueAt(s.Values, i)
	}
	return gochart.ContinuousSeries{
		Name:    s.Name,
		YAxis:   gochart.YAxisSecondary,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: c,
			StrokeWidth: 2,
			DotColor:    c,
			DotWidth:    3,
		},
	}
}

func valueAt(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// upper 纵轴上限，全零时为 1
func upper(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		m = math.Max(m, v)
	}
	if m <= 0 {
		return 1
	}
	return m * 1.1
}

func formatterFor(spec Spec) gochart.ValueFormatter {
	if spec.Slot == SlotResponseTime || spec.Slot == SlotEndpointResponseTime {
		return msFormatter
	}
	return countFormatter
}

func countFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return ""
}

func msFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.FormatFloat("#,###.#", f)
	}
	return ""
}
