package chart

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Notifier receives the outbound selection event. Implementations must not block;
// the controller never waits for an acknowledgement.
type Notifier interface {
	NotifySelection(x float64) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(x float64) error

func (f NotifierFunc) NotifySelection(x float64) error { return f(x) }

type Options struct {
	// Width and Height of the plot area in pixels.
	Width  float64
	Height float64

	Zoom ZoomRange

	Transition        time.Duration
	FlashDuration     time.Duration
	SelectionLabelTTL time.Duration

	// Radius is the base mark radius in pixels; highlighted marks use twice this.
	Radius float64

	XFormat TickFormat
	YFormat TickFormat

	Notifier Notifier
	Now      func() time.Time
	Logger   *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Zoom.Min <= 0 || o.Zoom.Max < o.Zoom.Min {
		o.Zoom = DefaultZoomRange
	}
	if o.Transition < 0 {
		o.Transition = 0
	}
	if o.FlashDuration <= 0 {
		o.FlashDuration = 500 * time.Millisecond
	}
	if o.SelectionLabelTTL <= 0 {
		o.SelectionLabelTTL = 10 * time.Second
	}
	if o.Radius <= 0 {
		o.Radius = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Notifier == nil {
		o.Notifier = NotifierFunc(func(float64) error { return nil })
	}
}

// Controller owns the point collection, the scale mapping, the view transform
// and the marks. It is not safe for concurrent use: every call is expected to
// come from one event loop.
type Controller struct {
	opts Options
	log  *slog.Logger

	points []Point
	marks  []Mark

	extent    Extent
	hasExtent bool
	x, y      Linear

	// axis transition: scales before the last append and when it started
	prevX, prevY Linear
	axisStart    time.Time

	view Transform

	annotation *Annotation
	nextID     uint64
}

// New builds a controller from two positional series.
func New(xs, ys []float64, opts Options) (*Controller, error) {
	pts, err := Zip(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("initial data: %w", err)
	}
	return NewFromPoints(pts, opts)
}

func NewFromPoints(pts []Point, opts Options) (*Controller, error) {
	if err := checkFinite(pts); err != nil {
		return nil, fmt.Errorf("initial data: %w", err)
	}
	opts.setDefaults()
	c := &Controller{
		opts: opts,
		log:  opts.Logger,
		view: Identity,
	}
	c.points = append(c.points, pts...)
	c.extent, c.hasExtent = extentOf(c.points)
	c.rebuildScales()
	c.marks = make([]Mark, len(c.points))
	for i, p := range c.points {
		c.marks[i] = Mark{Point: p}
		c.place(&c.marks[i])
	}
	c.log.Debug("chart initialized", "points", len(c.points), "extent", c.extent)
	return c, nil
}

func (c *Controller) rebuildScales() {
	x0, x1 := widen(c.extent.MinX, c.extent.MaxX)
	y0, y1 := widen(c.extent.MinY, c.extent.MaxY)
	c.x = Linear{D0: x0, D1: x1, R0: 0, R1: c.opts.Width}
	c.y = Linear{D0: y0, D1: y1, R0: c.opts.Height, R1: 0}
}

// widen gives a single-valued domain a span around its value, so the value
// still maps to the middle while pan and zoom move the axis with the marks.
func widen(lo, hi float64) (float64, float64) {
	if lo != hi {
		return lo, hi
	}
	pad := math.Max(0.5, math.Abs(lo)/10)
	return lo - pad, hi + pad
}

func (c *Controller) place(m *Mark) {
	m.X, m.Y = c.view.Apply(c.x.Map(m.Point.X), c.y.Map(m.Point.Y))
}

// Append adds a batch in order, re-scales to the new extent and creates marks for
// the new points only. A batch with any non-finite value is rejected whole.
func (c *Controller) Append(batch []Point) error {
	if len(batch) == 0 {
		return nil
	}
	if err := checkFinite(batch); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	now := c.opts.Now()

	oldX, oldY := c.EffectiveX(), c.EffectiveY()
	if !c.hasExtent {
		c.extent = Extent{MinX: batch[0].X, MaxX: batch[0].X, MinY: batch[0].Y, MaxY: batch[0].Y}
		c.hasExtent = true
	}
	for _, p := range batch {
		c.extent = c.extent.include(p)
	}
	c.points = append(c.points, batch...)
	c.rebuildScales()

	// existing marks move to the new mapping
	for i := range c.marks {
		m := &c.marks[i]
		m.fromX, m.fromY = m.Position(now, c.opts.Transition)
		c.place(m)
		if c.opts.Transition > 0 {
			m.moveStart = now
		}
	}
	if c.opts.Transition > 0 && len(c.marks) > 0 {
		c.prevX, c.prevY = oldX, oldY
		c.axisStart = now
	}

	for _, p := range batch {
		m := Mark{Point: p}
		c.place(&m)
		c.marks = append(c.marks, m)
	}
	c.log.Debug("batch appended", "size", len(batch), "points", len(c.points))
	return nil
}

// ApplyTransform composes a gesture delta onto the current view.
func (c *Controller) ApplyTransform(delta Transform) {
	c.SetTransform(Compose(c.view, delta))
}

// SetTransform replaces the view, clamped to the zoom range and visible extent,
// and repositions every mark immediately.
func (c *Controller) SetTransform(t Transform) {
	if t.K <= 0 || math.IsNaN(t.K) {
		return
	}
	c.view = constrain(t, c.opts.Zoom, c.opts.Width, c.opts.Height)
	for i := range c.marks {
		m := &c.marks[i]
		m.moveStart = time.Time{}
		c.place(m)
	}
	c.axisStart = time.Time{}
}

// Zoom scales the view by factor around the pixel (fx, fy).
func (c *Controller) Zoom(factor, fx, fy float64) {
	if factor <= 0 {
		return
	}
	k := c.opts.Zoom.clamp(c.view.K * factor)
	c.ApplyTransform(ZoomAt(k/c.view.K, fx, fy))
}

func (c *Controller) Pan(dx, dy float64) {
	c.ApplyTransform(Translate(dx, dy))
}

func (c *Controller) ResetView() {
	c.SetTransform(Identity)
}

// Resize changes the plot area; marks are re-placed without a transition.
func (c *Controller) Resize(w, h float64) {
	if w == c.opts.Width && h == c.opts.Height {
		return
	}
	c.opts.Width, c.opts.Height = w, h
	c.rebuildScales()
	c.SetTransform(c.view)
}

// Hover highlights mark i and shows its coordinate label, replacing whatever
// label was visible.
func (c *Controller) Hover(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	for j := range c.marks {
		if j != i {
			c.marks[j].Highlighted = false
		}
	}
	m := &c.marks[i]
	m.Highlighted = true
	c.setAnnotation(Annotation{
		Kind:  HoverLabel,
		Index: i,
		Text:  formatValue(m.Point.X) + "," + formatValue(m.Point.Y),
		DX:    hoverDX,
		DY:    hoverDY,
	})
	return nil
}

func (c *Controller) Unhover(i int) {
	if c.checkIndex(i) != nil {
		return
	}
	c.marks[i].Highlighted = false
	if a := c.annotation; a != nil && a.Kind == HoverLabel && a.Index == i {
		c.annotation = nil
	}
}

// Hovered returns the highlighted mark, if any.
func (c *Controller) Hovered() (int, bool) {
	for i := range c.marks {
		if c.marks[i].Highlighted {
			return i, true
		}
	}
	return -1, false
}

// Select flashes mark i, shows a self-expiring label and sends the point's x value
// to the notifier exactly once.
func (c *Controller) Select(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	now := c.opts.Now()
	m := &c.marks[i]
	if !m.Flashing(now, c.opts.FlashDuration) {
		m.flashStart = now
	}
	c.setAnnotation(Annotation{
		Kind:    SelectionLabel,
		Index:   i,
		Text:    "You've selected " + formatValue(m.Point.X),
		DX:      selectionDX,
		DY:      selectionDY,
		Expires: now.Add(c.opts.SelectionLabelTTL),
	})
	x := m.Point.X
	c.log.Info("point selected", "index", i, "x", x)
	if err := c.opts.Notifier.NotifySelection(x); err != nil {
		c.log.Warn("selection notify failed", "x", x, "error", err)
	}
	return nil
}

func (c *Controller) setAnnotation(a Annotation) {
	c.nextID++
	a.ID = c.nextID
	c.annotation = &a
}

// Tick expires the selection label and settles finished animations. It reports
// whether anything is still animating.
func (c *Controller) Tick() bool {
	now := c.opts.Now()
	if a := c.annotation; a != nil && !a.Expires.IsZero() && !now.Before(a.Expires) {
		c.annotation = nil
	}
	busy := c.annotation != nil && !c.annotation.Expires.IsZero()
	for i := range c.marks {
		m := &c.marks[i]
		if !m.flashStart.IsZero() {
			if m.Flashing(now, c.opts.FlashDuration) {
				busy = true
			} else {
				m.flashStart = time.Time{}
			}
		}
		if !m.moveStart.IsZero() {
			if m.moving(now, c.opts.Transition) {
				busy = true
			} else {
				m.moveStart = time.Time{}
			}
		}
	}
	if !c.axisStart.IsZero() {
		if now.Sub(c.axisStart) < c.opts.Transition {
			busy = true
		} else {
			c.axisStart = time.Time{}
		}
	}
	return busy
}

func (c *Controller) checkIndex(i int) error {
	if i < 0 || i >= len(c.marks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndex, i, len(c.marks))
	}
	return nil
}

// MarkAt returns the mark nearest to pixel (px, py) within radius, using the
// positions drawn at the current time.
func (c *Controller) MarkAt(px, py, radius float64) (int, bool) {
	now := c.opts.Now()
	best, bestD := -1, radius*radius
	for i := range c.marks {
		x, y := c.marks[i].Position(now, c.opts.Transition)
		dx, dy := x-px, y-py
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

func (c *Controller) Len() int { return len(c.points) }

// Points returns a copy of the collection.
func (c *Controller) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Controller) Marks() []Mark {
	out := make([]Mark, len(c.marks))
	copy(out, c.marks)
	return out
}

func (c *Controller) Mark(i int) (Mark, bool) {
	if c.checkIndex(i) != nil {
		return Mark{}, false
	}
	return c.marks[i], true
}

// MarkRadius is the radius mark i is drawn with.
func (c *Controller) MarkRadius(i int) float64 {
	if c.checkIndex(i) == nil && c.marks[i].Highlighted {
		return c.opts.Radius * 2
	}
	return c.opts.Radius
}

// Annotation returns the visible label and its anchor, if any.
func (c *Controller) Annotation() (Annotation, float64, float64, bool) {
	a := c.annotation
	if a == nil || c.checkIndex(a.Index) != nil {
		return Annotation{}, 0, 0, false
	}
	x, y := c.marks[a.Index].Position(c.opts.Now(), c.opts.Transition)
	return *a, x + a.DX, y + a.DY, true
}

func (c *Controller) Transform() Transform { return c.view }

// Domain returns the extent of all points and whether there is one.
func (c *Controller) Domain() (Extent, bool) { return c.extent, c.hasExtent }

func (c *Controller) XScale() Linear { return c.x }
func (c *Controller) YScale() Linear { return c.y }

// EffectiveX is the base x scale seen through the view transform.
func (c *Controller) EffectiveX() Linear { return c.x.rescale(c.view.InvertX) }
func (c *Controller) EffectiveY() Linear { return c.y.rescale(c.view.InvertY) }

// Now returns the controller clock.
func (c *Controller) Now() time.Time { return c.opts.Now() }

// Options returns the effective options after defaults.
func (c *Controller) Options() Options { return c.opts }

// XTicks returns roughly count ticks for the x axis as currently drawn.
func (c *Controller) XTicks(count int) []Tick {
	if !c.hasExtent {
		return nil
	}
	return axisTicks(c.axisScale(c.prevX, c.EffectiveX()), count, c.opts.XFormat)
}

func (c *Controller) YTicks(count int) []Tick {
	if !c.hasExtent {
		return nil
	}
	return axisTicks(c.axisScale(c.prevY, c.EffectiveY()), count, c.opts.YFormat)
}

// axisScale interpolates the axis domain while an append transition runs.
func (c *Controller) axisScale(from, to Linear) Linear {
	if c.axisStart.IsZero() || c.opts.Transition <= 0 {
		return to
	}
	el := c.opts.Now().Sub(c.axisStart)
	if el >= c.opts.Transition {
		return to
	}
	t := easeCubicInOut(float64(el) / float64(c.opts.Transition))
	return Linear{
		D0: lerp(from.D0, to.D0, t),
		D1: lerp(from.D1, to.D1, t),
		R0: to.R0,
		R1: to.R1,
	}
}
