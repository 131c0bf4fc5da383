package tui

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scatterlive/internal/chart"
	"scatterlive/internal/feed"
)

// Options configures the terminal surface around a chart controller.
type Options struct {
	Title        string
	MarginLeft   int // cells reserved for y tick labels
	MarginBottom int // rows reserved for the x axis
	FPS          int
	Dir          string // directory listed by the import sidebar
	ExportDir    string
	Inbound      <-chan feed.Inbound
	Log          *slog.Logger
}

type Model struct {
	ctrl *chart.Controller
	opts Options
	log  *slog.Logger
	keys keyMap
	help help.Model

	width  int
	height int

	status     string
	statusWarn bool

	animating bool
	feedDone  bool
	batches   int
	rejected  int

	// pointer position over the plot, in micro-pixels
	pointerIn bool
	pointerX  float64
	pointerY  float64

	// import sidebar
	showSidebar bool
	cwd         string
	l           list.Model
	items       []list.Item

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// points table
	showTable bool
	tbl       table.Model
}

func New(ctrl *chart.Controller, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "live scatter"
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.MarginLeft < 0 {
		opts.MarginLeft = 0
	}
	if opts.MarginBottom < 0 {
		opts.MarginBottom = 0
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	m := Model{
		ctrl:   ctrl,
		opts:   opts,
		log:    opts.Log,
		keys:   defaultKeys(),
		help:   help.New(),
		status: "scatterlive ready",
	}
	m.cwd = opts.Dir
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	if m.opts.ExportDir == "" {
		m.opts.ExportDir = m.cwd
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Import batch"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = `Paste a batch: {"list":[{"x":1,"y":2}]} or {"x":[...],"y":[...]}. Enter appends; Esc cancels.`
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForInbound(m.opts.Inbound)
}

// Controller exposes the chart state driven by this model.
func (m Model) Controller() *chart.Controller { return m.ctrl }

func (m Model) Status() string { return m.status }

const (
	sidebarWidth = 28
	headerHeight = 1
)

// layout is the screen geometry shared by View and the mouse hit test.
type layout struct {
	bodyW, bodyH     int
	sidebarW         int // including the gap column
	originX, originY int // first plot cell on screen
	plotW, plotH     int // plot area in cells
	footerH          int
}

func (m Model) layout() layout {
	var l layout
	l.footerH = 1 + lipgloss.Height(m.help.View(m.keys))
	l.bodyH = max(4, m.height-headerHeight-l.footerH)
	if m.showSidebar {
		l.sidebarW = sidebarWidth + 1
	}
	l.bodyW = max(10, m.width) - l.sidebarW
	l.plotW = max(4, l.bodyW-m.opts.MarginLeft)
	l.plotH = max(2, l.bodyH-m.opts.MarginBottom)
	l.originX = l.sidebarW + m.opts.MarginLeft
	l.originY = headerHeight
	return l
}

// resizeChart hands the plot area to the controller in micro-pixels. The range
// ends on the last addressable micro-pixel so extreme marks land on the canvas.
func (m *Model) resizeChart() {
	l := m.layout()
	m.ctrl.Resize(float64(l.plotW*2-1), float64(l.plotH*4-1))
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, l.bodyH-2)
	}
	m.help.Width = m.width
}

// toPlot converts a screen cell to the micro-pixel at its centre.
func (m Model) toPlot(x, y int) (float64, float64, bool) {
	l := m.layout()
	cx, cy := x-l.originX, y-l.originY
	if cx < 0 || cy < 0 || cx >= l.plotW || cy >= l.plotH {
		return 0, 0, false
	}
	return float64(cx*2) + 1, float64(cy*4) + 2, true
}

// hitRadius is how far from a mark, in micro-pixels, the pointer still hovers it.
func (m Model) hitRadius() float64 {
	return m.ctrl.Options().Radius*2 + 2
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// animate starts the frame ticker unless it is already running.
func (m *Model) animate() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return m.frame()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusWarn = false
}

func (m *Model) warn(s string) {
	m.status = s
	m.statusWarn = true
}
