package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"scatterlive/internal/dataset"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.warn("read dir error: " + err.Error())
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !dataset.Supported(name) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.warn("no importable files in " + m.cwd)
	}
}

// importFile appends the file's points as one batch.
func (m *Model) importFile(p string) tea.Cmd {
	pts, err := dataset.LoadBatch(p)
	if err != nil {
		m.rejected++
		m.log.Warn("import failed", "path", p, "error", err)
		m.warn("import error: " + err.Error())
		return nil
	}
	m.log.Info("importing batch", "path", p, "size", len(pts))
	return m.appendBatch(pts, filepath.Base(p))
}
