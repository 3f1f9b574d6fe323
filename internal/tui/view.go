package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/framelabel/internal/labeling"
	"github.com/Iron-Ham/framelabel/internal/navigation"
	"github.com/Iron-Ham/framelabel/internal/tui/keymap"
	"github.com/Iron-Ham/framelabel/internal/tui/preview"
	"github.com/Iron-Ham/framelabel/internal/tui/styles"
	"github.com/Iron-Ham/framelabel/internal/util"
)

const (
	sidebarWidth = 28
	// chromeHeight is the rows taken by header, info lines and help bar.
	chromeHeight = 11
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	v := m.session.View()

	var b strings.Builder
	b.WriteString(m.renderHeader(v))
	b.WriteString("\n")

	switch m.mode {
	case keymap.ModeBatchPicker, keymap.ModeSubjectPicker:
		b.WriteString(m.renderPicker(v))
	case keymap.ModeBasePath:
		b.WriteString(m.renderBasePath(v))
	case keymap.ModeHelp:
		b.WriteString(m.renderHelp())
	default:
		b.WriteString(m.renderBody(v))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader(v labeling.View) string {
	title := styles.Title.Render("framelabel")
	var parts []string
	if v.BaseFolder != "" {
		parts = append(parts, util.TruncateLeft(v.BaseFolder, max(m.width/2, 20)))
	}
	if v.Batch != "" {
		parts = append(parts, v.Batch)
	}
	if v.Subject != "" {
		parts = append(parts, v.Subject)
	}
	if len(parts) == 0 {
		return styles.Header.Width(max(m.width-2, 0)).Render(title)
	}
	path := styles.Muted.Render(strings.Join(parts, " › "))
	return styles.Header.Width(max(m.width-2, 0)).Render(title + "  " + path)
}

func (m Model) renderBody(v labeling.View) string {
	if v.State == navigation.Idle {
		return m.renderIdle(v)
	}

	sidebar := m.renderSidebar(v)
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderFrame(v),
		m.renderInfo(v),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
}

func (m Model) renderIdle(v labeling.View) string {
	var lines []string
	if v.BaseFolder == "" {
		lines = append(lines, styles.Muted.Render("No base folder. Press o to open one."))
	} else if len(v.Batches) == 0 {
		lines = append(lines, styles.Warning.Render("No batches found in "+v.BaseFolder))
	} else {
		lines = append(lines, styles.Muted.Render(fmt.Sprintf("%d batches. Press b to choose one.", len(v.Batches))))
	}
	if v.Error != "" {
		lines = append(lines, styles.Error.Render(v.Error))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSidebar(v labeling.View) string {
	labeled := 0
	for _, s := range v.Subjects {
		if s.Labeled {
			labeled++
		}
	}

	lines := []string{
		styles.Title.Render(v.Batch),
		styles.Muted.Render(fmt.Sprintf("%d/%d labeled", labeled, len(v.Subjects))),
		"",
	}

	rows := max(m.height-chromeHeight, 5)
	start := 0
	for i, s := range v.Subjects {
		if s.Name == v.Subject && i >= rows {
			start = i - rows + 1
		}
	}
	end := min(start+rows, len(v.Subjects))

	for _, s := range v.Subjects[start:end] {
		icon := lipgloss.NewStyle().Foreground(styles.LabelColor(s.Labeled)).Render(styles.LabelIcon(s.Labeled))
		name := util.Truncate(s.Name, sidebarWidth-8)
		if s.Name == v.Subject {
			lines = append(lines, styles.SidebarItemActive.Render(icon+" "+name))
		} else {
			lines = append(lines, styles.SidebarItem.Render(icon+" "+name))
		}
	}
	if len(v.Subjects) == 0 {
		lines = append(lines, styles.Muted.Render("(no subjects)"))
	}

	return styles.Sidebar.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// previewArea returns the cell budget of the frame box contents.
func (m Model) previewArea() (int, int) {
	w := m.width - sidebarWidth - 8
	if m.opts.MaxPreviewWidth > 0 {
		w = min(w, m.opts.MaxPreviewWidth)
	}
	h := m.height - chromeHeight
	return max(w, 4), max(h, 2)
}

func (m Model) renderFrame(v labeling.View) string {
	w, h := m.previewArea()
	box := styles.FrameBox.Width(w)

	if v.FramePath == "" {
		msg := "No frame"
		if v.Error != "" {
			msg = v.Error
		}
		return box.Render(styles.Muted.Render(msg))
	}

	if !m.opts.Preview {
		return box.Render(styles.Text.Render(v.FrameName))
	}

	out, err := m.renderer.Render(v.FramePath, preview.Options{
		Width:     w,
		Height:    h,
		Grayscale: v.Grayscale,
	})
	if err != nil {
		return box.Render(styles.ErrorText.Render("Error loading image: " + err.Error()))
	}
	return box.Render(out)
}

func (m Model) renderInfo(v labeling.View) string {
	var lines []string

	info := v.FrameOrdinal
	if v.FrameCount > 0 {
		info += fmt.Sprintf(" of %d  %s", v.FrameCount, v.FrameName)
	}
	lines = append(lines, styles.StatusBar.Render(info))

	badge := styles.StatusBadge.Foreground(styles.LabelColor(v.Labeled)).
		Render(styles.LabelIcon(v.Labeled) + " " + v.Status)
	var flags []string
	if v.AutoAdvance != 0 {
		flags = append(flags, lipgloss.NewStyle().Foreground(styles.AutoColor).Render("▶ auto"))
	}
	if v.Grayscale {
		flags = append(flags, styles.Muted.Render("grayscale"))
	}
	lines = append(lines, strings.TrimSpace(badge+" "+strings.Join(flags, " ")))

	switch {
	case v.Feedback.Text == labeling.FeedbackBatchComplete:
		lines = append(lines, styles.BatchComplete.Render(v.Feedback.Text))
	case v.Feedback.Text != "":
		lines = append(lines, styles.Feedback.Render(v.Feedback.Text))
	default:
		lines = append(lines, "")
	}

	if v.Error != "" && v.FramePath != "" {
		lines = append(lines, styles.ErrorText.Render(v.Error))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPicker(v labeling.View) string {
	title := "Choose batch"
	current := v.Batch
	labeledOf := func(string) (bool, bool) { return false, false }
	if m.mode == keymap.ModeSubjectPicker {
		title = "Choose subject"
		current = v.Subject
		labeledOf = func(name string) (bool, bool) {
			for _, s := range v.Subjects {
				if s.Name == name {
					return s.Labeled, true
				}
			}
			return false, false
		}
	}

	items := m.pickerItems()
	lines := []string{styles.Title.Render(title), ""}
	if len(items) == 0 {
		lines = append(lines, styles.Muted.Render("(nothing to choose)"))
	}

	rows := max(m.height-chromeHeight-4, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(items))

	for i := start; i < end; i++ {
		name := items[i]
		prefix := "  "
		if name == current {
			prefix = "• "
		}
		if labeled, ok := labeledOf(name); ok {
			prefix = lipgloss.NewStyle().Foreground(styles.LabelColor(labeled)).Render(styles.LabelIcon(labeled)) + " "
		}
		line := prefix + name
		if i == m.cursor {
			lines = append(lines, styles.SidebarItemActive.Render(line))
		} else {
			lines = append(lines, styles.SidebarItem.Render(line))
		}
	}
	return styles.Modal.Render(strings.Join(lines, "\n"))
}

func (m Model) renderBasePath(v labeling.View) string {
	lines := []string{
		styles.Title.Render("Open base folder"),
		styles.Subtitle.Render("The folder that contains the batch folders."),
		"",
		m.pathInput.View(),
	}
	if v.Error != "" {
		lines = append(lines, "", styles.ErrorText.Render(v.Error))
	}
	return styles.Modal.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	lines := []string{
		styles.Title.Render("framelabel Help"),
		styles.Subtitle.Render("Press ? or esc to close."),
		"",
	}

	byCategory := m.keymap.GetBindingsByCategory(keymap.ModeNormal)
	for _, category := range m.keymap.GetCategories(keymap.ModeNormal) {
		lines = append(lines, styles.Primary.Bold(true).Render("▸ "+category))
		seen := make(map[keymap.Command]bool)
		for _, kb := range byCategory[category] {
			if seen[kb.Command] {
				continue
			}
			seen[kb.Command] = true
			keys := make([]string, 0, 2)
			for _, alt := range m.keymap.GetBindingsForCommand(kb.Command, keymap.ModeNormal) {
				keys = append(keys, alt.String())
			}
			lines = append(lines, fmt.Sprintf("    %s  %s",
				styles.Secondary.Render(fmt.Sprintf("%-10s", strings.Join(keys, "/"))),
				styles.Muted.Render(kb.Description)))
		}
		lines = append(lines, "")
	}
	return styles.Modal.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelpBar() string {
	var hints []string
	switch m.mode {
	case keymap.ModeBatchPicker, keymap.ModeSubjectPicker:
		hints = []string{"↑/↓ move", "enter select", "esc close"}
	case keymap.ModeBasePath:
		hints = []string{"enter open", "esc cancel"}
	case keymap.ModeHelp:
		hints = []string{"? close"}
	default:
		hints = []string{"←/→ frame", "↑ auto", "x metamorphosis", "enter alive", "n/p subject", "b batch", "? help", "q quit"}
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		key, desc, _ := strings.Cut(h, " ")
		parts[i] = styles.HelpKey.Render(key) + " " + desc
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
