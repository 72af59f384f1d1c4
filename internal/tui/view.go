package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ytchat/internal"
)

const (
	defaultWidth = 80
	wideLayout   = 100
	// rows taken by borders, titles, inputs and help
	chromeHeight = 14
)

// View renders the toasts, both panels and the key help
func (m Model) View() string {
	videoWidth, chatWidth := m.panelWidths()

	video := m.panel(m.focus == focusVideo, videoWidth).Render(m.videoPanel())
	chat := m.panel(m.focus == focusChat, chatWidth).Render(m.chatPanel(chatWidth - 4))

	var body string
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, video, chat)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, video, chat)
	}

	parts := make([]string, 0, 3)
	if toasts := m.toastView(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, body, m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) wide() bool {
	return m.width >= wideLayout
}

func (m Model) panelWidths() (video, chat int) {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	if width < wideLayout {
		return width - 2, width - 2
	}
	video = width*2/5 - 2
	chat = width - video - 4
	return video, chat
}

func (m Model) panel(active bool, width int) lipgloss.Style {
	if active {
		return activePanelStyle.Width(width)
	}
	return panelStyle.Width(width)
}

func (m Model) videoPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Video"))
	b.WriteString("\n")
	b.WriteString("API " + m.healthView())
	b.WriteString("\n\n")

	b.WriteString(m.urlInput.View())
	b.WriteString("\n")
	if m.urlErr != "" {
		b.WriteString(fieldErrorStyle.Render(m.urlErr))
	}
	b.WriteString("\n")

	session := m.video.Session()
	switch session.State {
	case internal.SessionProcessing:
		b.WriteString(m.spinner.View() + " Processing video...")
	case internal.SessionReady:
		b.WriteString(readyStyle.Render("✓ Ready") + " " + mutedStyle.Render(internal.FormatVideoID(session.VideoID)))
	case internal.SessionFailed:
		b.WriteString(fieldErrorStyle.Render("✗ Processing failed, try again"))
	default:
		b.WriteString(mutedStyle.Render("Paste a YouTube link and press enter"))
	}
	return b.String()
}

func (m Model) healthView() string {
	switch m.video.Health() {
	case internal.HealthOnline:
		return onlineStyle.Render("● online")
	case internal.HealthOffline:
		return offlineStyle.Render("● offline") + mutedStyle.Render(" (ctrl+r to retry)")
	default:
		return checkingStyle.Render(m.spinner.View() + " checking")
	}
}

func (m Model) chatPanel(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chat"))
	b.WriteString("\n")

	if !m.shell.HasProcessedVideo() && m.chat.Len() == 0 {
		b.WriteString(mutedStyle.Render("Process a video to start chatting"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.messagesView(width))
	}

	if m.chat.Pending() {
		b.WriteString(m.spinner.View() + " Thinking...")
		b.WriteString("\n")
	}

	if m.chatInputEnabled() || m.focus == focusChat {
		b.WriteString(m.questionInput.View())
	} else {
		b.WriteString(mutedStyle.Render("? " + m.questionInput.Placeholder))
	}
	b.WriteString("\n")
	if m.questionErr != "" {
		b.WriteString(fieldErrorStyle.Render(m.questionErr))
	}
	return b.String()
}

// messagesView renders the conversation, keeping only the newest lines that fit
func (m Model) messagesView(width int) string {
	messages := m.chat.Messages()
	if len(messages) == 0 {
		return mutedStyle.Render("Ask anything about the video") + "\n\n"
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, m.messageView(msg, width))
	}
	lines := strings.Split(strings.Join(blocks, "\n"), "\n")

	if m.height > 0 {
		room := m.height - chromeHeight
		if room < 3 {
			room = 3
		}
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) messageView(msg internal.Message, width int) string {
	label := assistantLabelStyle.Render("Assistant")
	if msg.IsUser() {
		label = userLabelStyle.Render("You")
	}
	header := fmt.Sprintf("%s %s", label, timestampStyle.Render(msg.CreatedAt.Format("15:04")))

	var content string
	switch {
	case msg.IsUser():
		content = lipgloss.NewStyle().Width(width).Render(msg.Content)
	case msg.Synthetic:
		content = syntheticStyle.Width(width).Render(msg.Content)
	default:
		content = m.markdown(msg)
	}
	return header + "\n" + content + "\n"
}

// markdown renders assistant content once per message and caches the result
func (m Model) markdown(msg internal.Message) string {
	if m.renderer == nil {
		return msg.Content
	}
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		internal.LogDebug("markdown render failed: %v", err)
		return msg.Content
	}
	out = strings.Trim(out, "\n")
	m.rendered[msg.ID] = out
	return out
}

func (m Model) toastView() string {
	if len(m.toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		rendered = append(rendered, toastColor(t.Kind.String()).Render(t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (m Model) helpView() string {
	return helpStyle.Render("enter submit • tab switch panel • ctrl+r check API • esc quit")
}
