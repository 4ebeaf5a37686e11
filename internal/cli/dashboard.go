package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/planboard/pkg/models"
)

// Dashboard panel indices.
const (
	panelOverview = iota
	panelActions
	panelNotices
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	actorID string

	// Data.
	projectName string
	progress    int
	eta         string
	active      []taskSnapshot
	actions     []actionSnapshot
	notices     []noticeSnapshot

	loading bool
	err     error
}

type taskSnapshot struct {
	sequence int
	name     string
	role     string
}

type actionSnapshot struct {
	kind     models.ActionType
	sequence int
	name     string
	pulse    bool
}

type noticeSnapshot struct {
	time string
	body string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	projectName string
	progress    int
	eta         string
	active      []taskSnapshot
	actions     []actionSnapshot
	notices     []noticeSnapshot
	err         error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	progressFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	progressRestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel(actorID string) dashboardModel {
	return dashboardModel{
		activePanel: panelOverview,
		actorID:     actorID,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projectName = msg.projectName
		m.progress = msg.progress
		m.eta = msg.eta
		m.active = msg.active
		m.actions = msg.actions
		m.notices = msg.notices
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Planboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	overview := m.applyPanelStyle(panelOverview, m.renderOverviewPanel())
	actions := m.applyPanelStyle(panelActions, m.renderActionsPanel())
	notices := m.applyPanelStyle(panelNotices, m.renderNoticesPanel())

	var body string
	if m.width-2 > 120 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, overview, actions, notices)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, overview, actions, notices)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	width := m.width - 8
	if m.width-2 > 120 {
		width = (m.width-2)/3 - 4
	}
	if width < 24 {
		width = 24
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderOverviewPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.projectName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Progress: %s %d%%\n", renderProgressBar(m.progress, 20), m.progress))
	b.WriteString(fmt.Sprintf("  ETA:      %s\n", m.eta))
	b.WriteString("\n  Active tasks:\n")
	if len(m.active) == 0 {
		b.WriteString("    (none)\n")
	}
	for _, t := range m.active {
		b.WriteString(fmt.Sprintf("    %d. %s (%s)\n", t.sequence, t.name, t.role))
	}
	return b.String()
}

func (m dashboardModel) renderActionsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Actions required"))
	b.WriteString("\n")
	if len(m.actions) == 0 {
		b.WriteString("  No actions required.")
		return b.String()
	}
	for i, a := range m.actions {
		if i >= 5 {
			b.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.actions)-i))
			break
		}
		line := fmt.Sprintf("  %s %d. %s", actionPrefix(a.kind), a.sequence, a.name)
		if a.pulse {
			line += " " + pulseStyle.Render("just became ready")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m dashboardModel) renderNoticesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Latest notifications"))
	b.WriteString("\n")
	if len(m.notices) == 0 {
		b.WriteString("  No notifications.")
		return b.String()
	}
	for _, n := range m.notices {
		b.WriteString(fmt.Sprintf("  %s  %s\n", n.time, n.body))
	}
	return b.String()
}

func renderProgressBar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressRestStyle.Render(strings.Repeat("░", width-filled))
}

func (m dashboardModel) loadData() tea.Msg {
	result := dataLoadedMsg{}

	actor, err := resolveActor(m.actorID)
	if err != nil {
		result.err = err
		return result
	}

	store := Engine.Store()
	project := store.Project()
	result.projectName = project.Name
	result.progress = Engine.Progress()
	result.eta = "unknown"
	if eta := Engine.ETA(); eta != nil {
		result.eta = eta.Format("2006-01-02")
	}

	for _, t := range store.All() {
		if t.Status != models.StatusInProgress {
			continue
		}
		roleName := t.RoleID
		if r, ok := Directory.RoleByID(t.RoleID); ok {
			roleName = r.Name
		}
		result.active = append(result.active, taskSnapshot{
			sequence: t.Sequence,
			name:     t.Name,
			role:     roleName,
		})
		if len(result.active) == 5 {
			break
		}
	}

	for _, a := range Engine.PendingActions(actor.RoleIDs) {
		result.actions = append(result.actions, actionSnapshot{
			kind:     a.Type,
			sequence: a.Task.Sequence,
			name:     a.Task.Name,
			pulse:    store.ConsumeReadyPulse(a.Task.ID),
		})
	}

	if Notices != nil {
		for _, n := range Notices.Latest(5) {
			result.notices = append(result.notices, noticeSnapshot{
				time: n.Time.Local().Format("15:04"),
				body: n.Body,
			})
		}
	}

	return result
}

var dashboardCmd = func() *cobra.Command {
	var asUser string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive dashboard with progress, pending actions, and notifications",
		Long: `Launch an interactive terminal dashboard showing project progress, the
acting user's pending actions, and the latest notifications.

Navigate between panels with Tab, refresh with r, quit with q.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if Engine == nil {
				return fmt.Errorf("engine not initialized")
			}
			p := tea.NewProgram(newDashboardModel(asUser), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&asUser, "as", "", "user ID to view as")
	return cmd
}()

var noticesCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List recorded notifications, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Notices == nil || Notices.Len() == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range Notices.Latest(0) {
			fmt.Printf("%s  %s\n", n.Time.Local().Format(time.DateTime), n.Body)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd, noticesCmd)
}
