// Package dashboard provides the Bubble Tea roster dashboard.
package dashboard

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/logger"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/sample"
	"github.com/verte-zerg/courtside/internal/session"
	"github.com/verte-zerg/courtside/internal/stats"
)

const (
	tabPlayers = iota
	tabArena
	tabCharts
)

const (
	filterTeam = iota
	filterPosition
	filterMinPER
	filterSeason
	filterName
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C8102E"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C8102E")).
			Padding(1, 2)
)

// sortOrder is the cycle for the sort key. The empty key keeps last-name order.
var sortOrder = append([]model.StatKey{""}, model.StatKeys...)

// RefreshedMsg tells the dashboard that the holder carries a new session, or
// that a background refresh failed.
type RefreshedMsg struct {
	Err error
}

// HandleUpdate folds a polled dataset update into holder and returns the
// message the running program should receive.
func HandleUpdate(holder *session.Holder, u dataset.Update) RefreshedMsg {
	if u.Kind == dataset.UpdateError {
		return RefreshedMsg{Err: u.Err}
	}
	holder.Store(session.New(u.Data.Players, u.Data.Teams))
	return RefreshedMsg{}
}

// Options seeds the dashboard state.
type Options struct {
	Criteria  model.FilterCriteria
	Sort      model.StatKey
	ArenaStat model.StatKey
	// Source drives random arena picks. Nil uses a time-seeded source.
	Source sample.Source
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	holder *session.Holder
	log    *logrus.Entry
	src    sample.Source

	criteria model.FilterCriteria
	sortKey  model.StatKey
	errMsg   string

	tabs      []string
	activeTab int
	viewports []viewport.Model

	roster       table.Model
	rosterRows   []model.PlayerSeasonRecord
	rosterLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	cardMode bool
	card     string

	arena arenaState
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a dashboard over the sessions published by holder.
func NewModel(holder *session.Holder, opts Options) *Model {
	src := opts.Source
	if src == nil {
		src = sample.New()
	}
	m := &Model{
		holder:   holder,
		log:      logger.WithComponent("dashboard"),
		src:      src,
		criteria: opts.Criteria,
		sortKey:  opts.Sort,
		tabs:     []string{"Players", "Arena", "Charts"},
	}
	m.arena.statIndex = statIndex(opts.ArenaStat)
	m.initInputs()
	m.initPickInput()
	m.roster = buildRosterTable(nil, 0, 1)
	m.roster.Focus()
	m.initViewports()
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case RefreshedMsg:
		if msg.Err != nil {
			m.errMsg = "refresh failed: " + msg.Err.Error()
			m.log.WithError(msg.Err).Warn("refresh failed")
			return m, nil
		}
		m.errMsg = ""
		m.reload()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.filterMode:
			return m.updateFilter(msg)
		case m.arena.pickMode:
			return m.updatePick(msg)
		case m.cardMode:
			return m.updateCard(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "/":
		return m.startFilter()
	case "s":
		m.cycleSort(1)
		return m, nil
	case "S":
		m.cycleSort(-1)
		return m, nil
	}

	switch m.activeTab {
	case tabPlayers:
		switch msg.String() {
		case "enter":
			m.openCard()
			return m, nil
		case "g", "home":
			m.roster.GotoTop()
			return m, nil
		case "G", "end":
			m.roster.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.roster, cmd = m.roster.Update(msg)
		return m, cmd
	case tabArena:
		switch msg.String() {
		case "1":
			return m.startPick(0)
		case "2":
			return m.startPick(1)
		case "[":
			m.cycleArenaStat(-1)
			return m, nil
		case "]":
			m.cycleArenaStat(1)
			return m, nil
		case "r":
			m.drawArena()
			m.renderTabContents()
			return m, nil
		}
	}

	switch msg.String() {
	case "g", "home":
		m.viewports[m.activeTab].GotoTop()
		return m, nil
	case "G", "end":
		m.viewports[m.activeTab].GotoBottom()
		return m, nil
	}
	vp := m.viewports[m.activeTab]
	var cmd tea.Cmd
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.arena.pickMode {
		return fitLines(m.renderPickModal(), m.width, m.height)
	}
	if m.cardMode {
		return fitLines(m.renderCardModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newTextInput("Team: "),
		newTextInput("Position (PG/SG/SF/PF/C): "),
		newTextInput("Min PER: "),
		newTextInput("Season: "),
		newTextInput("Name contains: "),
	}
	m.setInputsFromCriteria()
}

func newTextInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromCriteria() {
	c := m.criteria
	m.filterInputs[filterTeam].SetValue(c.Team)
	m.filterInputs[filterPosition].SetValue(string(c.Position))
	if c.MinPER != nil {
		m.filterInputs[filterMinPER].SetValue(strconv.FormatFloat(*c.MinPER, 'f', -1, 64))
	} else {
		m.filterInputs[filterMinPER].SetValue("")
	}
	m.filterInputs[filterSeason].SetValue(string(c.Season))
	m.filterInputs[filterName].SetValue(c.NameContains)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setRosterSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.arena.input.Prompt)
	m.arena.input.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabPlayers {
		m.roster.Focus()
	} else {
		m.roster.Blur()
	}
}

func (m *Model) cycleSort(delta int) {
	idx := 0
	for i, key := range sortOrder {
		if key == m.sortKey {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(sortOrder)) % len(sortOrder)
	m.sortKey = sortOrder[idx]
	m.reload()
}

// reload rebuilds every tab from the current session.
func (m *Model) reload() {
	s := m.holder.Load()
	if s == nil {
		m.rosterRows = nil
	} else {
		m.rosterRows = s.Sorted(m.criteria, m.sortKey)
		m.arena.rebind(s)
		m.log.WithFields(logrus.Fields{
			"players": len(m.rosterRows),
			"sort":    string(m.sortKey),
		}).Debug("dashboard reloaded")
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyRoster(width, bodyHeight, true)
	if m.roster.Cursor() >= len(m.rosterRows) {
		m.roster.SetCursor(0)
	}
	m.compareArena()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	s := m.holder.Load()
	if s == nil {
		for i := range m.viewports {
			m.viewports[i].SetContent("No data loaded.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabArena].SetContent(m.renderArena(s))
	m.viewports[tabCharts].SetContent(renderCharts(s, m.criteria, m.chartStat(), width))
}

// chartStat ranks the top performer chart by the sort key, or PER when the
// roster keeps name order.
func (m *Model) chartStat() model.StatKey {
	if m.sortKey == "" {
		return model.StatPER
	}
	return m.sortKey
}

func renderCharts(s *session.Session, criteria model.FilterCriteria, topStat model.StatKey, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderReport(&buf, s.Report(criteria, topStat), width, true); err != nil {
		return fmt.Sprintf("Failed to render charts: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	c := m.criteria
	minPER := "any"
	if c.MinPER != nil {
		minPER = strconv.FormatFloat(*c.MinPER, 'f', -1, 64)
	}
	sortLabel := "name"
	if m.sortKey != "" {
		sortLabel = model.StatLabel(m.sortKey)
	}
	summary := fmt.Sprintf("Filters: team=%s  pos=%s  min PER=%s  season=%s  name=%s  sort=%s  players=%d",
		orAny(c.Team), orAny(string(c.Position)), minPER, orAny(string(c.Season)), orAny(c.NameContains),
		sortLabel, len(m.rosterRows))
	if s := m.holder.Load(); s != nil {
		summary += "  loaded=" + s.LoadedAt().Format("15:04:05")
	}
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func orAny(v string) string {
	if v == "" {
		return "any"
	}
	return v
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Sort: s/S  Filters: /  Quit: q"
	switch m.activeTab {
	case tabPlayers:
		help = "Nav: left/right  Move: up/down  Card: enter  Sort: s/S  Filters: /  Quit: q"
	case tabArena:
		help = "Nav: left/right  Player: 1/2  Stat: [/]  Re-roll: r  Filters: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabPlayers {
		if m.holder.Load() == nil {
			return fitLines("No data loaded.", m.width, height)
		}
		if len(m.rosterRows) == 0 {
			return fitLines("No players found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.roster.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromCriteria()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.reload()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	var c model.FilterCriteria
	c.Team = strings.ToUpper(strings.TrimSpace(m.filterInputs[filterTeam].Value()))

	if raw := strings.TrimSpace(m.filterInputs[filterPosition].Value()); raw != "" {
		pos, ok := model.ParsePosition(raw)
		if !ok {
			return fmt.Errorf("invalid position (use PG, SG, SF, PF or C)")
		}
		c.Position = pos
	}

	if raw := strings.TrimSpace(m.filterInputs[filterMinPER].Value()); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid min PER (use a number)")
		}
		c.MinPER = &parsed
	}

	c.Season = model.Season(strings.TrimSpace(m.filterInputs[filterSeason].Value()))
	c.NameContains = strings.TrimSpace(m.filterInputs[filterName].Value())
	m.criteria = c
	return nil
}

func (m *Model) openCard() {
	idx := m.roster.Cursor()
	if idx < 0 || idx >= len(m.rosterRows) {
		return
	}
	s := m.holder.Load()
	if s == nil {
		return
	}
	m.card = stats.RenderCard(m.rosterRows[idx], s.TeamNames())
	m.cardMode = true
}

func (m *Model) updateCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.cardMode = false
		m.card = ""
	}
	return m, nil
}

func (m *Model) renderCardModal() string {
	body := m.card + "\n" + headerStyle.Render("Enter / Esc to close")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func buildRosterTable(rows []model.PlayerSeasonRecord, width, height int) table.Model {
	cols, tableRows := buildRosterData(rows, "")
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(rosterTableStyles())
	return t
}

func (m *Model) applyRoster(width, height int, force bool) {
	cols, rows := buildRosterData(m.rosterRows, m.sortKey)
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.rosterLayout.width == width &&
		m.rosterLayout.height == viewportHeight &&
		m.rosterLayout.rowCount == len(rows) &&
		m.rosterLayout.colCount == len(cols) {
		return
	}
	// Clear rows so wider columns never index into shorter old rows.
	m.roster.SetRows(nil)
	m.roster.SetColumns(cols)
	m.roster.SetRows(rows)
	m.rosterLayout.rowCount = len(rows)
	m.rosterLayout.colCount = len(cols)
	m.rosterLayout.width = 0
	m.setRosterSize(width, height)
}

func (m *Model) setRosterSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.rosterLayout.width == width && m.rosterLayout.height == viewportHeight {
		return
	}
	m.rosterLayout.width = width
	m.rosterLayout.height = viewportHeight
	m.roster.SetWidth(width)
	m.roster.SetHeight(viewportHeight)
	viewportHeight = m.adjustRosterHeight(height)
	if m.rosterLayout.height != viewportHeight {
		m.rosterLayout.height = viewportHeight
		m.roster.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustRosterHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.roster.Height()
	viewHeight := lipgloss.Height(m.roster.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.roster.SetHeight(height)
	viewHeight = lipgloss.Height(m.roster.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func rosterTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

var rosterStats = []model.StatKey{
	model.StatPER,
	model.StatTSPercent,
	model.StatWinShares,
	model.StatVORP,
	model.StatBox,
}

func buildRosterData(players []model.PlayerSeasonRecord, sortKey model.StatKey) ([]table.Column, []table.Row) {
	keys := rosterStats
	if sortKey != "" && !containsKey(keys, sortKey) {
		keys = append(append([]model.StatKey{}, rosterStats...), sortKey)
	}

	nameWidth := len("Player")
	for _, p := range players {
		nameWidth = maxInt(nameWidth, lipgloss.Width(p.PlayerName))
	}
	columns := []table.Column{
		{Title: "Player", Width: minInt(nameWidth, 26)},
		{Title: "Team", Width: 4},
		{Title: "Pos", Width: 7},
		{Title: "G", Width: 3},
	}
	for _, key := range keys {
		label := model.StatLabel(key)
		columns = append(columns, table.Column{Title: label, Width: maxInt(lipgloss.Width(label), 6)})
	}

	rows := make([]table.Row, 0, len(players))
	for _, p := range players {
		row := table.Row{p.PlayerName, p.Team, p.Position, strconv.Itoa(p.Games)}
		for _, key := range keys {
			row = append(row, statCell(p, key))
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func statCell(p model.PlayerSeasonRecord, key model.StatKey) string {
	v, ok := p.Stat(key)
	if !ok {
		return "-"
	}
	return compare.FormatStat(key, v)
}

func containsKey(keys []model.StatKey, key model.StatKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
