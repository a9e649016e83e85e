package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/courtside/internal/compare"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/query"
	"github.com/verte-zerg/courtside/internal/session"
	"github.com/verte-zerg/courtside/internal/stats"
)

const pickSuggestions = 5

// arenaState tracks the two arena slots. A nil pick is random: drawn holds its
// last draw, which survives reloads until an arena action asks for a new one.
type arenaState struct {
	statIndex int
	picks     [2]*model.PlayerSeasonRecord
	drawn     [2]*model.PlayerSeasonRecord
	matchup   *compare.Matchup
	err       error

	pickMode  bool
	pickSide  int
	input     textinput.Model
	pickError string
}

func statIndex(key model.StatKey) int {
	for i, k := range model.StatKeys {
		if k == key {
			return i
		}
	}
	return 0
}

func (a *arenaState) stat() model.StatKey {
	return model.StatKeys[a.statIndex]
}

// rebind points manual picks at the same players in a fresh session. Picks
// that left the roster fall back to random.
func (a *arenaState) rebind(s *session.Session) {
	for i, p := range a.picks {
		if p == nil {
			continue
		}
		fresh, err := s.Find(p.PlayerName)
		if err != nil {
			a.picks[i] = nil
			continue
		}
		a.picks[i] = &fresh
	}
}

func (m *Model) initPickInput() {
	m.arena.input = newTextInput("Name: ")
	m.arena.input.Placeholder = "empty for random"
}

func (m *Model) cycleArenaStat(delta int) {
	n := len(model.StatKeys)
	m.arena.statIndex = (m.arena.statIndex + delta + n) % n
	m.drawArena()
	m.renderTabContents()
}

// drawArena discards previous draws so every random slot picks again.
func (m *Model) drawArena() {
	m.arena.drawn = [2]*model.PlayerSeasonRecord{}
	m.compareArena()
}

// compareArena compares both slots on the arena stat. Random slots reuse
// their last draw, refreshed from the current pool. If a drawn player left
// the pool or lost the stat, every random slot draws again.
func (m *Model) compareArena() {
	m.arena.matchup = nil
	m.arena.err = nil
	s := m.holder.Load()
	if s == nil {
		return
	}
	pool := s.Filter(m.criteria)
	key := m.arena.stat()

	var sides [2]compare.Side
	redraw := false
	for i := range sides {
		sides[i] = compare.Side{Pick: m.arena.picks[i], Pool: pool}
		if m.arena.picks[i] != nil {
			continue
		}
		kept := findDrawable(pool, m.arena.drawn[i], key)
		if kept == nil {
			redraw = true
		}
		sides[i].Pick = kept
	}
	if redraw {
		for i := range sides {
			if m.arena.picks[i] == nil {
				sides[i].Pick = nil
			}
		}
	}

	matchup, err := compare.ResolveMatchup(m.src, sides[0], sides[1], key)
	if err != nil {
		m.arena.drawn = [2]*model.PlayerSeasonRecord{}
		m.arena.err = err
		return
	}
	subjects := [2]model.PlayerSeasonRecord{matchup.Result.SubjectA, matchup.Result.SubjectB}
	for i := range subjects {
		if m.arena.picks[i] == nil {
			p := subjects[i]
			m.arena.drawn[i] = &p
		} else {
			m.arena.drawn[i] = nil
		}
	}
	matchup.RandomA = m.arena.picks[0] == nil
	matchup.RandomB = m.arena.picks[1] == nil
	m.arena.matchup = &matchup
}

// findDrawable returns the pool's current record for a previous draw, or nil
// when it can no longer be drawn on key.
func findDrawable(pool []model.PlayerSeasonRecord, prev *model.PlayerSeasonRecord, key model.StatKey) *model.PlayerSeasonRecord {
	if prev == nil {
		return nil
	}
	fresh, err := query.FindByExactName(pool, prev.PlayerName)
	if err != nil {
		return nil
	}
	if _, ok := fresh.Stat(key); !ok {
		return nil
	}
	return &fresh
}

func (m *Model) renderArena(s *session.Session) string {
	slots := fmt.Sprintf("Player 1: %s  Player 2: %s  Stat: %s",
		slotLabel(m.arena.picks[0]), slotLabel(m.arena.picks[1]), model.StatLabel(m.arena.stat()))
	header := headerStyle.Render(slots)
	if m.arena.err != nil {
		return header + "\n\n" + errorStyle.Render(m.arena.err.Error())
	}
	if m.arena.matchup == nil {
		return header
	}

	names := s.TeamNames()
	var buf bytes.Buffer
	if err := stats.RenderComparison(&buf, *m.arena.matchup, names); err != nil {
		return fmt.Sprintf("Failed to render matchup: %v", err)
	}
	r := m.arena.matchup.Result
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		stats.RenderCard(r.SubjectA, names),
		"  ",
		stats.RenderCard(r.SubjectB, names),
	)
	return header + "\n\n" + strings.TrimRight(buf.String(), "\n") + "\n\n" + cards
}

func slotLabel(p *model.PlayerSeasonRecord) string {
	if p == nil {
		return "random"
	}
	return p.PlayerName
}

func (m *Model) startPick(side int) (tea.Model, tea.Cmd) {
	m.arena.pickMode = true
	m.arena.pickSide = side
	m.arena.pickError = ""
	if p := m.arena.picks[side]; p != nil {
		m.arena.input.SetValue(p.PlayerName)
	} else {
		m.arena.input.SetValue("")
	}
	return m, m.arena.input.Focus()
}

func (m *Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.arena.pickMode = false
		m.arena.pickError = ""
		m.arena.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.applyPick(); err != nil {
			m.arena.pickError = err.Error()
			return m, nil
		}
		m.arena.pickMode = false
		m.arena.pickError = ""
		m.arena.input.Blur()
		m.drawArena()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.arena.input, cmd = m.arena.input.Update(msg)
	return m, cmd
}

// applyPick sets the active slot. An empty name makes it random, and a name
// matching exactly one search result is accepted as that player.
func (m *Model) applyPick() error {
	name := strings.TrimSpace(m.arena.input.Value())
	side := m.arena.pickSide
	if name == "" {
		m.arena.picks[side] = nil
		return nil
	}
	s := m.holder.Load()
	if s == nil {
		return fmt.Errorf("no data loaded")
	}
	p, err := s.Find(name)
	if err != nil {
		matches := s.Search(name, 2)
		if len(matches) != 1 {
			return err
		}
		p = matches[0]
	}
	m.arena.picks[side] = &p
	return nil
}

func (m *Model) renderPickModal() string {
	title := titleStyle.Render(fmt.Sprintf("Select Player %d", m.arena.pickSide+1))
	body := []string{title, m.arena.input.View()}
	if s := m.holder.Load(); s != nil {
		if q := strings.TrimSpace(m.arena.input.Value()); q != "" {
			for _, p := range s.Search(q, pickSuggestions) {
				body = append(body, headerStyle.Render(fmt.Sprintf("  %s (%s)", p.PlayerName, p.Team)))
			}
		}
	}
	body = append(body, headerStyle.Render("Enter to apply / Esc to cancel"))
	if m.arena.pickError != "" {
		body = append(body, errorStyle.Render(m.arena.pickError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
