package dashboard

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/courtside/internal/dataset"
	"github.com/verte-zerg/courtside/internal/model"
	"github.com/verte-zerg/courtside/internal/session"
)

type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func ptr(v float64) *float64 { return &v }

func testRoster() []model.PlayerSeasonRecord {
	return []model.PlayerSeasonRecord{
		{PlayerID: 1, PlayerName: "Jayson Tatum", Team: "BOS", Season: "2024", Position: "F", Games: 70, PER: ptr(22.0), TSPercent: ptr(0.60)},
		{PlayerID: 2, PlayerName: "Nikola Jokic", Team: "DEN", Season: "2024", Position: "C", Games: 79, PER: ptr(31.0), TSPercent: ptr(0.65)},
		{PlayerID: 3, PlayerName: "Jrue Holiday", Team: "BOS", Season: "2024", Position: "G", Games: 69, PER: ptr(15.0)},
	}
}

func newTestModel(t *testing.T) (*Model, *session.Holder) {
	t.Helper()
	holder := &session.Holder{}
	holder.Store(session.New(testRoster(), model.TeamNames{"BOS": "Boston Celtics"}))
	m := NewModel(holder, Options{Source: fixedSource(0)})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, holder
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFilterSummaryFormats(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.renderFilterSummary()
	if !containsAll(out, []string{"team=any", "pos=any", "min PER=any", "sort=name", "players=3"}) {
		t.Fatalf("summary missing expected segments: %s", out)
	}
}

func TestRosterKeepsLastNameOrder(t *testing.T) {
	m, _ := newTestModel(t)
	got := []string{m.rosterRows[0].PlayerName, m.rosterRows[1].PlayerName, m.rosterRows[2].PlayerName}
	want := []string{"Jrue Holiday", "Nikola Jokic", "Jayson Tatum"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order %v", got)
		}
	}
}

func TestSortKeyCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(keyMsg("s"))
	if m.sortKey != model.StatPER {
		t.Fatalf("expected PER sort, got %q", m.sortKey)
	}
	if m.rosterRows[0].PlayerName != "Nikola Jokic" {
		t.Fatalf("expected highest PER first, got %s", m.rosterRows[0].PlayerName)
	}
	m.Update(keyMsg("S"))
	if m.sortKey != "" {
		t.Fatalf("expected name order after reverse cycle, got %q", m.sortKey)
	}
}

func TestApplyFilterRejectsUnknownPosition(t *testing.T) {
	m, _ := newTestModel(t)
	m.filterInputs[filterPosition].SetValue("XX")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected position error")
	}
	m.filterInputs[filterPosition].SetValue("")
	m.filterInputs[filterMinPER].SetValue("abc")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected min PER error")
	}
}

func TestApplyFilterNarrowsRoster(t *testing.T) {
	m, _ := newTestModel(t)
	m.filterInputs[filterTeam].SetValue("bos")
	m.filterInputs[filterMinPER].SetValue("20")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	m.reload()
	if len(m.rosterRows) != 1 || m.rosterRows[0].PlayerName != "Jayson Tatum" {
		t.Fatalf("unexpected filtered roster %+v", m.rosterRows)
	}
	if !strings.Contains(m.renderFilterSummary(), "team=BOS") {
		t.Fatalf("expected team in summary: %s", m.renderFilterSummary())
	}
}

func TestArenaRandomSidesDiffer(t *testing.T) {
	m, _ := newTestModel(t)
	if m.arena.err != nil || m.arena.matchup == nil {
		t.Fatalf("expected resolved matchup, got err %v", m.arena.err)
	}
	r := m.arena.matchup.Result
	if r.SubjectA.PlayerName != "Jrue Holiday" || r.SubjectB.PlayerName != "Nikola Jokic" {
		t.Fatalf("unexpected matchup %s vs %s", r.SubjectA.PlayerName, r.SubjectB.PlayerName)
	}
	if r.WinnerIsA {
		t.Fatalf("expected player 2 to win on PER")
	}
}

func TestArenaManualPick(t *testing.T) {
	m, _ := newTestModel(t)
	m.startPick(0)
	m.arena.input.SetValue("nikola jokic")
	m.updatePick(tea.KeyMsg{Type: tea.KeyEnter})
	if m.arena.pickMode {
		t.Fatalf("expected pick modal to close, error %q", m.arena.pickError)
	}
	r := m.arena.matchup.Result
	if r.SubjectA.PlayerName != "Nikola Jokic" || r.SubjectB.PlayerName != "Jrue Holiday" || !r.WinnerIsA {
		t.Fatalf("unexpected matchup %+v", r)
	}
	out := m.renderArena(m.holder.Load())
	if !containsAll(out, []string{"Player 1: Nikola Jokic", "Player 2: random", "Winner: Nikola Jokic"}) {
		t.Fatalf("arena missing expected segments: %s", out)
	}
}

func TestArenaUnknownPickKeepsModalOpen(t *testing.T) {
	m, _ := newTestModel(t)
	m.startPick(1)
	m.arena.input.SetValue("Nobody Here")
	m.updatePick(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.arena.pickMode || m.arena.pickError == "" {
		t.Fatalf("expected modal to stay open with an error")
	}
}

func TestArenaStatWithoutDataReportsEmptyPool(t *testing.T) {
	m, _ := newTestModel(t)
	m.arena.statIndex = statIndex(model.StatVORP)
	m.drawArena()
	if m.arena.err == nil || !strings.Contains(m.arena.err.Error(), "player 1") {
		t.Fatalf("expected empty pool error, got %v", m.arena.err)
	}
}

type countingSource struct{ calls int }

func (c *countingSource) Intn(n int) int {
	c.calls++
	return 0
}

func arenaNames(m *Model) string {
	r := m.arena.matchup.Result
	return r.SubjectA.PlayerName + "/" + r.SubjectB.PlayerName
}

func TestArenaKeepsRandomDrawsAcrossReloads(t *testing.T) {
	holder := &session.Holder{}
	holder.Store(session.New(testRoster(), model.TeamNames{"BOS": "Boston Celtics"}))
	src := &countingSource{}
	m := NewModel(holder, Options{Source: src})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if src.calls != 2 || arenaNames(m) != "Jrue Holiday/Nikola Jokic" {
		t.Fatalf("unexpected initial draw: %d calls, %s", src.calls, arenaNames(m))
	}

	m.Update(keyMsg("s"))
	m.Update(keyMsg("S"))
	if src.calls != 2 || arenaNames(m) != "Jrue Holiday/Nikola Jokic" {
		t.Fatalf("sort redrew the arena: %d calls, %s", src.calls, arenaNames(m))
	}

	refreshed := testRoster()
	refreshed[1].PER = ptr(29.0)
	m.Update(HandleUpdate(holder, dataset.Update{Kind: dataset.UpdateData, Data: dataset.Data{Players: refreshed}}))
	if src.calls != 2 || arenaNames(m) != "Jrue Holiday/Nikola Jokic" {
		t.Fatalf("refresh redrew the arena: %d calls, %s", src.calls, arenaNames(m))
	}
	if got := m.arena.matchup.Result.ValueB; got != 29.0 {
		t.Fatalf("expected refreshed stat for kept draw, got %v", got)
	}

	m.activeTab = tabArena
	m.Update(keyMsg("r"))
	if src.calls != 4 {
		t.Fatalf("expected re-roll to draw both slots, got %d calls", src.calls)
	}
}

func TestArenaRedrawsWhenDrawnPlayerLeaves(t *testing.T) {
	m, holder := newTestModel(t)
	m.Update(HandleUpdate(holder, dataset.Update{Kind: dataset.UpdateData, Data: dataset.Data{Players: testRoster()[:2]}}))
	if m.arena.err != nil || arenaNames(m) != "Nikola Jokic/Jayson Tatum" {
		t.Fatalf("expected redraw from remaining roster, got %v", m.arena.err)
	}
}

func TestHandleUpdateSwapsSession(t *testing.T) {
	m, holder := newTestModel(t)
	before := holder.Load()

	msg := HandleUpdate(holder, dataset.Update{Kind: dataset.UpdateError, Err: errors.New("offline")})
	if msg.Err == nil || holder.Load() != before {
		t.Fatalf("expected error message and unchanged session")
	}
	m.Update(msg)
	if !strings.Contains(m.errMsg, "offline") {
		t.Fatalf("expected refresh error, got %q", m.errMsg)
	}

	data := dataset.Data{Players: testRoster()[:2]}
	msg = HandleUpdate(holder, dataset.Update{Kind: dataset.UpdateData, Data: data})
	if msg.Err != nil || holder.Load() == before {
		t.Fatalf("expected a new session")
	}
	m.Update(msg)
	if m.errMsg != "" || len(m.rosterRows) != 2 {
		t.Fatalf("expected reload with 2 players, got %d (%q)", len(m.rosterRows), m.errMsg)
	}
}

func TestTruncateLineUsesCellWidth(t *testing.T) {
	if got := truncateLine("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("short", 10); got != "short" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
