package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBarsScalesToLargest(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBars(&buf, "Test Bars", []Bar{
		{Label: "A", Value: 10},
		{Label: "BB", Value: 5, Text: "five"},
		{Label: "C", Value: -1},
	}, 31, false)
	if err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Test Bars" {
		t.Fatalf("expected title, got %q", lines[0])
	}
	barWidth := BarWidthFor(31, 2, 5)
	full := strings.Count(lines[1], barChar)
	half := strings.Count(lines[2], barChar)
	if full != barWidth {
		t.Fatalf("expected full bar of %d, got %d", barWidth, full)
	}
	if half != barWidth/2 {
		t.Fatalf("expected half bar of %d, got %d", barWidth/2, half)
	}
	if !strings.HasSuffix(lines[1], "10.00") || !strings.HasSuffix(lines[2], "five") {
		t.Fatalf("unexpected value text: %q %q", lines[1], lines[2])
	}
	if strings.Contains(lines[3], barChar) {
		t.Fatalf("expected no bar for negative value: %q", lines[3])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no color codes for buffer output")
	}
}

func TestRenderBarsForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	if err := RenderBars(&buf, "", []Bar{{Label: "A", Value: 1}}, 40, true); err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	if !strings.Contains(buf.String(), colorPalette[0].code) {
		t.Fatalf("expected color codes when forced")
	}
}

func TestRenderBarsRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if err := RenderBars(&buf, "", []Bar{{Label: "A", Value: 1}}, 40, true); err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected NO_COLOR to win over forced color")
	}
}

func TestBarWidthFor(t *testing.T) {
	if got := BarWidthFor(80, 10, 6); got != 80-10-6-2*len(barGap) {
		t.Fatalf("unexpected width %d", got)
	}
	if got := BarWidthFor(0, 10, 6); got != minBarWidth {
		t.Fatalf("expected min width %d, got %d", minBarWidth, got)
	}
	if got := BarWidthFor(12, 10, 6); got != minBarWidth {
		t.Fatalf("expected min width %d, got %d", minBarWidth, got)
	}
}
