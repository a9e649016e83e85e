package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Bar is one labeled row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	// Text is printed after the bar. Empty means the value with two decimals.
	Text string
}

type ansiColor struct {
	name string
	code string
}

const (
	barChar             = "█"
	barGap              = "  "
	minBarWidth         = 10
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// RenderBars prints a horizontal bar chart scaled to the largest value.
// A width of 0 uses the terminal width.
func RenderBars(w io.Writer, title string, bars []Bar, width int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}

	texts := make([]string, len(bars))
	labelWidth, textWidth := 0, 0
	maxVal := 0.0
	for i, b := range bars {
		texts[i] = b.Text
		if texts[i] == "" {
			texts[i] = fmt.Sprintf("%.2f", b.Value)
		}
		if lw := displayWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
		if tw := displayWidth(texts[i]); tw > textWidth {
			textWidth = tw
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	barWidth := BarWidthFor(width, labelWidth, textWidth)
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, b := range bars {
		n := barLength(b.Value, maxVal, barWidth)
		bar := strings.Repeat(barChar, n)
		if useColor && n > 0 {
			bar = colorPalette[i%len(colorPalette)].code + bar + colorReset
		}
		line := padCell(b.Label, labelWidth, false) + barGap + bar + strings.Repeat(" ", barWidth-n) + barGap + texts[i]
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// BarWidthFor computes how many cells a bar may use within totalWidth.
func BarWidthFor(totalWidth, labelWidth, textWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	barWidth := totalWidth - labelWidth - textWidth - 2*len(barGap)
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	return barWidth
}

func barLength(v, maxVal float64, width int) int {
	if maxVal <= 0 || v <= 0 {
		return 0
	}
	n := int(math.Round(v / maxVal * float64(width)))
	if n > width {
		n = width
	}
	return n
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
