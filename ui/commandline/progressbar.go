// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline holds the command-line display helpers: a progress bar with a table of
// per-step statistics, and plain tables for reports.
package commandline

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// Metric is a name and a pretty-printed value displayed along the progress bar.
type Metric struct {
	Name, Value string
}

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

// ProgressBar displays the progression of a fixed number of steps, with a table of statistics
// above the bar that is redrawn in place.
//
// Step and Done must be called from the same goroutine. The drawing happens asynchronously,
// so a fast loop is not slowed down by a slow terminal.
type ProgressBar struct {
	numSteps, step int
	lastStepTime   time.Time
	durations      []time.Duration

	out        io.Writer
	termenv    *termenv.Output
	bar        *progressbar.ProgressBar
	statsStyle lipgloss.Style
	statsTable *lgtable.Table

	isFirstOutput bool
	numLinesDrawn int
	updates       chan progressBarUpdate
	drawingDone   sync.WaitGroup
}

type progressBarUpdate struct {
	amount  int
	metrics []Metric
}

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// maxUpdateFrequency is the time between updates to the commandline display of stats.
var maxUpdateFrequency = time.Millisecond * 200

// NewProgressBar creates a progress bar for numSteps, written to out.
func NewProgressBar(out io.Writer, numSteps int) *ProgressBar {
	pBar := &ProgressBar{
		numSteps:      numSteps,
		lastStepTime:  time.Now(),
		out:           out,
		termenv:       termenv.NewOutput(out),
		statsStyle:    lipgloss.NewStyle().PaddingLeft(8),
		isFirstOutput: true,
		updates:       make(chan progressBarUpdate, 100), // Large buffer so things are not blocked.
	}
	pBar.bar = progressbar.NewOptions(numSteps,
		progressbar.OptionSetDescription("      [bold]"),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("steps"),
		progressbar.OptionSetTheme(ProgressbarStyle),
		progressbar.OptionSetWriter(out),
	)
	pBar.statsTable = lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return rightAlignedStyle
			}
			return normalStyle
		})
	pBar.drawingDone.Add(1)
	go pBar.drawLoop()
	return pBar
}

// Step reports one more step finished, with its metrics.
func (pBar *ProgressBar) Step(metrics ...Metric) {
	now := time.Now()
	pBar.durations = append(pBar.durations, now.Sub(pBar.lastStepTime))
	pBar.lastStepTime = now
	pBar.step++
	update := progressBarUpdate{amount: 1}
	update.metrics = append(update.metrics,
		Metric{"Step", fmt.Sprintf("%s of %s", humanize.Comma(int64(pBar.step)), humanize.Comma(int64(pBar.numSteps)))},
		Metric{"Median step duration", FormatDuration(pBar.MedianStepDuration())})
	update.metrics = append(update.metrics, metrics...)
	pBar.updates <- update
}

// MedianStepDuration returns the median of the durations of the steps so far.
func (pBar *ProgressBar) MedianStepDuration() time.Duration {
	if len(pBar.durations) == 0 {
		return 0
	}
	sorted := slices.Clone(pBar.durations)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

// Done waits for the pending updates to be drawn and finishes the display.
func (pBar *ProgressBar) Done() {
	close(pBar.updates)
	pBar.drawingDone.Wait()
	pBar.termenv.ShowCursor()
	_, _ = fmt.Fprintln(pBar.out)
}

// drawLoop draws the updates as they come, until the updates channel is closed.
func (pBar *ProgressBar) drawLoop() {
	defer pBar.drawingDone.Done()
	for update := range pBar.updates {
		// Exhaust the updates in the buffer:
		amount := update.amount
	exhaust:
		for {
			select {
			case newUpdate, ok := <-pBar.updates:
				if !ok {
					break exhaust
				}
				amount += newUpdate.amount
				update = newUpdate
			default:
				break exhaust
			}
		}

		pBar.statsTable.Data(lgtable.NewStringData())
		for _, metric := range update.metrics {
			pBar.statsTable.Row(metric.Name, metric.Value)
		}

		// Clear the previous lines that will be overwritten.
		pBar.termenv.HideCursor()
		if !pBar.isFirstOutput {
			pBar.termenv.CursorPrevLine(pBar.numLinesDrawn)
		}
		pBar.isFirstOutput = false

		rendered := pBar.statsStyle.Render(pBar.statsTable.String())
		_, _ = fmt.Fprintln(pBar.out, rendered)
		_ = pBar.bar.Add(amount) // Prints progress bar line.
		_, _ = fmt.Fprintln(pBar.out)
		pBar.numLinesDrawn = lipgloss.Height(rendered) + 1
		pBar.termenv.ShowCursor()
		time.Sleep(maxUpdateFrequency)
	}
}
