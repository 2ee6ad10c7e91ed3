// Package report prints a terminal summary of an export.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"anm-exporter/internal/anm"
	"anm-exporter/internal/builder"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	minPathWidth = 12
	numWidth     = 9
)

// Row is one track line of the summary.
type Row struct {
	Path      string
	Channels  int
	Keyframes int
	Start     float64
	End       float64
}

// Rows summarizes every track of a.
func Rows(a *anm.Animation) []Row {
	rows := make([]Row, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		r := Row{Path: t.Path, Channels: len(t.Channels)}
		first := true
		for _, c := range t.Channels {
			r.Keyframes += len(c.Keyframes)
			if len(c.Keyframes) == 0 {
				continue
			}
			s, e := c.Keyframes[0].Time, c.Keyframes[len(c.Keyframes)-1].Time
			if first || s < r.Start {
				r.Start = s
			}
			if first || e > r.End {
				r.End = e
			}
			first = false
		}
		rows = append(rows, r)
	}
	return rows
}

// TerminalWidth returns the width of f when it is a terminal, else 80.
func TerminalWidth(f *os.File) int {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Write prints a table of a's tracks sized to width columns, followed by the
// build statistics when rep is non-nil.
func Write(w io.Writer, a *anm.Animation, rep *builder.Report, width int) error {
	if width <= 0 {
		width = defaultWidth
	}
	pathWidth := max(width-3*(numWidth+1)-2, minPathWidth)

	var b strings.Builder
	header := runewidth.FillRight("Track", pathWidth) +
		fmt.Sprintf(" %*s %*s %*s", numWidth, "Channels", numWidth, "Keys", numWidth, "Seconds")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", runewidth.StringWidth(header)) + "\n")

	total := 0
	for _, r := range Rows(a) {
		path := runewidth.Truncate(r.Path, pathWidth, "…")
		fmt.Fprintf(&b, "%s %*d %*d %*.3f\n", runewidth.FillRight(path, pathWidth),
			numWidth, r.Channels, numWidth, r.Keyframes, numWidth, r.End-r.Start)
		total += r.Keyframes
	}
	fmt.Fprintf(&b, "%d tracks, %d keyframes, version %d\n", len(a.Tracks), total, a.Version)

	if rep != nil {
		if rep.TotalFrames > 0 {
			fmt.Fprintf(&b, "%d keyframes (vs %d total) - %.1f%% reduction\n",
				len(rep.Frames), rep.TotalFrames, rep.Reduction())
		}
		for _, n := range rep.Notes {
			fmt.Fprintf(&b, "note: %s\n", n)
		}
		for _, ib := range rep.InvalidBones {
			fmt.Fprintf(&b, "warning: %s\n", ib.String())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
