// Package main is a terminal viewer demonstrating the spanmap packages:
// it renders a file with collapsible fold regions and diagnostic highlights,
// both tracked as anchored spans that survive edits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/spanmap/diagnostic"
	"github.com/dshills/spanmap/fold"
	"github.com/dshills/spanmap/span"
	"github.com/dshills/spanmap/text"
)

func main() {
	os.Exit(run())
}

type options struct {
	path        string
	diagnostics string
	source      string
}

func parseFlags() (options, bool) {
	var opts options
	var showHelp bool

	flag.StringVar(&opts.diagnostics, "diagnostics", "", "Path to an LSP publishDiagnostics JSON payload")
	flag.StringVar(&opts.diagnostics, "d", "", "Path to an LSP publishDiagnostics JSON payload (shorthand)")
	flag.StringVar(&opts.source, "source", "lsp", "Diagnostic source name")
	flag.BoolVar(&showHelp, "help", false, "Show usage")
	flag.Parse()

	if showHelp || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: spanview [flags] <file>")
		flag.PrintDefaults()
		return opts, false
	}
	opts.path = flag.Arg(0)
	return opts, true
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 2
	}

	content, err := os.ReadFile(opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	v := &viewer{
		buffer: text.NewSnapshot(string(content)),
		folds:  fold.NewMap(),
		diags:  diagnostic.NewSet(),
	}

	v.folds.InsertRanges(v.buffer, indentRegions(v.buffer)...)

	if opts.diagnostics != "" {
		payload, err := os.ReadFile(opts.diagnostics)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if _, err := v.diags.Publish(v.buffer, opts.source, payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	v.loop(screen)
	return 0
}

// indentRegions derives foldable regions from indentation: a line followed
// by a run of deeper-indented lines folds through the end of the run.
func indentRegions(snap *text.Snapshot) []text.PointRange {
	lines := snap.LineCount()
	depth := make([]int, lines)
	for i := uint32(0); i < lines; i++ {
		depth[i] = indentOf(snap.Line(i))
	}

	var regions []text.PointRange
	for i := uint32(0); i < lines; i++ {
		if snap.Line(i) == "" {
			continue
		}
		end := i
		for j := i + 1; j < lines; j++ {
			if snap.Line(j) == "" {
				continue
			}
			if depth[j] <= depth[i] {
				break
			}
			end = j
		}
		if end > i {
			regions = append(regions, text.PointRange{
				Start: text.Point{Line: i, Column: uint32(len(snap.Line(i)))},
				End:   text.Point{Line: end, Column: uint32(len(snap.Line(end)))},
			})
		}
	}
	return regions
}

func indentOf(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

type viewer struct {
	buffer  *text.Snapshot
	folds   *fold.Map
	diags   *diagnostic.Set
	curLine uint32
	topLine uint32
}

func (v *viewer) loop(screen tcell.Screen) {
	for {
		v.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				return
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				v.move(1)
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				v.move(-1)
			case ev.Key() == tcell.KeyTab || ev.Key() == tcell.KeyEnter:
				v.folds.Toggle(v.buffer, v.curLine)
			}
		}
	}
}

// move steps the cursor over visible lines, skipping folded-away ones.
func (v *viewer) move(delta int) {
	hidden := v.folds.Snapshot().HiddenLines(v.buffer)
	line := int64(v.curLine)
	for {
		line += int64(delta)
		if line < 0 || line >= int64(v.buffer.LineCount()) {
			return
		}
		if !hidden[uint32(line)] {
			v.curLine = uint32(line)
			return
		}
	}
}

func (v *viewer) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	if height < 2 {
		screen.Show()
		return
	}

	foldView := v.folds.Snapshot()
	diagView := v.diags.Snapshot()
	hidden := foldView.HiddenLines(v.buffer)

	// Keep the cursor inside the viewport.
	if v.curLine < v.topLine {
		v.topLine = v.curLine
	}
	for visibleBetween(hidden, v.topLine, v.curLine) >= height-1 {
		v.topLine++
	}

	row := 0
	for line := v.topLine; line < v.buffer.LineCount() && row < height-1; line++ {
		if hidden[line] {
			continue
		}

		style := tcell.StyleDefault
		if line == v.curLine {
			style = style.Reverse(true)
		}
		lineRange := text.PointRange{
			Start: text.Point{Line: line},
			End:   text.Point{Line: line, Column: uint32(len(v.buffer.Line(line)))},
		}
		marks := diagView.InRange(lineRange, v.buffer, true, false).Collect()

		x := drawText(screen, 0, row, width, v.buffer.Line(line), style.Foreground(severityColor(marks)))

		if f := foldView.FoldAtLine(line, v.buffer); f != nil && f.Payload.Collapsed {
			drawText(screen, x+1, row, width, fold.Placeholder(f.Payload), style.Foreground(tcell.ColorGray))
		}
		row++
	}

	status := fmt.Sprintf(" %d folds | %d diagnostics | line %d | tab: toggle fold, q: quit ",
		foldView.Len(), diagView.Len(), v.curLine+1)
	drawText(screen, 0, height-1, width, status, tcell.StyleDefault.Reverse(true))
	screen.Show()
}

// visibleBetween counts the visible lines in [from, to).
func visibleBetween(hidden map[uint32]bool, from, to uint32) int {
	n := 0
	for line := from; line < to; line++ {
		if !hidden[line] {
			n++
		}
	}
	return n
}

// severityColor picks the color of a line's worst diagnostic.
func severityColor(marks []span.Resolved[diagnostic.Entry]) tcell.Color {
	worst := diagnostic.Severity(0)
	for _, m := range marks {
		if worst == 0 || m.Payload.Severity < worst {
			worst = m.Payload.Severity
		}
	}
	switch worst {
	case diagnostic.SeverityError:
		return tcell.ColorRed
	case diagnostic.SeverityWarning:
		return tcell.ColorYellow
	case diagnostic.SeverityInformation, diagnostic.SeverityHint:
		return tcell.ColorTeal
	default:
		return tcell.ColorDefault
	}
}

// drawText draws s starting at (x, y), advancing by grapheme cluster width.
// Returns the x position after the last cell drawn.
func drawText(screen tcell.Screen, x, y, maxWidth int, s string, style tcell.Style) int {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if x >= maxWidth {
			break
		}
		runes := g.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += g.Width()
	}
	return x
}
