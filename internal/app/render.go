package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

var statusStyle = tcell.StyleDefault.Reverse(true)

// draw renders the document text above a one-line status bar.
func (app *Application) draw() {
	app.mu.Lock()
	screen := app.screen
	status := app.status
	app.mu.Unlock()
	if screen == nil {
		return
	}

	screen.Clear()
	w, h := screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	cx, cy := app.drawText(screen, w, h-1)
	if cy < h-1 {
		screen.ShowCursor(cx, cy)
	} else {
		screen.HideCursor()
	}
	app.drawStatus(screen, w, h-1, status)
	screen.Show()
}

// drawText lays the document out in rows of width w, stopping at row
// limit. It returns the cell of the caret. Content offsets count grapheme
// clusters, so the caret is found by counting clusters as they are drawn.
func (app *Application) drawText(screen tcell.Screen, w, limit int) (cx, cy int) {
	text := app.surface.Text()
	caret := app.caret()

	x, y, unit := 0, 0, 0
	cx, cy = -1, -1
	state := -1
	var cluster string
	var boundaries int
	for text != "" {
		if unit == caret {
			cx, cy = x, y
		}
		cluster, text, boundaries, state = uniseg.StepString(text, state)
		unit++

		switch cluster {
		case "\n", "\r\n", "\r":
			x, y = 0, y+1
			continue
		case "\t":
			x += tabWidth - x%tabWidth
			continue
		}

		width := boundaries >> uniseg.ShiftWidth
		if x+width > w {
			x, y = 0, y+1
		}
		if y < limit {
			runes := []rune(cluster)
			screen.SetContent(x, y, runes[0], runes[1:], tcell.StyleDefault)
		}
		x += width
	}
	if cx < 0 {
		cx, cy = x, y
	}
	if cx >= w {
		cx, cy = 0, cy+1
	}
	return cx, cy
}

func (app *Application) drawStatus(screen tcell.Screen, w, y int, status string) {
	line := " no history"
	if info, ok := app.engine.DebugInfo(DocumentID); ok {
		line = fmt.Sprintf(" undo %d  redo %d  %s/%s  depth %d",
			info.UndoCount, info.RedoCount, info.Mode, info.Phase, info.MaxDepth)
	}
	if status != "" {
		line += "  " + status
	}

	for x := 0; x < w; x++ {
		screen.SetContent(x, y, ' ', nil, statusStyle)
	}
	x := 0
	state := -1
	var cluster string
	var boundaries int
	for line != "" && x < w {
		cluster, line, boundaries, state = uniseg.StepString(line, state)
		runes := []rune(cluster)
		screen.SetContent(x, y, runes[0], runes[1:], statusStyle)
		x += boundaries >> uniseg.ShiftWidth
	}
}
