package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDrawing    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
)

var helpLines = []string{
	"Left click    start / stop drawing",
	"Mouse move    add points while drawing",
	"Right click   close polygon, request skeleton + label",
	"Enter         close polygon",
	"u, Backspace  undo last point",
	"c             clear everything",
	"t             edit label text",
	"s             request skeleton",
	"l             request label placement",
	"r             render and open in viewer",
	"f             toggle PNG / SVG",
	"e             export GeoJSON",
	"q, Esc        quit",
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	if err := ed.session.Draw(ed.canvas); err != nil {
		ed.showMessage("Draw failed: "+err.Error(), MsgError)
	}
	ed.surface.flush(ed.screen, 0, 0)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := fmt.Sprintf("%d polygons, %d points", len(ed.session.Polygons()), len(ed.session.Current()))
	ed.drawString(1, y, info, styleStatus)

	// Mode
	if modeStr := ed.modeString(); modeStr != "" {
		style := styleStatus
		if ed.drawing {
			style = styleDrawing
		}
		ed.drawString(w/2-len(modeStr)/2, y, modeStr, style)
	}

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if ed.messageType != MsgInfo {
			elapsed := time.Now().UnixMilli() - ed.messageFlashStart.Load()
			if flashInverted(elapsed) {
				style = style.Reverse(true)
			}
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

// flashInverted reports whether a flashing message shows inverted
// elapsed milliseconds after it appeared.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := min(max(60, runewidth.StringWidth(ed.inputPrompt+ed.inputBuffer)+4), w)
	x := (w - boxW) / 2
	y := h/2 - 2
	ed.drawTitledBox(x, y, boxW, 3, "")
	text := ed.inputPrompt + ed.inputBuffer + "_"
	ed.drawString(x+1, y+1, truncateLeft(text, boxW-2), styleInput)
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 60
	boxH := len(helpLines) + 4
	x := max((w-boxW)/2, 0)
	y := max((h-boxH)/2, 0)
	ed.drawTitledBox(x, y, boxW, boxH, "labeledit")
	for i, line := range helpLines {
		ed.drawString(x+2, y+2+i, truncate(line, boxW-4), styleInput)
	}
}

// drawTitledBox fills a framed box. The title, if any, is centred in the
// top border.
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r, style := boxRune(col, row, w, h), styleBorder
			if r == ' ' {
				style = styleInput
			}
			ed.screen.SetContent(x+col, y+row, r, nil, style)
		}
	}
	if title == "" {
		return
	}
	title = " " + title + " "
	ed.drawString(x+(w-runewidth.StringWidth(title))/2, y, title, styleTitle)
}

// boxRune is the frame rune at (col, row) of a w by h box.
func boxRune(col, row, w, h int) rune {
	top, bottom := row == 0, row == h-1
	left, right := col == 0, col == w-1
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top || bottom:
		return '─'
	case left || right:
		return '│'
	}
	return ' '
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeHelp:
		return "HELP"
	}
	if ed.drawing {
		return "DRAWING"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeHelp:
		return "Any key:Close"
	default:
		return "Click:Draw  Right:Close  t:Text  s:Skeleton  l:Label  u:Undo  c:Clear  r:Render  e:Export  ?:Help  q:Quit"
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// truncateLeft keeps the tail of s, so the cursor end of an input stays
// visible.
func truncateLeft(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen <= 0 {
		return s
	}
	return string(r[len(r)-maxLen:])
}
