// Command labeledit is a terminal editor for trying label placements:
// draw polygons with the mouse and watch the labelling service fit text
// into them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/ha1tch/area-labeler/pkg/config"
	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/mapfile"
	"github.com/ha1tch/area-labeler/pkg/projection"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/scene"
	"github.com/ha1tch/area-labeler/pkg/session"
)

const usage = `Usage: labeledit [--config path] [--backend url] [--log file] [map.geojson]

Left click starts and stops drawing; while drawing, moving the mouse adds
points. Right click (or Enter) closes the polygon and asks the labelling
service for a skeleton and a label placement.`

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// statusRows are the help and status bars below the canvas.
const statusRows = 2

// Editor holds all editor state
type Editor struct {
	screen  tcell.Screen
	session *session.Session
	backend session.Backend
	config  config.Config
	cfgPath string

	surface *cellSurface
	canvas  *render.Canvas

	mode        Mode
	message     string
	messageType MessageType

	// Mouse state
	drawing bool
	buttons tcell.ButtonMask

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// Requests in flight
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	// Message flash state, Unix milliseconds when the message was shown.
	// Read by the refresh goroutine.
	messageFlashStart atomic.Int64
}

// backendEvent reports a finished backend request to the event loop.
type backendEvent struct {
	tcell.EventTime
	kind string
	err  error
}

func newEditor(screen tcell.Screen, cfg config.Config, b session.Backend) *Editor {
	ctx, cancel := context.WithCancel(context.Background())
	s := session.New()
	s.SetText(cfg.Label.Text)
	s.SetStyle(cfg.SessionStyle())

	w, h := screen.Size()
	surf := newCellSurface(w, h-statusRows)
	c := render.NewCanvas(surf)
	pw, ph := surf.Size()
	c.SetProjector(projection.ForBound(session.DataSpace, pw, ph))

	return &Editor{
		screen:  screen,
		session: s,
		backend: b,
		config:  cfg,
		surface: surf,
		canvas:  c,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func main() {
	var cfgPath, backendURL, logPath, input string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "--backend", "--log":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, usage)
				os.Exit(1)
			}
			switch args[i] {
			case "--config":
				cfgPath = args[i+1]
			case "--backend":
				backendURL = args[i+1]
			case "--log":
				logPath = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			input = args[i]
		}
	}

	// The terminal belongs to the editor, so logs only go to a file.
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log %s: %v\n", logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	path := config.Path(cfgPath)
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", path, err)
		os.Exit(1)
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
	}
	client, err := cfg.Client()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed := newEditor(screen, cfg, client)
	ed.cfgPath = path
	if input != "" {
		if err := ed.loadFile(input); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
			os.Exit(1)
		}
	}

	// Main loop
	ed.run()
	ed.shutdown()

	screen.Fini()
}

func (ed *Editor) run() {
	// Refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ed.ctx.Done():
				return
			case <-ticker.C:
				if start := ed.messageFlashStart.Load(); start > 0 {
					elapsed := time.Now().UnixMilli() - start
					if elapsed >= 0 && elapsed < 700 {
						ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
					}
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		if ed.handleEvent(ed.screen.PollEvent()) {
			return
		}
	}
}

// handleEvent dispatches one event and reports whether to quit.
func (ed *Editor) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true
	case *tcell.EventResize:
		ed.screen.Sync()
		ed.resize()
	case *tcell.EventKey:
		return ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	case *backendEvent:
		ed.handleBackend(ev)
	case *tcell.EventInterrupt:
		// Refresh event for flash animation - just redraw
	}
	return false
}

// shutdown cancels requests in flight and waits for them.
func (ed *Editor) shutdown() {
	ed.cancel()
	ed.pending.Wait()
}

func (ed *Editor) resize() {
	w, h := ed.screen.Size()
	if err := ed.canvas.Resize(w, 2*max(h-statusRows, 0)); err != nil {
		ed.showMessage("Resize failed: "+err.Error(), MsgError)
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyEnter:
		ed.closePolygon()
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.undo()
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 't':
		ed.startInput("Label text: ", ed.session.Text(), func(s string) {
			ed.session.SetText(s)
			ed.request("label")
		})
	case 's':
		ed.request("skeleton")
	case 'l':
		ed.request("label")
	case 'u':
		ed.undo()
	case 'c':
		ed.session.Clear()
		ed.drawing = false
		ed.showMessage("Cleared", MsgSuccess)
	case 'r':
		ed.renderView()
	case 'e':
		ed.startInput("Export to: ", ed.defaultExportPath(), ed.export)
	case 'f':
		ed.toggleFileType()
	case '?':
		ed.mode = ModeHelp
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputAction = nil
	case tcell.KeyEnter:
		action, value := ed.inputAction, ed.inputBuffer
		ed.mode = ModeCanvas
		ed.inputAction = nil
		if action != nil {
			action(value)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) startInput(prompt, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = prompt
	ed.inputBuffer = initial
	ed.inputAction = action
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons &^ ed.buttons
	ed.buttons = buttons

	_, h := ed.screen.Size()
	onCanvas := y < h-statusRows

	switch {
	case pressed&tcell.Button1 != 0 && onCanvas:
		ed.drawing = !ed.drawing
		if ed.drawing {
			ed.session.AddPoint(ed.dataPoint(x, y))
		}
	case pressed&tcell.Button2 != 0 && onCanvas:
		ed.closePolygon()
	case ed.drawing && onCanvas && buttons&(tcell.Button2|tcell.Button3) == 0:
		ed.session.AddPoint(ed.dataPoint(x, y))
	}
}

// dataPoint maps the centre of a cell to data space.
func (ed *Editor) dataPoint(col, row int) orb.Point {
	return ed.canvas.Projector().Unproject(orb.Point{float64(col) + 0.5, float64(2*row) + 1})
}

func (ed *Editor) closePolygon() {
	ed.drawing = false
	if err := ed.session.ClosePolygon(); err != nil {
		ed.showMessage(err.Error(), MsgWarning)
		return
	}
	ed.showMessage("Polygon closed", MsgSuccess)
	ed.request("skeleton")
	ed.request("label")
}

func (ed *Editor) undo() {
	if ed.session.UndoPoint() {
		ed.showMessage("Undone", MsgInfo)
	}
}

// request runs a backend call in the background. The result arrives as
// a backendEvent.
func (ed *Editor) request(kind string) {
	ed.pending.Add(1)
	go func() {
		defer ed.pending.Done()
		var err error
		switch kind {
		case "skeleton":
			err = ed.session.RequestSkeleton(ed.ctx, ed.backend)
		case "label":
			err = ed.session.RequestLabel(ed.ctx, ed.backend)
		}
		ev := &backendEvent{kind: kind, err: err}
		ev.SetEventNow()
		ed.screen.PostEvent(ev)
	}()
}

func (ed *Editor) handleBackend(ev *backendEvent) {
	if ev.err != nil {
		if ed.ctx.Err() == nil {
			ed.showMessage(ev.err.Error(), MsgError)
		}
		return
	}
	switch ev.kind {
	case "skeleton":
		ed.showMessage(fmt.Sprintf("Skeleton: %d edges", len(ed.session.Edges())), MsgSuccess)
	case "label":
		ed.showMessage("Label placed", MsgSuccess)
	}
}

func (ed *Editor) toggleFileType() {
	if ed.config.Editor.FileType == "svg" {
		ed.config.Editor.FileType = "png"
	} else {
		ed.config.Editor.FileType = "svg"
	}
	ed.saveConfig()
	ed.showMessage("File type: "+strings.ToUpper(ed.config.Editor.FileType), MsgInfo)
}

func (ed *Editor) saveConfig() {
	if ed.cfgPath == "" {
		return
	}
	if err := config.Save(ed.cfgPath, ed.config); err != nil {
		ed.showMessage("Failed to save config: "+err.Error(), MsgError)
	}
}

// renderFile draws the session at the configured canvas size.
func (ed *Editor) renderFile(path string) error {
	w, h := ed.config.Canvas.Width, ed.config.Canvas.Height
	draw := func(c *render.Canvas) error {
		cw, ch := c.Size()
		c.SetProjector(projection.ForBound(ed.session.Bound(), cw, ch))
		return ed.session.Draw(c)
	}
	if ed.config.Editor.FileType == "svg" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		surf := render.NewSVGSurface(f, w, h)
		err = draw(render.NewCanvas(surf))
		surf.Close()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	surf, err := render.NewRasterSurface(w, h)
	if err != nil {
		return err
	}
	if err := draw(render.NewCanvas(surf)); err != nil {
		return err
	}
	return surf.SavePNG(path)
}

func (ed *Editor) renderView() {
	ext := "." + ed.config.Editor.FileType
	tmpFile, err := os.CreateTemp("", "labeledit-*"+ext)
	if err != nil {
		ed.showMessage("Failed to create temp file", MsgError)
		return
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := ed.renderFile(tmpPath); err != nil {
		ed.showMessage("Failed to render: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}
	if !ed.config.Editor.OpenViewer {
		ed.showMessage("Written: "+tmpPath, MsgSuccess)
		return
	}

	// Open with system viewer
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", tmpPath)
	case "windows":
		openCmd = exec.Command("cmd", "/c", "start", "", tmpPath)
	default: // linux, etc
		openCmd = exec.Command("xdg-open", tmpPath)
	}

	if err := openCmd.Start(); err != nil {
		ed.showMessage("Failed to open viewer: "+err.Error(), MsgError)
		return
	}
	go openCmd.Wait()

	ed.showMessage("Opened in viewer: "+tmpPath, MsgInfo)
}

func (ed *Editor) defaultExportPath() string {
	dir := ed.config.Editor.LastDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "labels.geojson")
}

func (ed *Editor) export(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	s := ed.session.Scene()
	if s.Len() == 0 {
		ed.showMessage("Nothing to export: no closed polygons", MsgWarning)
		return
	}
	if err := mapfile.EncodeFile(path, s); err != nil {
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	if dir := filepath.Dir(path); dir != ed.config.Editor.LastDir {
		ed.config.Editor.LastDir = dir
		ed.saveConfig()
	}
	ed.showMessage(fmt.Sprintf("Exported %d polygons to %s", s.Len(), path), MsgSuccess)
}

// loadFile adds the rings of every area in a map file as closed
// polygons.
func (ed *Editor) loadFile(path string) error {
	s, err := mapfile.DecodeFile(path)
	if err != nil {
		return err
	}
	n := 0
	for _, it := range s.Items {
		for _, line := range polylinesOf(it) {
			for _, p := range line {
				ed.session.AddPoint(p)
			}
			if err := ed.session.ClosePolygon(); err != nil {
				return fmt.Errorf("ring %d: %w", n, err)
			}
			n++
		}
	}
	ed.showMessage(fmt.Sprintf("Loaded %d rings from %s", n, filepath.Base(path)), MsgInfo)
	return nil
}

func polylinesOf(it scene.Item) []orb.LineString {
	switch v := it.(type) {
	case *scene.Area:
		return v.Polylines()
	case *scene.AreaPOI:
		if v.Area != nil {
			return v.Area.Polylines()
		}
	}
	return nil
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	logging.Logger().Debug("message", "text", msg, "type", int(msgType))
}
