package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ha1tch/area-labeler/pkg/config"
	"github.com/ha1tch/area-labeler/pkg/logging"
	"github.com/ha1tch/area-labeler/pkg/mapfile"
	"github.com/ha1tch/area-labeler/pkg/render"
)

const watchUsage = "Usage: area-labeler watch <input> [-o output.png|.svg] [-W px] [-H px] [--config path] [-v]"

// settle groups the bursts of events a single save produces.
const settle = 150 * time.Millisecond

func cmdWatch(args []string) {
	o, cfg := setup(args, watchUsage, true)
	output := outputPath(o.output, o.input, ".png")

	ctx, stop := signalContext()
	defer stop()

	if err := watch(ctx, o.input, func() error { return renderMap(o.input, output, cfg) }); err != nil {
		fatalf("Error watching %s: %v", o.input, err)
	}
}

func renderMap(input, output string, cfg config.Config) error {
	s, err := mapfile.DecodeFile(input)
	if err != nil {
		return err
	}
	s.SetStyle(cfg.PolygonStyle())
	s.SetTextColor(cfg.Style.Text)
	s.Background = cfg.Canvas.Background
	err = renderFile(output, cfg, func(c *render.Canvas) error {
		s.Fit(c, cfg.Canvas.Padding)
		return s.Draw(c)
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s Written: %s\n", time.Now().Format("15:04:05"), output)
	return nil
}

// watch calls rebuild once, then again after every change to path,
// until ctx is done. The parent directory is watched so editors that
// save by renaming are seen too. Rebuild errors are logged, not fatal.
func watch(ctx context.Context, path string, rebuild func() error) error {
	log := logging.Logger()
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	run := func() {
		if err := rebuild(); err != nil {
			log.Error("rebuild failed", "file", path, "err", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	run()

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(settle)
		case <-timer.C:
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}
