package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/mapfile"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

const skeletonUsage = "Usage: area-labeler skeleton <input> [-o output.json] [--backend url] [--config path] [-v]"

const labelUsage = "Usage: area-labeler label <input> [-t text] [-o output.png|.svg|.json] [--backend url] [--config path] [-v]"

type areaSkeleton struct {
	Area  string         `json:"area"`
	Edges []geom.Segment `json:"edges"`
}

type areaPlacement struct {
	Area      string         `json:"area"`
	Text      string         `json:"text"`
	Placement geom.Placement `json:"placement"`
}

func cmdSkeleton(args []string) {
	o, cfg := setup(args, skeletonUsage, true)

	s, err := mapfile.DecodeFile(o.input)
	if err != nil {
		fatalf("Error loading %s: %v", o.input, err)
	}
	client, err := cfg.Client()
	if err != nil {
		fatalf("Error: %v", err)
	}

	ctx, stop := signalContext()
	defer stop()

	var out []areaSkeleton
	for _, a := range areas(s) {
		edges, err := client.Skeleton(ctx, a.Polylines())
		if err != nil {
			fatalf("Error requesting skeleton for %q: %v", a.Name, err)
		}
		out = append(out, areaSkeleton{Area: a.Name, Edges: edges})
	}
	if err := writeJSON(o.output, out); err != nil {
		fatalf("Error writing %s: %v", o.output, err)
	}
}

func cmdLabel(args []string) {
	o, cfg := setup(args, labelUsage, true)

	s, err := mapfile.DecodeFile(o.input)
	if err != nil {
		fatalf("Error loading %s: %v", o.input, err)
	}
	client, err := cfg.Client()
	if err != nil {
		fatalf("Error: %v", err)
	}

	ctx, stop := signalContext()
	defer stop()

	var out []areaPlacement
	for _, a := range areas(s) {
		text := labelText(o.text, a, cfg.Label.Text)
		p, err := client.Label(ctx, a.Polylines(), text)
		if err != nil {
			fatalf("Error requesting label for %q: %v", a.Name, err)
		}
		out = append(out, areaPlacement{Area: a.Name, Text: text, Placement: p})
	}

	switch strings.ToLower(filepath.Ext(o.output)) {
	case "", ".json":
		if err := writeJSON(o.output, out); err != nil {
			fatalf("Error writing %s: %v", o.output, err)
		}
		return
	}

	borders := scene.New()
	borders.Background = cfg.Canvas.Background
	for _, a := range areas(s) {
		bare := *a
		bare.Label = nil
		bare.Style = cfg.PolygonStyle()
		borders.Add(&bare)
	}
	style := cfg.SessionStyle().Placement
	err = renderFile(o.output, cfg, func(c *render.Canvas) error {
		borders.Fit(c, cfg.Canvas.Padding)
		if err := borders.Draw(c); err != nil {
			return err
		}
		for _, ap := range out {
			if err := c.DrawPlacement(ap.Placement, ap.Text, style); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fatalf("Error writing %s: %v", o.output, err)
	}
	fmt.Printf("Written: %s\n", o.output)
}

// labelText picks the text to place in a: the explicit flag, the
// area's own label, its name, then the configured default.
func labelText(flag string, a *scene.Area, fallback string) string {
	switch {
	case flag != "":
		return flag
	case a.Label != nil && a.Label.Text != "":
		return a.Label.Text
	case a.Name != "":
		return a.Name
	default:
		return fallback
	}
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	if path == "" {
		return encodeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = encodeJSON(f, v)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
