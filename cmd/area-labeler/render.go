package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/area-labeler/pkg/config"
	"github.com/ha1tch/area-labeler/pkg/geom"
	"github.com/ha1tch/area-labeler/pkg/mapfile"
	"github.com/ha1tch/area-labeler/pkg/render"
	"github.com/ha1tch/area-labeler/pkg/scene"
)

const renderUsage = "Usage: area-labeler render <input> [-o output.png|.svg] [-W px] [-H px] [--skeleton] [--backend url] [--config path] [-v]"

const demoUsage = "Usage: area-labeler demo [-o output.png|.svg] [-W px] [-H px] [--config path] [-v]"

func cmdRender(args []string) {
	o, cfg := setup(args, renderUsage, true)

	s, err := mapfile.DecodeFile(o.input)
	if err != nil {
		fatalf("Error loading %s: %v", o.input, err)
	}
	s.SetStyle(cfg.PolygonStyle())
	s.SetTextColor(cfg.Style.Text)
	s.Background = cfg.Canvas.Background

	var edges []geom.Segment
	if o.skeleton {
		ctx, stop := signalContext()
		edges, err = skeletons(ctx, cfg, s)
		stop()
		if err != nil {
			fatalf("Error requesting skeleton: %v", err)
		}
	}

	output := outputPath(o.output, o.input, ".png")
	err = renderFile(output, cfg, func(c *render.Canvas) error {
		s.Fit(c, cfg.Canvas.Padding)
		if err := s.Draw(c); err != nil {
			return err
		}
		return c.DrawSegments(edges, cfg.Style.Skeleton, cfg.Style.SkeletonWidth)
	})
	if err != nil {
		fatalf("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdDemo(args []string) {
	o, cfg := setup(args, demoUsage, false)

	output := o.output
	if output == "" {
		output = "demo.png"
	}
	s := scene.Demo()
	s.Background = cfg.Canvas.Background
	err := renderFile(output, cfg, func(c *render.Canvas) error {
		w, h := c.Size()
		c.SetProjector(scene.DemoProjector(w, h))
		return s.Draw(c)
	})
	if err != nil {
		fatalf("Error writing %s: %v", output, err)
	}
	fmt.Printf("Written: %s\n", output)
}

// outputPath defaults to the input name with ext.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// renderFile draws into a cfg-sized surface chosen by the extension of
// path and writes it out.
func renderFile(path string, cfg config.Config, draw func(*render.Canvas) error) error {
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		surf, err := render.NewRasterSurface(w, h)
		if err != nil {
			return err
		}
		if err := draw(render.NewCanvas(surf)); err != nil {
			return err
		}
		return surf.SavePNG(path)
	case ".svg":
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
	default:
		return fmt.Errorf("unknown output format %q (want .png or .svg)", filepath.Ext(path))
	}
}

// areas collects every area of s in draw order.
func areas(s *scene.Scene) []*scene.Area {
	var out []*scene.Area
	for _, it := range s.Items {
		switch v := it.(type) {
		case *scene.Area:
			out = append(out, v)
		case *scene.AreaPOI:
			if v.Area != nil {
				out = append(out, v.Area)
			}
		}
	}
	return out
}

// skeletons requests the skeleton of every area.
func skeletons(ctx context.Context, cfg config.Config, s *scene.Scene) ([]geom.Segment, error) {
	client, err := cfg.Client()
	if err != nil {
		return nil, err
	}
	var edges []geom.Segment
	for _, a := range areas(s) {
		e, err := client.Skeleton(ctx, a.Polylines())
		if err != nil {
			return nil, fmt.Errorf("area %q: %w", a.Name, err)
		}
		edges = append(edges, e...)
	}
	return edges, nil
}
