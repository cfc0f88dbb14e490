package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// measureSample is measured once to derive the monospace width ratio.
const measureSample = "QÄ"

// Fonts holds the monospace face used for labels: gg/text for upright
// strings and metrics, sfnt for the vector outlines of rotated glyphs.
type Fonts struct {
	source  *text.FontSource
	outline *sfnt.Font

	mu    sync.Mutex
	buf   sfnt.Buffer
	faces map[float64]text.Face
}

var (
	defaultFonts     *Fonts
	defaultFontsErr  error
	defaultFontsOnce sync.Once
)

// DefaultFonts returns the shared Go Mono font set.
func DefaultFonts() (*Fonts, error) {
	defaultFontsOnce.Do(func() {
		defaultFonts, defaultFontsErr = NewFonts(gomono.TTF)
	})
	return defaultFonts, defaultFontsErr
}

// NewFonts parses a TrueType/OpenType font.
func NewFonts(ttf []byte) (*Fonts, error) {
	src, err := text.NewFontSource(ttf)
	if err != nil {
		return nil, fmt.Errorf("load font source: %w", err)
	}
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font outlines: %w", err)
	}
	return &Fonts{
		source:  src,
		outline: f,
		faces:   make(map[float64]text.Face),
	}, nil
}

// Face returns the face at size pixels.
func (f *Fonts) Face(size float64) text.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	face, ok := f.faces[size]
	if !ok {
		face = f.source.Face(size)
		f.faces[size] = face
	}
	return face
}

// Advance returns the width of s at size pixels.
func (f *Fonts) Advance(s string, size float64) float64 {
	return f.Face(size).Advance(s)
}

// TextWidthRatio is the average glyph advance per pixel of font size.
func (f *Fonts) TextWidthRatio() float64 {
	const size = 10
	n := len([]rune(measureSample))
	return f.Advance(measureSample, size) / (size * float64(n))
}

// Outline returns the outline of r at size pixels, in pixel units with
// the origin on the baseline at the left edge and y pointing down, plus
// the horizontal advance.
func (f *Fonts) Outline(r rune, size float64) (sfnt.Segments, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ppem := fixed.Int26_6(size * 64)
	idx, err := f.outline.GlyphIndex(&f.buf, r)
	if err != nil {
		return nil, 0, fmt.Errorf("glyph index for %q: %w", r, err)
	}
	adv, err := f.outline.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
	if err != nil {
		return nil, 0, fmt.Errorf("glyph advance for %q: %w", r, err)
	}
	segs, err := f.outline.LoadGlyph(&f.buf, idx, ppem, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("glyph outline for %q: %w", r, err)
	}
	// segs aliases f.buf; copy before releasing the lock.
	out := make(sfnt.Segments, len(segs))
	copy(out, segs)
	return out, float64(adv) / 64, nil
}
