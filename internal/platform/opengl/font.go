package opengl

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas (top-left origin)
	AtlasX, AtlasY float32
	Width, Height  float32
	// Offset of the bitmap's top-left corner from the pen position, y up
	BearingX, BearingY float32
	Advance            float32
}

// FontAtlas is a baked glyph set. Metrics are in pixels at Size.
type FontAtlas struct {
	Size       float32
	LineHeight float32
	Glyphs     map[rune]Glyph
	Image      *image.Alpha
}

// GlyphQuad is one laid out glyph in em units, y up, with its atlas UVs.
type GlyphQuad struct {
	Min, Max     mgl32.Vec2
	UVMin, UVMax mgl32.Vec2
}

const atlasWidth = 512

// DefaultFont bakes the Go Regular face, so text renders without any font
// file on disk.
func DefaultFont(pixels int) (*FontAtlas, error) {
	return BakeFont(goregular.TTF, pixels)
}

// LoadFont bakes a TrueType or OpenType file.
func LoadFont(path string, pixels int) (*FontAtlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return BakeFont(data, pixels)
}

// BakeFont rasterises Latin-1 into a single-channel atlas.
func BakeFont(data []byte, pixels int) (*FontAtlas, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	var runes []rune
	for r := rune(32); r <= 255; r++ {
		if r >= 127 && r < 160 {
			continue
		}
		runes = append(runes, r)
	}

	// First pass: pack rows to size the atlas
	padding := 1
	offsetX, offsetY, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || dr.Empty() {
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		offsetX += dr.Dx() + padding
		rowHeight = max(rowHeight, dr.Dy())
	}
	atlasHeight := 1
	for atlasHeight < offsetY+rowHeight {
		atlasHeight <<= 1
	}

	atlas := &FontAtlas{
		Size:       float32(pixels),
		LineHeight: float32(face.Metrics().Height.Round()),
		Glyphs:     make(map[rune]Glyph, len(runes)),
		Image:      image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasHeight)),
	}

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY, rowHeight = 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  float32(advance.Round()),
		}
		if dr.Empty() || mask == nil {
			// Space or non-drawable glyph; still record advance
			atlas.Glyphs[r] = g
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+dr.Dx(), offsetY+dr.Dy())
		draw.Draw(atlas.Image, dst, mask, maskp, draw.Src)

		g.AtlasX, g.AtlasY = float32(offsetX), float32(offsetY)
		g.Width, g.Height = float32(dr.Dx()), float32(dr.Dy())
		atlas.Glyphs[r] = g

		offsetX += dr.Dx() + padding
		rowHeight = max(rowHeight, dr.Dy())
	}
	return atlas, nil
}

// Layout places text with the pen starting at the origin. One em is the
// font size; lines advance downwards by the line height plus lineSpacing,
// and kerning is added after every glyph.
func (a *FontAtlas) Layout(text string, kerning, lineSpacing float32) []GlyphQuad {
	w, h := float32(a.Image.Rect.Dx()), float32(a.Image.Rect.Dy())
	space := a.Glyphs[' ']
	quads := make([]GlyphQuad, 0, len(text))

	var x, y float32
	for _, r := range text {
		switch r {
		case '\n':
			x = 0
			y -= a.LineHeight/a.Size + lineSpacing
			continue
		case '\t':
			x += 4 * (space.Advance/a.Size + kerning)
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			if g, ok = a.Glyphs['?']; !ok {
				g = space
			}
		}
		if g.Width > 0 && g.Height > 0 {
			left := x + g.BearingX/a.Size
			top := y + g.BearingY/a.Size
			quads = append(quads, GlyphQuad{
				Min:   mgl32.Vec2{left, top - g.Height/a.Size},
				Max:   mgl32.Vec2{left + g.Width/a.Size, top},
				UVMin: mgl32.Vec2{g.AtlasX / w, (g.AtlasY + g.Height) / h},
				UVMax: mgl32.Vec2{(g.AtlasX + g.Width) / w, g.AtlasY / h},
			})
		}
		x += g.Advance/a.Size + kerning
	}
	return quads
}

// Upload copies the atlas into a GL_RED texture.
func (a *FontAtlas) Upload() *Texture {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	// Ensure tight byte alignment for single-channel (alpha) upload
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	w, h := a.Image.Rect.Dx(), a.Image.Rect.Dy()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &Texture{ID: texture, target: gl.TEXTURE_2D, width: w, height: h}
}
