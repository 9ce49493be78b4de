package editor

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/framegraph"
	"lumen/internal/profiling"
	"lumen/internal/render"
	"lumen/internal/scene"
)

// TextInspector renders component state as indented "label: value" lines.
type TextInspector struct {
	Assets *asset.Manager
	Indent string

	b strings.Builder
}

var _ framegraph.Inspector = (*TextInspector)(nil)

func (t *TextInspector) Property(label string, value any) {
	fmt.Fprintf(&t.b, "%s%s: %s\n", t.Indent, label, formatValue(value))
}

func (t *TextInspector) Handle(label string, kind asset.Kind, h asset.Handle) {
	state := ""
	switch {
	case h == asset.Invalid:
		state = " (unset)"
	case t.Assets != nil && t.Assets.KindOf(h) != kind:
		state = " (missing)"
	}
	fmt.Fprintf(&t.b, "%s%s: %s #%s%s\n", t.Indent, label, kind, h, state)
}

func (t *TextInspector) String() string { return t.b.String() }

func formatValue(v any) string {
	switch x := v.(type) {
	case float32:
		return fmt.Sprintf("%.4g", x)
	case mgl32.Vec2:
		return fmt.Sprintf("(%.3g, %.3g)", x[0], x[1])
	case mgl32.Vec3:
		return fmt.Sprintf("(%.3g, %.3g, %.3g)", x[0], x[1], x[2])
	case mgl32.Vec4:
		return fmt.Sprintf("(%.3g, %.3g, %.3g, %.3g)", x[0], x[1], x[2], x[3])
	}
	return fmt.Sprint(v)
}

// ResourcePanel lists every resource of fr with its inspected state.
// Saved resources are marked with an asterisk.
func ResourcePanel(fr *framegraph.FrameRenderer) string {
	saved := make(map[string]bool)
	for _, n := range fr.SerializedNames() {
		saved[n] = true
	}
	var b strings.Builder
	fr.InspectResources(func(name string, c framegraph.Component) {
		mark := ""
		if saved[name] {
			mark = " *"
		}
		fmt.Fprintf(&b, "%s [%s]%s\n", name, c.Type(), mark)
		if p, ok := c.(framegraph.PrimitiveValue); ok && !p.Kind().Dispatched() && p.Kind() != framegraph.KindEntity {
			return
		}
		in := &TextInspector{Assets: fr.Assets(), Indent: "  "}
		c.Inspect(in)
		b.WriteString(in.String())
	})
	return b.String()
}

// ProfilePanel summarises the last frame: one line per pass with its CPU
// time and submitted work, then the totals.
func ProfilePanel(profiles []framegraph.PassProfile) string {
	var b strings.Builder
	var total render.Stats
	for _, p := range profiles {
		fmt.Fprintf(&b, "%-18s %7s  draws %-4d verts %d\n",
			p.Name, profiling.FormatMs(p.CPUTime), p.Stats.DrawCalls, p.Stats.Vertices)
		total = total.Add(p.Stats)
	}
	fmt.Fprintf(&b, "total: %d draws, %d meshes, %d quads, %d circles, %d lines\n",
		total.DrawCalls, total.Meshes, total.Quads, total.Circles, total.Lines)
	return b.String()
}

// PanelText is what the on-screen panel shows.
func (e *Editor) PanelText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  frame %d  %dx%d\n", e.project.Name, e.fr.Frame(), e.width, e.height)
	if sel := e.Selected(); sel.Valid() {
		fmt.Fprintf(&b, "selected: %s (#%d)\n", sel.Name(), sel.ID())
		if t := scene.Get[scene.Transform](sel); t != nil {
			fmt.Fprintf(&b, "  position %s\n", formatValue(t.Translation))
		}
	}
	b.WriteString(ProfilePanel(e.fr.Profiles()))
	return b.String()
}

const (
	panelTextSize = 16 // pixels per em
	panelMargin   = 12
)

var panelColour = mgl32.Vec4{1, 1, 1, 0.9}

// RenderPanel draws PanelText in the top-left corner of the currently
// bound framebuffer. It does nothing while the panel is hidden.
func (e *Editor) RenderPanel() {
	if !e.showPanel {
		return
	}
	w, h := float32(e.width), float32(e.height)
	params := render.SceneParams{
		Projection: mgl32.Ortho(0, w, 0, h, -1, 1),
		View:       mgl32.Ident4(),
		Gamma:      1,
		Exposure:   1,
		Cull:       scene.CullNone,
		Depth:      render.DepthAlways,
	}
	r := e.backend.Renderer2D
	r.BeginScene(params)
	origin := mgl32.Translate3D(panelMargin, h-panelMargin-panelTextSize, 0).
		Mul4(mgl32.Scale3D(panelTextSize, panelTextSize, 1))
	r.DrawString(e.PanelText(), origin, panelColour, 0, 0.1, -1)
	r.EndScene()
}
