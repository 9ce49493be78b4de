package main

import (
	"fmt"
	"os"

	"lumen/internal/asset"
	"lumen/internal/config"
	"lumen/internal/editor"
	"lumen/internal/gfx/nullgfx"
	"lumen/internal/render/recording"
)

// headlessBackend mirrors the GL backend's asset layout on the null device.
func headlessBackend() (editor.Backend, error) {
	assets := asset.NewManager()
	var m editor.Materials
	var err error
	add := func(dst *asset.Handle, name string, v any) {
		if err != nil {
			return
		}
		*dst, err = assets.Add(name, v)
	}
	add(&m.Lit, "lit", nullgfx.NewMaterial("lit"))
	add(&m.Shadow, "shadow", nullgfx.NewMaterial("shadow"))
	add(&m.PointShadow, "point_shadow", nullgfx.NewMaterial("point_shadow"))
	add(&m.Downsample, "bloom_downsample", nullgfx.NewMaterial("bloom_downsample"))
	add(&m.Upsample, "bloom_upsample", nullgfx.NewMaterial("bloom_upsample"))
	add(&m.Tonemap, "tonemap", nullgfx.NewMaterial("tonemap"))
	add(&m.Environment, "sky", &asset.EnvironmentMap{
		Base:        nullgfx.NewTexture("sky", 1, 1),
		Irradiance:  nullgfx.NewTexture("sky_irradiance", 1, 1),
		Prefiltered: nullgfx.NewTexture("sky_prefiltered", 1, 1),
	})
	if err != nil {
		return editor.Backend{}, err
	}
	return editor.Backend{
		Device:     nullgfx.NewDevice(),
		Renderer:   recording.NewRenderer(),
		Renderer2D: recording.NewRenderer2D(),
		Assets:     assets,
		Materials:  m,
	}, nil
}

func runHeadless(project *config.ProjectConfig, opts options) error {
	b, err := headlessBackend()
	if err != nil {
		return fmt.Errorf("headless backend: %w", err)
	}
	ed, err := editor.New(project, b)
	if err != nil {
		return err
	}
	defer ed.Close()

	ed.ShowPanel(true)
	const dt = 1.0 / 60
	for i := 0; i < opts.frames; i++ {
		ed.Update(dt)
		ed.Render()
		ed.RenderPanel()
	}

	fmt.Fprint(os.Stdout, ed.PanelText())
	fmt.Fprintln(os.Stdout)
	fmt.Fprint(os.Stdout, editor.ResourcePanel(ed.FrameRenderer()))
	return nil
}
