package opengl

import (
	"errors"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
)

// Shader file pairs of the standard pipeline, relative to the shader
// directory.
var standardShaders = []struct {
	name, vert, frag string
}{
	{"lit", "lit.vert", "lit.frag"},
	{"shadow", "shadow.vert", "shadow.frag"},
	{"point_shadow", "shadow.vert", "point_shadow.frag"},
	{"bloom_downsample", "fullscreen.vert", "bloom_downsample.frag"},
	{"bloom_upsample", "fullscreen.vert", "bloom_upsample.frag"},
	{"tonemap", "fullscreen.vert", "tonemap.frag"},
}

// StandardMaterials are the materials the standard passes draw with.
type StandardMaterials struct {
	Lit         *Material
	Shadow      *Material
	PointShadow *Material
	Downsample  *Material
	Upsample    *Material
	Tonemap     *Material
}

// MaterialHandles are StandardMaterials registered with an asset manager.
type MaterialHandles struct {
	Lit         asset.Handle
	Shadow      asset.Handle
	PointShadow asset.Handle
	Downsample  asset.Handle
	Upsample    asset.Handle
	Tonemap     asset.Handle
}

// LoadStandardMaterials compiles every standard shader in dir. All
// failures are reported together.
func LoadStandardMaterials(dir string) (*StandardMaterials, error) {
	mats := make(map[string]*Material, len(standardShaders))
	var errs []error
	for _, s := range standardShaders {
		sh, err := NewShader(filepath.Join(dir, s.vert), filepath.Join(dir, s.frag))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sh.Name = s.name
		mats[s.name] = NewMaterial(sh)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	lit := mats["lit"]
	lit.SetVec4("u_Albedo", mgl32.Vec4{1, 1, 1, 1})
	lit.SetFloat("u_Roughness", 0.5)
	lit.SetFloat("u_Metallic", 0)

	return &StandardMaterials{
		Lit:         lit,
		Shadow:      mats["shadow"],
		PointShadow: mats["point_shadow"],
		Downsample:  mats["bloom_downsample"],
		Upsample:    mats["bloom_upsample"],
		Tonemap:     mats["tonemap"],
	}, nil
}

// Register adds every material to assets under its shader name.
func (m *StandardMaterials) Register(assets *asset.Manager) (MaterialHandles, error) {
	var h MaterialHandles
	var errs []error
	add := func(dst *asset.Handle, mat *Material) {
		handle, err := assets.Add(mat.Shader(), mat)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = handle
	}
	add(&h.Lit, m.Lit)
	add(&h.Shadow, m.Shadow)
	add(&h.PointShadow, m.PointShadow)
	add(&h.Downsample, m.Downsample)
	add(&h.Upsample, m.Upsample)
	add(&h.Tonemap, m.Tonemap)
	return h, errors.Join(errs...)
}

// Delete releases every program.
func (m *StandardMaterials) Delete() {
	for _, mat := range []*Material{m.Lit, m.Shadow, m.PointShadow, m.Downsample, m.Upsample, m.Tonemap} {
		mat.Program().Delete()
	}
}
