package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"lumen/internal/logging"
)

// ProjectFile is the name of the project description inside a project
// directory.
const ProjectFile = "lumen.toml"

// WindowConfig sizes the editor window.
type WindowConfig struct {
	Title    string `toml:"title"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	VSync    bool   `toml:"vsync"`
	FPSLimit int    `toml:"fps_limit"`
}

// RendererConfig seeds the frame graph.
type RendererConfig struct {
	// ResourceConfig is the saved resource values, relative to the project
	// directory. Its extension picks YAML or TOML.
	ResourceConfig string     `toml:"resource_config"`
	HotReload      bool       `toml:"hot_reload"`
	ShadowMapSize  int        `toml:"shadow_map_size"`
	BloomMips      int        `toml:"bloom_mips"`
	Gamma          float32    `toml:"gamma"`
	Exposure       float32    `toml:"exposure"`
	BloomRadius    float32    `toml:"bloom_filter_radius"`
	ShowColliders  bool       `toml:"show_colliders"`
	ClearColour    [4]float32 `toml:"clear_colour"`
}

// AssetsConfig locates on-disk assets, relative to the project directory.
type AssetsConfig struct {
	Shaders string `toml:"shaders"`
	Font    string `toml:"font"`
}

// ProjectConfig is the contents of lumen.toml.
type ProjectConfig struct {
	Name     string         `toml:"name"`
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`

	dir string
}

// DefaultProject returns the configuration used for a project without a
// lumen.toml.
func DefaultProject() *ProjectConfig {
	return &ProjectConfig{
		Name: "Untitled",
		Window: WindowConfig{
			Title:  "lumen",
			Width:  1600,
			Height: 900,
			VSync:  true,
		},
		Renderer: RendererConfig{
			ResourceConfig: "renderer.yaml",
			HotReload:      true,
			ShadowMapSize:  2048,
			BloomMips:      6,
			Gamma:          2.2,
			Exposure:       1.0,
			BloomRadius:    0.005,
			ClearColour:    [4]float32{0.1, 0.1, 0.12, 1},
		},
		Assets: AssetsConfig{
			Shaders: "assets/shaders",
		},
		dir: ".",
	}
}

// LoadProject reads a project. path may name lumen.toml or the directory
// holding it. A missing file yields the defaults rooted at that directory;
// keys the file leaves out keep their defaults.
func LoadProject(path string) (*ProjectConfig, error) {
	file := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		file = filepath.Join(path, ProjectFile)
	}

	p := DefaultProject()
	p.dir = filepath.Dir(file)

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		logging.Logger().Info("config: no project file, using defaults", "path", file)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read project: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
		logging.Logger().Warn("config: unknown keys in project file", "path", file, "detail", strict.String())
		p = DefaultProject()
		p.dir = filepath.Dir(file)
		if err := toml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
	}
	p.normalize()
	return p, nil
}

func (p *ProjectConfig) normalize() {
	def := DefaultProject()
	if p.Window.Width <= 0 {
		p.Window.Width = def.Window.Width
	}
	if p.Window.Height <= 0 {
		p.Window.Height = def.Window.Height
	}
	if p.Renderer.ShadowMapSize <= 0 {
		p.Renderer.ShadowMapSize = def.Renderer.ShadowMapSize
	}
	if p.Renderer.BloomMips <= 0 {
		p.Renderer.BloomMips = def.Renderer.BloomMips
	}
	if p.Renderer.ResourceConfig == "" {
		p.Renderer.ResourceConfig = def.Renderer.ResourceConfig
	}
}

// Save writes p as TOML to path.
func (p *ProjectConfig) Save(path string) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write project: %w", err)
	}
	return nil
}

// Dir is the project directory.
func (p *ProjectConfig) Dir() string { return p.dir }

// Resolve makes a project-relative path absolute within the project.
func (p *ProjectConfig) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// ResourceConfigPath is where the frame graph's resource values are saved.
func (p *ProjectConfig) ResourceConfigPath() string {
	return p.Resolve(p.Renderer.ResourceConfig)
}

// Apply copies the project's render defaults into the global settings.
func (p *ProjectConfig) Apply() {
	r := p.Renderer
	SetGamma(r.Gamma)
	SetExposure(r.Exposure)
	SetBloomFilterRadius(r.BloomRadius)
	SetShowColliders(r.ShowColliders)
	SetClearColour(r.ClearColour)
	SetFPSLimit(p.Window.FPSLimit)
}
