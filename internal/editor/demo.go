package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/scene"
)

// DemoScene is the scene a new project opens with: a lit floor and crates
// under one light of each kind, plus a few 2D primitives with colliders.
func DemoScene(m Materials) *scene.Scene {
	s := scene.New()

	floor := s.CreateEntity("Floor")
	t := scene.Get[scene.Transform](floor)
	t.Translation = mgl32.Vec3{0, -0.5, 0}
	t.Scale = mgl32.Vec3{20, 1, 20}
	scene.Add(floor, scene.MeshRenderer{Material: m.Lit, DepthTest: true})

	for i, x := range []float32{-3, 0, 3} {
		crate := s.CreateEntity("Crate")
		t := scene.Get[scene.Transform](crate)
		t.Translation = mgl32.Vec3{x, 0.5 + float32(i)*0.25, 0}
		t.Rotation = mgl32.Vec3{0, mgl32.DegToRad(float32(i) * 20), 0}
		scene.Add(crate, scene.MeshRenderer{Material: m.Lit, CastShadows: true, DepthTest: true})
	}

	sun := s.CreateEntity("Sun")
	scene.Get[scene.Transform](sun).Rotation = mgl32.Vec3{mgl32.DegToRad(-50), mgl32.DegToRad(30), 0}
	scene.Add(sun, scene.DirectionalLight{
		LightColour: scene.LightColour{
			Diffuse:  mgl32.Vec3{1, 0.95, 0.85},
			Specular: mgl32.Vec3{1, 1, 1},
			Ambient:  mgl32.Vec3{0.05, 0.05, 0.06},
		},
		Shadow:      scene.DefaultShadow(),
		FrustumSize: 15,
		Distance:    30,
	})

	lamp := s.CreateEntity("Lamp")
	scene.Get[scene.Transform](lamp).Translation = mgl32.Vec3{-2, 2.5, 2}
	scene.Add(lamp, scene.PointLight{
		LightColour: scene.LightColour{Diffuse: mgl32.Vec3{4, 2, 1}, Specular: mgl32.Vec3{1, 0.8, 0.6}},
		Shadow:      scene.DefaultShadow(),
		Range:       10,
	})

	torch := s.CreateEntity("Torch")
	tt := scene.Get[scene.Transform](torch)
	tt.Translation = mgl32.Vec3{3, 4, 3}
	tt.Rotation = mgl32.Vec3{mgl32.DegToRad(-60), mgl32.DegToRad(45), 0}
	scene.Add(torch, scene.SpotLight{
		LightColour: scene.LightColour{Diffuse: mgl32.Vec3{1, 2, 4}, Specular: mgl32.Vec3{1, 1, 1}},
		Shadow:      scene.DefaultShadow(),
		Range:       15,
		InnerCutoff: 15,
		OuterCutoff: 25,
	})

	badge := s.CreateEntity("Badge")
	bt := scene.Get[scene.Transform](badge)
	bt.Translation = mgl32.Vec3{-5, 2, -3}
	scene.Add(badge, scene.SpriteRenderer{Colour: mgl32.Vec4{0.9, 0.3, 0.2, 1}, Tiling: 1})
	scene.Add(badge, scene.BoxCollider2D{Size: mgl32.Vec2{0.5, 0.5}})

	ring := s.CreateEntity("Ring")
	scene.Get[scene.Transform](ring).Translation = mgl32.Vec3{5, 2, -3}
	scene.Add(ring, scene.CircleRenderer{Colour: mgl32.Vec4{0.2, 0.8, 1, 1}, Thickness: 0.2, Fade: 0.01})
	scene.Add(ring, scene.CircleCollider2D{Radius: 0.5})

	label := s.CreateEntity("Label")
	lt := scene.Get[scene.Transform](label)
	lt.Translation = mgl32.Vec3{-2, 4, -3}
	lt.Scale = mgl32.Vec3{0.8, 0.8, 1}
	scene.Add(label, scene.TextRenderer{Text: "lumen", Colour: mgl32.Vec4{1, 1, 1, 1}})

	return s
}
