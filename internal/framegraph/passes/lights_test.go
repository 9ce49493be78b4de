package passes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/scene"
)

func TestLightRingKeepsLastN(t *testing.T) {
	s := scene.New()
	var lights []scene.Entity
	for i := 0; i < MaxDirectionalLights+2; i++ {
		lights = append(lights, directional(s, fmt.Sprintf("sun%d", i)))
	}

	ring := CollectDirectionalLights(s)
	require.Equal(t, MaxDirectionalLights, ring.Len())
	assert.Equal(t, MaxDirectionalLights+2, ring.Seen())
	assert.Equal(t, 2, ring.Dropped())

	// light k lands in slot k % N: the first two were overwritten
	assert.Equal(t, -1, ring.Slot(lights[0]))
	assert.Equal(t, -1, ring.Slot(lights[1]))
	assert.Equal(t, 2, ring.Slot(lights[2]))
	assert.Equal(t, 3, ring.Slot(lights[3]))
	assert.Equal(t, 0, ring.Slot(lights[4]))
	assert.Equal(t, 1, ring.Slot(lights[5]))

	var visited []string
	ring.Each(func(slot int, l Light[scene.DirectionalLight]) {
		visited = append(visited, l.Entity.Name())
	})
	assert.Equal(t, []string{"sun4", "sun5", "sun2", "sun3"}, visited)
}

func TestLightRingUnderCapacity(t *testing.T) {
	s := scene.New()
	a := point(s, "a", 0)
	b := point(s, "b", 1)
	s.CreateEntity("not a light")

	ring := CollectPointLights(s)
	assert.Equal(t, 2, ring.Len())
	assert.Zero(t, ring.Dropped())
	assert.Equal(t, 0, ring.Slot(a))
	assert.Equal(t, 1, ring.Slot(b))

	ring.Reset()
	assert.Zero(t, ring.Len())
	assert.Equal(t, -1, ring.Slot(a))

	assert.Zero(t, CollectSpotLights(nil).Len())
	assert.Equal(t, 1, NewLightRing[scene.SpotLight](0).Cap())
}

func TestLightSourcesCarryLayers(t *testing.T) {
	s := scene.New()
	spot(s, "lit", 0, true)
	spot(s, "unlit", 1, false)

	ring := CollectSpotLights(s)
	assert.Equal(t, 0, SpotSource(ring.At(0), 0).ShadowLayer)
	assert.Equal(t, -1, SpotSource(ring.At(1), 1).ShadowLayer)

	src := SpotSource(ring.At(0), 0)
	assert.InDelta(t, 0.9397, src.InnerCos, 1e-3)
	assert.InDelta(t, 0.8660, src.OuterCos, 1e-3)
	assert.Equal(t, float32(15), src.Range)
}

func TestShadowAndScenePassesAgreeOnLayers(t *testing.T) {
	r := newRig(t)
	const spots = MaxSpotLights + 2
	for i := 0; i < spots; i++ {
		spot(r.scene, fmt.Sprintf("spot%d", i), float32(i), true)
	}
	cube(r.scene, "floor", true)
	r.render()

	spotMap := r.attachment(t, ResSpotShadows)
	want := make([]int, MaxSpotLights)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, spotMap.Layers)

	// no directional or point lights: the captured scenes are the spot
	// layers in slot order, followed by the lit scene
	require.Len(t, r.r3d.Scenes, MaxSpotLights+1)
	lit := r.r3d.Scenes[MaxSpotLights]
	require.Len(t, lit.Spots, MaxSpotLights)

	for slot, src := range lit.Spots {
		assert.Equal(t, slot, src.ShadowLayer)
		capture := r.r3d.Scenes[src.ShadowLayer]
		assert.Equal(t, src.LightSpace, capture.Params.Projection, "layer %d", slot)
	}

	// the last N seen win: spot8 and spot9 took slots 0 and 1
	assert.InDelta(t, 8, lit.Spots[0].Position.X(), 1e-6)
	assert.InDelta(t, 9, lit.Spots[1].Position.X(), 1e-6)
	assert.InDelta(t, 2, lit.Spots[2].Position.X(), 1e-6)
}

func TestPointShadowFaces(t *testing.T) {
	r := newRig(t)
	point(r.scene, "p0", 0)
	point(r.scene, "p1", 4)
	cube(r.scene, "crate", true)
	r.render()

	pointMap := r.attachment(t, ResPointShadows)
	want := make([]int, 12)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, pointMap.Layers)
	assert.Equal(t, float32(8), r.pointShadow.Floats["u_FarPlane"])

	// 12 face captures, each with the one shadow caster, then the lit scene
	require.Len(t, r.r3d.Scenes, 13)
	for _, sc := range r.r3d.Scenes[:12] {
		require.Len(t, sc.Meshes, 1)
		assert.Same(t, r.pointShadow, sc.Meshes[0].Material)
	}
}

func TestNonCastersAreSkipped(t *testing.T) {
	r := newRig(t)
	spot(r.scene, "dark", 0, false)
	cube(r.scene, "ghost", false)
	cube(r.scene, "solid", true)
	r.render()

	assert.Empty(t, r.attachment(t, ResSpotShadows).Layers)
	require.Len(t, r.r3d.Scenes, 1)
	lit := r.r3d.Scenes[0]
	assert.Len(t, lit.Meshes, 2)
	assert.Equal(t, -1, lit.Spots[0].ShadowLayer)
}
