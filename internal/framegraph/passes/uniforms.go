package passes

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/framegraph"
	"lumen/internal/gfx"
)

// FrameUniformsBinding is the uniform block binding of the per-frame
// constants every shader can read.
const FrameUniformsBinding uint32 = 0

// FrameUniformsSize is the std140 size of the block:
//
//	mat4 u_ViewProjection
//	mat4 u_View
//	vec4 u_CameraPosition
//	vec4 u_Viewport   // width, height, frame, unused
const FrameUniformsSize = 64 + 64 + 16 + 16

// NewFrameUniformsPass uploads the camera and viewport constants before any
// geometry is drawn. Inputs: uniform buffer, ivec2 viewport size.
func NewFrameUniformsPass() *framegraph.RenderPass {
	inputs := []framegraph.ComponentType{framegraph.TypeUBO, framegraph.TypePrimitive}
	return framegraph.NewRenderPass("FrameUniforms", inputs,
		func(ctx *framegraph.PassContext, _ gfx.Framebuffer, inputs []framegraph.Component) {
			ubo, ok := framegraph.Input[*framegraph.UBOComponent](inputs, 0)
			if !ok || ctx.Camera == nil {
				return
			}
			vp, ok := framegraph.PrimitiveInput[framegraph.IVec2](inputs, 1)
			if !ok {
				return
			}
			view := ctx.CameraTransform.Inv()
			pos := cameraPosition(ctx)
			data := EncodeFrameUniforms(
				ctx.Camera.ProjectionMatrix().Mul4(view),
				view,
				mgl32.Vec4{pos.X(), pos.Y(), pos.Z(), 1},
				mgl32.Vec4{float32(vp.Value[0]), float32(vp.Value[1]), float32(ctx.Frame), 0},
			)
			ubo.Buffer.SetData(0, data)
			ubo.Buffer.Bind(FrameUniformsBinding)
		})
}

// EncodeFrameUniforms lays the block out in std140 order.
func EncodeFrameUniforms(viewProjection, view mgl32.Mat4, cameraPosition, viewport mgl32.Vec4) []byte {
	buf := make([]byte, 0, FrameUniformsSize)
	put := func(fs []float32) {
		for _, f := range fs {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	put(viewProjection[:])
	put(view[:])
	put(cameraPosition[:])
	put(viewport[:])
	return buf
}
