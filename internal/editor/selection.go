package editor

import (
	"lumen/internal/logging"
	"lumen/internal/scene"
)

// entityIDAttachment is the main framebuffer's integer colour target.
const entityIDAttachment = 1

// Pick selects the entity drawn at viewport pixel (x, y), origin top-left.
// Clicking empty space clears the selection.
func (e *Editor) Pick(x, y int) scene.Entity {
	if x < 0 || y < 0 || x >= e.width || y >= e.height {
		return e.Selected()
	}
	id := e.std.Main.ReadPixel(entityIDAttachment, x, e.height-1-y)
	var picked scene.Entity
	if id > 0 && e.scene != nil {
		picked = e.scene.Entity(uint32(id))
	}
	e.Select(picked)
	return picked
}

// Select makes ent the selected entity; the null entity clears it.
func (e *Editor) Select(ent scene.Entity) {
	if e.std.Selected.Value == ent {
		return
	}
	e.std.Selected.Value = ent
	if ent.Valid() {
		logging.Logger().Debug("editor: selected", "entity", ent.ID(), "name", ent.Name())
	}
}

func (e *Editor) Selected() scene.Entity { return e.std.Selected.Value }

// SelectNext moves the selection to the next entity in creation order,
// wrapping around.
func (e *Editor) SelectNext() scene.Entity {
	if e.scene == nil || e.scene.Len() == 0 {
		return scene.Entity{}
	}
	all := e.scene.Entities()
	next := all[0]
	cur := e.Selected()
	for i, ent := range all {
		if ent == cur {
			next = all[(i+1)%len(all)]
			break
		}
	}
	e.Select(next)
	return next
}
