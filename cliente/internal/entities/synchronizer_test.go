package entities

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

func zombieState(id int32) EntityState {
	return EntityState{
		ID:       id,
		Name:     "zombie",
		Category: CategoryHostile,
		Position: vec(0, 64, 0),
		Yaw:      yaw(0),
		Width:    0.6,
		Height:   1.95,
	}
}

func TestUpsertCreatesOnceAndNotifiesOnce(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync

	s.Upsert(zombieState(1), Overrides{})
	st := zombieState(1)
	st.Position = vec(1, 64, 0)
	s.Upsert(st, Overrides{})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := f.count(NotifyAdd); got != 1 {
		t.Fatalf("add notifications = %d, want 1", got)
	}
	v, _ := s.Get(1)
	if v.Variant != VariantNamedMesh {
		t.Fatalf("variant = %v, want named_mesh", v.Variant)
	}
	if !f.backend.Attached[v.Root] {
		t.Fatalf("root not attached to backend")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync

	s.Upsert(zombieState(1), Overrides{})
	s.Remove(1)
	s.Remove(1)
	s.Remove(42)

	if got := f.count(NotifyRemove); got != 1 {
		t.Fatalf("remove notifications = %d, want 1", got)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after remove", s.Len())
	}
}

func TestRemoveReleasesEveryResource(t *testing.T) {
	f := newFixture(t, Options{ShowUnknownEntities: true})
	s := f.sync

	player := playerState(1, "alex")
	player.Equipment = &Equipment{
		SlotMainHand: {Name: "diamond_sword"},
		SlotOffHand:  {Name: "stone"},
		SlotFeet:     {Name: "leather_boots"},
		SlotLegs:     {Name: "iron_leggings"},
		SlotChest:    {Name: "elytra"},
		SlotHead:     {Name: "player_head"},
	}
	s.Upsert(player, Overrides{})
	s.Upsert(zombieState(2), Overrides{})
	s.Upsert(EntityState{ID: 3, Name: "creeper", Position: vec(2, 64, 2), Width: 0.6, Height: 1.7}, Overrides{})
	s.Upsert(EntityState{
		ID:       4,
		Name:     "item_frame",
		Position: vec(3, 64, 3),
		Meta:     Metadata{ItemFrame: &ItemFrameMeta{Item: &Item{Name: "filled_map", MapID: 7}, Rotation: 1}},
	}, Overrides{})
	s.Upsert(EntityState{
		ID:       5,
		Name:     "text_display",
		Position: vec(4, 64, 4),
		Meta:     Metadata{TextDisplay: &TextDisplayMeta{Text: "olá"}},
	}, Overrides{})
	s.Upsert(EntityState{
		ID:       6,
		Name:     "item",
		Position: vec(5, 64, 5),
		Meta:     Metadata{Item: &Item{Name: "apple"}},
	}, Overrides{})
	f.settle()

	if f.backend.Live() == 0 {
		t.Fatalf("expected live resources before removal")
	}
	s.Clear()
	f.settle()

	if live := f.backend.Live(); live != 0 {
		t.Fatalf("%d resources still live after Clear", live)
	}
	if len(f.backend.Attached) != 0 {
		t.Fatalf("%d roots still attached", len(f.backend.Attached))
	}
}

func TestLateTextureAfterRemoveIsDiscarded(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync

	s.Upsert(playerState(1, "alex"), Overrides{})
	s.Remove(1)
	f.settle()

	if live := f.backend.Live(); live != 0 {
		t.Fatalf("%d resources live after late skin load", live)
	}
}

func TestUnknownEntityHiddenWithoutPlaceholders(t *testing.T) {
	f := newFixture(t, Options{ShowUnknownEntities: false})
	f.sync.Upsert(EntityState{ID: 9, Name: "creeper", Width: 0.6, Height: 1.7}, Overrides{})

	if f.sync.Len() != 0 || len(f.events) != 0 {
		t.Fatalf("unknown entity should not produce a visual")
	}
	if f.backend.Live() != 0 {
		t.Fatalf("resources leaked for skipped entity")
	}
}

func TestPlaceholderNametagLimit(t *testing.T) {
	f := newFixture(t, Options{ShowUnknownEntities: true})
	for i := int32(1); i <= 7; i++ {
		f.sync.Upsert(EntityState{ID: i, Name: "creeper", Width: 0.6, Height: 1.7}, Overrides{})
	}

	tagged := 0
	for i := int32(1); i <= 7; i++ {
		v, ok := f.sync.Get(i)
		if !ok || v.Variant != VariantPlaceholder {
			t.Fatalf("entity %d is not a placeholder", i)
		}
		if v.Mesh.Child("nametag") != nil {
			tagged++
		}
	}
	if tagged != maxPlaceholderTags {
		t.Fatalf("tagged = %d, want %d", tagged, maxPlaceholderTags)
	}
}

func TestUpdateVisibilityBoundary(t *testing.T) {
	tests := []struct {
		name     string
		x        float32
		finished bool
		want     bool
	}{
		{"inside radius", 7.9, false, true},
		{"exactly at radius", 8, false, false},
		{"outside radius", 20, false, false},
		{"outside radius, chunk finished", 20, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			st := zombieState(1)
			st.Position = vec(tt.x, 64, 0)
			f.sync.Upsert(st, Overrides{})

			f.sync.UpdateVisibility(mgl32.Vec3{0, 64, 0}, func(util.ChunkKey) bool { return tt.finished })
			v, _ := f.sync.Get(1)
			if v.Visible() != tt.want {
				t.Fatalf("Visible() = %v, want %v", v.Visible(), tt.want)
			}
		})
	}
}

func TestPositionTweenMovesMonotonically(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(zombieState(1), Overrides{})

	st := zombieState(1)
	st.Position = vec(10, 64, 0)
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	if x := v.Position().X(); x != 0 {
		t.Fatalf("position jumped to %v before any frame", x)
	}
	prev := float32(0)
	for i := 0; i < 20; i++ {
		s.Advance(0.01)
		x := v.Position().X()
		if x < prev {
			t.Fatalf("step %d moved backwards: %v < %v", i, x, prev)
		}
		prev = x
	}
	if v.Position().X() != 10 {
		t.Fatalf("final x = %v, want 10", v.Position().X())
	}
}

func TestYawTakesShortestPath(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	st := zombieState(1)
	st.Yaw = yaw(3)
	s.Upsert(st, Overrides{})

	st.Yaw = yaw(-3)
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	for i := 0; i < 20; i++ {
		s.Advance(0.01)
		if d := math.Abs(float64(v.Yaw() - 3)); d > math.Pi {
			t.Fatalf("yaw %v strayed more than π from start", v.Yaw())
		}
	}
	want := 3 + (2*math.Pi - 6)
	if math.Abs(float64(v.Yaw())-want) > 1e-4 {
		t.Fatalf("final yaw = %v, want %v", v.Yaw(), want)
	}
}

func TestDamageTintFades(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(zombieState(1), Overrides{})
	s.HandleDamage(1)

	v, _ := s.Get(1)
	tinted := func() *scene.Node {
		var found *scene.Node
		v.Mesh.Traverse(func(n *scene.Node) {
			if found == nil && n.Material != nil {
				found = n
			}
		})
		return found
	}()
	if tinted == nil {
		t.Fatal("no material node in mesh")
	}
	if tinted.Tint.G != 0 {
		t.Fatalf("tint = %v, want red", tinted.Tint)
	}
	s.Advance(0.6)
	if tinted.Tint.G != 255 {
		t.Fatalf("tint = %v, want white after fade", tinted.Tint)
	}
}

func TestInvisibleFlagHidesMeshButKeepsNametag(t *testing.T) {
	f := newFixture(t, Options{ShowUnknownEntities: true})
	s := f.sync
	st := EntityState{ID: 1, Name: "creeper", Width: 0.6, Height: 1.7, Meta: Metadata{Flags: FlagInvisible}}
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	for _, c := range v.Mesh.Children() {
		if c.Name == "nametag" && !c.Visible {
			t.Fatalf("nametag hidden by invisibility")
		}
		if c.Name != "nametag" && c.Visible {
			t.Fatalf("%s still visible", c.Name)
		}
	}
}

func TestArmorStandPosesAndFlags(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	st := EntityState{
		ID:       1,
		Name:     "armor_stand",
		Position: vec(0, 64, 0),
		Yaw:      yaw(1),
		Meta: Metadata{ArmorStand: &ArmorStandMeta{
			ClientFlags: StandSmall | StandNoBaseplate,
			LeftArmPose: &Pose{Pitch: 90},
		}},
	}
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	if v.Root.Scale.X() != 0.5 {
		t.Fatalf("small stand scale = %v", v.Root.Scale)
	}
	if base := v.Root.Find("bone_baseplate"); base == nil || base.Scale.X() != 0 {
		t.Fatalf("baseplate should be hidden")
	}
	right := v.Root.Find("bone_rightarm")
	if right.Scale.X() != 0 {
		t.Fatalf("arms shown without the arms flag")
	}
	if got := right.Rotation.X(); math.Abs(float64(got)+math.Pi/2) > 1e-5 {
		t.Fatalf("left arm pose went to right bone with pitch %v, want -π/2", got)
	}
	left := v.Root.Find("bone_leftarm")
	want := poseToEuler(nil, Pose{Yaw: 10, Pitch: -10})
	if left.Rotation != want {
		t.Fatalf("default pose = %v, want %v", left.Rotation, want)
	}
}

func TestTextDisplayNametag(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	st := EntityState{
		ID:       1,
		Name:     "text_display",
		Position: vec(0, 64, 0),
		Meta: Metadata{TextDisplay: &TextDisplayMeta{
			Text:          "Bem-vindo",
			Background:    int32(-16777216), // 0xFF000000
			HasBackground: true,
			TextOpacity:   -1,
		}},
	}
	s.Upsert(st, Overrides{})

	v, ok := s.Get(1)
	if !ok {
		t.Fatal("text display placeholder not created")
	}
	tag := v.Mesh.Child("nametag")
	if tag == nil || tag.Label == nil {
		t.Fatal("text display has no label")
	}
	if tag.Label.Text != "Bem-vindo" || tag.Billboard {
		t.Fatalf("label = %q billboard=%v", tag.Label.Text, tag.Billboard)
	}
	if tag.Label.Background.A != 255 || tag.Label.TextOpacity != 255 {
		t.Fatalf("background = %v opacity = %d", tag.Label.Background, tag.Label.TextOpacity)
	}

	label := tag.Label
	s.Upsert(st, Overrides{})
	if v.Mesh.Child("nametag").Label != label {
		t.Fatalf("unchanged text rebuilt the label")
	}
}

func TestItemFrameMapTexture(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	st := EntityState{
		ID:       1,
		Name:     "item_frame",
		Position: vec(0, 64, 0),
		Meta:     Metadata{ItemFrame: &ItemFrameMeta{Item: &Item{Name: "filled_map", MapID: 3}}},
	}
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	if v.mapNode == nil || v.mapNode.Visible {
		t.Fatalf("map plane should exist hidden until the image arrives")
	}

	s.UpdateMap(3, pngBytes(t))
	f.settle()
	if !v.mapNode.Visible || v.mapMat.Texture == nil {
		t.Fatalf("map texture not applied")
	}

	st.Meta.ItemFrame.Item = nil
	s.Upsert(st, Overrides{})
	if v.mapNode != nil || len(s.mapFrames[3]) != 0 {
		t.Fatalf("map not cleared when frame emptied")
	}
}

func TestPlayerEquipment(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	st := playerState(1, "alex")
	st.Equipment = &Equipment{SlotMainHand: {Name: "diamond_sword"}, SlotChest: {Name: "elytra"}, SlotFeet: {Name: "leather_boots"}}
	s.Upsert(st, Overrides{})

	v, _ := s.Get(1)
	if anchor := v.Root.Find("bone_leftitem"); anchor == nil || len(anchor.Children()) != 1 {
		t.Fatalf("main hand item not attached to left anchor")
	}
	if v.Player.Back != BackElytra || !v.Player.Elytra.Visible {
		t.Fatalf("elytra not selected")
	}
	if v.Root.Find(armorNodeName("feet", true)) == nil {
		t.Fatalf("leather overlay missing")
	}
	boots := s.armorMaterial(v, armorNodeName("feet", false))
	if boots == nil || boots.Color != defaultLeatherColor {
		t.Fatalf("leather boots not tinted")
	}

	st.Equipment = &Equipment{}
	s.Upsert(st, Overrides{})
	if anchor := v.Root.Find("bone_leftitem"); len(anchor.Children()) != 0 {
		t.Fatalf("item not removed")
	}
	if v.Root.Find(armorNodeName("feet", false)) != nil || v.res.Has("armor:feet") {
		t.Fatalf("boots not removed")
	}
	if v.Player.Back != BackCape {
		t.Fatalf("back = %v after removing elytra", v.Player.Back)
	}
}

func TestCameraEntityIsInvisible(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.SetCameraEntity(1, true)
	s.Upsert(zombieState(1), Overrides{})

	v, _ := s.Get(1)
	if v.Mesh.Child("model").Visible {
		t.Fatalf("camera entity model visible")
	}
}

func TestSetRenderingDetachesAll(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(zombieState(1), Overrides{})
	s.Upsert(zombieState(2), Overrides{})

	s.SetRendering(false)
	if len(f.backend.Attached) != 0 {
		t.Fatalf("roots still attached")
	}
	s.Upsert(zombieState(3), Overrides{})
	if len(f.backend.Attached) != 0 {
		t.Fatalf("new entity attached while rendering is off")
	}
	s.SetRendering(true)
	if len(f.backend.Attached) != 3 {
		t.Fatalf("attached = %d, want 3", len(f.backend.Attached))
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 128, 128))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFailedModelTextureKeepsVisual(t *testing.T) {
	f := newFixture(t, Options{})
	f.loader.failed = map[string]bool{"assets/textures/block/oak_planks.png": true}
	f.sync.Upsert(zombieState(1), Overrides{})
	f.settle()

	v, ok := f.sync.Get(1)
	if !ok || v.Variant != VariantNamedMesh {
		t.Fatal("visual dropped after a failed texture load")
	}
	if n := f.loader.count("assets/textures/block/oak_planks.png"); n != 1 {
		t.Fatalf("model texture fetched %d times, want 1", n)
	}
	if f.backend.Textures != 0 {
		t.Fatalf("%d textures uploaded for a failed load", f.backend.Textures)
	}
	v.Mesh.Traverse(func(n *scene.Node) {
		if n.Material != nil && n.Material.Texture != nil {
			t.Fatalf("node %s got a texture from a failed load", n.Name)
		}
	})

	f.sync.Remove(1)
	if live := f.backend.Live(); live != 0 {
		t.Fatalf("%d resources live after remove", live)
	}
}

func TestVisibilityUsesTargetPosition(t *testing.T) {
	f := newFixture(t, Options{})
	f.sync.Upsert(zombieState(1), Overrides{})
	st := zombieState(1)
	st.Position = vec(20, 64, 0)
	f.sync.Upsert(st, Overrides{})
	f.sync.Advance(TweenDuration / 4)

	f.sync.UpdateVisibility(mgl32.Vec3{0, 64, 0}, func(util.ChunkKey) bool { return false })
	v, _ := f.sync.Get(1)
	if v.Visible() {
		t.Fatal("entity moving out of range should be hidden by its target position")
	}
}
