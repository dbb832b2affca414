package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/viewer"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/proto/vvnet"

	"github.com/gorilla/websocket"
)

func decodeWrapped(t *testing.T, typ vvnet.MsgType, m vvnet.Message) viewer.Event {
	t.Helper()
	var env vvnet.Envelope
	if err := env.Unmarshal(vvnet.Wrap(typ, m)); err != nil {
		t.Fatal(err)
	}
	ev, err := Decode(&env)
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestDecodeEntityMapsStateAndMetadata(t *testing.T) {
	headY := float32(1.2)
	ev := decodeWrapped(t, vvnet.MsgEntity, &vvnet.EntityMessage{
		ID:       3,
		Name:     "ArmorStand",
		Position: &vvnet.Vec3{X: 1, Y: 2, Z: 3},
		Equipment: []vvnet.EquipmentSlot{
			{Slot: entities.SlotHead, Item: vvnet.Item{Name: "minecraft:player_head", Profile: "e30="}},
			{Slot: 42, Item: vvnet.Item{Name: "stone"}},
		},
		HasEquipment: true,
		Meta: []vvnet.MetaValue{
			{Key: "flags", Kind: vvnet.MetaInt, Int: entities.FlagInvisible},
			{Key: "head_pose", Kind: vvnet.MetaFloats, Floats: []float32{10, 20, 30}},
		},
		HeadY: &headY,
	})

	up, ok := ev.(viewer.EntityUpdate)
	if !ok {
		t.Fatalf("event = %T", ev)
	}
	st := up.State
	if st.Position == nil || st.Position.Y() != 2 {
		t.Fatalf("position = %v", st.Position)
	}
	if st.Equipment == nil {
		t.Fatal("equipment should be present")
	}
	head := st.Equipment[entities.SlotHead]
	if head == nil || head.Name != "player_head" || !head.HasProfile {
		t.Fatalf("head slot = %+v", head)
	}
	if !st.Meta.Invisible() {
		t.Fatal("flags not decoded")
	}
	if st.Meta.ArmorStand == nil || st.Meta.ArmorStand.HeadPose == nil || st.Meta.ArmorStand.HeadPose.Yaw != 20 {
		t.Fatalf("armor stand meta = %+v", st.Meta.ArmorStand)
	}
	if up.Overrides.Head == nil || !up.Overrides.Head.HasY || up.Overrides.Head.HasX {
		t.Fatalf("head override = %+v", up.Overrides.Head)
	}
}

func TestDecodeEntityWithoutEquipmentKeepsItUnchanged(t *testing.T) {
	ev := decodeWrapped(t, vvnet.MsgEntity, &vvnet.EntityMessage{ID: 1, Name: "zombie"})
	if st := ev.(viewer.EntityUpdate).State; st.Equipment != nil || st.Position != nil || st.Yaw != nil {
		t.Fatalf("absent fields decoded as present: %+v", st)
	}
}

func TestDecodeWorldMessages(t *testing.T) {
	col := mapdata.NewColumn(16, -16, mapdata.WorldConfig{MinY: 0, WorldHeight: 16})
	tests := []struct {
		name string
		typ  vvnet.MsgType
		msg  vvnet.Message
		want func(viewer.Event) bool
	}{
		{"load", vvnet.MsgLoadChunk, vvnet.NewChunkMessage(col, false), func(ev viewer.Event) bool {
			lc, ok := ev.(viewer.LoadChunk)
			return ok && lc.X == 16 && lc.Z == -16 && lc.Column != nil && lc.Config.WorldHeight == 16
		}},
		{"unload", vvnet.MsgUnloadChunk, &vvnet.ChunkKeyMessage{X: -32, Z: 0}, func(ev viewer.Event) bool {
			return ev == viewer.UnloadChunk{X: -32, Z: 0}
		}},
		{"loaded", vvnet.MsgMarkAsLoaded, &vvnet.ChunkKeyMessage{X: 0, Z: 16}, func(ev viewer.Event) bool {
			return ev == viewer.MarkAsLoaded{X: 0, Z: 16}
		}},
		{"block", vvnet.MsgBlockUpdate, &vvnet.BlockUpdateMessage{X: -1, Y: -60, Z: 5, StateID: 9}, func(ev viewer.Event) bool {
			bu, ok := ev.(viewer.BlockUpdate)
			return ok && bu.Pos.X == -1 && bu.Pos.Y == -60 && bu.StateID == 9
		}},
		{"time", vvnet.MsgTime, &vvnet.IntMessage{Value: 13000}, func(ev viewer.Event) bool {
			return ev == viewer.TimeUpdate{TimeOfDay: 13000}
		}},
		{"distance", vvnet.MsgRenderDistance, &vvnet.IntMessage{Value: 8}, func(ev viewer.Event) bool {
			return ev == viewer.RenderDistance{Distance: 8}
		}},
		{"damage", vvnet.MsgDamage, &vvnet.IDMessage{ID: 4}, func(ev viewer.Event) bool {
			return ev == viewer.Damage{ID: 4}
		}},
		{"reset", vvnet.MsgReset, nil, func(ev viewer.Event) bool {
			return ev == viewer.Reset{}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ev := decodeWrapped(t, tt.typ, tt.msg); !tt.want(ev) {
				t.Fatalf("got %#v", ev)
			}
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode(&vvnet.Envelope{Type: vvnet.MsgListening})
	if !errors.Is(err, viewer.ErrUnknownEvent) {
		t.Fatalf("err = %v", err)
	}
}

func TestNetworkClientAnnouncesAndStreams(t *testing.T) {
	upgrader := websocket.Upgrader{}
	listening := make(chan vvnet.MsgType, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env vvnet.Envelope
		if env.Unmarshal(data) == nil {
			listening <- env.Type
		}
		conn.WriteMessage(websocket.BinaryMessage, []byte{0xff})
		conn.WriteMessage(websocket.BinaryMessage, vvnet.Wrap(vvnet.MsgSwingArm, &vvnet.IDMessage{ID: 5}))
		conn.WriteMessage(websocket.BinaryMessage, vvnet.Wrap(vvnet.MsgTime, &vvnet.IntMessage{Value: 6000}))
		conn.ReadMessage()
	}))
	defer srv.Close()

	c := NewNetworkClient("ws"+strings.TrimPrefix(srv.URL, "http"), Options{MaxRetries: 1, QueueSize: 4})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if got := <-listening; got != vvnet.MsgListening {
		t.Fatalf("first message = %v", got)
	}
	want := []viewer.Event{viewer.SwingArm{ID: 5}, viewer.TimeUpdate{TimeOfDay: 6000}}
	for i, w := range want {
		select {
		case ev := <-c.Events():
			if ev != w {
				t.Fatalf("event %d = %#v, want %#v", i, ev, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestSendWithoutConnection(t *testing.T) {
	c := NewNetworkClient("ws://127.0.0.1:1", DefaultOptions())
	if err := c.Send(vvnet.MsgListening, nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
}
