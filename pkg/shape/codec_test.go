package shape

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func sampleTree() *Node {
	board := Cuboid(81.28, 12, 7.5, true)
	walls := Union(
		Rotate(0, Translate(0, 60, 0, board)),
		Rotate(120, Translate(0, -60, 7.5, board)),
	)
	annulus := Difference(Cylinder(145.2, 120, true), Cylinder(72.6, 150, true))
	return Difference(Union(Cuboid(10, 10, 10, false), walls), annulus)
}

func TestMsgpackRoundTripPreservesHash(t *testing.T) {
	tree := sampleTree()
	b, err := EncodeMsgpack(tree)
	if err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	decoded, err := DecodeMsgpack(b)
	if err != nil {
		t.Fatalf("DecodeMsgpack: %v", err)
	}
	if Hash(decoded) != Hash(tree) {
		t.Error("round trip changed the content hash")
	}
	if Count(decoded) != Count(tree) {
		t.Errorf("stats = %+v, want %+v", Count(decoded), Count(tree))
	}
}

func TestJSONRoundTripThroughContainer(t *testing.T) {
	type doc struct {
		Name  string `json:"name"`
		Shape *Node  `json:"shape"`
	}
	in := doc{Name: "wall", Shape: sampleTree()}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"kind":"difference"`) {
		t.Errorf("unexpected encoding: %s", b)
	}

	var out doc
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if Hash(out.Shape) != Hash(in.Shape) {
		t.Error("JSON round trip changed the content hash")
	}
}

func TestMsgpackNodeMarshaler(t *testing.T) {
	tree := sampleTree()
	b, err := msgpack.Marshal(tree)
	if err != nil {
		t.Fatalf("msgpack.Marshal: %v", err)
	}
	var out Node
	if err := msgpack.Unmarshal(b, &out); err != nil {
		t.Fatalf("msgpack.Unmarshal: %v", err)
	}
	if Hash(&out) != Hash(tree) {
		t.Error("Marshaler round trip changed the content hash")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown kind", `{"kind":"sphere"}`},
		{"cuboid without size", `{"kind":"cuboid"}`},
		{"difference arity", `{"kind":"difference","children":[{"kind":"union"}]}`},
		{"rotate without child", `{"kind":"rotate","angle":10}`},
		{"null child", `{"kind":"union","children":[null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Node
			if err := json.Unmarshal([]byte(tt.json), &n); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestHashDistinguishesTrees(t *testing.T) {
	a := Rotate(120, Cuboid(10, 12, 7.5, true))
	b := Rotate(120.0000001, Cuboid(10, 12, 7.5, true))
	if Hash(a) == Hash(b) {
		t.Error("different angles should hash differently")
	}
	if Hash(a) != Hash(Rotate(120, Cuboid(10, 12, 7.5, true))) {
		t.Error("identical trees should hash the same")
	}
	if len(Hash(a).Short()) != 12 {
		t.Errorf("Short() = %q", Hash(a).Short())
	}
}

func TestParseKind(t *testing.T) {
	for k := KindCuboid; k <= KindDifference; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("sphere"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
