package determinism

import "testing"

func TestHashJSONIgnoresMapOrder(t *testing.T) {
	a := map[string]int{"room_a": 160, "room_b": 100, "room_a_room_b": 210}
	b := map[string]int{"room_a_room_b": 210, "room_b": 100, "room_a": 160}

	ha, err := HashJSON(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := HashJSON(b)
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Errorf("hashes differ: %s vs %s", ha.Hex(), hb.Hex())
	}
	if len(ha.Short()) != 12 {
		t.Errorf("Short() = %q", ha.Short())
	}
}

func TestIDGeneratorIsStable(t *testing.T) {
	g := NewIDGenerator("quote")
	if g.Generate("a", "b") != g.Generate("a", "b") {
		t.Error("same parts produced different ids")
	}
	if g.Generate("ab") == g.Generate("a", "b") {
		t.Error("separator missing: parts collapsed into one id")
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]bool{"premium": true, "basic": true, "all_inclusive": true})
	want := []string{"all_inclusive", "basic", "premium"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
