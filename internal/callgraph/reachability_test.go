package callgraph

import (
	"reflect"
	"testing"

	"cairoprog/internal/disasm"
)

func chain() []FuncInfo {
	call := func(to string) disasm.CallEdge { return disasm.CallEdge{Kind: "call rel", TargetName: to, Resolved: true} }
	return []FuncInfo{
		{Name: "main", CallEdges: []disasm.CallEdge{call("a")}},
		{Name: "a", CallEdges: []disasm.CallEdge{call("b"), call("a")}},
		{Name: "b"},
		{Name: "orphan", CallEdges: []disasm.CallEdge{call("c")}},
		{Name: "c"},
	}
}

func TestFindEntryPoints(t *testing.T) {
	got := FindEntryPoints(chain())
	want := []string{"main", "orphan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestReachableSet(t *testing.T) {
	funcs := chain()
	got := ReachableSet([]string{"main"}, funcs)
	want := map[string]bool{"main": true, "a": true, "b": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reachable = %v, want %v", got, want)
	}
	kept := Filter(funcs, got)
	if len(kept) != 3 || kept[0].Name != "main" || kept[2].Name != "b" {
		t.Errorf("filter = %+v", kept)
	}
}
