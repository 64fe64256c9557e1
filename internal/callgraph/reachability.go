package callgraph

import "sort"

// FindEntryPoints returns functions that no call targets, sorted.
func FindEntryPoints(funcs []FuncInfo) []string {
	called := make(map[string]bool)
	for _, f := range funcs {
		for _, e := range f.CallEdges {
			if e.TargetName != "" {
				called[e.TargetName] = true
			}
		}
	}

	var entries []string
	for _, f := range funcs {
		if !called[f.Name] {
			entries = append(entries, f.Name)
		}
	}
	sort.Strings(entries)
	return entries
}

// ReachableSet performs BFS from entry points following named call edges
// and returns the set of all reachable function names.
func ReachableSet(entryPoints []string, funcs []FuncInfo) map[string]bool {
	adj := make(map[string][]string, len(funcs))
	for _, f := range funcs {
		for _, e := range f.CallEdges {
			if e.TargetName != "" {
				adj[f.Name] = append(adj[f.Name], e.TargetName)
			}
		}
	}

	reachable := make(map[string]bool)
	queue := make([]string, 0, len(entryPoints))
	for _, ep := range entryPoints {
		if !reachable[ep] {
			reachable[ep] = true
			queue = append(queue, ep)
		}
	}
	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		for _, target := range adj[fn] {
			if !reachable[target] {
				reachable[target] = true
				queue = append(queue, target)
			}
		}
	}
	return reachable
}

// Filter keeps the functions in keep, preserving order.
func Filter(funcs []FuncInfo, keep map[string]bool) []FuncInfo {
	var out []FuncInfo
	for _, f := range funcs {
		if keep[f.Name] {
			out = append(out, f)
		}
	}
	return out
}
