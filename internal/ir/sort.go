package ir

// Dependencies returns the names n refers to: identifiers and custom
// combinator dependencies, deduplicated in first-seen order.
func Dependencies(n Node) []string {
	var out []string
	seen := map[string]struct{}{}
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		var names []string
		switch t := n.(type) {
		case *Identifier:
			names = []string{t.Name}
		case *Custom:
			names = t.Dependencies
		}
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
		for _, c := range Children(n) {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Sort orders declarations so that every declaration comes after the
// declarations it depends on. Names that are not declared in decls (import
// aliases) are ignored. The order is stable: unrelated declarations keep their
// input order, and a cycle is broken at the edge that closes it.
func Sort(decls []TypeDeclaration) []TypeDeclaration {
	byName := make(map[string]int, len(decls))
	for i, d := range decls {
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = i
		}
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(decls))
	out := make([]TypeDeclaration, 0, len(decls))
	var visit func(i int)
	visit = func(i int) {
		if state[i] != unvisited {
			return
		}
		state[i] = visiting
		for _, dep := range Dependencies(decls[i].Type) {
			if j, ok := byName[dep]; ok && j != i {
				visit(j)
			}
		}
		state[i] = done
		out = append(out, decls[i])
	}
	for i := range decls {
		visit(i)
	}
	return out
}
