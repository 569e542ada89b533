package pandora

// Node is a named entity of a tree: a Section or a Source.
type Node interface {
	ID() string
	Name() (string, error)
	Type() (string, error)
}

// Filter selects nodes during a search.
type Filter func(Node) bool

// AcceptAll matches every node.
func AcceptAll(Node) bool { return true }

// NameFilter matches nodes with the given name.
func NameFilter(name string) Filter {
	return func(n Node) bool {
		got, err := n.Name()
		return err == nil && got == name
	}
}

// TypeFilter matches nodes with the given type.
func TypeFilter(typ string) Filter {
	return func(n Node) bool {
		got, err := n.Type()
		return err == nil && got == typ
	}
}

// IDFilter matches the node with the given id.
func IDFilter(id string) Filter {
	return func(n Node) bool { return n.ID() == id }
}

// find runs a depth-limited breadth-first search from start. The start node
// is level 0 and is part of the result when it matches. A negative maxDepth
// means no limit.
func find[T Node](start T, filter Filter, maxDepth int, children func(T) ([]T, error)) ([]T, error) {
	if filter == nil {
		filter = AcceptAll
	}
	var out []T
	level := []T{start}
	for depth := 0; len(level) > 0; depth++ {
		var next []T
		for _, n := range level {
			if filter(n) {
				out = append(out, n)
			}
			if maxDepth >= 0 && depth >= maxDepth {
				continue
			}
			kids, err := children(n)
			if err != nil {
				return nil, err
			}
			next = append(next, kids...)
		}
		level = next
	}
	return out, nil
}
