package models

// Registry maps a sub-model name to the nodes it distributes over.
type Registry map[string][]AllocationNode

// NewRegistry walks the whole tree and registers every node that carries
// children. When a name is defined twice the last definition wins.
func NewRegistry(nodes []AllocationNode) Registry {
	r := Registry{}
	r.register(nodes)
	return r
}

func (r Registry) register(nodes []AllocationNode) {
	for _, n := range nodes {
		if !n.IsModel() {
			continue
		}
		r[n.Symbol] = n.Children
		r.register(n.Children)
	}
}

// Lookup returns the children of the named sub-model.
func (r Registry) Lookup(symbol string) ([]AllocationNode, bool) {
	children, ok := r[symbol]
	return children, ok
}
