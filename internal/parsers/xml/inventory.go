package xml

// Children returns the child tag names recorded for tag
func (inv Inventory) Children(tag string) []string {
	return inv[tag].Tags
}

// Attributes returns the attribute names recorded for tag
func (inv Inventory) Attributes(tag string) []string {
	return inv[tag].Attributes
}

// Has reports whether tag occurs in the feed
func (inv Inventory) Has(tag string) bool {
	_, ok := inv[tag]
	return ok
}

// PathTo finds the shortest chain of tag names leading from root to tag,
// inclusive of both ends. It returns nil when tag is unreachable.
func (inv Inventory) PathTo(root, tag string) []string {
	if root == tag {
		return []string{root}
	}

	parent := map[string]string{root: ""}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range inv[current].Tags {
			if _, seen := parent[child]; seen {
				continue
			}
			parent[child] = current
			if child == tag {
				path := []string{child}
				for p := current; p != ""; p = parent[p] {
					path = append([]string{p}, path...)
				}
				return path
			}
			queue = append(queue, child)
		}
	}
	return nil
}
