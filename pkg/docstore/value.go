package docstore

import (
	"encoding/json"
)

// normalize converts an arbitrary Go value into a pruned JSON tree. Empty
// objects and arrays collapse to nil, so writing one deletes the location.
func normalize(v interface{}) (Value, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return prune(tree), nil
}

func prune(v Value) Value {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, child := range node {
			pruned := prune(child)
			if pruned == nil {
				delete(node, key)
				continue
			}
			node[key] = pruned
		}
		if len(node) == 0 {
			return nil
		}
		return node
	case []interface{}:
		if len(node) == 0 {
			return nil
		}
		for i, child := range node {
			node[i] = prune(child)
		}
		return node
	default:
		return v
	}
}

func clone(v Value) Value {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for key, child := range node {
			out[key] = clone(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, child := range node {
			out[i] = clone(child)
		}
		return out
	default:
		return v
	}
}

func lookup(root Value, segments []string) (Value, bool) {
	current := root
	for _, segment := range segments {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// assign sets value below node at segments, creating intermediate objects.
// A nil value deletes and prunes parents left empty.
func assign(node map[string]interface{}, segments []string, value Value) {
	key := segments[0]
	if len(segments) == 1 {
		if value == nil {
			delete(node, key)
			return
		}
		node[key] = value
		return
	}

	child, ok := node[key].(map[string]interface{})
	if !ok {
		if value == nil {
			return
		}
		child = make(map[string]interface{})
		node[key] = child
	}
	assign(child, segments[1:], value)
	if len(child) == 0 {
		delete(node, key)
	}
}
