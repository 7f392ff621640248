package docstore

import (
	"fmt"
	"sort"
	"strings"
)

const forbiddenKeyChars = ".#$[]"

// SplitPath breaks a slash-separated path into segments. Leading and
// trailing slashes are ignored; the root path yields no segments.
func SplitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, "/")
	for _, part := range parts {
		if part == "" || strings.ContainsAny(part, forbiddenKeyChars) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return parts, nil
}

// Join builds a store path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

type write struct {
	path     string
	segments []string
	value    Value
}

func (w write) collection() string {
	return w.segments[0]
}

// planWrites validates and normalises a multi-path update. Writes are returned
// sorted by path so engines apply them deterministically.
func planWrites(updates map[string]interface{}) ([]write, error) {
	writes := make([]write, 0, len(updates))
	seen := make(map[string]struct{}, len(updates))
	for path, raw := range updates {
		segments, err := SplitPath(path)
		if err != nil {
			return nil, err
		}
		if len(segments) == 0 {
			return nil, fmt.Errorf("%w: root cannot be written", ErrInvalidPath)
		}
		value, err := normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w at %q: %v", ErrUnsupportedValue, path, err)
		}
		if len(segments) == 1 && value != nil {
			if _, ok := value.(map[string]interface{}); !ok {
				return nil, fmt.Errorf("%w: %q", ErrCollectionNotAnObj, path)
			}
		}
		joined := Join(segments...)
		if _, dup := seen[joined]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrOverlappingPaths, joined)
		}
		seen[joined] = struct{}{}
		writes = append(writes, write{path: joined, segments: segments, value: value})
	}

	for _, w := range writes {
		for i := 1; i < len(w.segments); i++ {
			if _, ok := seen[Join(w.segments[:i]...)]; ok {
				return nil, fmt.Errorf("%w: %q is nested under another update", ErrOverlappingPaths, w.path)
			}
		}
	}

	sort.Slice(writes, func(i, j int) bool { return writes[i].path < writes[j].path })
	return writes, nil
}

func touchedCollections(writes []write) []string {
	set := make(map[string]struct{}, len(writes))
	out := make([]string, 0, len(writes))
	for _, w := range writes {
		if _, ok := set[w.collection()]; ok {
			continue
		}
		set[w.collection()] = struct{}{}
		out = append(out, w.collection())
	}
	sort.Strings(out)
	return out
}
