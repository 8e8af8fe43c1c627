package document

// Equal reports structural equality between two records. List order is
// significant; map-shaped values compare by value. Generated item
// identifiers (ItemIDKey entries inside nested maps) are excluded so an
// element re-created with identical content still compares equal to the one
// it replaced.
func Equal(a, b Record) bool {
	return equalMaps(map[string]any(a), map[string]any(b), false)
}

func equalValues(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := asMap(b)
		if !ok {
			return false
		}
		return equalMaps(av, bv, true)
	case Item:
		bv, ok := asMap(b)
		if !ok {
			return false
		}
		return equalMaps(map[string]any(av), bv, true)
	case []any:
		bv, ok := b.([]any)
		if !ok {
			return false
		}
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case float64, int, int64, float32:
		bn, ok := asFloat(b)
		if !ok {
			return false
		}
		an, _ := asFloat(a)
		return an == bn
	default:
		return a == b
	}
}

func equalMaps(a, b map[string]any, skipID bool) bool {
	if a == nil && b == nil {
		return true
	}
	if countKeys(a, skipID) != countKeys(b, skipID) {
		return false
	}
	for key, av := range a {
		if skipID && key == ItemIDKey {
			continue
		}
		bv, ok := b[key]
		if !ok {
			return false
		}
		if !equalValues(av, bv) {
			return false
		}
	}
	return true
}

func countKeys(m map[string]any, skipID bool) int {
	n := len(m)
	if skipID {
		if _, ok := m[ItemIDKey]; ok {
			n--
		}
	}
	return n
}

func asMap(v any) (map[string]any, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, true
	case Item:
		return map[string]any(typed), true
	default:
		return nil, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
