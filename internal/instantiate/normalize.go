package instantiate

import "github.com/funvibe/funxy-types/internal/types"

// NormalizeAnd/NormalizeOr build And/Or types with the associativity,
// idempotence, and duplicate-collapsing normalization spec.md §3.1
// requires ("Normalized: And/Or associative, idempotent; duplicates
// collapsed").
func NormalizeAnd(l, r types.Type) types.Type {
	terms := flattenAnd(l)
	terms = append(terms, flattenAnd(r)...)
	terms = dedupTypes(terms)
	return foldAnd(terms)
}

func NormalizeOr(l, r types.Type) types.Type {
	terms := flattenOr(l)
	terms = append(terms, flattenOr(r)...)
	terms = dedupTypes(terms)
	return foldOr(terms)
}

func flattenAnd(t types.Type) []types.Type {
	if a, ok := t.(types.And); ok {
		return append(flattenAnd(a.Left), flattenAnd(a.Right)...)
	}
	return []types.Type{t}
}

func flattenOr(t types.Type) []types.Type {
	if o, ok := t.(types.Or); ok {
		return append(flattenOr(o.Left), flattenOr(o.Right)...)
	}
	return []types.Type{t}
}

func dedupTypes(ts []types.Type) []types.Type {
	seen := map[string]bool{}
	out := make([]types.Type, 0, len(ts))
	for _, t := range ts {
		key := t.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func foldAnd(ts []types.Type) types.Type {
	if len(ts) == 1 {
		return ts[0]
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		acc = types.And{Left: acc, Right: t}
	}
	return acc
}

func foldOr(ts []types.Type) types.Type {
	if len(ts) == 1 {
		return ts[0]
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		acc = types.Or{Left: acc, Right: t}
	}
	return acc
}
