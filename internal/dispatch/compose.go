package dispatch

import (
	"reflect"
)

// Composer merges per-module results of one Execute fan-out into a single
// value. Results are keyed by module name. Registered per message type via
// Application.ComposeWith; absent a registration the default composer applies.
type Composer func(results map[string]any) (any, error)

// moduleResult preserves dispatch order, which composition depends on.
type moduleResult struct {
	module string
	value  any
}

// composeDefault merges fan-out results.
//
// Nil results are dropped. Zero remaining results compose to nil and a single
// result is returned unchanged. Otherwise map results deep-union and slice
// results concatenate; anything else is a *ComposeError.
func composeDefault(key string, ordered []moduleResult) (any, error) {
	var values []any
	for _, r := range ordered {
		if r.value != nil {
			values = append(values, r.value)
		}
	}

	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	}

	if maps, ok := asMaps(values); ok {
		out := map[string]any{}
		for _, m := range maps {
			out = mergeMaps(out, m)
		}
		return out, nil
	}
	if allSlices(values) {
		var out []any
		for _, v := range values {
			rv := reflect.ValueOf(v)
			for i := 0; i < rv.Len(); i++ {
				out = append(out, rv.Index(i).Interface())
			}
		}
		return out, nil
	}
	return nil, &ComposeError{Key: key}
}

func asMaps(values []any) ([]map[string]any, bool) {
	maps := make([]map[string]any, 0, len(values))
	for _, v := range values {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		maps = append(maps, m)
	}
	return maps, true
}

func allSlices(values []any) bool {
	for _, v := range values {
		if reflect.ValueOf(v).Kind() != reflect.Slice {
			return false
		}
	}
	return true
}

// mergeMaps deep-unions b into a copy of a. Nested maps merge recursively,
// slices concatenate, and any other collision resolves to b's value.
func mergeMaps(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		prev, exists := out[k]
		if !exists {
			out[k] = v
			continue
		}
		pm, pok := prev.(map[string]any)
		vm, vok := v.(map[string]any)
		if pok && vok {
			out[k] = mergeMaps(pm, vm)
			continue
		}
		if reflect.ValueOf(prev).Kind() == reflect.Slice && reflect.ValueOf(v).Kind() == reflect.Slice {
			var joined []any
			pv, vv := reflect.ValueOf(prev), reflect.ValueOf(v)
			for i := 0; i < pv.Len(); i++ {
				joined = append(joined, pv.Index(i).Interface())
			}
			for i := 0; i < vv.Len(); i++ {
				joined = append(joined, vv.Index(i).Interface())
			}
			out[k] = joined
			continue
		}
		out[k] = v
	}
	return out
}
