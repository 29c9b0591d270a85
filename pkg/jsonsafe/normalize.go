// Package jsonsafe rewrites values so that 64-bit integers reach JSON clients
// as ordinary numbers.
//
// Mongo aggregations and counters hand back int64 values. Browsers parse every
// JSON number as a float64, so handlers run payloads through Normalize before
// encoding and accept the precision loss above 2^53.
package jsonsafe

import (
	"encoding"
	"encoding/json"
	"math/big"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// Normalize returns a copy of v in which every int64, uint64 and big.Int is
// replaced by the nearest float64. Slices and string-keyed maps are copied and
// walked recursively; any other value is returned as is. The input is never
// modified.
func Normalize(v any) any {
	out, _ := walk(v)
	return out
}

// walk reports whether anything below v was rewritten.
func walk(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case *big.Int:
		if val == nil {
			return nil, false
		}
		return bigToFloat(val), true
	case big.Int:
		return bigToFloat(&val), true
	case []any:
		return walkSlice(val)
	case bson.A:
		out, changed := walkSlice(val)
		return bson.A(out), changed
	case map[string]any:
		return walkMap(val)
	case bson.M:
		out, changed := walkMap(val)
		return bson.M(out), changed
	case bson.D:
		if val == nil {
			return val, false
		}
		out := make(bson.D, len(val))
		changed := false
		for i, e := range val {
			item, c := walk(e.Value)
			out[i] = bson.E{Key: e.Key, Value: item}
			changed = changed || c
		}
		return out, changed
	case []byte, string, bool, float64, float32, int, int32:
		return v, false
	}

	return walkReflect(v)
}

func bigToFloat(b *big.Int) float64 {
	f, _ := new(big.Float).SetInt(b).Float64()
	return f
}

func walkSlice(in []any) ([]any, bool) {
	if in == nil {
		return nil, false
	}
	out := make([]any, len(in))
	changed := false
	for i, item := range in {
		var c bool
		out[i], c = walk(item)
		changed = changed || c
	}
	return out, changed
}

func walkMap(in map[string]any) (map[string]any, bool) {
	if in == nil {
		return nil, false
	}
	out := make(map[string]any, len(in))
	changed := false
	for k, item := range in {
		var c bool
		out[k], c = walk(item)
		changed = changed || c
	}
	return out, changed
}

// walkReflect covers named integer types and typed containers such as
// []int64 or map[string][]any. A typed container is turned into []any or
// map[string]any only when something inside was rewritten, so values without
// 64-bit integers keep their original type. Values that encode themselves,
// such as primitive.DateTime, are left alone.
func walkReflect(v any) (any, bool) {
	switch v.(type) {
	case json.Marshaler, encoding.TextMarshaler:
		return v, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && (rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8) {
			return v, false
		}
		out := make([]any, rv.Len())
		changed := false
		for i := 0; i < rv.Len(); i++ {
			var c bool
			out[i], c = walk(rv.Index(i).Interface())
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return out, true
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v, false
		}
		out := make(map[string]any, rv.Len())
		changed := false
		iter := rv.MapRange()
		for iter.Next() {
			item, c := walk(iter.Value().Interface())
			out[iter.Key().String()] = item
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return out, true
	}

	return v, false
}
