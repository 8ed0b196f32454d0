package metric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Flatten converts one arbitrary JSON document into a flat mapping of dotted
// key paths to scalar Values. Object members append ".<name>" to the path,
// array element i appends its index zero-padded to the decimal width of
// len-1, and scalars terminate the recursion. A scalar document maps from
// the empty key.
//
// Integer literals above the signed 64-bit range clamp to math.MaxInt64;
// anything else non-representable falls back to float64.
func Flatten(data []byte) (map[string]Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}

	items := make(map[string]Value)
	flattenInto(doc, "", items)
	return items, nil
}

func flattenInto(doc any, key string, items map[string]Value) {
	switch v := doc.(type) {
	case nil:
		items[key] = Null()
	case bool:
		items[key] = Bool(v)
	case json.Number:
		items[key] = numberValue(v)
	case string:
		items[key] = String(v)
	case []any:
		if len(v) == 0 {
			return
		}
		width := len(strconv.Itoa(len(v) - 1))
		for i, elem := range v {
			flattenInto(elem, joinKey(key, fmt.Sprintf("%0*d", width, i)), items)
		}
	case map[string]any:
		for name, elem := range v {
			flattenInto(elem, joinKey(key, name), items)
		}
	}
}

func joinKey(prefix, part string) string {
	if prefix == "" {
		return part
	}
	return prefix + "." + part
}

func numberValue(n json.Number) Value {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Integer(i)
		}
		if !strings.HasPrefix(lit, "-") {
			// Positive integer beyond int64: clamp.
			return Integer(math.MaxInt64)
		}
	}
	if f, err := n.Float64(); err == nil {
		return Float(f)
	}
	return Integer(math.MaxInt64)
}
