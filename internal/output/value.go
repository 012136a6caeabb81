package output

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FormatValue renders a decoded value on one line: lists in brackets, keyed
// tuples in braces, strings quoted.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []interface{}:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *orderedmap.OrderedMap[string, interface{}]:
		parts := make([]string, 0, x.Len())
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			parts = append(parts, pair.Key+": "+FormatValue(pair.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(Normalize(v))
}
