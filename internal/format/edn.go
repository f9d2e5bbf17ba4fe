package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v.
//
// Only the subset our payloads need is produced (maps, vectors, strings, numbers,
// booleans, nil). Structs are normalized through their json tags first so keys match
// the JSON output; map keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := toPlain(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	e := ednWriter{sb: &sb, pretty: pretty, indent: 2}
	e.value(x, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednWriter struct {
	sb     *strings.Builder
	pretty bool
	indent int
}

func (e ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case string:
		e.sb.WriteString(strconv.Quote(t))
	case float64:
		// JSON numbers decode as float64; print integral values without a fraction.
		if float64(int64(t)) == t {
			e.sb.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		e.sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.seq('[', ']', len(t), level, func(i int) { e.value(t[i], level+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), level, func(i int) {
			e.sb.WriteByte(':')
			e.sb.WriteString(ednKeyword(keys[i]))
			e.sb.WriteByte(' ')
			e.value(t[keys[i]], level+1)
		})
	default:
		e.sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednWriter) seq(open, close byte, n, level int, elem func(i int)) {
	e.sb.WriteByte(open)
	if n == 0 {
		e.sb.WriteByte(close)
		return
	}
	if e.pretty {
		e.sb.WriteByte('\n')
	}
	for i := 0; i < n; i++ {
		if e.pretty {
			e.sb.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		}
		elem(i)
		if i != n-1 {
			if e.pretty {
				e.sb.WriteByte('\n')
			} else {
				e.sb.WriteByte(' ')
			}
		}
	}
	if e.pretty {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat(" ", level*e.indent))
	}
	e.sb.WriteByte(close)
}

func ednKeyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
