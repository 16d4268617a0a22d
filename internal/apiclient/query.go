package apiclient

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Query keeps parameters in insertion order so the backend receives names
// and order exactly as written at the call site.
type Query []Param

// Add appends key=value.
func (q Query) Add(key, value string) Query {
	return append(q, Param{Key: key, Value: value})
}

// AddBool appends key=true|false.
func (q Query) AddBool(key string, v bool) Query {
	return q.Add(key, strconv.FormatBool(v))
}

// AddFloat appends a number without trailing zeros (100, 99.5).
func (q Query) AddFloat(key string, v float64) Query {
	return q.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
}

// Encode renders the query without a leading '?'.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// PathID renders a numeric path segment.
func PathID(id int64) string {
	return strconv.FormatInt(id, 10)
}
