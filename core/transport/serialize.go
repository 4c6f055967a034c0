package transport

import (
	"net/url"
	"sort"
	"strings"

	"entity-store/core/utils"
)

// Serialize encodes params as a querystring: keys sorted, keys and values
// percent-encoded, pairs joined with "&". Nil and empty values are omitted.
func Serialize(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := utils.ToString(params[k])
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// AppendQuery appends the serialized params to rawURL.
func AppendQuery(rawURL string, params map[string]any) string {
	q := Serialize(params)
	if q == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + q
	}
	return rawURL + "?" + q
}
