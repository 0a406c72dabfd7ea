package utils

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// BuildSearchURL builds the site search URL for a keyword within a category.
// The keyword is escaped like a path segment list: '/' is kept and spaces become %20.
func BuildSearchURL(baseURL, keyword, categoryID string) string {
	return fmt.Sprintf("%s/index.php?route=product/search&search=%s&category_id=%s",
		strings.TrimRight(baseURL, "/"), quoteKeyword(keyword), url.QueryEscape(categoryID))
}

// quoteKeyword percent-encodes every byte except ASCII letters, digits, "-._~" and '/'
func quoteKeyword(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '-', c == '.', c == '_', c == '~', c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

// ResolveURL resolves ref against base. Unparseable input is returned unchanged.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// SameURL reports whether a and b address the same resource, ignoring scheme/host case
// and differences in percent-encoding.
func SameURL(a, b string) bool {
	if a == b {
		return true
	}
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	if !strings.EqualFold(ua.Scheme, ub.Scheme) || !strings.EqualFold(ua.Host, ub.Host) {
		return false
	}
	if strings.TrimSuffix(ua.Path, "/") != strings.TrimSuffix(ub.Path, "/") {
		return false
	}
	qa, err := url.ParseQuery(ua.RawQuery)
	if err != nil {
		return false
	}
	qb, err := url.ParseQuery(ub.RawQuery)
	if err != nil {
		return false
	}
	if len(qa) == 0 && len(qb) == 0 {
		return true
	}
	return reflect.DeepEqual(qa, qb)
}
