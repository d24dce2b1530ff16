package v1

import "net/url"

func urlEncode(s string) string {
	return url.QueryEscape(s)
}
