package session

import (
	"net/url"
	"strings"
)

// AccessTokenKey is the fragment key carrying the bearer credential per the
// provider's implicit-grant redirect convention.
const AccessTokenKey = "access_token"

// ParseFragment parses the location fragment of the authentication redirect
// into a key→value mapping. The fragment is formatted as `&`-separated
// `key=value` pairs with URL-encoded values; a leading "#" is tolerated.
// Keys are unique in practice, and the last occurrence wins when they are
// not (unspecified by the provider).
func ParseFragment(fragment string) map[string]string {
	fragment = strings.TrimPrefix(fragment, "#")

	params := map[string]string{}
	for _, pair := range strings.Split(fragment, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}

		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		params[key] = value
	}

	return params
}

// TokenFromFragment extracts the access credential from the redirect
// fragment. Empty means no credential was issued and the session stays
// logged out.
func TokenFromFragment(fragment string) string {
	return ParseFragment(fragment)[AccessTokenKey]
}
