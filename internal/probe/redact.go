package probe

import (
	"net/url"
	"strings"
)

const redacted = "***"

// secretParams are query parameters pgx accepts that carry secrets.
var secretParams = map[string]bool{
	"password":    true,
	"sslpassword": true,
}

// Redact masks credentials in a URI connection string for logging.
// Anything that is not an unambiguous postgres URL is masked entirely.
func Redact(connString string) string {
	u, err := url.Parse(connString)
	if err != nil {
		return redacted
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return redacted
	}
	// An '@' outside the userinfo means the parser split the credentials
	// somewhere else, e.g. a password containing '/'.
	for _, part := range []string{u.Opaque, u.Path, u.RawPath, u.RawQuery, u.Fragment} {
		if strings.Contains(part, "@") {
			return redacted
		}
	}

	var userinfo string
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			userinfo = redacted + ":" + redacted + "@"
		} else {
			userinfo = redacted + "@"
		}
		u.User = nil
	}
	u.RawQuery = redactQuery(u.RawQuery)

	// url.URL escapes '*' in userinfo, so the mask is spliced in by hand.
	s := u.String()
	prefix := u.Scheme + "://"
	if userinfo != "" && strings.HasPrefix(s, prefix) {
		s = prefix + userinfo + strings.TrimPrefix(s, prefix)
	}
	return s
}

func redactQuery(raw string) string {
	if raw == "" {
		return raw
	}
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil && secretParams[strings.ToLower(k)] {
			pairs[i] = key + "=" + redacted
		}
	}
	return strings.Join(pairs, "&")
}
