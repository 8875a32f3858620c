package discover

import "strings"

// RegistrableDomain extracts the bare domain from a website URL or hostname.
// Scheme, credentials, "www." prefix, port, path, and query are stripped and
// the result is lowercased. Returns "" when no plausible domain remains.
func RegistrableDomain(website string) string {
	s := strings.TrimSpace(website)
	if s == "" {
		return ""
	}

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	for _, sep := range []byte{'/', '?', '#'} {
		if i := strings.IndexByte(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}

	s = strings.ToLower(strings.TrimSuffix(s, "."))
	s = strings.TrimPrefix(s, "www.")

	// A registrable domain needs at least one dot and no spaces.
	if !strings.Contains(s, ".") || strings.ContainsAny(s, " \t") {
		return ""
	}
	return s
}
