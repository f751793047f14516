package graph

import (
	"net/url"
	"strings"
)

// FilePathPlaceholder is substituted by [ResolveSourceURL].
const FilePathPlaceholder = "{filePath}"

// ResolveSourceURL expands a project sourceUrl template for one file.
//
// Each path segment is escaped before substitution. The result is returned
// only when it parses as an http or https URL; otherwise, or when either
// argument is empty, the empty string is returned.
func ResolveSourceURL(template, filePath string) string {
	if template == "" || filePath == "" {
		return ""
	}

	segs := strings.Split(filePath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	resolved := strings.Replace(template, FilePathPlaceholder, strings.Join(segs, "/"), 1)

	u, err := url.Parse(resolved)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
