package branding

import (
	"encoding/base64"
	"html/template"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fallbackMIME = "image/png"

// LogoResolver finds the site logo on disk and inlines it as a data URL.
type LogoResolver struct {
	dir     string
	pattern string
}

func NewLogoResolver(dir, pattern string) *LogoResolver {
	if pattern == "" {
		pattern = "logo*"
	}
	return &LogoResolver{dir: dir, pattern: pattern}
}

// DataURL returns the first regular file matching the pattern, in name order.
// ok is false when there is no usable logo.
func (l *LogoResolver) DataURL() (template.URL, bool) {
	matches, err := filepath.Glob(filepath.Join(l.dir, l.pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)

	for _, name := range matches {
		info, err := os.Stat(name)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		return template.URL("data:" + mimeFor(name) + ";base64," + base64.StdEncoding.EncodeToString(data)), true
	}
	return "", false
}

func mimeFor(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return fallbackMIME
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
