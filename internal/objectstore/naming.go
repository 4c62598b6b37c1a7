package objectstore

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StoredName derives the object key for an upload:
// {unixMillis}_{sanitizedBaseName}{originalExtension}.
func StoredName(now time.Time, originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)

	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	b.WriteString(sanitize(base))
	b.WriteString(ext)
	return b.String()
}

// sanitize replaces every rune outside [A-Za-z0-9] with '_'.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
