package stylesheet

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FileHash is the base36 hash that prefixes every identifier generated for
// a file. When root is set, the path is hashed relative to it so that ids do
// not depend on where the project is checked out.
func FileHash(path, root string) string {
	hashPath := path
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			hashPath = rel
		}
	}
	hashPath = filepath.ToSlash(hashPath)
	return strconv.FormatUint(xxhash.Sum64String(hashPath)&0xffffffff, 36)
}

// DeclID is the identifier of the index-th declaration of a file. Dev builds
// append the declared name.
func DeclID(fileHash string, index int, name string, dev bool) string {
	id := "v" + fileHash + "-" + strconv.Itoa(index)
	if dev && name != "" {
		id += "-" + sanitize(name)
	}
	return id
}

// sanitize keeps a name usable inside a CSS class
func sanitize(name string) string {
	var sb strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			sb.WriteRune(ch)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// percent renders an amount in [0,1] as the rounded percentage used in
// derived color names.
func percent(amount float64) string {
	return strconv.Itoa(int(amount*100 + 0.5))
}

// dedent removes the common leading indentation of the non-blank lines of s
// and trims leading and trailing blank lines.
func dedent(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	margin := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if margin < 0 || n < margin {
			margin = n
		}
	}
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l) == "":
			l = ""
		case margin > 0:
			l = l[margin:]
		}
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every non-empty line of s with two spaces.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
