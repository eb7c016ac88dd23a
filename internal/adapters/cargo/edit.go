package cargo

import (
	"regexp"
	"strings"

	"go.trai.ch/bounds/internal/core/domain"
)

// Requirements are edited on the manifest text rather than re-encoded, so
// formatting and comments elsewhere in the file survive.

type entryForm int

const (
	// name = "1.2"
	formString entryForm = iota
	// name = { version = "1.2", features = [...] }
	formInline
	// [dependencies.name] with a version = "1.2" line
	formTable
	// name.version = "1.2"
	formDotted
)

const keyPart = `(?:"[^"]*"|'[^']*'|[A-Za-z0-9_-]+)`

var (
	headerRe      = regexp.MustCompile(`^\s*\[([^\[\]]+)\]\s*(#.*)?$`)
	arrayHeaderRe = regexp.MustCompile(`^\s*\[\[`)
	keyRe         = regexp.MustCompile(`^(\s*)(` + keyPart + `(?:\s*\.\s*` + keyPart + `)*)(\s*=\s*)(.*)$`)
	stringValueRe = regexp.MustCompile(`^("[^"]*"|'[^']*')(.*)$`)
	versionKeyRe  = regexp.MustCompile(`(\bversion\s*=\s*)("[^"]*"|'[^']*')`)
)

// setRequirement rewrites the requirement of the [dependencies] entry name.
// With inline set, a plain string entry is turned into an inline table.
func setRequirement(data []byte, name, requirement string, inline bool) ([]byte, error) {
	lines := strings.Split(string(data), "\n")

	idx, form, err := locate(lines, name)
	if err != nil {
		return nil, err
	}

	quoted := `"` + requirement + `"`
	line := lines[idx]

	switch form {
	case formString, formDotted:
		m := keyRe.FindStringSubmatch(line)
		v := stringValueRe.FindStringSubmatch(m[4])
		if v == nil {
			return nil, domain.Tag(domain.ErrUnsupportedEntry, "dependency", name)
		}
		value := quoted
		if inline && form == formString {
			value = "{ version = " + quoted + " }"
		}
		lines[idx] = m[1] + m[2] + m[3] + value + v[2]
	case formInline, formTable:
		loc := versionKeyRe.FindStringSubmatchIndex(line)
		if loc == nil {
			return nil, domain.Tag(domain.ErrUnsupportedEntry, "dependency", name)
		}
		lines[idx] = line[:loc[4]] + quoted + line[loc[5]:]
	}

	return []byte(strings.Join(lines, "\n")), nil
}

// locate finds the line holding the requirement of name.
func locate(lines []string, name string) (int, entryForm, error) {
	section := ""
	own := dependenciesTable + "." + name

	for i, line := range lines {
		if arrayHeaderRe.MatchString(line) {
			section = ""
			continue
		}
		if m := headerRe.FindStringSubmatch(line); m != nil {
			section = tableName(m[1])
			continue
		}

		m := keyRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := splitKey(m[2])

		switch section {
		case dependenciesTable:
			if key[0] != name {
				continue
			}
			if len(key) > 1 {
				if len(key) == 2 && key[1] == "version" {
					return i, formDotted, nil
				}
				continue
			}
			value := strings.TrimSpace(m[4])
			switch {
			case strings.HasPrefix(value, "{"):
				return i, formInline, nil
			case strings.HasPrefix(value, `"`), strings.HasPrefix(value, "'"):
				return i, formString, nil
			default:
				return -1, 0, domain.Tag(domain.ErrUnsupportedEntry, "dependency", name)
			}
		case own:
			if len(key) == 1 && key[0] == "version" {
				return i, formTable, nil
			}
		}
	}

	return -1, 0, domain.Tag(domain.ErrDependencyNotFound, "dependency", name)
}

// tableName normalizes a table header: `dependencies . "serde"` becomes dependencies.serde.
func tableName(header string) string {
	return strings.Join(splitKey(header), ".")
}

// splitKey splits a dotted key into its unquoted parts.
func splitKey(key string) []string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
