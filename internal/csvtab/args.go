package csvtab

import (
	"fmt"
	"strings"
)

// params are the parsed arguments of CREATE VIRTUAL TABLE ... USING csv(...).
type params struct {
	filename string
	header   bool
	schema   string
}

// parseArgs parses the module arguments. Arguments without '=' are skipped,
// which covers the module, database and table names SQLite passes first.
func parseArgs(args []string) (params, error) {
	var p params
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = dequote(strings.TrimSpace(value))

		switch key {
		case "filename":
			p.filename = value
		case "header":
			b, err := parseBool(value)
			if err != nil {
				return params{}, err
			}
			p.header = b
		case "schema":
			p.schema = value
		default:
			return params{}, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}
	}
	if p.filename == "" {
		return params{}, ErrMissingFilename
	}
	return p, nil
}

// dequote strips one level of matching ' or " quotes and collapses doubled
// quote characters inside them.
func dequote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "on", "1":
		return true, nil
	case "no", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
}
