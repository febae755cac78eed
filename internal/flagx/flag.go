// Package flagx contains small helpers on top of the standard flag package
// for layered configuration: picking a subset of flags out of argv before the
// main FlagSet runs, and flag values with project-specific units.
package flagx

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilterArgs keeps only the flags listed in allowedFlags (and their values).
//
// Both "-c conf.json" and "-c=conf.json" forms are recognised. A following
// token that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config path given via -c or -config.
// Other arguments are ignored so the caller's own FlagSet can parse them later.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

// Minutes is a time.Duration flag expressed as a whole number of minutes.
type Minutes struct {
	D *time.Duration
}

func (m Minutes) String() string {
	if m.D == nil {
		return "0"
	}
	return strconv.FormatInt(int64(*m.D/time.Minute), 10)
}

func (m Minutes) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("minutes: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("minutes: negative value %d", n)
	}
	*m.D = time.Duration(n) * time.Minute
	return nil
}

// StringList is a comma separated list flag.
type StringList struct {
	L *[]string
}

func (s StringList) String() string {
	if s.L == nil {
		return ""
	}
	return strings.Join(*s.L, ",")
}

func (s StringList) Set(v string) error {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*s.L = out
	return nil
}
