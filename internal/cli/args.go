package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"studyledger/internal/core"
)

// UsageError reports malformed arguments. The message is followed by the command usage.
// Help is set when the user asked for the usage with -h.
type UsageError struct {
	Msg   string
	Usage string
	Help  bool
}

func (e *UsageError) Error() string { return e.Msg }

func usageErr(usage, format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...), Usage: usage}
}

// newFlagSet returns a silent flag set. Parse errors surface as UsageError.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags anywhere in args, so "remove 3 --confirm" works like
// "remove --confirm 3". A lone "--" ends flag parsing.
func parseArgs(fs *flag.FlagSet, usage string, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, &UsageError{Msg: "help requested", Usage: usage, Help: true}
			}
			return nil, usageErr(usage, "%v", err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > 0 && len(rest) < len(args) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// dateFlag is a flag.Value holding an optional date in the configured layout.
type dateFlag struct {
	layout string
	date   core.Date
	set    bool
}

func (f *dateFlag) String() string {
	if !f.set {
		return ""
	}
	return f.date.Format(f.layout)
}

func (f *dateFlag) Set(s string) error {
	d, err := core.ParseDate(f.layout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected format %s", s, f.layout)
	}
	f.date, f.set = d, true
	return nil
}

// optionalString records whether a string flag was given at all.
type optionalString struct {
	value string
	set   bool
}

func (f *optionalString) String() string { return f.value }

func (f *optionalString) Set(s string) error {
	f.value, f.set = s, true
	return nil
}

func (f *optionalString) ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

func parseID(usage, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErr(usage, "invalid id %q", s)
	}
	return id, nil
}

func parseMinutes(usage, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, usageErr(usage, "invalid amount of minutes %q", s)
	}
	if n < 0 {
		return 0, core.ErrNegativeAmount
	}
	return n, nil
}
