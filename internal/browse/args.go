// Package browse drives the external grabbit-browse process: it splits the
// forwarded argument vector, names the session, and sequences the
// close/launch/record/reload steps around navigation commands.
package browse

import (
	"strconv"
	"strings"
	"time"

	"github.com/colebanman/grabbit-cli/internal/state"
)

// valueFlags are the grabbit-browse options that consume the next token.
var valueFlags = map[string]bool{
	"--session":         true,
	"--profile":         true,
	"--state":           true,
	"--headers":         true,
	"--executable-path": true,
	"--extension":       true,
	"--args":            true,
	"--user-agent":      true,
	"--proxy":           true,
	"--proxy-bypass":    true,
	"--cdp":             true,
	"--provider":        true,
	"-p":                true,
}

// SplitFlags separates leading option tokens from the command region.
// commandStart is the index of the first token that is neither an option nor
// the value of a value-consuming option, or len(args) when there is none.
func SplitFlags(args []string) (optionTokens []string, commandStart int) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return optionTokens, i
		}

		optionTokens = append(optionTokens, arg)
		if valueFlags[arg] && i+1 < len(args) {
			optionTokens = append(optionTokens, args[i+1])
			i++
		}
	}
	return optionTokens, len(args)
}

// FlagValue returns the value given to flag in optionTokens, accepting both
// "--flag value" and "--flag=value". It returns "" when the flag is absent.
func FlagValue(optionTokens []string, flag string) string {
	for i, tok := range optionTokens {
		if tok == flag {
			if i+1 < len(optionTokens) {
				return optionTokens[i+1]
			}
			return ""
		}
		if v, ok := strings.CutPrefix(tok, flag+"="); ok {
			return v
		}
	}
	return ""
}

// LooksLikeURL reports whether s is an absolute http(s) URL.
func LooksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsNavigation reports whether the command region loads a new page.
func IsNavigation(command []string) bool {
	if len(command) == 0 {
		return false
	}
	switch command[0] {
	case "open", "navigate":
		return true
	}
	return LooksLikeURL(command[0])
}

// TempSessionName returns the ephemeral session name for now.
func TempSessionName(now time.Time) string {
	return state.TempSessionPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// ResolveSession returns the session named by --session, or a fresh
// ephemeral name when none was given.
func ResolveSession(optionTokens []string, now time.Time) (name string, explicit bool) {
	if name := FlagValue(optionTokens, "--session"); name != "" {
		return name, true
	}
	return TempSessionName(now), false
}

// Invocation is a parsed `grabbit browse` argument vector.
type Invocation struct {
	// Session is the session every forwarded call targets.
	Session string

	// Explicit is set when the user chose the session with --session.
	Explicit bool

	// Command is the subcommand and its positional arguments.
	Command []string

	flags []string
}

// ParseInvocation splits args and resolves the session name. A --session
// flag without a value is dropped in favour of the generated name.
func ParseInvocation(args []string, now time.Time) *Invocation {
	flags, start := SplitFlags(args)
	name, explicit := ResolveSession(flags, now)
	if !explicit {
		flags = withoutFlag(flags, "--session")
	}
	return &Invocation{
		Session:  name,
		Explicit: explicit,
		Command:  args[start:],
		flags:    flags,
	}
}

// withoutFlag returns optionTokens minus every occurrence of flag and its value.
func withoutFlag(optionTokens []string, flag string) []string {
	out := make([]string, 0, len(optionTokens))
	for i := 0; i < len(optionTokens); i++ {
		tok := optionTokens[i]
		if tok == flag {
			i++
			continue
		}
		if strings.HasPrefix(tok, flag+"=") {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Subcommand returns the first command token, or "".
func (inv *Invocation) Subcommand() string {
	if len(inv.Command) == 0 {
		return ""
	}
	return inv.Command[0]
}

// IsNavigation reports whether the invocation loads a new page.
func (inv *Invocation) IsNavigation() bool {
	return IsNavigation(inv.Command)
}

// Options returns the option tokens to forward. Non-explicit sessions get
// "--session <name>" injected in front of the user's options.
func (inv *Invocation) Options() []string {
	if inv.Explicit {
		return append([]string(nil), inv.flags...)
	}
	opts := make([]string, 0, len(inv.flags)+2)
	opts = append(opts, "--session", inv.Session)
	return append(opts, inv.flags...)
}

// Args returns the full forwarded argument vector.
func (inv *Invocation) Args() []string {
	return inv.With(inv.Command...)
}

// With returns the forwarded options followed by command.
func (inv *Invocation) With(command ...string) []string {
	return append(inv.Options(), command...)
}
