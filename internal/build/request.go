package build

import (
	"fmt"
	"strings"
)

const (
	HelpToken    = "help"    // List the catalog and exit.
	ReleaseToken = "release" // Append optimization flags for every target.
)

// What the command line tokens ask for.
type Request struct {
	Help    bool
	Release bool
	targets map[string]bool
}

// Reports whether the target was requested.
func (r Request) Wants(name string) bool {
	return r.targets[name]
}

// Returns the number of distinct targets requested.
func (r Request) Len() int {
	return len(r.targets)
}

// Interprets command line tokens against the catalog.
//
// Tokens are a set, so order and repetition do not matter. No tokens, or a
// help token anywhere, yield a help request and nothing else is checked.
// Every token other than help and release must name a catalog target.
func ParseRequest(c *Catalog, tokens []string) (Request, error) {
	req := Request{targets: make(map[string]bool)}

	if len(tokens) == 0 {
		req.Help = true
		return req, nil
	}

	var unknown []string
	for _, tok := range tokens {
		switch tok {
		case HelpToken:
			return Request{Help: true, targets: map[string]bool{}}, nil
		case ReleaseToken:
			req.Release = true
		default:
			if _, ok := c.Lookup(tok); !ok {
				unknown = append(unknown, fmt.Sprintf("%q", tok))
				continue
			}
			req.targets[tok] = true
		}
	}

	if len(unknown) > 0 {
		return Request{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownTarget,
			strings.Join(unknown, ", "), strings.Join(c.Names(), ", "))
	}

	return req, nil
}
