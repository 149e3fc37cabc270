// Package rules decides whether the platform conditional rule lists attached
// to libraries and arguments apply to a host.
package rules

import (
	"encoding/json"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
)

type Action string

const (
	Allow    Action = "allow"
	Disallow Action = "disallow"
)

type OSCondition struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

type Rule struct {
	Action   Action          `json:"action"`
	OS       *OSCondition    `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// UnmarshalJSON rejects keys outside the closed rule schema.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Rule
	for k, v := range raw {
		var err error
		switch k {
		case "action":
			err = json.Unmarshal(v, &out.Action)
		case "os":
			out.OS, err = decodeOS(v)
		case "features":
			err = json.Unmarshal(v, &out.Features)
		default:
			return acqerr.Contract("unknown rule key %q", k)
		}
		if err != nil {
			return err
		}
	}
	switch out.Action {
	case Allow, Disallow:
	default:
		return acqerr.Contract("unknown rule action %q", out.Action)
	}
	*r = out
	return nil
}

func decodeOS(b []byte) (*OSCondition, error) {
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	c := new(OSCondition)
	for k, v := range raw {
		switch k {
		case "name":
			c.Name = v
		case "arch":
			c.Arch = v
		case "version":
			c.Version = v
		default:
			return nil, acqerr.Contract("unknown os rule key %q", k)
		}
	}
	return c, nil
}

// matches reports whether the rule's predicate holds, ignoring its action.
func (p Platform) matches(r Rule) bool {
	if r.Features != nil {
		// feature flags are never enabled
		return false
	}
	if r.OS == nil {
		return true
	}
	if r.OS.Name != "" && !p.matchName(r.OS.Name) {
		return false
	}
	if r.OS.Arch != "" && !p.matchArch(r.OS.Arch) {
		return false
	}
	// os version patterns are accepted as is
	return true
}

// Evaluate returns true when every rule in the list passes for p. An empty
// list passes. An unknown action is a contract error.
func (p Platform) Evaluate(rules []Rule) (bool, error) {
	for _, r := range rules {
		m := p.matches(r)
		switch r.Action {
		case Allow:
			if !m {
				return false, nil
			}
		case Disallow:
			if m {
				return false, nil
			}
		default:
			return false, acqerr.Contract("unknown rule action %q", r.Action)
		}
	}
	return true, nil
}

// Evaluate checks rules against the current host.
func Evaluate(rules []Rule) (bool, error) {
	return Current().Evaluate(rules)
}
