package model

import (
	"fmt"
	"strings"
)

// Chamber identifies a house of Congress
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

// ParseChamber accepts "house", "senate" or their first letter, in any case
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "house", "h":
		return ChamberHouse, nil
	case "senate", "s":
		return ChamberSenate, nil
	default:
		return "", fmt.Errorf("unknown chamber: %q (expected house or senate)", s)
	}
}

// Letter returns the single-letter prefix used in roll and amendment IDs
func (c Chamber) Letter() string {
	if c == "" {
		return ""
	}
	return strings.ToLower(string(c))[:1]
}

func (c Chamber) String() string {
	return string(c)
}

// Gender as derived from an honorific or recorded in the directory
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
)

// Legislator is a directory record
type Legislator struct {
	BioguideID string  `json:"bioguide_id" yaml:"bioguide_id"`
	FirstName  string  `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName   string  `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Gender     Gender  `json:"gender,omitempty" yaml:"gender,omitempty"`
	Chamber    Chamber `json:"chamber,omitempty" yaml:"chamber,omitempty"`
	State      string  `json:"state,omitempty" yaml:"state,omitempty"`
}

// Filter is a directory query. Empty fields are not constrained.
type Filter struct {
	Chamber   Chamber `json:"chamber,omitempty"`
	Gender    Gender  `json:"gender,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	FirstName string  `json:"first_name,omitempty"`
	State     string  `json:"state,omitempty"`
}

// Matches reports whether l satisfies every set field of f
func (f Filter) Matches(l Legislator) bool {
	if f.Chamber != "" && f.Chamber != l.Chamber {
		return false
	}
	if f.Gender != GenderUnknown && f.Gender != l.Gender {
		return false
	}
	if f.LastName != "" && f.LastName != l.LastName {
		return false
	}
	if f.FirstName != "" && f.FirstName != l.FirstName {
		return false
	}
	if f.State != "" && f.State != l.State {
		return false
	}
	return true
}

// String renders the filter as a stable key, e.g. "chamber=house,gender=M,last_name=Smith"
func (f Filter) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("chamber", string(f.Chamber))
	add("gender", string(f.Gender))
	add("last_name", f.LastName)
	add("first_name", f.FirstName)
	add("state", f.State)
	return strings.Join(parts, ",")
}
