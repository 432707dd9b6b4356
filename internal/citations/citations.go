// Package citations maps citation keys to the publications that introduced
// the parameterizations this library implements. It is a provenance side
// channel: distributions report their keys as plain data and callers decide
// where to record them.
package citations

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKey indicates a citation key with no registered reference.
var ErrUnknownKey = errors.New("unknown citation key")

// Reference describes one citable publication.
type Reference struct {
	Authors string
	Title   string
	Venue   string
	Year    int
	URL     string
}

var references = map[string]Reference{
	"kipping13": {
		Authors: "Kipping, D. M.",
		Title:   "Efficient, uninformative sampling of limb darkening coefficients for two-parameter laws",
		Venue:   "MNRAS 435, 2152",
		Year:    2013,
		URL:     "https://arxiv.org/abs/1308.0009",
	},
	"espinoza18": {
		Authors: "Espinoza, N.",
		Title:   "Efficient joint sampling of impact parameters and transit depths in transiting exoplanet light curves",
		Venue:   "RNAAS 2, 209",
		Year:    2018,
		URL:     "https://iopscience.iop.org/article/10.3847/2515-5172/aaef38",
	},
}

// Lookup returns the reference registered under key.
func Lookup(key string) (Reference, error) {
	ref, ok := references[key]
	if !ok {
		return Reference{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return ref, nil
}

// Keys returns all registered citation keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(references))
	for key := range references {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Bibliography formats one line per key, sorted and deduplicated. Every key
// must be registered.
func Bibliography(keys []string) (string, error) {
	unique := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		unique[key] = struct{}{}
	}
	ordered := make([]string, 0, len(unique))
	for key := range unique {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)

	var b strings.Builder
	for _, key := range ordered {
		ref, err := Lookup(key)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "[%s] %s (%d). %s. %s. %s\n",
			key, ref.Authors, ref.Year, ref.Title, ref.Venue, ref.URL)
	}
	return b.String(), nil
}
