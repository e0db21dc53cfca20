package variants

import (
	"fmt"
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// New returns def as the canonical definition. It performs no validation, so a
// default outside Options is accepted; use Load when the definition comes from
// untrusted or hand-edited configuration.
func New(def Definition) Definition {
	return def.clone()
}

// Load returns a copy of def after running Validate.
func Load(def Definition) (Definition, error) {
	out := def.clone()
	if err := out.Validate(); err != nil {
		return Definition{}, err
	}
	return out, nil
}

// MustLoad is like Load but panics on an invalid definition. Intended for
// package-level declarations.
func MustLoad(def Definition) Definition {
	out, err := Load(def)
	if err != nil {
		panic(err)
	}
	return out
}

// Validate checks the definition shape: a usable key, a non-empty set of
// distinct labels, a default drawn from that set and a well-formed source.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return configError(d.Key, "key", ErrKeyRequired)
	}
	if !keyPattern.MatchString(d.Key) {
		return configError(d.Key, "key", fmt.Errorf("%w: %q", ErrInvalidKey, d.Key))
	}
	if len(d.Options) == 0 {
		return configError(d.Key, "options", ErrNoOptions)
	}
	seen := make(map[string]struct{}, len(d.Options))
	for i, option := range d.Options {
		if option == "" {
			return configError(d.Key, fmt.Sprintf("options[%d]", i), ErrEmptyOption)
		}
		if _, ok := seen[option]; ok {
			return configError(d.Key, fmt.Sprintf("options[%d]", i), fmt.Errorf("%w: %q", ErrDuplicateOption, option))
		}
		seen[option] = struct{}{}
	}
	if _, ok := seen[d.Default]; !ok {
		return configError(d.Key, "default", fmt.Errorf("%w: %q", ErrDefaultNotInOptions, d.Default))
	}
	if err := d.Read.Validate(); err != nil {
		return configError(d.Key, "read", err)
	}
	if d.Read.Kind == SourceMediaQuery {
		for _, label := range []string{d.Read.TrueValue, d.Read.FalseValue} {
			if _, ok := seen[label]; !ok {
				return configError(d.Key, "read", fmt.Errorf("%w: %q", ErrMediaLabelNotInOptions, label))
			}
		}
	}
	return nil
}
