package variants

import (
	"fmt"
	"strings"
)

// SourceKind names where the bootstrap script reads a raw value from.
type SourceKind string

const (
	// SourceLocalStorage reads a key from window.localStorage.
	SourceLocalStorage SourceKind = "localStorage"
	// SourceCookie reads a named cookie from document.cookie.
	SourceCookie SourceKind = "cookie"
	// SourceSearchParam reads a query parameter from location.search.
	SourceSearchParam SourceKind = "search"
	// SourceMediaQuery evaluates a media query and maps the result to a label.
	SourceMediaQuery SourceKind = "media"
)

// ReadSource declares where a variant value comes from at runtime. Only the
// fields relevant to Kind are populated; construct values with the From*
// helpers rather than by hand.
type ReadSource struct {
	Kind       SourceKind `json:"type" jsonschema:"required,enum=localStorage,enum=cookie,enum=search,enum=media"`
	Key        string     `json:"key,omitempty" jsonschema:"description=localStorage key"`
	Name       string     `json:"name,omitempty" jsonschema:"description=cookie or search parameter name"`
	Query      string     `json:"query,omitempty" jsonschema:"description=media query evaluated with matchMedia"`
	TrueValue  string     `json:"true,omitempty" jsonschema:"description=label used when the media query matches"`
	FalseValue string     `json:"false,omitempty" jsonschema:"description=label used when the media query does not match"`
}

// MediaValues maps the boolean result of a media query onto option labels.
type MediaValues struct {
	True  string
	False string
}

// FromLocalStorage reads the variant value from localStorage[key].
func FromLocalStorage(key string) ReadSource {
	return ReadSource{Kind: SourceLocalStorage, Key: key}
}

// FromCookie reads the variant value from the cookie called name. The value is
// URL-decoded on read.
func FromCookie(name string) ReadSource {
	return ReadSource{Kind: SourceCookie, Name: name}
}

// FromSearchParam reads the variant value from the URL query parameter name.
func FromSearchParam(name string) ReadSource {
	return ReadSource{Kind: SourceSearchParam, Name: name}
}

// FromMediaQuery evaluates query with matchMedia and resolves to values.True
// when it matches, values.False otherwise. This source always yields a value.
func FromMediaQuery(query string, values MediaValues) ReadSource {
	return ReadSource{
		Kind:       SourceMediaQuery,
		Query:      query,
		TrueValue:  values.True,
		FalseValue: values.False,
	}
}

// Validate reports whether the descriptor carries the parameters its kind needs.
func (s ReadSource) Validate() error {
	switch s.Kind {
	case SourceLocalStorage:
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("%w: localStorage key is empty", ErrInvalidSource)
		}
	case SourceCookie, SourceSearchParam:
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: %s name is empty", ErrInvalidSource, s.Kind)
		}
	case SourceMediaQuery:
		if strings.TrimSpace(s.Query) == "" {
			return fmt.Errorf("%w: media query is empty", ErrInvalidSource)
		}
		if s.TrueValue == "" || s.FalseValue == "" {
			return fmt.Errorf("%w: media query labels are empty", ErrInvalidSource)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSource, s.Kind)
	}
	return nil
}

func (s ReadSource) String() string {
	switch s.Kind {
	case SourceLocalStorage:
		return fmt.Sprintf("localStorage(%s)", s.Key)
	case SourceCookie:
		return fmt.Sprintf("cookie(%s)", s.Name)
	case SourceSearchParam:
		return fmt.Sprintf("search(%s)", s.Name)
	case SourceMediaQuery:
		return fmt.Sprintf("media(%s ? %s : %s)", s.Query, s.TrueValue, s.FalseValue)
	default:
		return "unknown"
	}
}
