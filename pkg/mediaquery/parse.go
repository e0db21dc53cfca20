package mediaquery

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrSyntax is returned for queries the parser cannot read.
var ErrSyntax = errors.New("mediaquery: syntax error")

// Query is a parsed media query list.
type Query struct {
	source   string
	expr     string
	features []string
}

// String returns the original query text.
func (q Query) String() string {
	return q.source
}

// Expression returns the boolean expression evaluated by the engines.
func (q Query) Expression() string {
	return q.expr
}

// Features returns the known media features the query tests, sorted.
func (q Query) Features() []string {
	return slices.Clone(q.features)
}

var (
	identPattern    = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	rangeOpPattern  = regexp.MustCompile(`<=|>=|<|>|=`)
	dimensionSuffix = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))([a-z]*)$`)
)

type parser struct {
	features []string
}

// Parse translates a media query list into a Query.
func Parse(query string) (Query, error) {
	source := strings.TrimSpace(query)
	if source == "" {
		return Query{}, fmt.Errorf("%w: empty query", ErrSyntax)
	}
	p := &parser{}
	parts, err := splitTopLevel(strings.ToLower(source))
	if err != nil {
		return Query{}, err
	}
	exprs := make([]string, 0, len(parts))
	for _, part := range parts {
		expr, err := p.parseQuery(part)
		if err != nil {
			return Query{}, fmt.Errorf("%w in %q", err, query)
		}
		exprs = append(exprs, expr)
	}
	expr := exprs[0]
	if len(exprs) > 1 {
		for i := range exprs {
			exprs[i] = "(" + exprs[i] + ")"
		}
		expr = strings.Join(exprs, " || ")
	}
	slices.Sort(p.features)
	return Query{
		source:   source,
		expr:     expr,
		features: slices.Compact(p.features),
	}, nil
}

func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parenthesis", ErrSyntax)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced parenthesis", ErrSyntax)
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty query in list", ErrSyntax)
		}
	}
	return parts, nil
}

// tokenize splits a single query into words and parenthesised groups. Groups
// keep their content without the outer parentheses and are prefixed with "(".
func tokenize(s string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(':
			depth := 0
			j := i
			for ; j < len(s); j++ {
				if s[j] == '(' {
					depth++
				} else if s[j] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j == len(s) {
				return nil, fmt.Errorf("%w: unbalanced parenthesis", ErrSyntax)
			}
			tokens = append(tokens, "("+strings.TrimSpace(s[i+1:j]))
			i = j + 1
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' && s[j] != '(' {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		}
	}
	return tokens, nil
}

func isGroup(token string) bool {
	return strings.HasPrefix(token, "(")
}

func (p *parser) parseQuery(q string) (string, error) {
	tokens, err := tokenize(q)
	if err != nil {
		return "", err
	}
	i := 0
	negate := false
	if i < len(tokens) && (tokens[i] == "not" || tokens[i] == "only") {
		negate = tokens[i] == "not"
		i++
		if !negate && (i == len(tokens) || isGroup(tokens[i])) {
			return "", fmt.Errorf("%w: \"only\" requires a media type", ErrSyntax)
		}
	}

	var conds []string
	if i < len(tokens) && !isGroup(tokens[i]) {
		mediaType := tokens[i]
		if !identPattern.MatchString(mediaType) || mediaType == "and" {
			return "", fmt.Errorf("%w: unexpected %q", ErrSyntax, mediaType)
		}
		if mediaType == "all" {
			conds = append(conds, "true")
		} else {
			conds = append(conds, `f["type"] == "`+mediaType+`"`)
		}
		i++
	}

	for i < len(tokens) {
		if len(conds) > 0 {
			if tokens[i] != "and" {
				return "", fmt.Errorf("%w: expected \"and\", got %q", ErrSyntax, tokens[i])
			}
			i++
			if i == len(tokens) {
				return "", fmt.Errorf("%w: dangling \"and\"", ErrSyntax)
			}
		}
		if !isGroup(tokens[i]) {
			return "", fmt.Errorf("%w: expected media feature, got %q", ErrSyntax, tokens[i])
		}
		cond, err := p.parseFeature(tokens[i][1:])
		if err != nil {
			return "", err
		}
		conds = append(conds, cond)
		i++
	}

	if len(conds) == 0 {
		return "", fmt.Errorf("%w: missing media type or feature", ErrSyntax)
	}
	expr := strings.Join(conds, " && ")
	if negate {
		expr = "!(" + expr + ")"
	}
	return expr, nil
}

func (p *parser) parseFeature(inner string) (string, error) {
	if inner == "" {
		return "", fmt.Errorf("%w: empty media feature", ErrSyntax)
	}
	if strings.ContainsAny(inner, "()") {
		return "", fmt.Errorf("%w: nested conditions are not supported", ErrSyntax)
	}
	if name, value, ok := strings.Cut(inner, ":"); ok {
		return p.plainFeature(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if rangeOpPattern.MatchString(inner) {
		return p.rangeFeature(inner)
	}
	return p.booleanFeature(strings.TrimSpace(inner))
}

func (p *parser) booleanFeature(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: invalid feature %q", ErrSyntax, name)
	}
	if off, ok := discreteFeatures[name]; ok {
		p.features = append(p.features, name)
		if off == "" {
			return "true", nil
		}
		return featureRef(name) + ` != "` + off + `"`, nil
	}
	if rangeFeatures[name] {
		p.features = append(p.features, name)
		return featureRef(name) + " != 0.0", nil
	}
	return "false", nil
}

func (p *parser) plainFeature(name, value string) (string, error) {
	if !identPattern.MatchString(name) || value == "" {
		return "", fmt.Errorf("%w: invalid feature %q", ErrSyntax, name+":"+value)
	}
	op := "=="
	base := name
	switch {
	case strings.HasPrefix(name, "min-"):
		op, base = ">=", strings.TrimPrefix(name, "min-")
	case strings.HasPrefix(name, "max-"):
		op, base = "<=", strings.TrimPrefix(name, "max-")
	}

	if rangeFeatures[base] {
		number, err := parseDimension(base, value)
		if err != nil {
			return "", err
		}
		p.features = append(p.features, base)
		return featureRef(base) + " " + op + " " + number, nil
	}
	if _, ok := discreteFeatures[name]; ok {
		if !identPattern.MatchString(value) {
			return "", fmt.Errorf("%w: invalid value %q for %s", ErrSyntax, value, name)
		}
		p.features = append(p.features, name)
		return featureRef(name) + ` == "` + value + `"`, nil
	}
	return "false", nil
}

func (p *parser) rangeFeature(inner string) (string, error) {
	ops := rangeOpPattern.FindAllString(inner, -1)
	operands := rangeOpPattern.Split(inner, -1)
	for i := range operands {
		operands[i] = strings.TrimSpace(operands[i])
		if operands[i] == "" {
			return "", fmt.Errorf("%w: malformed range %q", ErrSyntax, inner)
		}
	}

	switch len(ops) {
	case 1:
		left, right := operands[0], operands[1]
		if identPattern.MatchString(left) {
			return p.comparison(left, ops[0], right)
		}
		if identPattern.MatchString(right) {
			return p.comparison(right, flip(ops[0]), left)
		}
		return "", fmt.Errorf("%w: malformed range %q", ErrSyntax, inner)
	case 2:
		name := operands[1]
		if !identPattern.MatchString(name) {
			return "", fmt.Errorf("%w: malformed range %q", ErrSyntax, inner)
		}
		lower, err := p.comparison(name, flip(ops[0]), operands[0])
		if err != nil {
			return "", err
		}
		upper, err := p.comparison(name, ops[1], operands[2])
		if err != nil {
			return "", err
		}
		if lower == "false" || upper == "false" {
			return "false", nil
		}
		return "(" + lower + " && " + upper + ")", nil
	default:
		return "", fmt.Errorf("%w: malformed range %q", ErrSyntax, inner)
	}
}

func (p *parser) comparison(name, op, value string) (string, error) {
	if !rangeFeatures[name] {
		return "false", nil
	}
	number, err := parseDimension(name, value)
	if err != nil {
		return "", err
	}
	if op == "=" {
		op = "=="
	}
	p.features = append(p.features, name)
	return featureRef(name) + " " + op + " " + number, nil
}

func flip(op string) string {
	switch op {
	case "<":
		return ">"
	case ">":
		return "<"
	case "<=":
		return ">="
	case ">=":
		return "<="
	default:
		return op
	}
}

func featureRef(name string) string {
	return `f["` + name + `"]`
}

// parseDimension converts a CSS value to the float unit stored in Features:
// CSS pixels for lengths, dppx for resolution, plain numbers otherwise.
func parseDimension(feature, value string) (string, error) {
	m := dimensionSuffix.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("%w: invalid value %q for %s", ErrSyntax, value, feature)
	}
	number, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid number %q", ErrSyntax, m[1])
	}
	switch unit := m[2]; unit {
	case "", "px", "dppx", "x":
	case "em", "rem":
		number *= 16
	case "dpi":
		number /= 96
	case "dpcm":
		number = number * 2.54 / 96
	default:
		return "", fmt.Errorf("%w: unsupported unit %q", ErrSyntax, unit)
	}
	return floatLiteral(number), nil
}

func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
