package abi

import (
	"strings"
	"unicode"
)

// qualifiers may appear between a parameter type and its name and carry no
// ABI meaning.
var qualifiers = map[string]bool{
	"indexed":  true,
	"memory":   true,
	"calldata": true,
	"storage":  true,
	"payable":  true,
}

// ParseSignature parses a human-readable function signature such as
//
//	function transfer(address to, uint256 amount) external returns (bool)
//
// The leading "function" keyword, parameter names and the "returns" keyword
// are optional. Parentheses are matched by depth, never by pattern, so nested
// tuples in inputs and outputs are handled at any depth.
func ParseSignature(text string) (*Function, error) {
	s := strings.TrimSpace(text)
	if rest, ok := cutKeyword(s, "function"); ok {
		s = rest
	}

	var (
		name      string
		inputs    string
		rest      string
		hasInputs bool
	)
	if open := strings.IndexByte(s, '('); open >= 0 {
		end, err := matchParen(s, open)
		if err != nil {
			return nil, err
		}
		hasInputs = true
		name = strings.TrimSpace(s[:open])
		inputs = s[open+1 : end]
		rest = s[end+1:]
	} else {
		if strings.ContainsRune(s, ')') {
			return nil, parseErrorf("unbalanced ')' in %q", text)
		}
		fields := strings.Fields(s)
		if len(fields) > 0 {
			name = fields[0]
			rest = strings.Join(fields[1:], " ")
		}
	}
	if name != "" && !isIdentifier(name) {
		return nil, parseErrorf("invalid function name %q", name)
	}

	fn := &Function{Name: name, Kind: functionKind(name, hasInputs)}
	var err error
	if fn.Inputs, err = parseComponents(inputs); err != nil {
		return nil, err
	}

	modifiers := rest
	if open := strings.IndexByte(rest, '('); open >= 0 {
		end, err := matchParen(rest, open)
		if err != nil {
			return nil, err
		}
		if trailing := strings.TrimSpace(rest[end+1:]); trailing != "" {
			return nil, parseErrorf("unexpected %q after outputs in %q", trailing, text)
		}
		if fn.Outputs, err = parseComponents(rest[open+1 : end]); err != nil {
			return nil, err
		}
		modifiers = rest[:open]
	} else if strings.ContainsRune(rest, ')') {
		return nil, parseErrorf("unbalanced ')' in %q", text)
	}
	fn.Mutability = mutability(modifiers)

	switch fn.Kind {
	case KindReceive:
		if len(fn.Inputs) > 0 || len(fn.Outputs) > 0 {
			return nil, parseErrorf("receive takes no inputs or outputs: %q", text)
		}
		fn.Mutability = Payable
	case KindFallback:
		if len(fn.Inputs) > 1 || (len(fn.Inputs) == 1 && fn.Inputs[0].Type != "bytes") {
			return nil, parseErrorf("fallback takes at most one bytes input: %q", text)
		}
	}
	return fn, nil
}

// ParseType parses a single parameter: a type optionally followed by
// qualifiers and a name, e.g. "uint256 amount", "(address,bool)[] pairs" or
// "tuple(uint8 a, string b)".
func ParseType(text string) (Component, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Component{}, parseErrorf("empty type")
	}

	typ, trailer := splitTypeName(s)
	tokens := strings.Fields(trailer)
	// "(uint8,bool) []" keeps the suffix attached to the tuple.
	for len(tokens) > 0 && strings.HasPrefix(tokens[0], "[") {
		typ += tokens[0]
		tokens = tokens[1:]
	}
	var names []string
	for _, tok := range tokens {
		if !qualifiers[tok] {
			names = append(names, tok)
		}
	}
	if len(names) > 1 {
		return Component{}, parseErrorf("unexpected %q in parameter %q", strings.Join(names, " "), text)
	}

	var c Component
	if len(names) == 1 {
		if !isIdentifier(names[0]) {
			return Component{}, parseErrorf("invalid parameter name %q", names[0])
		}
		c.Name = names[0]
	}

	if strings.HasPrefix(typ, "tuple(") {
		typ = typ[len("tuple"):]
	}
	if strings.HasPrefix(typ, "(") {
		end, err := matchParen(typ, 0)
		if err != nil {
			return Component{}, err
		}
		members, err := parseComponents(typ[1:end])
		if err != nil {
			return Component{}, err
		}
		c.Type = "tuple" + typ[end+1:]
		c.Components = members
	} else {
		if strings.ContainsAny(typ, "()") {
			return Component{}, parseErrorf("unbalanced parentheses in %q", text)
		}
		c.Type = typ
	}

	if _, err := NewType(c.Type, c.Components); err != nil {
		return Component{}, err
	}
	return c, nil
}

// parseComponents parses a comma separated parameter list without its outer
// parentheses.
func parseComponents(list string) ([]Component, error) {
	parts, err := splitTopLevel(list)
	if err != nil {
		return nil, err
	}
	out := make([]Component, 0, len(parts))
	for _, p := range parts {
		c, err := ParseType(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// splitTopLevel splits on commas at nesting depth zero.
func splitTopLevel(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, parseErrorf("unbalanced ')' in %q", list)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, parseErrorf("unterminated tuple in %q", list)
	}
	parts = append(parts, list[start:])
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, parseErrorf("empty parameter in %q", list)
		}
	}
	return parts, nil
}

// matchParen returns the index of the ')' closing the '(' at open.
func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, parseErrorf("unterminated tuple in %q", s)
}

// splitTypeName cuts s at the first whitespace outside parentheses. Spaces
// inside a tuple never separate a type from its name.
func splitTypeName(s string) (string, string) {
	depth := 0
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0 && unicode.IsSpace(r):
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func functionKind(name string, hasInputs bool) FunctionKind {
	switch name {
	case "constructor":
		return KindConstructor
	case "receive":
		return KindReceive
	case "fallback":
		return KindFallback
	case "":
		if !hasInputs {
			return KindReceive
		}
		return KindFallback
	}
	return KindFunction
}

func mutability(modifiers string) Mutability {
	switch {
	case strings.Contains(modifiers, "pure"):
		return Pure
	case strings.Contains(modifiers, "view"):
		return View
	case strings.Contains(strings.ReplaceAll(modifiers, "nonpayable", ""), "payable"):
		return Payable
	}
	return NonPayable
}

func cutKeyword(s, keyword string) (string, bool) {
	if !strings.HasPrefix(s, keyword) {
		return s, false
	}
	rest := s[len(keyword):]
	if rest == "" || !unicode.IsSpace(rune(rest[0])) {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}
