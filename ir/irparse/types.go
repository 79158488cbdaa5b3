package irparse

import (
	"fmt"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// basicTypes maps the spellable scalar names onto go/types basics.
var basicTypes = map[string]types.Type{
	"bool":    types.Typ[types.Bool],
	"int":     types.Typ[types.Int],
	"int8":    types.Typ[types.Int8],
	"int16":   types.Typ[types.Int16],
	"int32":   types.Typ[types.Int32],
	"int64":   types.Typ[types.Int64],
	"uint":    types.Typ[types.Uint],
	"uint8":   types.Typ[types.Uint8],
	"uint16":  types.Typ[types.Uint16],
	"uint32":  types.Typ[types.Uint32],
	"uint64":  types.Typ[types.Uint64],
	"float32": types.Typ[types.Float32],
	"float64": types.Typ[types.Float64],
	"string":  types.Typ[types.String],
	"byte":    types.Typ[types.Byte],
	"rune":    types.Typ[types.Rune],
}

// parseTypeString parses one type expression. The accepted syntax is the
// one go/types prints for the supported shapes:
//
//	int  bool  *T  [N]T  struct{x int; y int}  (T, T)
//
// Struct field names are optional: a bare type gets a synthesized f<i>
// name, so hand written sources can spell struct{int; int} while the
// printed form round-trips. Both ";" and "," separate fields.
func parseTypeString(s string) (types.Type, error) {
	p := &typeParser{s: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("trailing %q after type", p.s[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) parseType() (types.Type, error) {
	p.skipSpaces()
	if p.pos == len(p.s) {
		return nil, fmt.Errorf("type expected")
	}
	switch c := p.s[p.pos]; {
	case c == '*':
		p.pos++
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil
	case c == '[':
		p.pos++
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return types.NewArray(elem, int64(n)), nil
	case c == '(':
		p.pos++
		elems, err := p.parseList(')')
		if err != nil {
			return nil, err
		}
		vars := make([]*types.Var, len(elems))
		for i, et := range elems {
			vars[i] = types.NewVar(token.NoPos, nil, "", et)
		}
		return types.NewTuple(vars...), nil
	default:
		name := p.ident()
		if name == "struct" {
			p.skipSpaces()
			if err := p.expect('{'); err != nil {
				return nil, err
			}
			fields, err := p.parseFields('}')
			if err != nil {
				return nil, err
			}
			return types.NewStruct(fields, nil), nil
		}
		t, ok := basicTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown type %q", name)
		}
		return t, nil
	}
}

// parseList reads a possibly empty type list terminated by close. Elements
// are separated by "," or ";".
func (p *typeParser) parseList(close byte) ([]types.Type, error) {
	var out []types.Type
	p.skipSpaces()
	if p.pos < len(p.s) && p.s[p.pos] == close {
		p.pos++
		return out, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.skipSpaces()
		if p.pos == len(p.s) {
			return nil, fmt.Errorf("%q expected", string(close))
		}
		switch p.s[p.pos] {
		case close:
			p.pos++
			return out, nil
		case ',', ';':
			p.pos++
		default:
			return nil, fmt.Errorf("unexpected %q in type list", p.s[p.pos])
		}
	}
}

// parseFields reads a possibly empty struct field list terminated by
// close. A field is "[name] type"; unnamed fields get synthesized f<i>
// names. Field names must be distinct: go/types rejects duplicates.
func (p *typeParser) parseFields(close byte) ([]*types.Var, error) {
	var out []*types.Var
	seen := map[string]bool{}
	p.skipSpaces()
	if p.pos < len(p.s) && p.s[p.pos] == close {
		p.pos++
		return out, nil
	}
	for {
		name := ""
		p.skipSpaces()
		if p.pos < len(p.s) && isLetter(p.s[p.pos]) {
			save := p.pos
			id := p.ident()
			p.skipSpaces()
			_, basic := basicTypes[id]
			named := id != "struct" && !basic &&
				p.pos < len(p.s) && p.s[p.pos] != ',' && p.s[p.pos] != ';' && p.s[p.pos] != close
			if named {
				name = id
			} else {
				p.pos = save
			}
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = fmt.Sprintf("f%d", len(out))
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate field name %q", name)
		}
		seen[name] = true
		out = append(out, types.NewField(token.NoPos, nil, name, t, false))
		p.skipSpaces()
		if p.pos == len(p.s) {
			return nil, fmt.Errorf("%q expected", string(close))
		}
		switch p.s[p.pos] {
		case close:
			p.pos++
			return out, nil
		case ',', ';':
			p.pos++
		default:
			return nil, fmt.Errorf("unexpected %q in field list", p.s[p.pos])
		}
	}
}

func (p *typeParser) parseInt() (int, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("number expected at %q", p.s[start:])
	}
	return strconv.Atoi(p.s[start:p.pos])
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.s) && (isLetter(p.s[p.pos]) || p.s[p.pos] >= '0' && p.s[p.pos] <= '9') {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpaces()
	if p.pos == len(p.s) || p.s[p.pos] != c {
		return fmt.Errorf("%q expected at %q", string(c), p.s[p.pos:])
	}
	p.pos++
	return nil
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// splitTop splits s on commas outside any brackets, trimming the pieces.
// It separates instruction arguments without tripping over commas inside
// tuple and struct types.
func splitTop(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
