// Package irparse reads functions written in the textual form the ir
// package prints. The format is line oriented:
//
//	global @g struct{int; int}
//
//	func @swap owned(%p: *struct{int; int}) {
//	entry:
//	  %v = load %p
//	  %x = field_extract %v, 0
//	  store %p, %v
//	}
//
// Blank lines and lines starting with // are skipped. Every operand must
// be defined before its first use.
package irparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirkon/memloc/ir"
)

// Parse reads every function from r.
func Parse(r io.Reader) ([]*ir.Function, error) {
	p := &parser{
		sc:      bufio.NewScanner(r),
		globals: map[string]ir.Value{},
	}
	return p.parse()
}

// ParseString reads every function from src.
func ParseString(src string) ([]*ir.Function, error) {
	return Parse(strings.NewReader(src))
}

// ParseFile reads every function from the file at path.
func ParseFile(path string) ([]*ir.Function, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	fns, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fns, nil
}

type parser struct {
	sc   *bufio.Scanner
	line int
	text string
	eof  bool

	globals map[string]ir.Value
}

func (p *parser) parse() ([]*ir.Function, error) {
	var fns []*ir.Function
	for p.next() {
		switch {
		case strings.HasPrefix(p.text, "global "):
			if err := p.parseGlobal(); err != nil {
				return nil, p.fail(err)
			}
		case strings.HasPrefix(p.text, "func "):
			fn, err := p.parseFunc()
			if err != nil {
				return nil, p.fail(err)
			}
			fns = append(fns, fn)
		default:
			return nil, p.fail(fmt.Errorf("func or global expected, got %q", p.text))
		}
	}
	return fns, nil
}

// next advances to the next meaningful line.
func (p *parser) next() bool {
	for p.sc.Scan() {
		p.line++
		p.text = strings.TrimSpace(p.sc.Text())
		if p.text == "" || strings.HasPrefix(p.text, "//") {
			continue
		}
		return true
	}
	p.eof = true
	return false
}

func (p *parser) fail(err error) error {
	return fmt.Errorf("line %d: %w", p.line, err)
}

// parseGlobal handles "global @name T".
func (p *parser) parseGlobal() error {
	rest := strings.TrimPrefix(p.text, "global ")
	name, typ, ok := strings.Cut(rest, " ")
	if !ok || !strings.HasPrefix(name, "@") {
		return fmt.Errorf("global @name type expected, got %q", p.text)
	}
	if _, exists := p.globals[name]; exists {
		return fmt.Errorf("global %s redefined", name)
	}
	t, err := parseTypeString(typ)
	if err != nil {
		return fmt.Errorf("global %s: %w", name, err)
	}
	p.globals[name] = ir.NewGlobal(strings.TrimPrefix(name, "@"), t)
	return nil
}

// parseFunc handles "func @name [owned](%p: T, ...) {" and the body up to
// the closing brace.
func (p *parser) parseFunc() (*ir.Function, error) {
	head := strings.TrimPrefix(p.text, "func ")
	head, ok := strings.CutSuffix(head, " {")
	if !ok {
		return nil, fmt.Errorf("function header must end with %q", " {")
	}
	open := strings.IndexByte(head, '(')
	if open < 0 || !strings.HasSuffix(head, ")") {
		return nil, fmt.Errorf("malformed parameter list in %q", p.text)
	}
	name := head[:open]
	owned := false
	if n, cut := strings.CutSuffix(name, " owned"); cut {
		name, owned = n, true
	}
	if !strings.HasPrefix(name, "@") {
		return nil, fmt.Errorf("function name must start with @, got %q", name)
	}

	fn := ir.NewFunction(strings.TrimPrefix(name, "@"))
	fn.Ownership = owned
	vals := map[string]ir.Value{}
	for _, par := range splitTop(head[open+1 : len(head)-1]) {
		pname, typ, ok := strings.Cut(par, ":")
		if !ok {
			return nil, fmt.Errorf("parameter %q must be %%name: type", par)
		}
		pname = strings.TrimSpace(pname)
		if !strings.HasPrefix(pname, "%") {
			return nil, fmt.Errorf("parameter name must start with %%, got %q", pname)
		}
		t, err := parseTypeString(strings.TrimSpace(typ))
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", pname, err)
		}
		if _, dup := vals[pname]; dup {
			return nil, fmt.Errorf("parameter %s redefined", pname)
		}
		vals[pname] = fn.AddParam(strings.TrimPrefix(pname, "%"), t)
	}

	var b *ir.Builder
	for p.next() {
		switch {
		case p.text == "}":
			return fn, nil
		case strings.HasSuffix(p.text, ":") && !strings.ContainsAny(p.text, " ="):
			b = ir.NewBuilder(fn.NewBlock(strings.TrimSuffix(p.text, ":")))
		default:
			if b == nil {
				return nil, fmt.Errorf("instruction before the first block label")
			}
			if err := p.parseInstr(b, vals); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("function @%s is not closed", fn.Name)
}

func (p *parser) parseInstr(b *ir.Builder, vals map[string]ir.Value) (err error) {
	// The builder reports type misuse by panicking; in a parser that is
	// just another malformed-input error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%q: %v", p.text, r)
		}
	}()

	text := p.text
	var lhs string
	if l, r, ok := strings.Cut(text, " = "); ok {
		lhs = l
		text = r
		if !strings.HasPrefix(lhs, "%") {
			return fmt.Errorf("result name must start with %%, got %q", lhs)
		}
		if _, dup := vals[lhs]; dup {
			return fmt.Errorf("%s redefined", lhs)
		}
	}
	op, rest, _ := strings.Cut(text, " ")
	args := splitTop(rest)

	operand := func(s string) (ir.Value, error) {
		if v, ok := vals[s]; ok {
			return v, nil
		}
		if v, ok := p.globals[s]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%s: undefined operand %q", op, s)
	}
	index := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%s: index %q: %w", op, s, err)
		}
		return n, nil
	}

	var result ir.Value
	switch op {
	case "alloc":
		if len(args) != 1 {
			return fmt.Errorf("alloc takes one type argument")
		}
		t, err := parseTypeString(args[0])
		if err != nil {
			return fmt.Errorf("alloc: %w", err)
		}
		result = b.Alloc(strings.TrimPrefix(lhs, "%"), t)

	case "field_addr", "index_addr", "field_extract", "tuple_extract":
		if len(args) != 2 {
			return fmt.Errorf("%s takes a value and an index", op)
		}
		x, err := operand(args[0])
		if err != nil {
			return err
		}
		n, err := index(args[1])
		if err != nil {
			return err
		}
		switch op {
		case "field_addr":
			result = b.FieldAddr(x, n)
		case "index_addr":
			result = b.IndexAddr(x, n)
		case "field_extract":
			result = b.FieldExtract(x, n)
		case "tuple_extract":
			result = b.TupleExtract(x, n)
		}

	case "ref_field_addr":
		if len(args) != 2 {
			return fmt.Errorf("ref_field_addr takes a reference and an index")
		}
		ref, err := operand(args[0])
		if err != nil {
			return err
		}
		tail := strings.Fields(args[1])
		n, err := index(tail[0])
		if err != nil {
			return err
		}
		immutable := false
		if len(tail) > 1 {
			if len(tail) > 2 || tail[1] != "immutable" {
				return fmt.Errorf("ref_field_addr: unexpected %q", args[1])
			}
			immutable = true
		}
		result = b.RefFieldAddr(ref, n, immutable)

	case "load", "begin_borrow", "copy":
		if len(args) != 1 {
			return fmt.Errorf("%s takes one operand", op)
		}
		x, err := operand(args[0])
		if err != nil {
			return err
		}
		switch op {
		case "load":
			result = b.Load(x)
		case "begin_borrow":
			result = b.BeginBorrow(x)
		case "copy":
			result = b.Copy(x)
		}

	case "store":
		if len(args) != 2 {
			return fmt.Errorf("store takes an address and a value")
		}
		addr, err := operand(args[0])
		if err != nil {
			return err
		}
		val, err := operand(args[1])
		if err != nil {
			return err
		}
		b.Store(addr, val)

	case "end_borrow", "destroy":
		if len(args) != 1 {
			return fmt.Errorf("%s takes one operand", op)
		}
		x, err := operand(args[0])
		if err != nil {
			return err
		}
		if op == "end_borrow" {
			b.EndBorrow(x)
		} else {
			b.Destroy(x)
		}

	case "aggregate":
		if len(args) < 1 {
			return fmt.Errorf("aggregate takes a type and element values")
		}
		t, err := parseTypeString(args[0])
		if err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		elems := make([]ir.Value, 0, len(args)-1)
		for _, a := range args[1:] {
			e, err := operand(a)
			if err != nil {
				return err
			}
			elems = append(elems, e)
		}
		result = b.Aggregate(t, elems)

	default:
		return fmt.Errorf("unknown instruction %q", op)
	}

	if result != nil && lhs == "" {
		return fmt.Errorf("%s produces a value, %%name = expected", op)
	}
	if result == nil && lhs != "" {
		return fmt.Errorf("%s produces no value", op)
	}
	if lhs != "" {
		vals[lhs] = result
	}
	return nil
}
