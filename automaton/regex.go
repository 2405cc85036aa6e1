package automaton

import "fmt"

// The regex subset supported for token patterns: literal bytes, `.` (any
// byte), character classes `[...]`/`[^...]` with ranges, grouping `(...)`,
// alternation `|`, concatenation, and the quantifiers `*`, `+`, `?`.
// Anchors are unnecessary: every pattern is matched from the start of the
// current token, never mid-string.

type reNode interface{ isReNode() }

type reLiteral struct{ b byte }
type reAny struct{}
type reClass struct {
	ranges []byteRange
	negate bool
}
type reConcat struct{ parts []reNode }
type reAlt struct{ parts []reNode }
type reStar struct{ sub reNode }
type rePlus struct{ sub reNode }
type reOpt struct{ sub reNode }

type byteRange struct{ lo, hi byte }

func (reLiteral) isReNode() {}
func (reAny) isReNode()     {}
func (reClass) isReNode()   {}
func (reConcat) isReNode()  {}
func (reAlt) isReNode()     {}
func (reStar) isReNode()    {}
func (rePlus) isReNode()    {}
func (reOpt) isReNode()     {}

// parseRegex parses pattern into a reNode tree.
func parseRegex(pattern string) (reNode, error) {
	p := &reParser{src: pattern}
	node, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("automaton: unexpected %q at offset %d in %q", p.src[p.pos], p.pos, pattern)
	}
	return node, nil
}

type reParser struct {
	src string
	pos int
}

func (p *reParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *reParser) parseAlt() (reNode, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	parts := []reNode{first}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return reAlt{parts: parts}, nil
}

func (p *reParser) parseConcat() (reNode, error) {
	var parts []reNode
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		atom, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		parts = append(parts, atom)
	}
	if len(parts) == 0 {
		return reConcat{}, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return reConcat{parts: parts}, nil
}

func (p *reParser) parseQuantified() (reNode, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok {
			return atom, nil
		}
		switch c {
		case '*':
			p.pos++
			atom = reStar{sub: atom}
		case '+':
			p.pos++
			atom = rePlus{sub: atom}
		case '?':
			p.pos++
			atom = reOpt{sub: atom}
		default:
			return atom, nil
		}
	}
}

func (p *reParser) parseAtom() (reNode, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("automaton: unexpected end of pattern %q", p.src)
	}
	switch c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return nil, fmt.Errorf("automaton: unterminated group in %q", p.src)
		}
		p.pos++
		return inner, nil
	case '.':
		p.pos++
		return reAny{}, nil
	case '[':
		return p.parseClass()
	case '\\':
		p.pos++
		b, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("automaton: dangling escape in %q", p.src)
		}
		p.pos++
		return escapeClass(b)
	default:
		p.pos++
		return reLiteral{b: c}, nil
	}
}

// escapeClass expands the small set of Perl-style shorthand classes the
// grammar's token patterns need (digits, word characters, whitespace);
// anything else is taken literally.
func escapeClass(b byte) (reNode, error) {
	switch b {
	case 'd':
		return reClass{ranges: []byteRange{{'0', '9'}}}, nil
	case 'D':
		return reClass{ranges: []byteRange{{'0', '9'}}, negate: true}, nil
	case 'w':
		return reClass{ranges: []byteRange{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}}, nil
	case 'W':
		return reClass{ranges: []byteRange{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}, negate: true}, nil
	case 's':
		return reClass{ranges: []byteRange{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}}, nil
	case 'n':
		return reLiteral{b: '\n'}, nil
	case 't':
		return reLiteral{b: '\t'}, nil
	case 'r':
		return reLiteral{b: '\r'}, nil
	default:
		return reLiteral{b: b}, nil
	}
}

func (p *reParser) parseClass() (reNode, error) {
	p.pos++ // consume '['
	negate := false
	if c, ok := p.peek(); ok && c == '^' {
		negate = true
		p.pos++
	}
	var ranges []byteRange
	first := true
	for {
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("automaton: unterminated class in %q", p.src)
		}
		if c == ']' && !first {
			p.pos++
			break
		}
		first = false
		lo := c
		p.pos++
		if lo == '\\' {
			esc, ok := p.peek()
			if !ok {
				return nil, fmt.Errorf("automaton: dangling escape in class %q", p.src)
			}
			p.pos++
			lo = literalByteFor(esc)
		}
		if c2, ok := p.peek(); ok && c2 == '-' {
			// Lookahead for a range "lo-hi"; a trailing '-' before ']' is literal.
			save := p.pos
			p.pos++
			if hiC, ok := p.peek(); ok && hiC != ']' {
				hi := hiC
				p.pos++
				if hi == '\\' {
					esc, ok := p.peek()
					if !ok {
						return nil, fmt.Errorf("automaton: dangling escape in class %q", p.src)
					}
					p.pos++
					hi = literalByteFor(esc)
				}
				ranges = append(ranges, byteRange{lo: lo, hi: hi})
				continue
			}
			p.pos = save
		}
		ranges = append(ranges, byteRange{lo: lo, hi: lo})
	}
	return reClass{ranges: ranges, negate: negate}, nil
}

func literalByteFor(esc byte) byte {
	switch esc {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return esc
	}
}

// compileRegex lowers a reNode into an NFA fragment wired into n, following
// the textbook Thompson construction.
func compileRegex(n *nfa, node reNode) frag {
	switch v := node.(type) {
	case reLiteral:
		s, e := n.addState(), n.addState()
		n.addByte(s, v.b, e)
		return frag{s, e}
	case reAny:
		s, e := n.addState(), n.addState()
		n.addRange(s, 0, 255, e)
		return frag{s, e}
	case reClass:
		s, e := n.addState(), n.addState()
		if v.negate {
			covered := make([]bool, 256)
			for _, r := range v.ranges {
				for b := int(r.lo); b <= int(r.hi); b++ {
					covered[b] = true
				}
			}
			for b := 0; b < 256; b++ {
				if !covered[b] {
					n.addByte(s, byte(b), e)
				}
			}
		} else {
			for _, r := range v.ranges {
				n.addRange(s, r.lo, r.hi, e)
			}
		}
		return frag{s, e}
	case reConcat:
		if len(v.parts) == 0 {
			s := n.addState()
			return frag{s, s}
		}
		first := compileRegex(n, v.parts[0])
		prevAccept := first.accept
		for _, part := range v.parts[1:] {
			f := compileRegex(n, part)
			n.addEps(prevAccept, f.start)
			prevAccept = f.accept
		}
		return frag{first.start, prevAccept}
	case reAlt:
		s, e := n.addState(), n.addState()
		for _, part := range v.parts {
			f := compileRegex(n, part)
			n.addEps(s, f.start)
			n.addEps(f.accept, e)
		}
		return frag{s, e}
	case reStar:
		s, e := n.addState(), n.addState()
		f := compileRegex(n, v.sub)
		n.addEps(s, f.start)
		n.addEps(s, e)
		n.addEps(f.accept, f.start)
		n.addEps(f.accept, e)
		return frag{s, e}
	case rePlus:
		f := compileRegex(n, v.sub)
		loop := n.addState()
		n.addEps(f.accept, loop)
		n.addEps(loop, f.start)
		e := n.addState()
		n.addEps(f.accept, e)
		return frag{f.start, e}
	case reOpt:
		s, e := n.addState(), n.addState()
		f := compileRegex(n, v.sub)
		n.addEps(s, f.start)
		n.addEps(s, e)
		n.addEps(f.accept, e)
		return frag{s, e}
	default:
		panic(fmt.Sprintf("automaton: unhandled regex node %T", node))
	}
}
