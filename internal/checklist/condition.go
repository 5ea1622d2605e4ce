package checklist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	types "github.com/visabuddy/visabuddy-backend/internal/domain"
)

// Rule conditions are small boolean expressions over dotted profile paths:
//
//	financial.bankBalanceUSD >= 2000 and not travelHistory.previousOverstays
//	ties.hasProperty or ties.hasFamily
//	financial.sponsorType == 'self'
//
// Evaluation is fail-open: a condition that cannot be parsed, or that
// references an unknown or null field, resolves to "applies" with a warning.
// A missing document is a worse failure mode than a superfluous one.

// EvaluateCondition reports whether a rule document applies to the profile.
// An empty condition always applies.
func EvaluateCondition(cond string, profile types.ApplicantProfile) (bool, []string) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true, nil
	}

	node, err := parseCondition(cond)
	if err != nil {
		return true, []string{fmt.Sprintf("unparseable condition %q: %v", cond, err)}
	}

	env := flattenProfile(profile)
	result, ok := node.eval(env)
	if !ok {
		return true, []string{fmt.Sprintf("condition %q references unknown or null field", cond)}
	}
	return result, nil
}

// flattenProfile builds a dot-path lookup table from the profile's JSON
// representation, so condition paths match the wire field names.
func flattenProfile(profile types.ApplicantProfile) map[string]any {
	raw, err := json.Marshal(profile)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	env := make(map[string]any)
	flattenInto(env, "", m)
	return env
}

func flattenInto(env map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(env, path, nested)
			continue
		}
		env[path] = v
	}
}

// ---- tokens ----

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
	tokTrue
	tokFalse
	tokNull
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF}, nil
	}
	c := l.input[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case c == '\'':
		return l.lexString()
	case c == '=' || c == '!' || c == '<' || c == '>':
		return l.lexOp()
	case c >= '0' && c <= '9' || c == '-':
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		return token{}, fmt.Errorf("unexpected character %q at %d", c, l.pos)
	}
}

func (l *lexer) lexString() (token, error) {
	start := l.pos + 1
	i := start
	for i < len(l.input) && l.input[i] != '\'' {
		i++
	}
	if i >= len(l.input) {
		return token{}, fmt.Errorf("unterminated string at %d", l.pos)
	}
	l.pos = i + 1
	return token{kind: tokString, text: l.input[start:i]}, nil
}

func (l *lexer) lexOp() (token, error) {
	two := ""
	if l.pos+1 < len(l.input) {
		two = l.input[l.pos : l.pos+2]
	}
	switch two {
	case "==", "!=", "<=", ">=":
		l.pos += 2
		return token{kind: tokOp, text: two}, nil
	}
	one := string(l.input[l.pos])
	switch one {
	case "<", ">":
		l.pos++
		return token{kind: tokOp, text: one}, nil
	}
	return token{}, fmt.Errorf("unexpected operator %q at %d", one, l.pos)
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	i := l.pos
	if l.input[i] == '-' {
		i++
	}
	for i < len(l.input) && (l.input[i] >= '0' && l.input[i] <= '9' || l.input[i] == '.') {
		i++
	}
	if i == start || (i == start+1 && l.input[start] == '-') {
		return token{}, fmt.Errorf("malformed number at %d", start)
	}
	l.pos = i
	return token{kind: tokNumber, text: l.input[start:i]}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '.' || c >= '0' && c <= '9'
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	i := l.pos
	for i < len(l.input) && isIdentPart(l.input[i]) {
		i++
	}
	l.pos = i
	word := l.input[start:i]
	switch word {
	case "and":
		return token{kind: tokAnd}, nil
	case "or":
		return token{kind: tokOr}, nil
	case "not":
		return token{kind: tokNot}, nil
	case "true":
		return token{kind: tokTrue}, nil
	case "false":
		return token{kind: tokFalse}, nil
	case "null":
		return token{kind: tokNull}, nil
	}
	return token{kind: tokIdent, text: word}, nil
}

// ---- AST ----

// condNode evaluates against the flattened profile. The second return is
// false when the node touched an unknown or null field, which propagates up
// and triggers the fail-open path.
type condNode interface {
	eval(env map[string]any) (bool, bool)
}

type binaryNode struct {
	op          string // "and" | "or"
	left, right condNode
}

func (n binaryNode) eval(env map[string]any) (bool, bool) {
	lv, lok := n.left.eval(env)
	if !lok {
		return false, false
	}
	rv, rok := n.right.eval(env)
	if !rok {
		return false, false
	}
	if n.op == "and" {
		return lv && rv, true
	}
	return lv || rv, true
}

type notNode struct {
	inner condNode
}

func (n notNode) eval(env map[string]any) (bool, bool) {
	v, ok := n.inner.eval(env)
	if !ok {
		return false, false
	}
	return !v, true
}

type literalNode struct {
	value bool
}

func (n literalNode) eval(map[string]any) (bool, bool) { return n.value, true }

// boolPathNode is a bare dotted path used as a boolean:
// "ties.hasProperty".
type boolPathNode struct {
	path string
}

func (n boolPathNode) eval(env map[string]any) (bool, bool) {
	v, present := env[n.path]
	if !present || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		return false, false
	}
	return b, true
}

type operand struct {
	isPath  bool
	path    string
	num     float64
	str     string
	isStr   bool
	boolVal bool
	isBool  bool
	isNull  bool
}

func (o operand) resolve(env map[string]any) (any, bool) {
	if !o.isPath {
		switch {
		case o.isStr:
			return o.str, true
		case o.isBool:
			return o.boolVal, true
		case o.isNull:
			return nil, true
		default:
			return o.num, true
		}
	}
	v, present := env[o.path]
	if !present {
		return nil, false
	}
	return v, true
}

type compareNode struct {
	op          string
	left, right operand
}

func (n compareNode) eval(env map[string]any) (bool, bool) {
	lv, lok := n.left.resolve(env)
	if !lok {
		return false, false
	}
	rv, rok := n.right.resolve(env)
	if !rok {
		return false, false
	}

	// null comparisons are only meaningful for equality.
	if lv == nil || rv == nil {
		switch n.op {
		case "==":
			return lv == nil && rv == nil, true
		case "!=":
			return (lv == nil) != (rv == nil), true
		default:
			return false, false
		}
	}

	if ls, ok := lv.(string); ok {
		rs, ok := rv.(string)
		if !ok {
			return false, false
		}
		switch n.op {
		case "==":
			return ls == rs, true
		case "!=":
			return ls != rs, true
		default:
			return false, false
		}
	}
	if lb, ok := lv.(bool); ok {
		rb, ok := rv.(bool)
		if !ok {
			return false, false
		}
		switch n.op {
		case "==":
			return lb == rb, true
		case "!=":
			return lb != rb, true
		default:
			return false, false
		}
	}

	lf, lok2 := toFloat(lv)
	rf, rok2 := toFloat(rv)
	if !lok2 || !rok2 {
		return false, false
	}
	switch n.op {
	case "==":
		return lf == rf, true
	case "!=":
		return lf != rf, true
	case "<":
		return lf < rf, true
	case "<=":
		return lf <= rf, true
	case ">":
		return lf > rf, true
	case ">=":
		return lf >= rf, true
	}
	return false, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ---- parser ----

type parser struct {
	lex *lexer
	cur token
	err error
}

func parseCondition(input string) (condNode, error) {
	p := &parser{lex: &lexer{input: input}}
	p.advance()
	if p.err != nil {
		return nil, p.err
	}
	node := p.parseOr()
	if p.err != nil {
		return nil, p.err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("trailing input after expression")
	}
	return node, nil
}

func (p *parser) advance() {
	if p.err != nil {
		return
	}
	tok, err := p.lex.next()
	if err != nil {
		p.err = err
		return
	}
	p.cur = tok
}

func (p *parser) parseOr() condNode {
	left := p.parseAnd()
	for p.err == nil && p.cur.kind == tokOr {
		p.advance()
		right := p.parseAnd()
		left = binaryNode{op: "or", left: left, right: right}
	}
	return left
}

func (p *parser) parseAnd() condNode {
	left := p.parseUnary()
	for p.err == nil && p.cur.kind == tokAnd {
		p.advance()
		right := p.parseUnary()
		left = binaryNode{op: "and", left: left, right: right}
	}
	return left
}

func (p *parser) parseUnary() condNode {
	if p.cur.kind == tokNot {
		p.advance()
		return notNode{inner: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() condNode {
	switch p.cur.kind {
	case tokLParen:
		p.advance()
		node := p.parseOr()
		if p.err == nil && p.cur.kind != tokRParen {
			p.err = fmt.Errorf("missing closing parenthesis")
			return literalNode{}
		}
		p.advance()
		return node
	case tokTrue:
		p.advance()
		return literalNode{value: true}
	case tokFalse:
		p.advance()
		return literalNode{value: false}
	case tokIdent, tokNumber, tokString, tokNull:
		return p.parseComparison()
	default:
		p.err = fmt.Errorf("unexpected token")
		return literalNode{}
	}
}

// parseComparison handles "operand op operand" and the bare boolean path.
func (p *parser) parseComparison() condNode {
	left, ok := p.parseOperand()
	if !ok {
		return literalNode{}
	}
	if p.cur.kind != tokOp {
		if left.isPath {
			return boolPathNode{path: left.path}
		}
		p.err = fmt.Errorf("literal without comparison operator")
		return literalNode{}
	}
	op := p.cur.text
	p.advance()
	right, ok := p.parseOperand()
	if !ok {
		return literalNode{}
	}
	return compareNode{op: op, left: left, right: right}
}

func (p *parser) parseOperand() (operand, bool) {
	switch p.cur.kind {
	case tokIdent:
		o := operand{isPath: true, path: p.cur.text}
		p.advance()
		return o, true
	case tokNumber:
		f, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			p.err = fmt.Errorf("malformed number %q", p.cur.text)
			return operand{}, false
		}
		p.advance()
		return operand{num: f}, true
	case tokString:
		o := operand{str: p.cur.text, isStr: true}
		p.advance()
		return o, true
	case tokTrue:
		p.advance()
		return operand{boolVal: true, isBool: true}, true
	case tokFalse:
		p.advance()
		return operand{isBool: true}, true
	case tokNull:
		p.advance()
		return operand{isNull: true}, true
	default:
		p.err = fmt.Errorf("expected operand")
		return operand{}, false
	}
}
