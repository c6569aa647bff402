package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoRootElement is returned when no element can be found to transform
var ErrNoRootElement = errors.New("no root element found")

// ModelNode is one node of the neutral page model. Map descriptors carry
// Type "map" with ArraySource and CallbackSource instead of an element.
type ModelNode struct {
	ID             string                 `json:"id,omitempty"`
	Type           string                 `json:"type"`
	Parent         *string                `json:"parent"`
	ClassName      string                 `json:"className,omitempty"`
	Style          map[string]interface{} `json:"style,omitempty"`
	Attributes     map[string]interface{} `json:"attributes,omitempty"`
	ComponentInfo  *ComponentInfo         `json:"componentInfo,omitempty"`
	TextContent    string                 `json:"textContent,omitempty"`
	Children       []*ModelNode           `json:"children,omitempty"`
	ArraySource    string                 `json:"arraySource,omitempty"`
	CallbackSource string                 `json:"callbackSource,omitempty"`
}

// scope binds iteration parameters to the literal item being rendered
type scope struct {
	name   string
	value  interface{}
	parent *scope
}

func (s *scope) lookup(name string) (interface{}, bool) {
	for c := s; c != nil; c = c.parent {
		if c.name == name {
			return c.value, true
		}
	}
	return nil, false
}

// Transformer converts markup into ModelNodes. Generated ids are unique
// within one Transform call. A Transformer is not safe for concurrent use.
type Transformer struct {
	registry *ComponentRegistry
	literals map[string]interface{}
	counter  int
}

// NewTransformer creates a transformer; a nil registry uses the defaults
func NewTransformer(registry *ComponentRegistry) *Transformer {
	if registry == nil {
		registry = NewComponentRegistry()
	}
	return &Transformer{registry: registry}
}

// Transform locates the markup a program renders (a component's return
// value, or a top-level markup expression) and converts it. Literal arrays
// declared before it are available to .map() simulation.
func (t *Transformer) Transform(prog *Program) (*ModelNode, error) {
	pre, root := findRender(prog.Body)
	if root == nil {
		return nil, ErrNoRootElement
	}
	return t.TransformNode(root.Node, ExtractLiterals(pre))
}

// TransformNode converts a single markup tree. A fragment root resolves to
// its first element child.
func (t *Transformer) TransformNode(n Node, literals map[string]interface{}) (*ModelNode, error) {
	el := firstElement(n)
	if el == nil {
		return nil, ErrNoRootElement
	}
	if literals == nil {
		literals = map[string]interface{}{}
	}
	t.literals = literals
	t.counter = 0
	return t.element(el, nil, nil), nil
}

// findRender returns the statements preceding the rendered markup and the
// markup itself
func findRender(stmts []Statement) ([]Statement, *ElementExpr) {
	for i, s := range stmts {
		switch v := s.(type) {
		case *Return:
			if root, ok := v.Arg.(*ElementExpr); ok {
				return stmts[:i], root
			}
		case *ExprStmt:
			if root, ok := v.Expr.(*ElementExpr); ok {
				return stmts[:i], root
			}
			if fn, ok := v.Expr.(*Arrow); ok {
				if pre, root := renderOf(fn); root != nil {
					return concat(stmts[:i], pre), root
				}
			}
		case *FuncDecl:
			if pre, root := findRender(v.Body); root != nil {
				return concat(stmts[:i], pre), root
			}
		case *VarDecl:
			for _, d := range v.Decls {
				if fn, ok := d.Init.(*Arrow); ok {
					if pre, root := renderOf(fn); root != nil {
						return concat(stmts[:i], pre), root
					}
				}
			}
		}
	}
	return nil, nil
}

func renderOf(fn *Arrow) ([]Statement, *ElementExpr) {
	if fn.Block != nil {
		return findRender(fn.Block)
	}
	if root, ok := fn.Body.(*ElementExpr); ok {
		return nil, root
	}
	return nil, nil
}

func concat(a, b []Statement) []Statement {
	out := make([]Statement, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func firstElement(n Node) *Element {
	switch v := n.(type) {
	case *Element:
		return v
	case *Fragment:
		for _, c := range v.Children {
			if el := firstElement(c); el != nil {
				return el
			}
		}
	case *ExpressionContainer:
		if e, ok := v.Expr.(*ElementExpr); ok {
			return firstElement(e.Node)
		}
	}
	return nil
}

func (t *Transformer) element(el *Element, parent *string, sc *scope) *ModelNode {
	m := &ModelNode{
		Type:          el.Name,
		Parent:        parent,
		ComponentInfo: t.registry.Lookup(el.Name),
	}

	for _, a := range el.Attributes {
		if a.Name != "id" || a.Value == nil {
			continue
		}
		if s, ok := primitiveText(t.attrValue(a.Value, sc)); ok && s != "" && !isOpaque(s) {
			m.ID = s
		}
	}
	if m.ID == "" {
		t.counter++
		m.ID = fmt.Sprintf("%s-%d", strings.ToLower(el.Name), t.counter)
	}

	for _, a := range el.Attributes {
		if a.Spread != nil {
			src := Print(a.Spread)
			m.setAttribute("..."+src, "{..."+src+"}")
			continue
		}
		switch a.Name {
		case "id", "key":
		case "className", "class":
			m.ClassName = fmt.Sprint(t.attrValue(a.Value, sc))
		case "style":
			if obj, ok := a.Value.(*ObjectLit); ok {
				m.Style = t.styleMap(obj, sc)
				continue
			}
			m.setAttribute(a.Name, t.attrValue(a.Value, sc))
		default:
			m.setAttribute(a.Name, t.attrValue(a.Value, sc))
		}
	}

	id := m.ID
	var text strings.Builder
	m.Children = t.children(el.Children, &id, sc, &text)
	m.TextContent = text.String()
	return m
}

func (m *ModelNode) setAttribute(name string, value interface{}) {
	if m.Attributes == nil {
		m.Attributes = make(map[string]interface{})
	}
	m.Attributes[name] = value
}

// children converts child nodes; text and resolvable expressions are
// appended to text, elements returned in order
func (t *Transformer) children(nodes []Node, parent *string, sc *scope, text *strings.Builder) []*ModelNode {
	var out []*ModelNode
	for _, n := range nodes {
		switch v := n.(type) {
		case *Text:
			text.WriteString(cleanJSXText(v.Value))
		case *Element:
			out = append(out, t.element(v, parent, sc))
		case *Fragment:
			out = append(out, t.children(v.Children, parent, sc, text)...)
		case *ExpressionContainer:
			out = append(out, t.expression(v.Expr, parent, sc, text)...)
		}
	}
	return out
}

func (t *Transformer) expression(e Expr, parent *string, sc *scope, text *strings.Builder) []*ModelNode {
	switch v := e.(type) {
	case nil, *NullLit:
		return nil
	case *ElementExpr:
		return t.children([]Node{v.Node}, parent, sc, text)
	case *Call:
		if nodes, ok := t.simulateMap(v, parent, sc); ok {
			return nodes
		}
		if mem, ok := mapCallee(v); ok {
			return []*ModelNode{{
				Type:           "map",
				Parent:         parent,
				ArraySource:    Print(mem.Object),
				CallbackSource: Print(v.Args[0]),
			}}
		}
	}

	if value, ok := t.eval(e, sc); ok {
		if s, ok := primitiveText(value); ok {
			text.WriteString(s)
			return nil
		}
	}
	text.WriteString("{" + Print(e) + "}")
	return nil
}

func mapCallee(c *Call) (*Member, bool) {
	mem, ok := c.Callee.(*Member)
	if !ok || mem.Computed || len(c.Args) == 0 {
		return nil, false
	}
	if prop, ok := mem.Property.(*Identifier); !ok || prop.Name != "map" {
		return nil, false
	}
	return mem, true
}

// simulateMap unrolls arr.map(cb) when arr is a known literal array, cb
// takes simple identifier parameters and renders exactly one element
func (t *Transformer) simulateMap(c *Call, parent *string, sc *scope) ([]*ModelNode, bool) {
	mem, ok := mapCallee(c)
	if !ok {
		return nil, false
	}
	cb, ok := c.Args[0].(*Arrow)
	if !ok || len(cb.Params) == 0 || len(cb.Params) > 2 {
		return nil, false
	}
	names := make([]string, len(cb.Params))
	for i, p := range cb.Params {
		id, ok := p.(*Identifier)
		if !ok {
			return nil, false
		}
		names[i] = id.Name
	}
	body := callbackElement(cb)
	if body == nil {
		return nil, false
	}
	value, ok := t.eval(mem.Object, sc)
	if !ok {
		return nil, false
	}
	items, ok := value.([]interface{})
	if !ok {
		return nil, false
	}

	out := make([]*ModelNode, 0, len(items))
	for i, item := range items {
		inner := &scope{name: names[0], value: item, parent: sc}
		if len(names) == 2 {
			inner = &scope{name: names[1], value: float64(i), parent: inner}
		}
		out = append(out, t.element(body, parent, inner))
	}
	return out, true
}

func callbackElement(cb *Arrow) *Element {
	body := cb.Body
	if cb.Block != nil {
		if len(cb.Block) != 1 {
			return nil
		}
		ret, ok := cb.Block[0].(*Return)
		if !ok {
			return nil
		}
		body = ret.Arg
	}
	ee, ok := body.(*ElementExpr)
	if !ok {
		return nil
	}
	el, _ := ee.Node.(*Element)
	return el
}

// attrValue resolves an attribute to a literal when possible and to its
// source text in braces otherwise
func (t *Transformer) attrValue(e Expr, sc *scope) interface{} {
	switch v := e.(type) {
	case nil:
		return true
	case *StringLit:
		return v.Value
	case *ElementExpr:
		return PrintNode(v.Node)
	}
	if value, ok := t.eval(e, sc); ok {
		switch value.(type) {
		case string, float64, bool:
			return value
		}
	}
	return "{" + Print(e) + "}"
}

func (t *Transformer) styleMap(obj *ObjectLit, sc *scope) map[string]interface{} {
	style := make(map[string]interface{}, len(obj.Props))
	for _, p := range obj.Props {
		if p.Spread || p.Computed {
			continue
		}
		value := p.Value
		if p.Shorthand {
			value = &Identifier{Name: p.Key}
		}
		style[p.Key] = t.attrValue(value, sc)
	}
	return style
}

func isOpaque(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// eval statically evaluates e against literal data and the item scope
func (t *Transformer) eval(e Expr, sc *scope) (interface{}, bool) {
	switch v := e.(type) {
	case *StringLit:
		return v.Value, true
	case *NumberLit:
		return v.Value, true
	case *BoolLit:
		return v.Value, true
	case *NullLit:
		return nil, true
	case *Identifier:
		if value, ok := sc.lookup(v.Name); ok {
			return value, true
		}
		value, ok := t.literals[v.Name]
		return value, ok
	case *TemplateLit:
		var b strings.Builder
		for i, q := range v.Quasis {
			b.WriteString(q)
			if i < len(v.Exprs) {
				value, ok := t.eval(v.Exprs[i], sc)
				if !ok {
					return nil, false
				}
				s, ok := primitiveText(value)
				if !ok {
					return nil, false
				}
				b.WriteString(s)
			}
		}
		return b.String(), true
	case *Unary:
		value, ok := t.eval(v.Arg, sc)
		if !ok {
			return nil, false
		}
		switch x := value.(type) {
		case float64:
			switch v.Op {
			case "-":
				return -x, true
			case "+":
				return x, true
			}
		case bool:
			if v.Op == "!" {
				return !x, true
			}
		}
		return nil, false
	case *Member:
		obj, ok := t.eval(v.Object, sc)
		if !ok {
			return nil, false
		}
		var key interface{}
		if v.Computed {
			if key, ok = t.eval(v.Property, sc); !ok {
				return nil, false
			}
		} else {
			id, ok := v.Property.(*Identifier)
			if !ok {
				return nil, false
			}
			key = id.Name
		}
		return index(obj, key)
	case *ArrayLit:
		arr := make([]interface{}, 0, len(v.Elements))
		for _, el := range v.Elements {
			value, ok := t.eval(el, sc)
			if !ok {
				return nil, false
			}
			arr = append(arr, value)
		}
		return arr, true
	case *ObjectLit:
		obj := make(map[string]interface{}, len(v.Props))
		for _, p := range v.Props {
			if p.Spread || p.Computed {
				return nil, false
			}
			value := p.Value
			if p.Shorthand {
				value = &Identifier{Name: p.Key}
			}
			val, ok := t.eval(value, sc)
			if !ok {
				return nil, false
			}
			obj[p.Key] = val
		}
		return obj, true
	}
	return nil, false
}

func index(obj, key interface{}) (interface{}, bool) {
	switch o := obj.(type) {
	case map[string]interface{}:
		k, ok := key.(string)
		if !ok {
			if f, isNum := key.(float64); isNum {
				k, ok = strconv.FormatFloat(f, 'f', -1, 64), true
			}
		}
		if !ok {
			return nil, false
		}
		value, found := o[k]
		return value, found
	case []interface{}:
		switch k := key.(type) {
		case float64:
			i := int(k)
			if float64(i) != k || i < 0 || i >= len(o) {
				return nil, false
			}
			return o[i], true
		case string:
			if k == "length" {
				return float64(len(o)), true
			}
		}
	case string:
		if key == "length" {
			return float64(len([]rune(o))), true
		}
	}
	return nil, false
}

func primitiveText(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// cleanJSXText applies the JSX whitespace rules: lines are trimmed where
// they meet a line break, blank lines dropped and the rest joined by spaces
func cleanJSXText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	lastNonEmpty := -1
	for i, line := range lines {
		if strings.Trim(line, " \t") != "" {
			lastNonEmpty = i
		}
	}

	var b strings.Builder
	for i, line := range lines {
		trimmed := strings.ReplaceAll(line, "\t", " ")
		if i > 0 {
			trimmed = strings.TrimLeft(trimmed, " ")
		}
		if i < len(lines)-1 {
			trimmed = strings.TrimRight(trimmed, " ")
		}
		if trimmed == "" {
			continue
		}
		if i != lastNonEmpty {
			trimmed += " "
		}
		b.WriteString(trimmed)
	}
	return b.String()
}
