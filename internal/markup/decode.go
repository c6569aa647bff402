package markup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type object = map[string]interface{}

// DecodeProgram decodes an ESTree or Babel AST serialized as JSON. Both a
// File wrapper and a bare Program are accepted.
func DecodeProgram(data []byte) (*Program, error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode AST: %w", err)
	}
	if typeOf(root) == "File" {
		root = child(root, "program")
	}
	if typeOf(root) != "Program" {
		return nil, fmt.Errorf("expected Program node, got %q", typeOf(root))
	}

	body, err := decodeStatements(list(root, "body"))
	if err != nil {
		return nil, err
	}
	return &Program{Body: body}, nil
}

// DecodeNode decodes a single JSX element or fragment serialized as JSON
func DecodeNode(data []byte) (Node, error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode AST: %w", err)
	}
	if t := typeOf(root); t == "ExpressionStatement" || t == "ParenthesizedExpression" {
		root = child(root, "expression")
	}
	return decodeNode(root)
}

func typeOf(m object) string {
	s, _ := m["type"].(string)
	return s
}

func child(m object, key string) object {
	c, _ := m[key].(object)
	return c
}

func list(m object, key string) []interface{} {
	l, _ := m[key].([]interface{})
	return l
}

func str(m object, key string) string {
	s, _ := m[key].(string)
	return s
}

func flag(m object, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func decodeStatements(raw []interface{}) ([]Statement, error) {
	out := make([]Statement, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(object)
		if !ok {
			continue
		}
		stmt, err := decodeStatement(m)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeStatement(m object) (Statement, error) {
	switch typeOf(m) {
	case "VariableDeclaration":
		decl := &VarDecl{Kind: str(m, "kind")}
		for _, r := range list(m, "declarations") {
			d, ok := r.(object)
			if !ok {
				continue
			}
			id := child(d, "id")
			var init Expr
			if i := child(d, "init"); i != nil {
				var err error
				if init, err = decodeExpr(i); err != nil {
					return nil, err
				}
			}
			decl.Decls = append(decl.Decls, Declarator{
				Name:    str(id, "name"),
				Pattern: typeOf(id) != "Identifier",
				Init:    init,
			})
		}
		return decl, nil

	case "FunctionDeclaration":
		params, err := decodeExprs(list(m, "params"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(list(child(m, "body"), "body"))
		if err != nil {
			return nil, err
		}
		return &FuncDecl{Name: str(child(m, "id"), "name"), Params: params, Body: body}, nil

	case "ExportDefaultDeclaration", "ExportNamedDeclaration":
		decl := child(m, "declaration")
		if decl == nil {
			return &UnknownStmt{Type: typeOf(m)}, nil
		}
		if strings.HasSuffix(typeOf(decl), "Declaration") {
			return decodeStatement(decl)
		}
		// export default <expression>
		e, err := decodeExpr(decl)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: e}, nil

	case "ReturnStatement":
		ret := &Return{}
		if arg := child(m, "argument"); arg != nil {
			e, err := decodeExpr(arg)
			if err != nil {
				return nil, err
			}
			ret.Arg = e
		}
		return ret, nil

	case "ExpressionStatement":
		e, err := decodeExpr(child(m, "expression"))
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: e}, nil

	default:
		return &UnknownStmt{Type: typeOf(m)}, nil
	}
}

func decodeExprs(raw []interface{}) ([]Expr, error) {
	out := make([]Expr, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(object)
		if !ok {
			out = append(out, nil)
			continue
		}
		e, err := decodeExpr(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeExpr(m object) (Expr, error) {
	if m == nil {
		return nil, fmt.Errorf("missing expression node")
	}

	switch t := typeOf(m); t {
	case "Identifier":
		return &Identifier{Name: str(m, "name")}, nil
	case "StringLiteral":
		return &StringLit{Value: str(m, "value")}, nil
	case "NumericLiteral":
		return numberLit(m), nil
	case "BooleanLiteral":
		return &BoolLit{Value: flag(m, "value")}, nil
	case "NullLiteral":
		return &NullLit{}, nil
	case "Literal":
		// ESTree folds every literal kind into one node type
		if _, isRegex := m["regex"]; isRegex {
			return &Unsupported{Type: "RegExpLiteral"}, nil
		}
		switch v := m["value"].(type) {
		case string:
			return &StringLit{Value: v}, nil
		case float64:
			return numberLit(m), nil
		case bool:
			return &BoolLit{Value: v}, nil
		case nil:
			return &NullLit{}, nil
		}
		return &Unsupported{Type: t}, nil

	case "TemplateLiteral":
		tl := &TemplateLit{}
		for _, q := range list(m, "quasis") {
			qm, _ := q.(object)
			value := child(qm, "value")
			cooked, ok := value["cooked"].(string)
			if !ok {
				cooked = str(value, "raw")
			}
			tl.Quasis = append(tl.Quasis, cooked)
		}
		exprs, err := decodeExprs(list(m, "expressions"))
		if err != nil {
			return nil, err
		}
		tl.Exprs = exprs
		return tl, nil

	case "ArrayExpression":
		elems, err := decodeExprs(list(m, "elements"))
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Elements: elems}, nil

	case "ObjectExpression":
		obj := &ObjectLit{}
		for _, r := range list(m, "properties") {
			pm, ok := r.(object)
			if !ok {
				continue
			}
			prop, err := decodeProperty(pm)
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, prop)
		}
		return obj, nil

	case "MemberExpression", "OptionalMemberExpression":
		obj, err := decodeExpr(child(m, "object"))
		if err != nil {
			return nil, err
		}
		prop, err := decodeExpr(child(m, "property"))
		if err != nil {
			return nil, err
		}
		return &Member{Object: obj, Property: prop, Computed: flag(m, "computed"), Optional: flag(m, "optional")}, nil

	case "CallExpression", "OptionalCallExpression":
		callee, err := decodeExpr(child(m, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(list(m, "arguments"))
		if err != nil {
			return nil, err
		}
		return &Call{Callee: callee, Args: args, Optional: flag(m, "optional")}, nil

	case "ArrowFunctionExpression", "FunctionExpression":
		params, err := decodeExprs(list(m, "params"))
		if err != nil {
			return nil, err
		}
		body := child(m, "body")
		if typeOf(body) == "BlockStatement" {
			block, err := decodeStatements(list(body, "body"))
			if err != nil {
				return nil, err
			}
			return &Arrow{Params: params, Block: block}, nil
		}
		b, err := decodeExpr(body)
		if err != nil {
			return nil, err
		}
		return &Arrow{Params: params, Body: b}, nil

	case "UnaryExpression":
		arg, err := decodeExpr(child(m, "argument"))
		if err != nil {
			return nil, err
		}
		return &Unary{Op: str(m, "operator"), Arg: arg}, nil

	case "BinaryExpression", "LogicalExpression":
		left, err := decodeExpr(child(m, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(child(m, "right"))
		if err != nil {
			return nil, err
		}
		return &Binary{Op: str(m, "operator"), Left: left, Right: right}, nil

	case "ConditionalExpression":
		parts := make([]Expr, 3)
		for i, key := range []string{"test", "consequent", "alternate"} {
			e, err := decodeExpr(child(m, key))
			if err != nil {
				return nil, err
			}
			parts[i] = e
		}
		return &Conditional{Test: parts[0], Consequent: parts[1], Alternate: parts[2]}, nil

	case "SpreadElement", "RestElement":
		arg, err := decodeExpr(child(m, "argument"))
		if err != nil {
			return nil, err
		}
		return &Spread{Arg: arg}, nil

	case "ParenthesizedExpression", "TSAsExpression", "TSNonNullExpression", "TSSatisfiesExpression":
		return decodeExpr(child(m, "expression"))

	case "JSXElement", "JSXFragment":
		n, err := decodeNode(m)
		if err != nil {
			return nil, err
		}
		return &ElementExpr{Node: n}, nil

	default:
		return &Unsupported{Type: t}, nil
	}
}

func numberLit(m object) *NumberLit {
	v, _ := m["value"].(float64)
	raw := str(m, "raw")
	if raw == "" {
		raw = str(child(m, "extra"), "raw")
	}
	if raw == "" {
		raw = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return &NumberLit{Value: v, Raw: raw}
}

func decodeProperty(m object) (Property, error) {
	if t := typeOf(m); t == "SpreadElement" || t == "SpreadProperty" {
		arg, err := decodeExpr(child(m, "argument"))
		if err != nil {
			return Property{}, err
		}
		return Property{Spread: true, Value: arg}, nil
	}

	prop := Property{Computed: flag(m, "computed"), Shorthand: flag(m, "shorthand")}
	key := child(m, "key")
	if prop.Computed {
		k, err := decodeExpr(key)
		if err != nil {
			return Property{}, err
		}
		prop.KeyExpr = k
	} else {
		switch typeOf(key) {
		case "Identifier":
			prop.Key = str(key, "name")
		default:
			k, err := decodeExpr(key)
			if err != nil {
				return Property{}, err
			}
			switch lit := k.(type) {
			case *StringLit:
				prop.Key = lit.Value
			case *NumberLit:
				prop.Key = lit.Raw
			default:
				return Property{}, fmt.Errorf("unsupported property key %q", typeOf(key))
			}
		}
	}

	value := child(m, "value")
	if typeOf(m) == "ObjectMethod" || value == nil {
		prop.Value = &Unsupported{Type: typeOf(m)}
		return prop, nil
	}
	v, err := decodeExpr(value)
	if err != nil {
		return Property{}, err
	}
	prop.Value = v
	return prop, nil
}

func decodeNode(m object) (Node, error) {
	switch t := typeOf(m); t {
	case "JSXElement":
		opening := child(m, "openingElement")
		el := &Element{
			Name:        jsxName(child(opening, "name")),
			SelfClosing: flag(opening, "selfClosing"),
		}
		for _, r := range list(opening, "attributes") {
			am, ok := r.(object)
			if !ok {
				continue
			}
			attr, err := decodeAttribute(am)
			if err != nil {
				return nil, err
			}
			el.Attributes = append(el.Attributes, attr)
		}
		children, err := decodeChildren(list(m, "children"))
		if err != nil {
			return nil, err
		}
		el.Children = children
		return el, nil

	case "JSXFragment":
		children, err := decodeChildren(list(m, "children"))
		if err != nil {
			return nil, err
		}
		return &Fragment{Children: children}, nil

	case "JSXText":
		return &Text{Value: str(m, "value")}, nil

	case "JSXExpressionContainer":
		expr := child(m, "expression")
		if typeOf(expr) == "JSXEmptyExpression" {
			return &ExpressionContainer{}, nil
		}
		e, err := decodeExpr(expr)
		if err != nil {
			return nil, err
		}
		return &ExpressionContainer{Expr: e}, nil

	case "JSXSpreadChild":
		e, err := decodeExpr(child(m, "expression"))
		if err != nil {
			return nil, err
		}
		return &ExpressionContainer{Expr: &Spread{Arg: e}}, nil

	default:
		return nil, fmt.Errorf("unexpected markup node %q", t)
	}
}

func decodeChildren(raw []interface{}) ([]Node, error) {
	out := make([]Node, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(object)
		if !ok {
			continue
		}
		n, err := decodeNode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeAttribute(m object) (Attribute, error) {
	if typeOf(m) == "JSXSpreadAttribute" {
		arg, err := decodeExpr(child(m, "argument"))
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{Spread: arg}, nil
	}

	attr := Attribute{Name: jsxName(child(m, "name"))}
	value := child(m, "value")
	if value == nil {
		return attr, nil
	}
	switch typeOf(value) {
	case "JSXExpressionContainer":
		expr := child(value, "expression")
		if typeOf(expr) == "JSXEmptyExpression" {
			return attr, nil
		}
		e, err := decodeExpr(expr)
		if err != nil {
			return Attribute{}, err
		}
		attr.Value = e
	default:
		e, err := decodeExpr(value)
		if err != nil {
			return Attribute{}, err
		}
		attr.Value = e
	}
	return attr, nil
}

func jsxName(m object) string {
	switch typeOf(m) {
	case "JSXIdentifier":
		return str(m, "name")
	case "JSXMemberExpression":
		return jsxName(child(m, "object")) + "." + jsxName(child(m, "property"))
	case "JSXNamespacedName":
		return jsxName(child(m, "namespace")) + ":" + jsxName(child(m, "name"))
	}
	return ""
}
