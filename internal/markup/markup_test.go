package markup

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func el(name string, attrs []Attribute, children ...Node) *Element {
	return &Element{Name: name, Attributes: attrs, Children: children}
}

func text(s string) *Text { return &Text{Value: s} }

func slot(e Expr) *ExpressionContainer { return &ExpressionContainer{Expr: e} }

func ident(name string) *Identifier { return &Identifier{Name: name} }

func strLit(s string) *StringLit { return &StringLit{Value: s} }

func member(obj Expr, prop string) *Member {
	return &Member{Object: obj, Property: ident(prop)}
}

func mapCall(array Expr, params []Expr, body Expr) *Call {
	return &Call{Callee: member(array, "map"), Args: []Expr{&Arrow{Params: params, Body: body}}}
}

func obj(props ...Property) *ObjectLit { return &ObjectLit{Props: props} }

func prop(key string, value Expr) Property { return Property{Key: key, Value: value} }

func constDecl(name string, init Expr) *VarDecl {
	return &VarDecl{Kind: "const", Decls: []Declarator{{Name: name, Init: init}}}
}

func itemsDecl() *VarDecl {
	return constDecl("items", &ArrayLit{Elements: []Expr{
		obj(prop("label", strLit("A"))),
		obj(prop("label", strLit("B"))),
	}})
}

func TestExtractLiterals(t *testing.T) {
	stmts := []Statement{
		itemsDecl(),
		constDecl("nums", &ArrayLit{Elements: []Expr{
			&NumberLit{Value: 1, Raw: "1"},
			&Unary{Op: "-", Arg: &NumberLit{Value: 2, Raw: "2"}},
			&BoolLit{Value: true},
			&NullLit{},
			&ArrayLit{Elements: []Expr{strLit("x")}},
		}}),
		constDecl("dynamic", &ArrayLit{Elements: []Expr{&Call{Callee: ident("load")}}}),
		constDecl("ref", &ArrayLit{Elements: []Expr{ident("other")}}),
		constDecl("notArray", obj(prop("a", strLit("b")))),
		constDecl("computed", &ArrayLit{Elements: []Expr{
			&ObjectLit{Props: []Property{{KeyExpr: ident("k"), Computed: true, Value: strLit("v")}}},
		}}),
		&VarDecl{Kind: "let", Decls: []Declarator{{Name: "mutable", Init: &ArrayLit{}}}},
		&VarDecl{Kind: "const", Decls: []Declarator{{Pattern: true, Init: &ArrayLit{}}}},
	}

	got := ExtractLiterals(stmts)

	assert.Equal(t, map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"label": "A"},
			map[string]interface{}{"label": "B"},
		},
		"nums": []interface{}{1.0, -2.0, true, nil, []interface{}{"x"}},
	}, got)
}

func TestTransformSimulatesMap(t *testing.T) {
	li := &ElementExpr{Node: el("li", nil, slot(member(ident("item"), "label")))}
	root := el("ul", nil, slot(mapCall(ident("items"), []Expr{ident("item")}, li)))

	prog := &Program{Body: []Statement{
		itemsDecl(),
		&FuncDecl{Name: "List", Body: []Statement{&Return{Arg: &ElementExpr{Node: root}}}},
	}}

	model, err := NewTransformer(nil).Transform(prog)
	require.NoError(t, err)

	assert.Equal(t, "ul-1", model.ID)
	assert.Nil(t, model.Parent)
	require.Len(t, model.Children, 2)
	for i, want := range []string{"A", "B"} {
		child := model.Children[i]
		assert.Equal(t, "li", child.Type)
		assert.Equal(t, want, child.TextContent)
		require.NotNil(t, child.Parent)
		assert.Equal(t, "ul-1", *child.Parent)
	}
	assert.Equal(t, "li-2", model.Children[0].ID)
	assert.Equal(t, "li-3", model.Children[1].ID)
}

func TestTransformDecodedProgram(t *testing.T) {
	data, err := os.ReadFile("testdata/list.json")
	require.NoError(t, err)

	prog, err := DecodeProgram(data)
	require.NoError(t, err)
	assert.Contains(t, ExtractLiterals(prog.Body), "items")
	assert.NotContains(t, ExtractLiterals(prog.Body), "links")

	model, err := NewTransformer(nil).Transform(prog)
	require.NoError(t, err)

	assert.Equal(t, "ul", model.Type)
	assert.Equal(t, "list", model.ClassName)
	assert.Empty(t, model.TextContent)
	require.Len(t, model.Children, 2)
	assert.Equal(t, "A", model.Children[0].TextContent)
	assert.Equal(t, "B", model.Children[1].TextContent)

	out, err := json.Marshal(model)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"map"`)
}

func TestTransformMapFallback(t *testing.T) {
	li := &ElementExpr{Node: el("li", nil, slot(member(ident("item"), "label")))}
	tests := []struct {
		name     string
		call     *Call
		callback string
	}{
		{
			name:     "unknown array",
			call:     mapCall(ident("remote"), []Expr{ident("item")}, li),
			callback: "(item) => <li>{item.label}</li>",
		},
		{
			name:     "destructured parameter",
			call:     mapCall(ident("items"), []Expr{obj(Property{Key: "label", Shorthand: true, Value: ident("label")})}, li),
			callback: "({ label }) => <li>{item.label}</li>",
		},
		{
			name:     "body is not an element",
			call:     mapCall(ident("items"), []Expr{ident("item")}, member(ident("item"), "label")),
			callback: "(item) => item.label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := el("ul", nil, slot(tt.call))
			model, err := NewTransformer(nil).TransformNode(root, map[string]interface{}{
				"items": []interface{}{map[string]interface{}{"label": "A"}},
			})
			require.NoError(t, err)

			require.Len(t, model.Children, 1)
			m := model.Children[0]
			assert.Equal(t, "map", m.Type)
			assert.Equal(t, Print(tt.call.Callee.(*Member).Object), m.ArraySource)
			assert.Equal(t, tt.callback, m.CallbackSource)
			require.NotNil(t, m.Parent)
			assert.Equal(t, "ul-1", *m.Parent)
			assert.Empty(t, m.ID)
		})
	}
}

func TestTransformTextContent(t *testing.T) {
	root := el("p", nil,
		text("\n    Hello,   "),
		slot(strLit("dear ")),
		slot(ident("name")),
		text("!\n  "),
		slot(&NumberLit{Value: 3, Raw: "3"}),
		slot(nil),
	)

	model, err := NewTransformer(nil).TransformNode(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello,   dear {name}!3", model.TextContent)
	assert.Empty(t, model.Children)
}

func TestTransformItemFieldFallsBackToSource(t *testing.T) {
	card := &ElementExpr{Node: el("div", nil,
		slot(member(ident("item"), "title")),
		text(" - "),
		slot(member(ident("item"), "tags")),
		text(" - "),
		slot(member(ident("item"), "missing")),
	)}
	root := el("section", nil, slot(mapCall(ident("cards"), []Expr{ident("item")}, card)))

	model, err := NewTransformer(nil).TransformNode(root, map[string]interface{}{
		"cards": []interface{}{map[string]interface{}{"title": "One", "tags": []interface{}{"a"}}},
	})
	require.NoError(t, err)

	require.Len(t, model.Children, 1)
	assert.Equal(t, "One - {item.tags} - {item.missing}", model.Children[0].TextContent)
}

func TestTransformAttributes(t *testing.T) {
	root := el("Link", []Attribute{
		{Name: "id", Value: strLit("hero")},
		{Name: "href", Value: strLit("/about")},
		{Name: "className", Value: strLit("btn primary")},
		{Name: "style", Value: obj(prop("color", strLit("red")), prop("fontSize", &NumberLit{Value: 12, Raw: "12"}))},
		{Name: "disabled"},
		{Name: "onClick", Value: ident("handleClick")},
		{Name: "key", Value: strLit("k")},
		{Spread: ident("rest")},
	}, text("About"))

	model, err := NewTransformer(nil).TransformNode(root, nil)
	require.NoError(t, err)

	assert.Equal(t, "hero", model.ID)
	assert.Equal(t, "Link", model.Type)
	assert.Equal(t, "btn primary", model.ClassName)
	assert.Equal(t, map[string]interface{}{"color": "red", "fontSize": 12.0}, model.Style)
	assert.Equal(t, map[string]interface{}{
		"href":     "/about",
		"disabled": true,
		"onClick":  "{handleClick}",
		"...rest":  "{...rest}",
	}, model.Attributes)
	assert.Equal(t, &ComponentInfo{Name: "Link", ImportPath: "next/link"}, model.ComponentInfo)
	assert.Equal(t, "About", model.TextContent)
}

func TestTransformIDs(t *testing.T) {
	root := el("div", nil,
		el("Card", []Attribute{{Name: "id", Value: strLit("")}}),
		el("span", []Attribute{{Name: "id", Value: strLit("custom")}}),
		el("IMG", nil),
	)

	tr := NewTransformer(nil)
	model, err := tr.TransformNode(root, nil)
	require.NoError(t, err)

	ids := []string{model.ID}
	for _, c := range model.Children {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"div-1", "card-2", "custom", "img-3"}, ids)

	again, err := tr.TransformNode(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "div-1", again.ID)
}

func TestTransformNumericIDs(t *testing.T) {
	items := constDecl("items", &ArrayLit{Elements: []Expr{
		obj(prop("id", &NumberLit{Value: 1, Raw: "1"})),
		obj(prop("id", &NumberLit{Value: 2.5, Raw: "2.5"})),
	}})
	li := &ElementExpr{Node: el("li", []Attribute{{Name: "id", Value: member(ident("item"), "id")}})}
	root := el("ul", nil, slot(mapCall(ident("items"), []Expr{ident("item")}, li)))

	prog := &Program{Body: []Statement{
		items,
		&FuncDecl{Name: "List", Body: []Statement{&Return{Arg: &ElementExpr{Node: root}}}},
	}}

	model, err := NewTransformer(nil).Transform(prog)
	require.NoError(t, err)
	require.Len(t, model.Children, 2)
	assert.Equal(t, "1", model.Children[0].ID)
	assert.Equal(t, "2.5", model.Children[1].ID)
	assert.NotContains(t, model.Children[0].Attributes, "id")
}

func TestTransformFragmentRoot(t *testing.T) {
	frag := &Fragment{Children: []Node{
		text("\n  "),
		&Fragment{Children: []Node{el("header", nil, text("Top"))}},
		el("main", nil),
	}}

	model, err := NewTransformer(nil).TransformNode(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "header", model.Type)
	assert.Equal(t, "Top", model.TextContent)
}

func TestTransformNoRootElement(t *testing.T) {
	_, err := NewTransformer(nil).TransformNode(&Fragment{Children: []Node{text("just text")}}, nil)
	assert.ErrorIs(t, err, ErrNoRootElement)

	_, err = NewTransformer(nil).Transform(&Program{Body: []Statement{constDecl("x", &ArrayLit{})}})
	assert.ErrorIs(t, err, ErrNoRootElement)
}

func TestTransformNestedMapsAndIndex(t *testing.T) {
	inner := &ElementExpr{Node: el("span", nil, slot(ident("tag")), text(" of "), slot(member(ident("group"), "name")))}
	outer := &ElementExpr{Node: el("li", []Attribute{{Name: "data-index", Value: ident("i")}},
		slot(mapCall(member(ident("group"), "tags"), []Expr{ident("tag")}, inner)),
	)}
	root := el("ul", nil, slot(mapCall(ident("groups"), []Expr{ident("group"), ident("i")}, outer)))

	model, err := NewTransformer(nil).TransformNode(root, map[string]interface{}{
		"groups": []interface{}{
			map[string]interface{}{"name": "G1", "tags": []interface{}{"x", "y"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, model.Children, 1)
	li := model.Children[0]
	assert.Equal(t, 0.0, li.Attributes["data-index"])
	require.Len(t, li.Children, 2)
	assert.Equal(t, "x of G1", li.Children[0].TextContent)
	assert.Equal(t, "y of G1", li.Children[1].TextContent)
	assert.Equal(t, li.ID, *li.Children[1].Parent)
}

func TestComponentRegistry(t *testing.T) {
	r := NewComponentRegistry()

	assert.Nil(t, r.Lookup("div"))
	assert.Equal(t, &ComponentInfo{Name: "Image", ImportPath: "next/image"}, r.Lookup("Image"))
	assert.Equal(t, &ComponentInfo{Name: "Fragment", ImportPath: "react"}, r.Lookup("Fragment"))
	assert.Equal(t, &ComponentInfo{Name: "DatePicker", ImportPath: "@/components/ui/date-picker", IsLocal: true}, r.Lookup("DatePicker"))
	assert.Equal(t, &ComponentInfo{Name: "UIButton", ImportPath: "@/components/ui/ui-button", IsLocal: true}, r.Lookup("UIButton"))
	assert.Equal(t, &ComponentInfo{Name: "Tabs.Panel", ImportPath: "@/components/ui/tabs", IsLocal: true}, r.Lookup("Tabs.Panel"))

	r.Register(ComponentInfo{Name: "Tabs", ImportPath: "@radix-ui/react-tabs"})
	assert.Equal(t, &ComponentInfo{Name: "Tabs.Panel", ImportPath: "@radix-ui/react-tabs"}, r.Lookup("Tabs.Panel"))
}

func TestPrint(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{member(ident("item"), "label"), "item.label"},
		{&Member{Object: ident("a"), Property: strLit("b-c"), Computed: true}, `a["b-c"]`},
		{&Binary{Op: "*", Left: &Binary{Op: "+", Left: ident("a"), Right: ident("b")}, Right: ident("c")}, "(a + b) * c"},
		{&Binary{Op: "-", Left: ident("a"), Right: &Binary{Op: "-", Left: ident("b"), Right: ident("c")}}, "a - (b - c)"},
		{&Conditional{Test: ident("ok"), Consequent: strLit("y"), Alternate: &NullLit{}}, `ok ? "y" : null`},
		{&Unary{Op: "typeof", Arg: ident("x")}, "typeof x"},
		{&TemplateLit{Quasis: []string{"Hi ", "!"}, Exprs: []Expr{ident("name")}}, "`Hi ${name}!`"},
		{obj(prop("a", &NumberLit{Value: 1, Raw: "1"}), prop("b-c", &ArrayLit{Elements: []Expr{&BoolLit{Value: true}}})), `{ a: 1, "b-c": [true] }`},
		{&Arrow{Params: []Expr{ident("x")}, Body: obj()}, "(x) => ({})"},
		{&Arrow{Params: []Expr{ident("x")}, Block: []Statement{&Return{Arg: ident("x")}}}, "(x) => { return x; }"},
		{&Call{Callee: member(ident("list"), "filter"), Args: []Expr{ident("Boolean")}}, "list.filter(Boolean)"},
		{&ElementExpr{Node: el("img", []Attribute{{Name: "alt", Value: strLit(`say "hi"`)}, {Name: "src", Value: ident("url")}})}, `<img alt="say &quot;hi&quot;" src={url} />`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.expr))
		})
	}
}

func TestDecodeNodeESTree(t *testing.T) {
	data := []byte(`{
		"type": "JSXFragment",
		"children": [
			{"type": "JSXText", "value": "\n"},
			{
				"type": "JSXElement",
				"openingElement": {
					"type": "JSXOpeningElement",
					"selfClosing": true,
					"name": {"type": "JSXMemberExpression",
						"object": {"type": "JSXIdentifier", "name": "motion"},
						"property": {"type": "JSXIdentifier", "name": "div"}},
					"attributes": [
						{"type": "JSXAttribute", "name": {"type": "JSXIdentifier", "name": "tabIndex"},
						 "value": {"type": "JSXExpressionContainer", "expression": {"type": "Literal", "value": 2, "raw": "2"}}},
						{"type": "JSXAttribute", "name": {"type": "JSXIdentifier", "name": "hidden"}, "value": null},
						{"type": "JSXSpreadAttribute", "argument": {"type": "Identifier", "name": "props"}}
					]
				},
				"children": []
			}
		]
	}`)

	node, err := DecodeNode(data)
	require.NoError(t, err)

	frag, ok := node.(*Fragment)
	require.True(t, ok)
	require.Len(t, frag.Children, 2)
	e, ok := frag.Children[1].(*Element)
	require.True(t, ok)
	assert.Equal(t, "motion.div", e.Name)
	assert.True(t, e.SelfClosing)
	assert.Equal(t, "<motion.div tabIndex={2} hidden {...props} />", PrintNode(e))

	model, err := NewTransformer(nil).TransformNode(node, nil)
	require.NoError(t, err)
	assert.Equal(t, "motion.div-1", model.ID)
	assert.Equal(t, 2.0, model.Attributes["tabIndex"])
	assert.Equal(t, true, model.Attributes["hidden"])
	assert.Nil(t, model.ComponentInfo)
}

func TestDecodeProgramErrors(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"type": "JSXElement"}`))
	assert.Error(t, err)

	_, err = DecodeProgram([]byte(`not json`))
	assert.Error(t, err)
}
