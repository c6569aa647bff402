// Package markup converts page markup trees (JSX as produced by an ESTree
// compatible parser) into the neutral object model the page editor stores.
package markup

// Program is a parsed module
type Program struct {
	Body []Statement
}

// Statement is a top-level or block statement
type Statement interface {
	statement()
}

// Declarator binds one name in a variable declaration. Pattern is set for
// destructuring targets, which are never treated as literal bindings.
type Declarator struct {
	Name    string
	Pattern bool
	Init    Expr
}

// VarDecl is a const/let/var declaration
type VarDecl struct {
	Kind  string
	Decls []Declarator
}

// FuncDecl is a named function, including exported ones
type FuncDecl struct {
	Name   string
	Params []Expr
	Body   []Statement
}

// Return is a return statement; Arg is nil for a bare return
type Return struct {
	Arg Expr
}

// ExprStmt is an expression used as a statement
type ExprStmt struct {
	Expr Expr
}

// UnknownStmt is any statement the transformer does not interpret
type UnknownStmt struct {
	Type string
}

func (*VarDecl) statement()     {}
func (*FuncDecl) statement()    {}
func (*Return) statement()      {}
func (*ExprStmt) statement()    {}
func (*UnknownStmt) statement() {}

// Node is a markup child: an element, fragment, text or expression slot
type Node interface {
	node()
}

// Attribute is a markup attribute. Value is nil for a bare boolean
// attribute; Spread holds the argument of {...props}.
type Attribute struct {
	Name   string
	Value  Expr
	Spread Expr
}

// Element is a markup element such as <div> or <Link>
type Element struct {
	Name        string
	Attributes  []Attribute
	Children    []Node
	SelfClosing bool
}

// Fragment is <>...</>
type Fragment struct {
	Children []Node
}

// Text is literal markup text as written in the source
type Text struct {
	Value string
}

// ExpressionContainer is a {expr} slot; Expr is nil for an empty slot
type ExpressionContainer struct {
	Expr Expr
}

func (*Element) node()             {}
func (*Fragment) node()            {}
func (*Text) node()                {}
func (*ExpressionContainer) node() {}

// Expr is a script expression
type Expr interface {
	expr()
}

type (
	Identifier struct {
		Name string
	}
	StringLit struct {
		Value string
	}
	NumberLit struct {
		Value float64
		Raw   string
	}
	BoolLit struct {
		Value bool
	}
	NullLit struct{}

	// TemplateLit holds len(Exprs)+1 quasis
	TemplateLit struct {
		Quasis []string
		Exprs  []Expr
	}
	// ArrayLit elements are nil for holes
	ArrayLit struct {
		Elements []Expr
	}
	ObjectLit struct {
		Props []Property
	}
	Member struct {
		Object   Expr
		Property Expr
		Computed bool
		Optional bool
	}
	Call struct {
		Callee   Expr
		Args     []Expr
		Optional bool
	}
	// Arrow covers arrow functions and function expressions. Exactly one of
	// Body and Block is set.
	Arrow struct {
		Params []Expr
		Body   Expr
		Block  []Statement
	}
	Unary struct {
		Op  string
		Arg Expr
	}
	// Binary covers binary and logical operators
	Binary struct {
		Op    string
		Left  Expr
		Right Expr
	}
	Conditional struct {
		Test       Expr
		Consequent Expr
		Alternate  Expr
	}
	Spread struct {
		Arg Expr
	}
	// ElementExpr is markup in expression position
	ElementExpr struct {
		Node Node
	}
	// Unsupported keeps the type of an expression the package cannot model
	Unsupported struct {
		Type string
	}
)

// Property is an object literal entry. Key is set for non-computed keys;
// KeyExpr for computed ones. Spread entries carry only Value.
type Property struct {
	Key       string
	KeyExpr   Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Spread    bool
}

func (*Identifier) expr()  {}
func (*StringLit) expr()   {}
func (*NumberLit) expr()   {}
func (*BoolLit) expr()     {}
func (*NullLit) expr()     {}
func (*TemplateLit) expr() {}
func (*ArrayLit) expr()    {}
func (*ObjectLit) expr()   {}
func (*Member) expr()      {}
func (*Call) expr()        {}
func (*Arrow) expr()       {}
func (*Unary) expr()       {}
func (*Binary) expr()      {}
func (*Conditional) expr() {}
func (*Spread) expr()      {}
func (*ElementExpr) expr() {}
func (*Unsupported) expr() {}
