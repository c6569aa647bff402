package markup

import (
	"strconv"
	"strings"
)

// Print renders an expression back to source text. The output is stable
// and parseable, not a byte-for-byte copy of the original formatting.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

// PrintNode renders a markup node back to source text
func PrintNode(n Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

var precedence = map[string]int{
	"??": 1,
	"||": 2, "&&": 3,
	"|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

func printExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case nil:
		// array hole
	case *Identifier:
		b.WriteString(v.Name)
	case *StringLit:
		b.WriteString(strconv.Quote(v.Value))
	case *NumberLit:
		b.WriteString(v.Raw)
	case *BoolLit:
		b.WriteString(strconv.FormatBool(v.Value))
	case *NullLit:
		b.WriteString("null")
	case *TemplateLit:
		b.WriteByte('`')
		for i, q := range v.Quasis {
			b.WriteString(strings.ReplaceAll(q, "`", "\\`"))
			if i < len(v.Exprs) {
				b.WriteString("${")
				printExpr(b, v.Exprs[i])
				b.WriteByte('}')
			}
		}
		b.WriteByte('`')
	case *ArrayLit:
		b.WriteByte('[')
		for i, el := range v.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, el)
		}
		b.WriteByte(']')
	case *ObjectLit:
		if len(v.Props) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, p := range v.Props {
			if i > 0 {
				b.WriteString(", ")
			}
			printProperty(b, p)
		}
		b.WriteString(" }")
	case *Member:
		printOperand(b, v.Object, needsParensAsObject(v.Object))
		switch {
		case v.Computed && v.Optional:
			b.WriteString("?.[")
		case v.Computed:
			b.WriteByte('[')
		case v.Optional:
			b.WriteString("?.")
		default:
			b.WriteByte('.')
		}
		printExpr(b, v.Property)
		if v.Computed {
			b.WriteByte(']')
		}
	case *Call:
		printOperand(b, v.Callee, needsParensAsObject(v.Callee))
		if v.Optional {
			b.WriteString("?.")
		}
		b.WriteByte('(')
		printList(b, v.Args)
		b.WriteByte(')')
	case *Arrow:
		b.WriteByte('(')
		printList(b, v.Params)
		b.WriteString(") => ")
		if v.Block != nil {
			printBlock(b, v.Block)
			return
		}
		_, isObject := v.Body.(*ObjectLit)
		printOperand(b, v.Body, isObject)
	case *Unary:
		b.WriteString(v.Op)
		if len(v.Op) > 1 && v.Op != "--" && v.Op != "++" {
			b.WriteByte(' ')
		}
		_, nested := v.Arg.(*Binary)
		printOperand(b, v.Arg, nested)
	case *Binary:
		prec := precedence[v.Op]
		printOperand(b, v.Left, binaryNeedsParens(v.Left, prec, false))
		b.WriteString(" " + v.Op + " ")
		printOperand(b, v.Right, binaryNeedsParens(v.Right, prec, true))
	case *Conditional:
		_, testCond := v.Test.(*Conditional)
		printOperand(b, v.Test, testCond)
		b.WriteString(" ? ")
		printExpr(b, v.Consequent)
		b.WriteString(" : ")
		printExpr(b, v.Alternate)
	case *Spread:
		b.WriteString("...")
		printExpr(b, v.Arg)
	case *ElementExpr:
		printNode(b, v.Node)
	case *Unsupported:
		b.WriteString("/* " + v.Type + " */")
	}
}

func printOperand(b *strings.Builder, e Expr, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	printExpr(b, e)
	if parens {
		b.WriteByte(')')
	}
}

func printList(b *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(", ")
		}
		printExpr(b, e)
	}
}

func printProperty(b *strings.Builder, p Property) {
	switch {
	case p.Spread:
		b.WriteString("...")
		printExpr(b, p.Value)
	case p.Shorthand:
		b.WriteString(p.Key)
	case p.Computed:
		b.WriteByte('[')
		printExpr(b, p.KeyExpr)
		b.WriteString("]: ")
		printExpr(b, p.Value)
	default:
		if isIdentifierName(p.Key) {
			b.WriteString(p.Key)
		} else {
			b.WriteString(strconv.Quote(p.Key))
		}
		b.WriteString(": ")
		printExpr(b, p.Value)
	}
}

func printBlock(b *strings.Builder, stmts []Statement) {
	if len(stmts) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	for i, s := range stmts {
		if i > 0 {
			b.WriteByte(' ')
		}
		printStatement(b, s)
	}
	b.WriteString(" }")
}

func printStatement(b *strings.Builder, s Statement) {
	switch v := s.(type) {
	case *VarDecl:
		b.WriteString(v.Kind + " ")
		for i, d := range v.Decls {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Name)
			if d.Init != nil {
				b.WriteString(" = ")
				printExpr(b, d.Init)
			}
		}
		b.WriteByte(';')
	case *Return:
		b.WriteString("return")
		if v.Arg != nil {
			b.WriteByte(' ')
			printExpr(b, v.Arg)
		}
		b.WriteByte(';')
	case *ExprStmt:
		printExpr(b, v.Expr)
		b.WriteByte(';')
	case *FuncDecl:
		b.WriteString("function " + v.Name + "(")
		printList(b, v.Params)
		b.WriteString(") ")
		printBlock(b, v.Body)
	case *UnknownStmt:
		b.WriteString("/* " + v.Type + " */")
	}
}

func needsParensAsObject(e Expr) bool {
	switch e.(type) {
	case *Binary, *Conditional, *Arrow, *Unary, *ObjectLit:
		return true
	}
	return false
}

func binaryNeedsParens(e Expr, parent int, right bool) bool {
	switch v := e.(type) {
	case *Conditional, *Arrow:
		return true
	case *Binary:
		p := precedence[v.Op]
		return p < parent || (right && p == parent)
	}
	return false
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func printNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Element:
		b.WriteString("<" + v.Name)
		for _, a := range v.Attributes {
			b.WriteByte(' ')
			printAttribute(b, a)
		}
		if len(v.Children) == 0 {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for _, c := range v.Children {
			printNode(b, c)
		}
		b.WriteString("</" + v.Name + ">")
	case *Fragment:
		b.WriteString("<>")
		for _, c := range v.Children {
			printNode(b, c)
		}
		b.WriteString("</>")
	case *Text:
		b.WriteString(v.Value)
	case *ExpressionContainer:
		b.WriteByte('{')
		if v.Expr != nil {
			printExpr(b, v.Expr)
		}
		b.WriteByte('}')
	}
}

func printAttribute(b *strings.Builder, a Attribute) {
	if a.Spread != nil {
		b.WriteString("{...")
		printExpr(b, a.Spread)
		b.WriteByte('}')
		return
	}
	b.WriteString(a.Name)
	switch v := a.Value.(type) {
	case nil:
	case *StringLit:
		b.WriteString(`="` + strings.ReplaceAll(v.Value, `"`, "&quot;") + `"`)
	default:
		b.WriteString("={")
		printExpr(b, v)
		b.WriteByte('}')
	}
}
