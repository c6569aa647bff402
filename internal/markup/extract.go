package markup

// ExtractLiterals returns the const bindings whose initializer is a pure
// literal array: arrays, objects with static keys, strings, numbers,
// booleans and null, nested arbitrarily. Anything else is skipped without
// error. Values use []interface{}, map[string]interface{}, string, float64,
// bool and nil.
func ExtractLiterals(stmts []Statement) map[string]interface{} {
	out := make(map[string]interface{})
	for _, s := range stmts {
		decl, ok := s.(*VarDecl)
		if !ok || decl.Kind != "const" {
			continue
		}
		for _, d := range decl.Decls {
			if d.Pattern || d.Name == "" {
				continue
			}
			if _, isArray := d.Init.(*ArrayLit); !isArray {
				continue
			}
			if v, ok := literalValue(d.Init); ok {
				out[d.Name] = v
			}
		}
	}
	return out
}

// literalValue interprets e if it is built only from literals
func literalValue(e Expr) (interface{}, bool) {
	switch v := e.(type) {
	case *StringLit:
		return v.Value, true
	case *NumberLit:
		return v.Value, true
	case *BoolLit:
		return v.Value, true
	case *NullLit:
		return nil, true
	case *TemplateLit:
		if len(v.Exprs) > 0 || len(v.Quasis) != 1 {
			return nil, false
		}
		return v.Quasis[0], true
	case *Unary:
		n, ok := v.Arg.(*NumberLit)
		if !ok {
			return nil, false
		}
		switch v.Op {
		case "-":
			return -n.Value, true
		case "+":
			return n.Value, true
		}
		return nil, false
	case *ArrayLit:
		arr := make([]interface{}, 0, len(v.Elements))
		for _, el := range v.Elements {
			if el == nil {
				return nil, false
			}
			val, ok := literalValue(el)
			if !ok {
				return nil, false
			}
			arr = append(arr, val)
		}
		return arr, true
	case *ObjectLit:
		obj := make(map[string]interface{}, len(v.Props))
		for _, p := range v.Props {
			if p.Spread || p.Computed || p.Shorthand {
				return nil, false
			}
			val, ok := literalValue(p.Value)
			if !ok {
				return nil, false
			}
			obj[p.Key] = val
		}
		return obj, true
	}
	return nil, false
}
