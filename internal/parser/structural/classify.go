package structural

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/griffnb/core-apidoc/internal/domain"
)

type extractor struct {
	info       *types.Info
	classifier Classifier
	receiver   string
}

// fields lists literal keys in order, then keys assigned later through
// varName["key"] = value. Non-literal keys are skipped.
func (x *extractor) fields(lit *ast.CompositeLit, body *ast.BlockStmt, varName string) []Field {
	var out []Field
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := stringKey(kv.Key)
		if !ok {
			continue
		}
		out = append(out, Field{Key: key, Known: x.classify(key, kv.Value)})
	}

	if varName == "" {
		return out
	}

	ast.Inspect(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		assign, ok := n.(*ast.AssignStmt)
		if !ok || len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
			return true
		}
		idx, ok := assign.Lhs[0].(*ast.IndexExpr)
		if !ok {
			return true
		}
		if id, ok := idx.X.(*ast.Ident); !ok || id.Name != varName {
			return true
		}
		if key, ok := stringKey(idx.Index); ok {
			out = append(out, Field{Key: key, Known: x.classify(key, assign.Rhs[0])})
		}
		return true
	})

	return out
}

func (x *extractor) classify(key string, e ast.Expr) *domain.PropertySchema {
	switch v := e.(type) {
	case *ast.ParenExpr:
		return x.classify(key, v.X)

	case *ast.BasicLit:
		return literal(v.Kind)

	case *ast.Ident:
		if v.Name == "true" || v.Name == "false" {
			return &domain.PropertySchema{Type: domain.TypeBoolean}
		}
		return nil

	case *ast.UnaryExpr:
		if v.Op == token.SUB || v.Op == token.ADD {
			if lit, ok := v.X.(*ast.BasicLit); ok {
				return literal(lit.Kind)
			}
		}
		return nil

	case *ast.CompositeLit:
		if isMapLit(v) {
			return &domain.PropertySchema{Type: domain.TypeObject}
		}
		return nil

	case *ast.SelectorExpr:
		if x.isMember(v) && x.info != nil && x.classifier != nil {
			if t := x.info.TypeOf(v); t != nil {
				return x.classifier.Member(key, t, fieldTag(x.info.Selections[v]))
			}
		}
		return nil

	case *ast.CallExpr:
		if p := x.conversion(v); p != nil {
			return p
		}
		return x.enumChain(v)
	}
	return nil
}

// isMember reports whether sel is a field chain rooted at the receiver,
// like o.Total or o.Customer.Name.
func (x *extractor) isMember(sel *ast.SelectorExpr) bool {
	if x.receiver == "" {
		return false
	}
	if x.info != nil {
		if s, ok := x.info.Selections[sel]; !ok || s.Kind() != types.FieldVal {
			return false
		}
	}
	switch inner := sel.X.(type) {
	case *ast.Ident:
		return inner.Name == x.receiver
	case *ast.SelectorExpr:
		return x.isMember(inner)
	}
	return false
}

// fieldTag returns the struct tag of the field sel selects, following
// embedded fields along its index path.
func fieldTag(sel *types.Selection) string {
	if sel == nil {
		return ""
	}
	t := sel.Recv()
	path := sel.Index()
	for i, idx := range path {
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		st, ok := t.Underlying().(*types.Struct)
		if !ok || idx >= st.NumFields() {
			return ""
		}
		if i == len(path)-1 {
			return st.Tag(idx)
		}
		t = st.Field(idx).Type()
	}
	return ""
}

// conversion classifies T(expr) where T is a primitive type.
func (x *extractor) conversion(call *ast.CallExpr) *domain.PropertySchema {
	if len(call.Args) != 1 {
		return nil
	}
	id, ok := call.Fun.(*ast.Ident)
	if !ok {
		return nil
	}

	if x.info != nil {
		tv, ok := x.info.Types[call.Fun]
		if !ok || !tv.IsType() {
			return nil
		}
		b, ok := tv.Type.(*types.Basic)
		if !ok {
			return nil
		}
		return basic(b)
	}

	if obj := types.Universe.Lookup(id.Name); obj != nil {
		if tn, ok := obj.(*types.TypeName); ok {
			if b, ok := tn.Type().(*types.Basic); ok {
				return basic(b)
			}
		}
	}
	return nil
}

// enumChain classifies o.Status.String() style calls on a receiver field.
// A primitive result type wins; otherwise the enum's backing type is used.
func (x *extractor) enumChain(call *ast.CallExpr) *domain.PropertySchema {
	if len(call.Args) != 0 || x.info == nil {
		return nil
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil
	}
	member, ok := sel.X.(*ast.SelectorExpr)
	if !ok || !x.isMember(member) {
		return nil
	}
	if b, ok := x.info.TypeOf(call).(*types.Basic); ok {
		if p := basic(b); p != nil {
			return p
		}
	}
	t := x.info.TypeOf(member)
	if t == nil || x.classifier == nil {
		return nil
	}
	if p, ok := x.classifier.EnumBacking(t); ok {
		return p
	}
	return nil
}

func literal(kind token.Token) *domain.PropertySchema {
	switch kind {
	case token.INT:
		return &domain.PropertySchema{Type: domain.TypeInteger}
	case token.FLOAT:
		return &domain.PropertySchema{Type: domain.TypeNumber}
	case token.STRING, token.CHAR:
		return &domain.PropertySchema{Type: domain.TypeString}
	}
	return nil
}

func basic(b *types.Basic) *domain.PropertySchema {
	info := b.Info()
	switch {
	case info&types.IsBoolean != 0:
		return &domain.PropertySchema{Type: domain.TypeBoolean}
	case info&types.IsInteger != 0:
		return &domain.PropertySchema{Type: domain.TypeInteger}
	case info&types.IsFloat != 0:
		return &domain.PropertySchema{Type: domain.TypeNumber}
	case info&types.IsString != 0:
		return &domain.PropertySchema{Type: domain.TypeString}
	}
	return nil
}
