package model

import (
	"fmt"
	"go/types"

	"github.com/griffnb/core-apidoc/internal/parser/field"
)

// FieldInfo is one serialized struct field, the equivalent of a promoted
// constructor parameter.
type FieldInfo struct {
	GoName string
	Name   string
	Type   types.Type
	Tags   field.TagInfo
	Var    *types.Var
}

// StructFields returns the exported fields of named in declaration order.
// Fields of untagged embedded structs are promoted the way encoding/json
// promotes them; shallower fields win.
func StructFields(named *types.Named, strategy string) ([]FieldInfo, error) {
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("generic type %s is not supported", named.Obj().Name())
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct type", named.Obj().Name())
	}

	c := &fieldCollector{
		strategy: strategy,
		depth:    map[string]int{},
		visiting: map[*types.Struct]bool{},
	}
	c.collect(st, 0)

	return c.fields, nil
}

type fieldCollector struct {
	strategy string
	fields   []FieldInfo
	depth    map[string]int
	visiting map[*types.Struct]bool
}

func (c *fieldCollector) collect(st *types.Struct, depth int) {
	if c.visiting[st] {
		return
	}
	c.visiting[st] = true
	defer delete(c.visiting, st)

	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		tags := field.ParseTags(st.Tag(i))
		if tags.Skip {
			continue
		}

		if v.Embedded() && tags.JSONName == "" {
			if inner, ok := embeddedStruct(v.Type()); ok {
				c.collect(inner, depth+1)
				continue
			}
		}

		if !v.Exported() {
			continue
		}

		name := tags.JSONName
		if name == "" {
			name = field.ApplyNamingStrategy(v.Name(), c.strategy)
		}

		c.add(FieldInfo{
			GoName: v.Name(),
			Name:   name,
			Type:   v.Type(),
			Tags:   tags,
			Var:    v,
		}, depth)
	}
}

func (c *fieldCollector) add(f FieldInfo, depth int) {
	if existing, ok := c.depth[f.Name]; ok {
		if existing <= depth {
			return
		}
		for i := range c.fields {
			if c.fields[i].Name == f.Name {
				c.fields[i] = f
				c.depth[f.Name] = depth
				return
			}
		}
	}
	c.depth[f.Name] = depth
	c.fields = append(c.fields, f)
}

// embeddedStruct unwraps an embedded T or *T whose underlying type is a
// struct. time.Time and other types with their own JSON form stay fields.
func embeddedStruct(t types.Type) (*types.Struct, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if IsDateTime(t) || hasMethod(t, "MarshalJSON") {
		return nil, false
	}
	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

// SerializeMethod finds the arrayable method on T or *T: no parameters and
// a single map[string]any result.
func SerializeMethod(named *types.Named, name string) (*types.Func, bool) {
	mset := types.NewMethodSet(types.NewPointer(named))
	sel := mset.Lookup(nil, name)
	if sel == nil {
		return nil, false
	}

	fn, ok := sel.Obj().(*types.Func)
	if !ok {
		return nil, false
	}

	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return nil, false
	}

	m, ok := sig.Results().At(0).Type().Underlying().(*types.Map)
	if !ok {
		return nil, false
	}
	key, ok := m.Key().Underlying().(*types.Basic)
	if !ok || key.Kind() != types.String {
		return nil, false
	}
	if _, ok := m.Elem().Underlying().(*types.Interface); !ok {
		return nil, false
	}

	return fn, true
}

// ReceiverName returns the receiver type name of a method.
func ReceiverName(fn *types.Func) string {
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return ""
	}
	t := recv.Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		return named.Obj().Name()
	}
	return ""
}

// IsDateTime reports whether t carries the date-time capability: time.Time,
// a type defined from it or a struct embedding it.
func IsDateTime(t types.Type) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	if isTimeTime(named) {
		return true
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	if isTimeLayout(st) {
		return true
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			if n, ok := f.Type().(*types.Named); ok && isTimeTime(n) {
				return true
			}
		}
	}
	return false
}

func isTimeTime(named *types.Named) bool {
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Name() == "Time"
}

// isTimeLayout matches the struct underlying time.Time, for types declared
// as `type Stamp time.Time`.
func isTimeLayout(st *types.Struct) bool {
	if st.NumFields() != 3 {
		return false
	}
	f := st.Field(0)
	return f.Pkg() != nil && f.Pkg().Path() == "time" && f.Name() == "wall"
}

func hasMethod(t types.Type, name string) bool {
	mset := types.NewMethodSet(types.NewPointer(t))
	return mset.Lookup(nil, name) != nil
}
