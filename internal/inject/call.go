package inject

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var (
	errType = reflect.TypeOf((*error)(nil)).Elem()
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// FuncName returns a short name for a function value, e.g.
// "todo.createTodoHandler". Used in traces and error messages.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "func"
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// RequiresContext reports whether fn declares a context.Context parameter.
func RequiresContext(fn any) bool {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	for i := 0; i < t.NumIn(); i++ {
		if t.In(i) == ctxType {
			return true
		}
	}
	return false
}

// Call invokes fn with args bound to its leading parameters and every
// remaining parameter resolved from r.
//
// Per parameter the resolution order is: positional argument, exact
// declared-type match against the resolver, then (for struct parameters
// carrying `inject` tags) per-field resolution: tag name, then field type,
// then "optional" keeps the zero value. A positional argument that does not
// fit the current parameter is held back when that parameter is a
// context.Context or resolvable from r, so handlers may declare injected
// parameters ahead of the message. Anything left unresolved fails with
// *UnknownDependencyError.
//
// fn may return nothing, a single value, an error, or (value, error).
func Call(r *Resolver, fn any, args ...any) (any, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("not a callable function: %T", fn)
	}
	t := v.Type()
	if err := checkReturns(t); err != nil {
		return nil, err
	}

	name := FuncName(fn)
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	in := make([]reflect.Value, 0, t.NumIn())
	argIdx := 0
	for i := 0; i < fixed; i++ {
		pt := t.In(i)
		if argIdx < len(args) {
			if av, ok := tryCoerce(args[argIdx], pt); ok {
				in = append(in, av)
				argIdx++
				continue
			}
			// The arg does not fit this parameter. Fill the parameter from
			// the resolver when possible and keep the arg for the next one;
			// otherwise report the mismatch.
			if pt != ctxType && !r.Has(pt) {
				_, err := coerce(args[argIdx], pt, i, name)
				return nil, err
			}
		}
		pv, err := resolveParam(r, pt, i, name)
		if err != nil {
			return nil, err
		}
		in = append(in, pv)
	}
	if t.IsVariadic() {
		et := t.In(fixed).Elem()
		for ; argIdx < len(args); argIdx++ {
			av, err := coerce(args[argIdx], et, fixed, name)
			if err != nil {
				return nil, err
			}
			in = append(in, av)
		}
	} else if argIdx < len(args) {
		return nil, fmt.Errorf("%s: %d positional arguments given, at most %d accepted",
			name, len(args), fixed)
	}

	return mapReturns(v.Call(in))
}

func checkReturns(t reflect.Type) error {
	switch t.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if t.Out(1) != errType {
			return fmt.Errorf("second return value must be error, got %v", t.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("handlers may return at most (value, error), got %d values", t.NumOut())
	}
}

func mapReturns(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func coerce(arg any, pt reflect.Type, pos int, fn string) (reflect.Value, error) {
	if av, ok := tryCoerce(arg, pt); ok {
		return av, nil
	}
	return reflect.Value{}, fmt.Errorf("%s: argument %d has type %T, want %v", fn, pos, arg, pt)
}

func tryCoerce(arg any, pt reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		return reflect.Zero(pt), true
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(pt) {
		return av, true
	}
	if av.Type().ConvertibleTo(pt) && av.Kind() != reflect.String && pt.Kind() != reflect.String {
		return av.Convert(pt), true
	}
	return reflect.Value{}, false
}

func resolveParam(r *Resolver, pt reflect.Type, pos int, fn string) (reflect.Value, error) {
	if v, err := r.Resolve(pt); err == nil {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return reflect.Zero(pt), nil
		}
		if !rv.Type().AssignableTo(pt) {
			return reflect.Value{}, fmt.Errorf("%s: dependency for %v has type %T", fn, pt, v)
		}
		return rv, nil
	}
	if isBundle(pt) {
		return buildBundle(r, pt, fn)
	}
	return reflect.Value{}, &UnknownDependencyError{
		Identifier: pt,
		Param:      fmt.Sprintf("parameter %d of %s", pos, fn),
	}
}

// isBundle reports whether t is a struct with at least one `inject` tag.
func isBundle(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup("inject"); ok {
			return true
		}
	}
	return false
}

// buildBundle fills a dependency-bundle struct field by field.
//
// Each exported field resolves in order: `inject` tag name, then field type.
// The ",optional" tag suffix keeps the zero value when nothing matches;
// otherwise the field is required and a miss is an error.
func buildBundle(r *Resolver, t reflect.Type, fn string) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("inject")
		name, opts, _ := strings.Cut(tag, ",")
		optional := opts == "optional"

		if name != "" {
			if v, err := r.Resolve(name); err == nil {
				rv := reflect.ValueOf(v)
				if !rv.IsValid() || !rv.Type().AssignableTo(f.Type) {
					return reflect.Value{}, fmt.Errorf("%s: dependency %q has type %T, want %v",
						fn, name, v, f.Type)
				}
				out.Field(i).Set(rv)
				continue
			}
		}
		if v, err := r.Resolve(f.Type); err == nil {
			rv := reflect.ValueOf(v)
			if rv.IsValid() && rv.Type().AssignableTo(f.Type) {
				out.Field(i).Set(rv)
				continue
			}
		}
		if optional {
			continue
		}

		id := any(f.Type)
		if name != "" {
			id = name
		}
		return reflect.Value{}, &UnknownDependencyError{
			Identifier: id,
			Param:      fmt.Sprintf("field %s of %v in %s", f.Name, t, fn),
		}
	}
	return out, nil
}
