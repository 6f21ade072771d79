package benchmark

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
)

const (
	benchPrefix    = "bench"
	disabledPrefix = "dbench"
)

// benchName matches camel-case (benchSample) and snake-case (bench_sample) names.
var benchName = regexp.MustCompile(`^bench(_|\p{Lu})`)

var errorType = reflect.TypeFor[error]()

// Spec is a discovered benchmark routine.
type Spec struct {
	Name         string
	Title        string
	AcceptsInput bool

	call func(input any) error
}

// Registry collects the routines of a container in registration order.
type Registry struct {
	entries []entry
}

type entry struct {
	name string
	fn   any
}

// Add registers fn under name. fn must be one of
//
//	func()  func() error  func(T)  func(T) error
//
// Names that do not start with "bench_" or "bench" plus a capital are ignored,
// as are names starting with "dbench" (disabled, kept for manual runs).
func (r *Registry) Add(name string, fn any) {
	r.entries = append(r.entries, entry{name: name, fn: fn})
}

// Discover lists the benchmarks of c in registration order.
func Discover(c Container) ([]Spec, error) {
	return discover(c, slog.Default())
}

func discover(c Container, logger *slog.Logger) ([]Spec, error) {
	var reg Registry
	c.Benchmarks(&reg)

	specs := make([]Spec, 0, len(reg.entries))
	seen := make(map[string]bool, len(reg.entries))
	for _, e := range reg.entries {
		if strings.HasPrefix(e.name, disabledPrefix) {
			logger.Debug("benchmark disabled", "benchmark", e.name)
			continue
		}
		if !benchName.MatchString(e.name) {
			logger.Debug("skipping routine without benchmark prefix", "routine", e.name)
			continue
		}
		if seen[e.name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBenchmark, e.name)
		}
		seen[e.name] = true

		spec, err := bind(e.name, e.fn)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// bind validates fn and wraps it in a uniform call. The common shapes avoid
// reflection so the timed region only pays for a closure call.
func bind(name string, fn any) (Spec, error) {
	spec := Spec{Name: name, Title: Title(name)}

	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return spec, &SignatureError{Name: name, Type: t, Reason: "not a function"}
	}
	if reflect.ValueOf(fn).IsNil() {
		return spec, &SignatureError{Name: name, Type: t, Reason: "nil function"}
	}

	switch f := fn.(type) {
	case func():
		spec.call = func(any) error { f(); return nil }
		return spec, nil
	case func() error:
		spec.call = func(any) error { return f() }
		return spec, nil
	case func(any):
		spec.AcceptsInput = true
		spec.call = func(in any) error { f(in); return nil }
		return spec, nil
	case func(any) error:
		spec.AcceptsInput = true
		spec.call = f
		return spec, nil
	case func(int):
		spec.AcceptsInput = true
		spec.call = func(in any) error {
			n, err := intArg(in)
			if err != nil {
				return err
			}
			f(n)
			return nil
		}
		return spec, nil
	case func(int) error:
		spec.AcceptsInput = true
		spec.call = func(in any) error {
			n, err := intArg(in)
			if err != nil {
				return err
			}
			return f(n)
		}
		return spec, nil
	}

	return bindReflect(spec, t, reflect.ValueOf(fn))
}

func bindReflect(spec Spec, t reflect.Type, fv reflect.Value) (Spec, error) {
	switch {
	case t.IsVariadic():
		return spec, &SignatureError{Name: spec.Name, Type: t, Reason: "variadic routines are not supported"}
	case t.NumIn() > 1:
		return spec, &SignatureError{
			Name:   spec.Name,
			Type:   t,
			Reason: fmt.Sprintf("takes %d parameters, want at most one", t.NumIn()),
		}
	case t.NumOut() > 1 || (t.NumOut() == 1 && t.Out(0) != errorType):
		return spec, &SignatureError{Name: spec.Name, Type: t, Reason: "may only return an error"}
	}

	accepts := t.NumIn() == 1
	spec.AcceptsInput = accepts
	spec.call = func(in any) error {
		var args []reflect.Value
		if accepts {
			arg, err := convertInput(in, t.In(0))
			if err != nil {
				return err
			}
			args = []reflect.Value{arg}
		}
		out := fv.Call(args)
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}

	return spec, nil
}

var intType = reflect.TypeFor[int]()

func intArg(in any) (int, error) {
	switch v := in.(type) {
	case int:
		return v, nil
	case nil:
		return 0, nil
	}
	v, err := convertInput(in, intType)
	if err != nil {
		return 0, err
	}
	return int(v.Int()), nil
}

// convertInput adapts an input value to a routine's parameter type. A missing
// input becomes the zero value; numbers convert between numeric kinds.
func convertInput(in any, t reflect.Type) (reflect.Value, error) {
	if in == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(in)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T to %v", ErrInputType, in, t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
