// Package compare implements equality and structural diffing over the
// arbitrary values carried by render events (decoded JSON graphs plus
// timestamps and compiled patterns).
package compare

import (
	"reflect"
	"regexp"
	"time"
)

// Identical reports reference-or-value identity, the analog of strict
// equality in the instrumented runtime: primitives by value, containers
// and functions by pointer.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Pointer:
		return va.Pointer() == vb.Pointer()
	default:
		if !va.Type().Comparable() {
			return false
		}
		return a == b
	}
}

// ShallowEqual is true when a and b are identical, or when both are
// plain containers with identical entry sets compared by identity.
// Nested containers compare by reference only; mismatched shapes
// (including container vs non-container) are unequal.
func ShallowEqual(a, b any) bool {
	if Identical(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)

	switch {
	case va.Kind() == reflect.Map && vb.Kind() == reflect.Map:
		if va.Len() != vb.Len() {
			return false
		}
		if va.Type().Key() != vb.Type().Key() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() {
				return false
			}
			if !Identical(iter.Value().Interface(), other.Interface()) {
				return false
			}
		}
		return true

	case isSequence(va.Kind()) && isSequence(vb.Kind()):
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !Identical(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func isSequence(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}

// visit tracks an in-progress pair of references so self-referential
// structures terminate instead of recursing forever.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// DeepEqual is recursive structural equality. Timestamps are equal iff
// they denote the same instant, compiled patterns iff their text
// matches, functions only by identity. A revisited reference pair
// compares equal, which guarantees termination on cycles.
func DeepEqual(a, b any) bool {
	return deepEqual(a, b, make(map[visit]bool))
}

func deepEqual(a, b any, seen map[visit]bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if ra, ok := a.(*regexp.Regexp); ok {
		rb, ok := b.(*regexp.Regexp)
		if !ok {
			return false
		}
		if ra == nil || rb == nil {
			return ra == rb
		}
		return ra.String() == rb.String()
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return va.Pointer() == vb.Pointer()

	case reflect.Pointer:
		if va.Pointer() == vb.Pointer() {
			return true
		}
		if enter(va, vb, seen) {
			return true
		}
		return deepEqual(va.Elem().Interface(), vb.Elem().Interface(), seen)

	case reflect.Map:
		if va.Pointer() == vb.Pointer() {
			return true
		}
		if va.Len() != vb.Len() {
			return false
		}
		if enter(va, vb, seen) {
			return true
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() {
				return false
			}
			if !deepEqual(iter.Value().Interface(), other.Interface(), seen) {
				return false
			}
		}
		return true

	case reflect.Slice:
		if va.Len() != vb.Len() {
			return false
		}
		if va.Len() > 0 && va.Pointer() == vb.Pointer() {
			return true
		}
		if enter(va, vb, seen) {
			return true
		}
		for i := 0; i < va.Len(); i++ {
			if !deepEqual(va.Index(i).Interface(), vb.Index(i).Interface(), seen) {
				return false
			}
		}
		return true

	case reflect.Array:
		for i := 0; i < va.Len(); i++ {
			if !deepEqual(va.Index(i).Interface(), vb.Index(i).Interface(), seen) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < va.NumField(); i++ {
			if !va.Type().Field(i).IsExported() {
				continue
			}
			if !deepEqual(va.Field(i).Interface(), vb.Field(i).Interface(), seen) {
				return false
			}
		}
		return true

	default:
		if !va.Type().Comparable() {
			return false
		}
		return a == b
	}
}

// enter records the pair and reports whether it was already in flight.
func enter(va, vb reflect.Value, seen map[visit]bool) bool {
	k := va.Kind()
	if k != reflect.Map && k != reflect.Slice && k != reflect.Pointer {
		return false
	}
	v := visit{a: va.Pointer(), b: vb.Pointer(), typ: va.Type()}
	if seen[v] {
		return true
	}
	seen[v] = true
	return false
}

// SameContentDifferentRef is true iff a and b are distinct references
// to containers that hold deep-equal content. Primitives, nils and
// type-mismatched pairs are false.
func SameContentDifferentRef(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if Identical(a, b) {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !isContainer(va.Kind()) || !isContainer(vb.Kind()) {
		return false
	}
	if va.Type() != vb.Type() {
		return false
	}
	return DeepEqual(a, b)
}

func isContainer(k reflect.Kind) bool {
	switch k {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	default:
		return false
	}
}
