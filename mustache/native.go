package mustache

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

// FromNative converts an ordinary Go value into a [Value].
//
// Maps with string keys become objects with keys in sorted order, slices and
// arrays become lists, bools become [True] or [False], and strings, numbers
// and other scalars become [String]. A nil value becomes [False]. Functions
// with the signatures of [Partial], [Lambda] and [LambdaRender] become those
// variants. A [Value] is returned unchanged.
func FromNative(x any) Value {
	switch x := x.(type) {
	case nil:
		return False

	case Value:
		return x

	case string:
		return String(x)

	case []byte:
		return String(x)

	case bool:
		return Bool(x)

	case int:
		return String(strconv.Itoa(x))

	case int64:
		return String(strconv.FormatInt(x, 10))

	case uint64:
		return String(strconv.FormatUint(x, 10))

	case float64:
		return String(strconv.FormatFloat(x, 'g', -1, 64))

	case float32:
		return String(strconv.FormatFloat(float64(x), 'g', -1, 32))

	case func() string:
		return Partial(x)

	case func(string) string:
		return Lambda(x)

	case func(string, Renderer) string:
		return LambdaRender(x)

	case map[string]any:
		o := NewObject()

		for _, k := range sortedKeys(x) {
			o.Set(k, FromNative(x[k]))
		}

		return o

	case []any:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = FromNative(e)
		}

		return l

	case fmt.Stringer:
		return String(x.String())
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return False
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}
		}

		l := make(List, rv.Len())
		for i := range rv.Len() {
			l[i] = FromNative(rv.Index(i).Interface())
		}

		return l

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		o := NewObject()

		for _, k := range keys {
			key := reflect.ValueOf(k).Convert(rv.Type().Key())
			o.Set(k, FromNative(rv.MapIndex(key).Interface()))
		}

		return o
	}

	return String(fmt.Sprint(rv.Interface()))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
