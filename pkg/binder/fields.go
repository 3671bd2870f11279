package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// lookupFunc returns the raw values for a parameter and whether it was sent.
type lookupFunc func(name string) []string

func fromMap(values map[string][]string) lookupFunc {
	return func(name string) []string { return values[name] }
}

// bindFields sets every field tagged with tag from lookup. Untagged fields,
// fields tagged "-" and parameters that were not sent are left untouched, so
// several binders can fill the same struct. Embedded structs are walked.
func bindFields(v any, tag string, lookup lookupFunc, bindErr error) error {
	rv, err := target(v, bindErr)
	if err != nil {
		return err
	}
	return eachTagged(rv, tag, func(field reflect.Value, name string) error {
		raw := lookup(name)
		if len(raw) == 0 {
			return nil
		}
		if err := assign(field, raw); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, name, err)
		}
		return nil
	})
}

func target(v any, bindErr error) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	return rv.Elem(), nil
}

func eachTagged(rv reflect.Value, tag string, fn func(field reflect.Value, name string) error) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		field := rv.Field(i)

		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			if err := eachTagged(field, tag, fn); err != nil {
				return err
			}
			continue
		}
		if name == "" || name == "-" || !field.CanSet() {
			continue
		}
		if err := fn(field, name); err != nil {
			return err
		}
	}
	return nil
}

// assign converts raw into field. Slices take every value, splitting on
// commas; scalars take the first.
func assign(field reflect.Value, raw []string) error {
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assign(field.Elem(), raw)
	}

	if field.Kind() == reflect.Slice && !field.Type().Implements(textUnmarshalerType) {
		var parts []string
		for _, r := range raw {
			for p := range strings.SplitSeq(r, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := assign(slice.Index(i), []string{p}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	return parseScalar(field, raw[0])
}

func parseScalar(field reflect.Value, s string) error {
	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	trimmed := strings.TrimSpace(s)
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(trimmed)
		if err != nil {
			return fmt.Errorf("invalid duration %q", s)
		}
		field.SetInt(int64(d))
		return nil
	case field.CanInt():
		n, err := strconv.ParseInt(trimmed, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		field.SetInt(n)
		return nil
	case field.CanUint():
		n, err := strconv.ParseUint(trimmed, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		field.SetUint(n)
		return nil
	case field.CanFloat():
		n, err := strconv.ParseFloat(trimmed, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		field.SetFloat(n)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		b, ok := parseBool(trimmed)
		if !ok {
			return fmt.Errorf("invalid boolean %q", s)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}

// parseBool also accepts the checkbox spellings on/off and yes/no.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "on", "yes":
		return true, true
	case "", "0", "f", "false", "off", "no":
		return false, true
	}
	return false, false
}
