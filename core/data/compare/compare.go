// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package compare provides deep equality and diff helpers used by the
// assert package's test assertions.
package compare

import (
	"fmt"
	"reflect"
)

// Custom lets a test supply its own notion of equality for a type that
// reflect.DeepEqual would otherwise get wrong (for instance types holding
// incomparable internal state such as function values or caches).
type Custom interface {
	// DeepEqual returns true if value and expect should be considered equal.
	DeepEqual(value, expect interface{}) bool
	// Diff returns a list of human readable differences between value and
	// expect, stopping after at most max entries. An empty result means
	// value and expect are equal.
	Diff(value, expect interface{}, max int) []string
}

// DeepEqual reports whether value and expect are deeply equal, using
// reflect.DeepEqual.
func DeepEqual(value, expect interface{}) bool {
	return reflect.DeepEqual(value, expect)
}

// Diff returns a list of human readable differences between value and
// expect, stopping after at most max entries. An empty result means value
// and expect are equal.
func Diff(value, expect interface{}, max int) []string {
	var diffs []string
	walk("", reflect.ValueOf(value), reflect.ValueOf(expect), &diffs, max)
	return diffs
}

func walk(path string, value, expect reflect.Value, diffs *[]string, max int) {
	if len(*diffs) >= max {
		return
	}
	if !value.IsValid() || !expect.IsValid() {
		if value.IsValid() != expect.IsValid() {
			*diffs = append(*diffs, fmt.Sprintf("%s: got %v, expect %v", path, describe(value), describe(expect)))
		}
		return
	}
	if value.Type() != expect.Type() {
		*diffs = append(*diffs, fmt.Sprintf("%s: type mismatch, got %v, expect %v", path, value.Type(), expect.Type()))
		return
	}
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface:
		if value.IsNil() || expect.IsNil() {
			if value.IsNil() != expect.IsNil() {
				*diffs = append(*diffs, fmt.Sprintf("%s: got %v, expect %v", path, describe(value), describe(expect)))
			}
			return
		}
		walk(path, value.Elem(), expect.Elem(), diffs, max)
	case reflect.Slice, reflect.Array:
		if value.Len() != expect.Len() {
			*diffs = append(*diffs, fmt.Sprintf("%s: length mismatch, got %d, expect %d", path, value.Len(), expect.Len()))
			return
		}
		for i := 0; i < value.Len() && len(*diffs) < max; i++ {
			walk(fmt.Sprintf("%s[%d]", path, i), value.Index(i), expect.Index(i), diffs, max)
		}
	case reflect.Map:
		for _, key := range value.MapKeys() {
			if len(*diffs) >= max {
				return
			}
			ev := expect.MapIndex(key)
			if !ev.IsValid() {
				*diffs = append(*diffs, fmt.Sprintf("%s[%v]: missing from expected", path, key.Interface()))
				continue
			}
			walk(fmt.Sprintf("%s[%v]", path, key.Interface()), value.MapIndex(key), ev, diffs, max)
		}
		for _, key := range expect.MapKeys() {
			if len(*diffs) >= max {
				return
			}
			if !value.MapIndex(key).IsValid() {
				*diffs = append(*diffs, fmt.Sprintf("%s[%v]: missing from actual", path, key.Interface()))
			}
		}
	case reflect.Struct:
		for i := 0; i < value.NumField() && len(*diffs) < max; i++ {
			name := value.Type().Field(i).Name
			walk(path+"."+name, value.Field(i), expect.Field(i), diffs, max)
		}
	default:
		if !reflect.DeepEqual(value.Interface(), expect.Interface()) {
			*diffs = append(*diffs, fmt.Sprintf("%s: got %v, expect %v", path, value.Interface(), expect.Interface()))
		}
	}
}

func describe(v reflect.Value) string {
	if !v.IsValid() {
		return "<invalid>"
	}
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v.Interface())
}
