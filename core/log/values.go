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

package log

import (
	"context"

	"github.com/google/gapid/core/context/keys"
)

// Value is a single named value bound to a message.
type Value struct {
	Name  string
	Value interface{}
}

// Values is the sortable list of values bound to a Message.
type Values []*Value

func (v Values) Len() int           { return len(v) }
func (v Values) Less(i, j int) bool { return v[i].Name < v[j].Name }
func (v Values) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }

// V is a map of named values that can be bound to a context with Bind.
type V map[string]interface{}

// Bind returns a new context with the values in v added to any values
// already bound to ctx.
func (v V) Bind(ctx context.Context) context.Context {
	return PutValues(ctx, v)
}

type values struct {
	parent *values
	v      map[string]interface{}
}

type valuesKeyTy string

const valuesKey valuesKeyTy = "log.valuesKey"

// PutValues returns a new context with the values in v layered on top of any
// values already bound to ctx.
func PutValues(ctx context.Context, v V) context.Context {
	return keys.WithValue(ctx, valuesKey, &values{parent: getValues(ctx), v: v})
}

// getValues returns the values chain bound to ctx.
func getValues(ctx context.Context) *values {
	out, _ := ctx.Value(valuesKey).(*values)
	return out
}
