// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package overload matches a runtime operand pair against the small set of shapes an
// arithmetic operator accepts, the way the teacher's internal/convert package matched
// CQL operator overloads against operand static types. Here the "static types" are a
// runtime Value's Kind plus its unit-bearing-ness, since this engine's arithmetic is
// resolved during trial evaluation rather than at a separate type-check pass.
package overload

import (
	"fmt"

	"github.com/inkcalc/calc/types"
)

// Shape is a coarse operand classification used to match operator overloads.
type Shape int

const (
	ShapeDimensionless Shape = iota
	ShapeUnitBearing
	ShapeDateTime
	ShapeDuration
	ShapeBoolean
	ShapeOther
)

// String renders a Shape for error messages in place of its underlying int.
func (s Shape) String() string {
	switch s {
	case ShapeDimensionless:
		return "dimensionless"
	case ShapeUnitBearing:
		return "unit-bearing"
	case ShapeDateTime:
		return "date/time"
	case ShapeDuration:
		return "duration"
	case ShapeBoolean:
		return "boolean"
	default:
		return "other"
	}
}

// Overload is one accepted (left, right) shape pair for a binary operator.
type Overload struct {
	Name        string
	Left, Right Shape
}

// ErrNoMatch reports that no registered overload accepts the given operand shapes.
type ErrNoMatch struct {
	Op          string
	Left, Right Shape
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("overload: no overload of %q accepts (%v, %v)", e.Op, e.Left, e.Right)
}

// Match finds the first overload (in registration order) whose shapes accept
// (left, right), mirroring the teacher's first-match overload resolution.
func Match(overloads []Overload, op string, left, right Shape) (Overload, error) {
	for _, o := range overloads {
		if o.Left == left && o.Right == right {
			return o, nil
		}
	}
	return Overload{}, &ErrNoMatch{Op: op, Left: left, Right: right}
}

// ShapeOf classifies a result.Value's Kind into a Shape; it takes the Kind and a
// unit-bearing flag rather than a result.Value, so overload does not import result.
func ShapeOf(k types.Kind, unitBearing bool) Shape {
	switch k {
	case types.KindNumber, types.KindDerivedUnit, types.KindComposite:
		if unitBearing {
			return ShapeUnitBearing
		}
		return ShapeDimensionless
	case types.KindPlainDate, types.KindPlainTime, types.KindPlainDateTime, types.KindInstant, types.KindZonedDateTime:
		return ShapeDateTime
	case types.KindDuration:
		return ShapeDuration
	case types.KindBoolean:
		return ShapeBoolean
	default:
		return ShapeOther
	}
}
