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

package calc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkcalc/calc"
	"github.com/inkcalc/calc/result"
	"github.com/inkcalc/calc/types"
)

func newCalculator(t *testing.T) *calc.Calculator {
	t.Helper()
	c, err := calc.New(calc.Config{Rates: map[string]float64{"EUR": 0.9, "USD": 1}})
	require.NoError(t, err)
	return c
}

func TestEvaluateArithmetic(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("1 + 2 * 3")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	require.Equal(t, types.KindNumber, doc.Lines[0].Value.Kind)
	require.Equal(t, 7.0, doc.Lines[0].Value.Number)
}

func TestEvaluateUnitConversion(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("1 km to m")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	require.InDelta(t, 1000.0, doc.Lines[0].Value.Number, 1e-6)
}

func TestEvaluateAssignmentAndReference(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("x = 5\nx * 2")
	require.Len(t, doc.Lines, 2)
	require.Equal(t, "x", doc.Lines[0].AssignedName)
	require.Equal(t, 10.0, doc.Lines[1].Value.Number)
}

func TestEvaluateUndefinedIdentifierIsError(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("totallyUnknownName + 1")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineError, doc.Lines[0].Kind)
}

func TestEvaluateHeadingAndBlankLines(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("# Section\n\n1 + 1")
	require.Len(t, doc.Lines, 3)
	require.Equal(t, result.LineHeading, doc.Lines[0].Kind)
	require.Equal(t, "Section", doc.Lines[0].HeadingText)
	require.Equal(t, result.LineNone, doc.Lines[1].Kind)
	require.Equal(t, result.LineValue, doc.Lines[2].Kind)
}

func TestEvaluateCurrencyConversion(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("100 USD to EUR")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	require.InDelta(t, 90.0, doc.Lines[0].Value.Number, 1e-6)
}

func TestSwapRatesAffectsLaterEvaluations(t *testing.T) {
	c := newCalculator(t)
	c.SwapRates(map[string]float64{"EUR": 0.5, "USD": 1})
	doc := c.Evaluate("100 USD to EUR")
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	require.InDelta(t, 50.0, doc.Lines[0].Value.Number, 1e-6)
}

func TestEvaluateDateLiteralArithmetic(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("1970 Jan 31 + 1 month")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindPlainDate, v.Kind)
	require.Equal(t, 1970, v.PlainDate.Year)
	require.Equal(t, 2, v.PlainDate.Month)
	require.Equal(t, 28, v.PlainDate.Day)
}

func TestEvaluateFootInchCompositeLiteral(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate(`6' 10"`)
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindComposite, v.Kind)
	require.Len(t, v.Composite, 2)
	require.Equal(t, 6.0, v.Composite[0].Value)
	require.Equal(t, "foot", v.Composite[0].Unit.ID)
	require.Equal(t, 10.0, v.Composite[1].Value)
	require.Equal(t, "inch", v.Composite[1].Unit.ID)
}

func TestEvaluateDegreeArcminuteArcsecondCompositeLiteral(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate(`30° 15' 30"`)
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindComposite, v.Kind)
	require.Len(t, v.Composite, 3)
	require.Equal(t, "degree", v.Composite[0].Unit.ID)
	require.Equal(t, "arcminute", v.Composite[1].Unit.ID)
	require.Equal(t, "arcsecond", v.Composite[2].Unit.ID)
	text, err := result.Format(v, false)
	require.NoError(t, err)
	require.Equal(t, "30 ° 15 ′ 30 ″", text)
}

func TestEvaluateAmPmIsTimeOnlyForAnHourOneToTwelve(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("3 pm")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindPlainTime, v.Kind)
	require.Equal(t, 15, v.PlainTime.Hour)
}

func TestEvaluateCompositeConversionTarget(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("171 cm to ft in")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindComposite, v.Kind)
	require.Len(t, v.Composite, 2)
	require.Equal(t, "foot", v.Composite[0].Unit.ID)
	require.Equal(t, 5.0, v.Composite[0].Value)
	require.Equal(t, "inch", v.Composite[1].Unit.ID)
	require.InDelta(t, 7.32, v.Composite[1].Value, 0.05)
}

func TestEvaluateHexPresentationDirective(t *testing.T) {
	c := newCalculator(t)
	doc := c.Evaluate("255 to hex")
	require.Len(t, doc.Lines, 1)
	require.Equal(t, result.LineValue, doc.Lines[0].Kind)
	v := doc.Lines[0].Value
	require.Equal(t, types.KindPresentation, v.Kind)
	text, err := result.Format(v, false)
	require.NoError(t, err)
	require.Equal(t, "ff", text)
}
