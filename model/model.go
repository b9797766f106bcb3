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

// Package model holds the AST produced by the parser for one expression line (spec.md
// §3 "AST"). Candidates are plain data (spec.md §9 "Ambiguity vs disambiguation":
// "encode candidates as plain data"); the pruner, selector and evaluator all operate on
// IExpression trees without mutating them in place.
package model

// IExpression is implemented by every AST node. Source carries the document-absolute
// character offsets the node was parsed from (populated by the parser using the
// preprocessor's contentOffset, spec.md §4.6), used for error messages.
type IExpression interface {
	Source() SourcePosition
	exprNode()
}

// SourcePosition is a document-absolute half-open character range [Start, End).
type SourcePosition struct {
	Start, End int
}

func (s SourcePosition) Source() SourcePosition { return s }

// UnitTerm is one (unit name, exponent) term of a UnitExpression (spec.md §3).
type UnitTerm struct {
	UnitName string
	Exponent int
}

// UnitExpression is either simple (one term at exponent 1) or derived (several terms),
// attached to a NumberLiteral or used as a conversion/exponentiation target.
type UnitExpression struct {
	Terms []UnitTerm
}

// NumberLiteral is a literal number with an optional unit expression (spec.md §3).
type NumberLiteral struct {
	SourcePosition
	Value    float64
	Unit     *UnitExpression // nil means dimensionless
	Variant  string          // "", "arcminute-context", "foot-context"; set by the parser when the prime/double-prime glyph was disambiguated structurally
}

func (NumberLiteral) exprNode() {}

// CompositeComponent is one (value, unit) pair inside a CompositeLiteral.
type CompositeComponent struct {
	Value    float64
	UnitName string
}

// CompositeLiteral is an ordered list of same-dimension components, e.g. "5 ft 3 in"
// (spec.md §3 GLOSSARY "Composite magnitude").
type CompositeLiteral struct {
	SourcePosition
	Components []CompositeComponent
}

func (CompositeLiteral) exprNode() {}

// DateKind discriminates the plain/zoned date-time literal shapes.
type DateKind int

const (
	DateKindDate DateKind = iota
	DateKindTime
	DateKindDateTime
	DateKindInstant
	DateKindZonedDateTime
)

// DateLiteral is a plain date/time/date-time, instant, or zoned-date-time literal.
type DateLiteral struct {
	SourcePosition
	Kind    DateKind
	Raw     string // the literal text, e.g. "2024-01-31" or "2024-01-31T10:00 America/New_York"
	TZName  string // non-empty only for DateKindZonedDateTime
}

func (DateLiteral) exprNode() {}

// DurationLiteral is an integer year/month/week/.../millisecond tuple literal (spec.md §3).
type DurationLiteral struct {
	SourcePosition
	Years, Months, Weeks, Days            int
	Hours, Minutes, Seconds, Milliseconds int
	Negative                              bool
}

func (DurationLiteral) exprNode() {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	SourcePosition
	Value bool
}

func (BooleanLiteral) exprNode() {}

// ConstantName is one of the named mathematical constants (spec.md §3).
type ConstantName string

const (
	ConstPi ConstantName = "pi"
	ConstE  ConstantName = "e"
)

// Constant is a reference to a named constant (π, e, ...).
type Constant struct {
	SourcePosition
	Name ConstantName
}

func (Constant) exprNode() {}

// Identifier is a bare name: a variable reference, or (until pruned) possibly a unit or
// constant name the grammar couldn't statically rule out (spec.md §4.8).
type Identifier struct {
	SourcePosition
	Name string
}

func (Identifier) exprNode() {}

// Grouped is a parenthesized sub-expression, kept as a distinct node so the selector
// can tell a grouped reading apart from an equivalent ungrouped one (spec.md §3).
type Grouped struct {
	SourcePosition
	Inner IExpression
}

func (Grouped) exprNode() {}

// UnaryOp is the operator of a Unary node.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
	OpBitNot UnaryOp = "~"
)

// Unary is a prefix unary expression (spec.md §3).
type Unary struct {
	SourcePosition
	Op      UnaryOp
	Operand IExpression
}

func (Unary) exprNode() {}

// Factorial is the postfix `!` operator (spec.md §3).
type Factorial struct {
	SourcePosition
	Operand IExpression
}

func (Factorial) exprNode() {}

// BinaryOp enumerates spec.md §3's operator set.
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpMod    BinaryOp = "%"
	OpModKw  BinaryOp = "mod"
	OpPer    BinaryOp = "per"
	OpPow    BinaryOp = "^"
	OpBitAnd BinaryOp = "&"
	OpBitOr  BinaryOp = "|"
	OpBitXor BinaryOp = "xor"
	OpShl    BinaryOp = "<<"
	OpShr    BinaryOp = ">>"
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGe     BinaryOp = ">="
	OpEq     BinaryOp = "=="
	OpNe     BinaryOp = "!="
	OpAnd    BinaryOp = "&&"
	OpOr     BinaryOp = "||"
)

// Binary is an infix binary expression (spec.md §3).
type Binary struct {
	SourcePosition
	Op          BinaryOp
	Left, Right IExpression
	// PerIsUnitFormer disambiguates the deliberately-ambiguous `per` token (spec.md
	// §4.7): true when this candidate reads `per` as forming a derived unit rather than
	// as division. Only meaningful when Op == OpPer.
	PerIsUnitFormer bool
}

func (Binary) exprNode() {}

// FunctionCall is a named function applied to a list of arguments (spec.md §3).
type FunctionCall struct {
	SourcePosition
	Name string
	Args []IExpression
}

func (FunctionCall) exprNode() {}

// ConversionOp enumerates the accepted conversion keywords/symbols (spec.md §3).
type ConversionOp string

const (
	ConvTo  ConversionOp = "to"
	ConvIn  ConversionOp = "in"
	ConvAs  ConversionOp = "as"
)

// Conversion is `expr to|in|as|→|-> target` (spec.md §3). Target is either a unit
// expression, a timezone/date-property name, or a presentation directive; the parser
// leaves that ambiguity in TargetUnit/TargetPresentation/TargetProperty and the
// evaluator resolves it during trial evaluation.
type Conversion struct {
	SourcePosition
	Op             ConversionOp
	Source         IExpression
	TargetUnit     *UnitExpression
	TargetUnits    []string // composite conversion: ordered target unit names
	TargetProperty string   // "year", "month", ...; see spec.md §4.10
	TargetTZ       string   // timezone alias/name
	TargetPresentation *PresentationDirective
}

func (Conversion) exprNode() {}

// PresentationDirective names a non-conversion display directive (spec.md §3/§6).
type PresentationDirective struct {
	Name     string
	Base     int
	Decimals int
	Sigfigs  int
}

// Conditional is `if cond then a else b` (spec.md §3).
type Conditional struct {
	SourcePosition
	Cond, Then, Else IExpression
}

func (Conditional) exprNode() {}

// RelativeInstant is `N unit ago|from now` (spec.md §3).
type RelativeInstant struct {
	SourcePosition
	N      IExpression
	Unit   string
	Future bool // true for "from now", false for "ago"
}

func (RelativeInstant) exprNode() {}

// Assignment is `name = expr` (spec.md §3, §4.10). It is always the outermost node of a
// candidate when present, since assignment is the lowest-precedence operator
// (spec.md §4.7).
type Assignment struct {
	SourcePosition
	Name  string
	Value IExpression
}

func (Assignment) exprNode() {}

// PlainText marks a line the parser could not admit into the grammar at all (spec.md
// §7). The parser does not construct PlainText nodes; the orchestrator records a line
// that fails to parse as a LineError document line carrying a ParseError.
type PlainText struct {
	SourcePosition
	Raw string
}

func (PlainText) exprNode() {}

// Heading is a `#+ text` line (spec.md §4.6).
type Heading struct {
	SourcePosition
	Level int
	Text  string
}

func (Heading) exprNode() {}
