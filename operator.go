package supriya

import (
	"fmt"
	"strings"
)

type (
	// BinaryOperator is the operator code stored in the special index of a
	// BinaryOpUGen.
	BinaryOperator int16

	// UnaryOperator is the operator code stored in the special index of an
	// UnaryOpUGen.
	UnaryOperator int16
)

const (
	Addition BinaryOperator = iota
	Subtraction
	Multiplication
	IntegerDivision
	FloatDivision
	Modulo
	Equal
	NotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	Minimum
	Maximum
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	LeastCommonMultiple
	GreatestCommonDivisor
	Round
	RoundUp
	Truncation
	Atan2
	Hypot
	HypotX
	Power
	ShiftLeft
	ShiftRight
	UnsignedShift
	Fill
	Ring1
	Ring2
	Ring3
	Ring4
	DifferenceOfSquares
	SumOfSquares
	SquareOfSum
	SquareOfDifference
	AbsoluteDifference
	Threshold
	AmClip
	ScaleNeg
	Clip2
	Excess
	Fold2
	Wrap2
	FirstArg
	RandRange
	ExpRandRange
)

const (
	Negative UnaryOperator = iota
	Not
	IsNil
	NotNil
	BitNot
	AbsoluteValue
	AsFloat
	AsInt
	Ceiling
	Floor
	FractionalPart
	Sign
	Squared
	Cubed
	SquareRoot
	Exponential
	Reciprocal
	MidiToHz
	HzToMidi
	SemitonesToRatio
	RatioToSemitones
	DbToAmplitude
	AmplitudeToDb
	OctaveToHz
	HzToOctave
	Log
	Log2
	Log10
	Sin
	Cos
	Tan
	Arcsin
	Arccos
	Arctan
	Sinh
	Cosh
	Tanh
	Rand
	Rand2
	LinRand
	BilinRand
	Sum3Rand
	Distort
	SoftClip
	Coin
	DigitValue
	Silence
	Thru
	RectangleWindow
	HanningWindow
	WelchWindow
	TriangleWindow
	Ramp
	SCurve
)

var binaryOperatorNames = [...]string{
	"ADDITION", "SUBTRACTION", "MULTIPLICATION", "INTEGER_DIVISION",
	"FLOAT_DIVISION", "MODULO", "EQUAL", "NOT_EQUAL", "LESS_THAN",
	"GREATER_THAN", "LESS_THAN_OR_EQUAL", "GREATER_THAN_OR_EQUAL", "MINIMUM",
	"MAXIMUM", "BITWISE_AND", "BITWISE_OR", "BITWISE_XOR",
	"LEAST_COMMON_MULTIPLE", "GREATEST_COMMON_DIVISOR", "ROUND", "ROUND_UP",
	"TRUNCATION", "ATAN2", "HYPOT", "HYPOTX", "POWER", "SHIFT_LEFT",
	"SHIFT_RIGHT", "UNSIGNED_SHIFT", "FILL", "RING1", "RING2", "RING3",
	"RING4", "DIFFERENCE_OF_SQUARES", "SUM_OF_SQUARES", "SQUARE_OF_SUM",
	"SQUARE_OF_DIFFERENCE", "ABSOLUTE_DIFFERENCE", "THRESHOLD", "AMCLIP",
	"SCALE_NEG", "CLIP2", "EXCESS", "FOLD2", "WRAP2", "FIRST_ARG",
	"RANDRANGE", "EXPRANDRANGE",
}

var unaryOperatorNames = [...]string{
	"NEGATIVE", "NOT", "IS_NIL", "NOT_NIL", "BIT_NOT", "ABSOLUTE_VALUE",
	"AS_FLOAT", "AS_INT", "CEILING", "FLOOR", "FRACTIONAL_PART", "SIGN",
	"SQUARED", "CUBED", "SQUARE_ROOT", "EXPONENTIAL", "RECIPROCAL",
	"MIDI_TO_HZ", "HZ_TO_MIDI", "SEMITONES_TO_RATIO", "RATIO_TO_SEMITONES",
	"DB_TO_AMPLITUDE", "AMPLITUDE_TO_DB", "OCTAVE_TO_HZ", "HZ_TO_OCTAVE",
	"LOG", "LOG2", "LOG10", "SIN", "COS", "TAN", "ARCSIN", "ARCCOS",
	"ARCTAN", "SINH", "COSH", "TANH", "RAND", "RAND2", "LINRAND",
	"BILINRAND", "SUM3RAND", "DISTORT", "SOFTCLIP", "COIN", "DIGIT_VALUE",
	"SILENCE", "THRU", "RECTANGLE_WINDOW", "HANNING_WINDOW", "WELCH_WINDOW",
	"TRIANGLE_WINDOW", "RAMP", "S_CURVE",
}

// binaryOperatorSymbols lets graph documents use the usual arithmetic
// symbols instead of the operator names.
var binaryOperatorSymbols = map[string]BinaryOperator{
	"+": Addition, "-": Subtraction, "*": Multiplication, "/": FloatDivision,
	"div": IntegerDivision, "%": Modulo, "==": Equal, "!=": NotEqual,
	"<": LessThan, ">": GreaterThan, "<=": LessThanOrEqual,
	">=": GreaterThanOrEqual, "min": Minimum, "max": Maximum, "**": Power,
}

var unaryOperatorSymbols = map[string]UnaryOperator{
	"neg": Negative, "-": Negative, "abs": AbsoluteValue, "sqrt": SquareRoot,
	"exp": Exponential, "midicps": MidiToHz, "cpsmidi": HzToMidi,
	"dbamp": DbToAmplitude, "ampdb": AmplitudeToDb, "tanh": Tanh,
}

func (o BinaryOperator) String() string {
	if o < 0 || int(o) >= len(binaryOperatorNames) {
		return fmt.Sprintf("BinaryOperator(%d)", int(o))
	}
	return binaryOperatorNames[o]
}

func (o UnaryOperator) String() string {
	if o < 0 || int(o) >= len(unaryOperatorNames) {
		return fmt.Sprintf("UnaryOperator(%d)", int(o))
	}
	return unaryOperatorNames[o]
}

// ParseBinaryOperator accepts an operator name such as "MULTIPLICATION"
// (case insensitive) or a symbol such as "*".
func ParseBinaryOperator(s string) (BinaryOperator, error) {
	s = strings.TrimSpace(s)
	if o, ok := binaryOperatorSymbols[strings.ToLower(s)]; ok {
		return o, nil
	}
	u := strings.ToUpper(s)
	for i, name := range binaryOperatorNames {
		if name == u {
			return BinaryOperator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}

// ParseUnaryOperator accepts an operator name such as "NEGATIVE" (case
// insensitive) or a short form such as "neg".
func ParseUnaryOperator(s string) (UnaryOperator, error) {
	s = strings.TrimSpace(s)
	if o, ok := unaryOperatorSymbols[strings.ToLower(s)]; ok {
		return o, nil
	}
	u := strings.ToUpper(s)
	for i, name := range unaryOperatorNames {
		if name == u {
			return UnaryOperator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unary operator %q", s)
}
