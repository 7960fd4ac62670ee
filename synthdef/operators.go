package synthdef

import (
	"fmt"
	"math"

	supriya "github.com/supriya-project/supriya-sub004"
)

// BinaryOp applies a binary operator channel by channel, wrapping the shorter
// operand. Identities with constant operands are folded without creating a
// UGen: x*0 is 0, x*1 is x, x*-1 is -x, x+0 is x, 0-x is -x, x-0 is x, x/1
// is x and x/-1 is -x. Two constant operands of the arithmetic operators fold
// into a constant.
func (b *Builder) BinaryOp(op supriya.BinaryOperator, left, right interface{}) (Signal, error) {
	l, r, err := b.operands(left, right)
	if err != nil {
		return nil, err
	}
	width := len(l)
	if len(r) > width {
		width = len(r)
	}
	ret := make(Signal, width)
	for k := range ret {
		if ret[k], err = b.binaryOp(op, l[k%len(l)], r[k%len(r)]); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// UnaryOp applies a unary operator to every channel of a signal. Negating a
// constant folds into a constant.
func (b *Builder) UnaryOp(op supriya.UnaryOperator, source interface{}) (Signal, error) {
	s, err := b.operand(source)
	if err != nil {
		return nil, err
	}
	ret := make(Signal, len(s))
	for k := range ret {
		if ret[k], err = b.unaryOp(op, s[k]); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (b *Builder) Add(left, right interface{}) (Signal, error) {
	return b.BinaryOp(supriya.Addition, left, right)
}

func (b *Builder) Sub(left, right interface{}) (Signal, error) {
	return b.BinaryOp(supriya.Subtraction, left, right)
}

func (b *Builder) Mul(left, right interface{}) (Signal, error) {
	return b.BinaryOp(supriya.Multiplication, left, right)
}

func (b *Builder) Div(left, right interface{}) (Signal, error) {
	return b.BinaryOp(supriya.FloatDivision, left, right)
}

func (b *Builder) Neg(source interface{}) (Signal, error) {
	return b.UnaryOp(supriya.Negative, source)
}

// MulAdd computes source*multiplier+addend channel by channel. Trivial cases
// reduce to a single operator or to one of the operands. Otherwise a MulAdd
// UGen is created if the rates allow it, and a multiplication followed by an
// addition if they do not.
func (b *Builder) MulAdd(source, multiplier, addend interface{}) (Signal, error) {
	s, err := b.operand(source)
	if err != nil {
		return nil, err
	}
	m, a, err := b.operands(multiplier, addend)
	if err != nil {
		return nil, err
	}
	width := len(s)
	if len(m) > width {
		width = len(m)
	}
	if len(a) > width {
		width = len(a)
	}
	ret := make(Signal, width)
	for k := range ret {
		if ret[k], err = b.mulAdd(s[k%len(s)], m[k%len(m)], a[k%len(a)]); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (b *Builder) operand(v interface{}) (Signal, error) {
	if b.closed {
		return nil, ErrBuilderClosed
	}
	s, err := b.signal(v)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: operand has no channels", ErrInvalidSignal)
	}
	return s, nil
}

func (b *Builder) operands(left, right interface{}) (Signal, Signal, error) {
	l, err := b.operand(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := b.operand(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (b *Builder) binaryOp(op supriya.BinaryOperator, l, r supriya.Input) (supriya.Input, error) {
	if l.IsConstant() && r.IsConstant() {
		if v, ok := foldBinary(op, l.Value, r.Value); ok {
			return supriya.Constant(v), nil
		}
	}
	switch op {
	case supriya.Multiplication:
		switch {
		case l.IsConstantValue(0) || r.IsConstantValue(0):
			return supriya.Constant(0), nil
		case l.IsConstantValue(1):
			return r, nil
		case l.IsConstantValue(-1):
			return b.unaryOp(supriya.Negative, r)
		case r.IsConstantValue(1):
			return l, nil
		case r.IsConstantValue(-1):
			return b.unaryOp(supriya.Negative, l)
		}
	case supriya.Addition:
		switch {
		case l.IsConstantValue(0):
			return r, nil
		case r.IsConstantValue(0):
			return l, nil
		}
	case supriya.Subtraction:
		switch {
		case l.IsConstantValue(0):
			return b.unaryOp(supriya.Negative, r)
		case r.IsConstantValue(0):
			return l, nil
		}
	case supriya.FloatDivision:
		switch {
		case r.IsConstantValue(1):
			return l, nil
		case r.IsConstantValue(-1):
			return b.unaryOp(supriya.Negative, l)
		}
	}
	return b.add("BinaryOpUGen", supriya.MaxRate(l.Rate, r.Rate), int16(op), []supriya.Input{l, r}, 1)[0], nil
}

func (b *Builder) unaryOp(op supriya.UnaryOperator, s supriya.Input) (supriya.Input, error) {
	if s.IsConstant() {
		switch op {
		case supriya.Negative:
			return supriya.Constant(-s.Value), nil
		case supriya.AbsoluteValue:
			return supriya.Constant(math.Abs(s.Value)), nil
		}
	}
	return b.add("UnaryOpUGen", s.Rate, int16(op), []supriya.Input{s}, 1)[0], nil
}

func (b *Builder) mulAdd(s, m, a supriya.Input) (supriya.Input, error) {
	noAddend := a.IsConstantValue(0)
	switch {
	case m.IsConstantValue(0):
		return a, nil
	case m.IsConstantValue(1) && noAddend:
		return s, nil
	case m.IsConstantValue(-1) && noAddend:
		return b.unaryOp(supriya.Negative, s)
	case noAddend:
		return b.binaryOp(supriya.Multiplication, s, m)
	case m.IsConstantValue(-1):
		return b.binaryOp(supriya.Subtraction, a, s)
	case m.IsConstantValue(1):
		return b.binaryOp(supriya.Addition, s, a)
	}
	rate := supriya.MaxRate(s.Rate, m.Rate, a.Rate)
	if mulAddValid(s, m, a) {
		return b.add("MulAdd", rate, 0, []supriya.Input{s, m, a}, 1)[0], nil
	}
	if mulAddValid(m, s, a) {
		return b.add("MulAdd", rate, 0, []supriya.Input{m, s, a}, 1)[0], nil
	}
	product, err := b.binaryOp(supriya.Multiplication, s, m)
	if err != nil {
		return supriya.Input{}, err
	}
	return b.binaryOp(supriya.Addition, product, a)
}

// mulAddValid reports if scsynth's MulAdd can run with these input rates: an
// audio rate source takes anything, a control rate source only slower or
// equally fast multipliers and addends.
func mulAddValid(s, m, a supriya.Input) bool {
	if s.Rate == supriya.Audio {
		return true
	}
	return s.Rate == supriya.Control && m.Rate <= supriya.Control && a.Rate <= supriya.Control
}

func foldBinary(op supriya.BinaryOperator, l, r float64) (float64, bool) {
	switch op {
	case supriya.Addition:
		return l + r, true
	case supriya.Subtraction:
		return l - r, true
	case supriya.Multiplication:
		return l * r, true
	case supriya.FloatDivision:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case supriya.Minimum:
		return math.Min(l, r), true
	case supriya.Maximum:
		return math.Max(l, r), true
	case supriya.Power:
		return math.Pow(l, r), true
	}
	return 0, false
}
