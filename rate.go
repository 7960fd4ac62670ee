package supriya

import (
	"fmt"
	"strings"
)

type (
	// CalculationRate is the rate at which a UGen computes its output. The
	// numeric values are the ones written into compiled synth definitions.
	CalculationRate int

	// ParameterRate is the rate of a named synth parameter. The numeric order
	// is also the order in which control UGens are emitted: scalar first,
	// control last.
	ParameterRate int
)

const (
	Scalar CalculationRate = iota
	Control
	Audio
	Demand
)

const (
	ScalarParameter ParameterRate = iota
	TriggerParameter
	AudioParameter
	ControlParameter
)

var calculationRateNames = [...]string{"scalar", "control", "audio", "demand"}
var calculationRateTokens = [...]string{"ir", "kr", "ar", "dr"}
var parameterRateNames = [...]string{"scalar", "trigger", "audio", "control"}

func (r CalculationRate) String() string {
	if r < 0 || int(r) >= len(calculationRateNames) {
		return fmt.Sprintf("CalculationRate(%d)", int(r))
	}
	return calculationRateNames[r]
}

// Token returns the short form of the rate, e.g. "ar" for audio rate.
func (r CalculationRate) Token() string {
	if r < 0 || int(r) >= len(calculationRateTokens) {
		return "??"
	}
	return calculationRateTokens[r]
}

func (r CalculationRate) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(calculationRateNames) {
		return nil, fmt.Errorf("invalid calculation rate %d", int(r))
	}
	return []byte(calculationRateNames[r]), nil
}

func (r *CalculationRate) UnmarshalText(text []byte) error {
	v, err := ParseCalculationRate(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseCalculationRate accepts either the full name ("audio") or the token
// ("ar") of a rate, case insensitively.
func ParseCalculationRate(s string) (CalculationRate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range calculationRateNames {
		if s == calculationRateNames[i] || s == calculationRateTokens[i] {
			return CalculationRate(i), nil
		}
	}
	return Scalar, fmt.Errorf("unknown calculation rate %q", s)
}

// MaxRate returns the fastest of the given rates. Demand rate counts as the
// fastest of all, as scsynth does. With no rates, Scalar is returned.
func MaxRate(rates ...CalculationRate) CalculationRate {
	ret := Scalar
	for _, r := range rates {
		if r > ret {
			ret = r
		}
	}
	return ret
}

func (r ParameterRate) String() string {
	if r < 0 || int(r) >= len(parameterRateNames) {
		return fmt.Sprintf("ParameterRate(%d)", int(r))
	}
	return parameterRateNames[r]
}

func (r ParameterRate) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(parameterRateNames) {
		return nil, fmt.Errorf("invalid parameter rate %d", int(r))
	}
	return []byte(parameterRateNames[r]), nil
}

func (r *ParameterRate) UnmarshalText(text []byte) error {
	v, err := ParseParameterRate(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseParameterRate parses "scalar", "trigger", "audio" or "control". The
// tokens "ir", "tr", "ar" and "kr" are accepted as well.
func ParseParameterRate(s string) (ParameterRate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "ir":
		return ScalarParameter, nil
	case "trigger", "tr":
		return TriggerParameter, nil
	case "audio", "ar":
		return AudioParameter, nil
	case "control", "kr":
		return ControlParameter, nil
	}
	return ControlParameter, fmt.Errorf("unknown parameter rate %q", s)
}

// ParameterRateFromName infers the rate of a parameter from its name, using
// the sclang prefix convention: a_ is audio, i_ is scalar, t_ is trigger and
// everything else is control rate.
func ParameterRateFromName(name string) ParameterRate {
	switch {
	case strings.HasPrefix(name, "a_"):
		return AudioParameter
	case strings.HasPrefix(name, "i_"):
		return ScalarParameter
	case strings.HasPrefix(name, "t_"):
		return TriggerParameter
	}
	return ControlParameter
}

// CalculationRate returns the rate of the control UGen output that carries a
// parameter of this rate. Trigger parameters run at control rate.
func (r ParameterRate) CalculationRate() CalculationRate {
	switch r {
	case ScalarParameter:
		return Scalar
	case AudioParameter:
		return Audio
	}
	return Control
}
