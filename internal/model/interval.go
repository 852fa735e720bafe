package model

import (
	"fmt"
	"time"
)

// IntervalLength is the fixed width of every Interval.
const IntervalLength = 15 * time.Minute

// Op is a scalar arithmetic operation.
type Op string

const (
	OpAdd Op = "add"
	OpSub Op = "subtract"
	OpMul Op = "multiply"
	OpDiv Op = "divide"
)

func (op Op) apply(x, v float64) float64 {
	switch op {
	case OpAdd:
		return x + v
	case OpSub:
		return x - v
	case OpMul:
		return x * v
	case OpDiv:
		return x / v
	default:
		panic(fmt.Sprintf("model: unknown op %q", string(op)))
	}
}

// OperationError reports arithmetic that an Interval refuses to perform.
// It matches ErrUnsupportedOperation with errors.Is.
type OperationError struct {
	Op Op
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("model: %s is not supported for intervals", e.Op)
}

func (e *OperationError) Unwrap() error { return ErrUnsupportedOperation }

// Interval is one 15-minute record: [Start, Start+15min).
//
// Interval is a plain value. Copies never share state, so anything returned
// from a collection can be modified freely without touching the collection.
type Interval struct {
	start time.Time
	end   time.Time

	Production  EnergyMix `json:"production"`
	Power       EnergyMix `json:"power"`
	Consumption LoadMix   `json:"consumption"`
}

// NewInterval creates an empty interval starting at start.
func NewInterval(start time.Time) Interval {
	return Interval{start: start, end: start.Add(IntervalLength)}
}

// Start returns the first instant of the interval.
func (i Interval) Start() time.Time { return i.start }

// End returns Start + 15 minutes.
func (i Interval) End() time.Time { return i.end }

// Equal reports whether both intervals start at the same instant and carry identical values.
func (i Interval) Equal(o Interval) bool {
	return i.start.Equal(o.start) &&
		i.Production == o.Production &&
		i.Power == o.Power &&
		i.Consumption == o.Consumption
}

// Div divides production, power and consumption by v. Start is preserved.
func (i Interval) Div(v float64) Interval {
	out := NewInterval(i.start)
	out.Production = i.Production.Div(v)
	out.Power = i.Power.Div(v)
	out.Consumption = i.Consumption.Div(v)
	return out
}

// Scale is the whole-record form of the sub-record operators. Only OpDiv is
// meaningful for a dated record; every other op returns an *OperationError.
func (i Interval) Scale(op Op, v float64) (Interval, error) {
	if op != OpDiv {
		return Interval{}, &OperationError{Op: op}
	}
	return i.Div(v), nil
}

// Add always fails: adding two dated intervals has no defined meaning.
// Use EnergyMix or LoadMix arithmetic instead.
func (i Interval) Add(Interval) (Interval, error) {
	return Interval{}, &OperationError{Op: OpAdd}
}

// Sub always fails, see Add.
func (i Interval) Sub(Interval) (Interval, error) {
	return Interval{}, &OperationError{Op: OpSub}
}

// Mul always fails, see Add.
func (i Interval) Mul(Interval) (Interval, error) {
	return Interval{}, &OperationError{Op: OpMul}
}
