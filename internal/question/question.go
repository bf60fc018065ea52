// internal/question/question.go
//
// Arithmetic questions whose answer must be hit with three darts.

package question

import "strconv"

// Operator is one of the four arithmetic operators.
type Operator string

const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "×"
	Div Operator = "÷"
)

// Operators in draw order.
var Operators = [4]Operator{Add, Sub, Mul, Div}

// Apply evaluates a op b. ok is false for division by zero or a division
// that leaves a remainder.
func (o Operator) Apply(a, b int) (result int, ok bool) {
	switch o {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case Div:
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

// Question is "Left Op Right = ?". Target is the exact integer answer.
type Question struct {
	Left   int      `json:"left"`
	Op     Operator `json:"op"`
	Right  int      `json:"right"`
	Target int      `json:"-"`
}

// String renders the question as shown to the player, e.g. "24 ÷ 4".
func (q Question) String() string {
	if q.Op == "" {
		return ""
	}
	return strconv.Itoa(q.Left) + " " + string(q.Op) + " " + strconv.Itoa(q.Right)
}

// Valid reports whether Target is the exact result of the expression.
func (q Question) Valid() bool {
	v, ok := q.Op.Apply(q.Left, q.Right)
	return ok && v == q.Target
}
