package symdiff

import "strings"

// CloseIndex returns the index of the bracket that closes the one opened at
// s[open].
func CloseIndex(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, &BracketingError{Fragment: s, Index: open}
}

// CheckBalance reports the first bracket of s that has no partner.
func CheckBalance(s string) error {
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return &BracketingError{Fragment: s, Index: i}
			}

			open = open[:len(open)-1]
		}
	}

	if len(open) != 0 {
		return &BracketingError{Fragment: s, Index: open[0]}
	}

	return nil
}

// NestingDepth is the deepest level of bracket nesting in s.
func NestingDepth(s string) int {
	depth, deepest := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case ')':
			depth--
		}
	}

	return deepest
}

type occurrence struct {
	index int
	op    *BinaryOperator
}

// topLevel finds the binary operator occurrences of s outside any bracket. A
// minus that opens s or follows another operator and precedes a digit is the
// sign of a constant, not an operator.
func (r *Registry) topLevel(s string) ([]occurrence, error) {
	var ops []occurrence
	afterOp := true
	for i := 0; i < len(s); {
		switch s[i] {
		case '(':
			c, err := CloseIndex(s, i)
			if err != nil {
				return nil, err
			}

			i = c + 1
			afterOp = false
			continue
		case ')':
			return nil, &BracketingError{Fragment: s, Index: i}
		}

		op := r.binaryAt(s, i)
		if op == nil || (afterOp && isSign(s, i)) {
			i++
			afterOp = false
			continue
		}

		ops = append(ops, occurrence{i, op})
		i += len(op.Symbol)
		afterOp = true
	}

	return ops, nil
}

func isSign(s string, i int) bool {
	return s[i] == '-' && i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9'
}

// PlaceBrackets makes the grouping of every binary application in s explicit.
// Bracketed regions are re-bracketed from the inside first, then s is split at
// its loosest top-level operator (the leftmost one on a tie) and both sides
// are wrapped. A string with at most one top-level operator is left as is.
func PlaceBrackets(s string, r *Registry) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '(' {
			b.WriteByte(s[i])
			i++
			continue
		}

		c, err := CloseIndex(s, i)
		if err != nil {
			return "", err
		}

		inner, err := PlaceBrackets(s[i+1:c], r)
		if err != nil {
			return "", err
		}

		b.WriteByte('(')
		b.WriteString(inner)
		b.WriteByte(')')
		i = c + 1
	}
	s = b.String()

	ops, err := r.topLevel(s)
	if err != nil {
		return "", err
	}

	if len(ops) <= 1 {
		return s, nil
	}

	split := ops[0]
	for _, o := range ops[1:] {
		if o.op.weaker(split.op) {
			split = o
		}
	}

	left := s[:split.index]
	right := s[split.index+len(split.op.Symbol):]
	if left == "" || right == "" {
		return "", &ParseError{Fragment: s, Reason: "operator " + split.op.Symbol + " is missing an operand"}
	}

	left, err = PlaceBrackets(left, r)
	if err != nil {
		return "", err
	}

	right, err = PlaceBrackets(right, r)
	if err != nil {
		return "", err
	}

	return "(" + left + ")" + split.op.Symbol + "(" + right + ")", nil
}

// RemoveSuperfluousBrackets collapses "((x))" into "(x)" wherever a bracket
// pair holds nothing but another pair.
func RemoveSuperfluousBrackets(s string) (string, error) {
	for i := 0; i+1 < len(s); {
		if s[i] != '(' || s[i+1] != '(' {
			i++
			continue
		}

		outer, err := CloseIndex(s, i)
		if err != nil {
			return "", err
		}

		inner, err := CloseIndex(s, i+1)
		if err != nil {
			return "", err
		}

		if inner != outer-1 {
			i++
			continue
		}

		s = s[:i] + s[i+1:outer] + s[outer+1:]
	}

	return s, nil
}
