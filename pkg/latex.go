package symdiff

import (
	"fmt"
	"strings"
)

// LaTeX renders e for typesetting. Division becomes \frac and powers use
// braces, so only sums and differences under a product need brackets.
func LaTeX(e Expr) string {
	switch n := e.(type) {
	case *Constant:
		s := formatConstant(n.Value)
		if strings.HasPrefix(s, "(") {
			return `\left` + s[:len(s)-1] + `\right)`
		}

		return s
	case *Variable:
		if n.Name == ReservedPi {
			return `\pi`
		}

		return n.Name
	case *UnaryApp:
		return fmt.Sprintf(n.Op.LaTeX, LaTeX(n.Child))
	case *BinaryApp:
		return latexBinary(n)
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func latexBinary(n *BinaryApp) string {
	switch n.Op.Symbol {
	case "/":
		return `\frac{` + LaTeX(n.Left) + `}{` + LaTeX(n.Right) + `}`
	case "^":
		base := LaTeX(n.Left)
		switch n.Left.(type) {
		case *BinaryApp, *UnaryApp:
			base = `\left(` + base + `\right)`
		}

		return base + `^{` + LaTeX(n.Right) + `}`
	case "*":
		return latexOperand(n, n.Left, true) + ` \cdot ` + latexOperand(n, n.Right, false)
	case "%":
		return latexOperand(n, n.Left, true) + ` \bmod ` + latexOperand(n, n.Right, false)
	default:
		return latexOperand(n, n.Left, true) + " " + n.Op.Symbol + " " + latexOperand(n, n.Right, false)
	}
}

// latexOperand brackets the same children String does, except fractions and
// powers which are already grouped by their braces, plus any child that a
// left-to-right reading would regroup.
func latexOperand(parent *BinaryApp, child Expr, left bool) string {
	s := LaTeX(child)

	b, ok := child.(*BinaryApp)
	if !ok || b.Op.Symbol == "/" || b.Op.Symbol == "^" {
		return s
	}

	if b.Op.weaker(parent.Op) || (left && b.Op.Rank == parent.Op.Rank) || misread(parent.Op, b.Op, left) {
		return `\left(` + s + `\right)`
	}

	return s
}

// conventionalLevel is how tightly a reader binds an inline operator: sums
// and differences below products and remainders.
func conventionalLevel(op *BinaryOperator) int {
	switch op.Symbol {
	case "+", "-":
		return 1
	default:
		return 2
	}
}

// misread reports whether child, written unbracketed next to parent, would be
// read as a different grouping under left-to-right conventions.
func misread(parent, child *BinaryOperator, left bool) bool {
	pl, cl := conventionalLevel(parent), conventionalLevel(child)
	if cl < pl {
		return true
	}

	nonAssociative := parent.Symbol == "-" || parent.Symbol == "%"
	return !left && cl == pl && nonAssociative
}
