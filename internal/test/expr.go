package test

import (
	"math/rand"
	"strings"
)

const validTerms = "x;2;3.5;pi;e;sin(x);cos(2*x);ln(x+1);sqrt(x);(x+1);(x-3)*x;x^2;4x"
const validOperators = "+;-;*;/;^"

// GetRandomExpression joins size random terms of x with random binary
// operators. The result always parses with x declared.
func GetRandomExpression(size int) string {
	return GetRandomExpressionWithSep(size, "")
}

func GetRandomExpressionWithSep(size int, sep string) string {
	terms := strings.Split(validTerms, ";")
	ops := strings.Split(validOperators, ";")

	var b strings.Builder
	for i := 0; i < size; i++ {
		if i > 0 {
			b.WriteString(sep)
			b.WriteString(ops[rand.Intn(len(ops))])
			b.WriteString(sep)
		}

		b.WriteString(terms[rand.Intn(len(terms))])
	}

	return b.String()
}
