// Copyright (c) Microsoft. All rights reserved.

// Package tools holds local function tools shared by the samples.
package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// CalculatorName is the function name of [Calculator].
const CalculatorName = "calculate"

// calcEnv is the evaluation environment. Only arithmetic and these helpers are
// reachable from an expression.
var calcEnv = map[string]any{
	"pi":        math.Pi,
	"e":         math.E,
	"sqrt":      math.Sqrt,
	"pow":       math.Pow,
	"log":       math.Log,
	"factorial": factorial,
}

func factorial(n int) (int, error) {
	if n < 0 || n > 20 {
		return 0, fmt.Errorf("factorial(%d) out of range", n)
	}
	r := 1
	for i := 2; i <= n; i++ {
		r *= i
	}
	return r, nil
}

// Evaluate computes a math expression such as "factorial(7) / 42" or
// "25 * 47 + 133".
func Evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return 0, fmt.Errorf("empty expression")
	}
	program, err := expr.Compile(expression, expr.Env(calcEnv), expr.AsFloat64())
	if err != nil {
		return 0, fmt.Errorf("compile %q: %w", expression, err)
	}
	out, err := expr.Run(program, calcEnv)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: result is %T", expression, out)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("evaluate %q: result is not finite", expression)
	}
	return v, nil
}

// Calculator returns the "calculate" tool backed by [Evaluate].
func Calculator() *af.FunctionTool {
	return af.NewTypedTool(CalculatorName, "Evaluate a math expression.",
		func(ctx context.Context, args struct {
			Expression string `json:"expression" jsonschema:"description=Math expression to evaluate,required"`
		}) (any, error) {
			v, err := Evaluate(args.Expression)
			if err != nil {
				return nil, &af.ToolError{ToolName: CalculatorName, Message: err.Error(), Err: af.ErrToolExecution}
			}
			return "Result: " + strconv.FormatFloat(v, 'g', -1, 64), nil
		},
	)
}
