package ai

import (
	"fmt"
	"strings"
)

func graderSystemPrompt() string {
	return "You are an expert Python programming instructor. Evaluate student code submissions and give short, constructive feedback in English."
}

func syntaxSystemPrompt() string {
	return "You are a Python syntax checker. Only decide whether the code has syntax errors. Do not execute it."
}

func buildGradingPrompt(input GradingContext) string {
	builder := strings.Builder{}
	builder.WriteString("Evaluate the following Python submission.\n\n")
	builder.WriteString("## Task\n")
	builder.WriteString(input.Description)
	builder.WriteString("\n\n## Reference Answer\n```python\n")
	builder.WriteString(input.ReferenceAnswer)
	builder.WriteString("\n```\n\n## Explanation\n")
	builder.WriteString(input.AnswerExplanation)
	builder.WriteString("\n\n## Grading Criteria\n")
	for i, criterion := range input.Criteria {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, criterion)
	}
	builder.WriteString("\n## Submission\n```python\n")
	builder.WriteString(input.Code)
	builder.WriteString("\n```\n\n")
	builder.WriteString("Score each dimension from 0 to 100:\n")
	builder.WriteString("1. correctness: does the code do what the task asks\n")
	builder.WriteString("2. code_quality: style, readability and naming\n")
	builder.WriteString("3. efficiency: algorithmic efficiency and resource use\n\n")
	builder.WriteString("Rules:\n")
	builder.WriteString("- score = correctness * 0.6 + code_quality * 0.25 + efficiency * 0.15\n")
	fmt.Fprintf(&builder, "- passed is true when score >= %d\n", PassingScore)
	builder.WriteString("- give 3 to 5 concrete suggestions\n")
	builder.WriteString("- name 2 or 3 strengths and 1 to 3 weaknesses\n\n")
	builder.WriteString("Return JSON.")
	return builder.String()
}

func buildSyntaxPrompt(code string) string {
	return "Check whether this Python code has syntax errors:\n\n```python\n" + code + "\n```"
}
