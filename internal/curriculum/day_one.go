package curriculum

import (
	_ "embed"
)

// DayOneID is the lesson id that is always synthesized rather than read
// from the content directory.
const DayOneID = 1

//go:embed data/day01.md
var dayOneMarkdown string

// DayOne returns the built-in introductory lesson.
func DayOne() LessonDocument {
	doc := Parse(dayOneMarkdown, DayOneID)
	doc.Title = "Day 1: Introduction to Python"
	doc.Summary = "Welcome to the 30 days of Python journey! Meet the language, set up a Python environment and write your first program."
	doc.EstimatedTime = "1-2 hours"
	doc.LearningObjectives = []string{
		"Understand what Python is and where it is used",
		"Learn the basic Python syntax",
		"Write your first Python program",
		"Recognise the basic Python data types",
	}
	return doc
}
