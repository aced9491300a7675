package plan

import (
	"fmt"
	"strings"

	"github.com/abhisek/scorecard/internal/assessment"
)

const planSystemPrompt = `You are a friendly study mentor for students from Tier-2 and Tier-3 towns preparing for competitive exams. You write short, practical advice in simple, encouraging language.`

func buildPlanUserMessage(studentName string, focus assessment.SubjectRecord) string {
	var b strings.Builder

	b.WriteString("Student Report for Tier-2/3 background student:\n")
	b.WriteString(fmt.Sprintf("- Name: %s\n", studentName))
	b.WriteString(fmt.Sprintf("- Weak Subject: %s\n", focus.Name))
	b.WriteString(fmt.Sprintf("- Weak Topics: %s\n", strings.Join(focus.WeakTopics, ", ")))

	b.WriteString(`
Create a highly specific 3-step improvement plan.
1. Step 1: "Conceptual Revision". Suggest how to revise the weak topics (e.g. read NCERT, watch video) over 2 days.
2. Step 2: "Practice". Suggest a specific number of easy questions (e.g. 20 questions) to build confidence.
3. Step 3: "Exam Strategy". A tip on how to handle these questions in exam (e.g. skip if tough).

Return ONLY the 3 strings in the "plan" array. Keep language simple and encouraging.`)

	return b.String()
}
