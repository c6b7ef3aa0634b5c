package interview

import _ "embed"

// System instructions sent to the oracle. The question template carries a
// {{TOPICS}} placeholder filled with the profile's topic list.

//go:embed prompts/profile_system.md
var profileSystemPrompt string

//go:embed prompts/classify_system.md
var classifySystemPrompt string

//go:embed prompts/intro_system.md
var introSystemPrompt string

//go:embed prompts/question_system.md
var questionSystemPromptTemplate string

//go:embed prompts/recruiter_system.md
var recruiterSystemPrompt string
