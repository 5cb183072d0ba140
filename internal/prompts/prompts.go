package prompts

import "fmt"

// NarrativeSystemPrompt frames chat-style models; completion-style models
// (GPT-2 behind text-generation-inference) only see the question itself.
const NarrativeSystemPrompt = `You are a botanist and cultural historian who writes about the language of flowers (floriography).
Answer in plain prose, at most five sentences, without lists or headings.`

// narrativeQuestion is filled with name, meaning, name.
const narrativeQuestion = "Why is the flower %s associated with the meaning '%s'? Explain the cultural or historical significance behind the %s."

// NarrativeQuestion builds the question asked about a flower and its meaning.
// The same inputs always yield the same prompt.
func NarrativeQuestion(name, meaning string) string {
	return fmt.Sprintf(narrativeQuestion, name, meaning, name)
}
