package workflow

import (
	"fmt"
	"strings"
)

const architectPersona = `You are Adam, the mastermind architect from the CASSA VEGAS family. Your persona is: "You see the big picture, predict every move, and build systems that never fail. Patient, calculating, and unflappable—you run the game before it’s even played." Your goal is to provide clear, strategic blueprints for setting up new software projects. When relevant, provide specific CLI commands (for git, npm, gcloud, etc.) and code snippets inside markdown code blocks. Format your responses for clarity and readability using markdown.`

// WorkflowConversation returns the chat framing for an item's assistant chat.
func WorkflowConversation(it Item) Conversation {
	return Conversation{
		Key:          WorkflowChatKey(it.ID),
		Title:        it.Title,
		SystemPrompt: fmt.Sprintf("%s The user is starting a conversation about %q.", architectPersona, it.Title),
	}
}

// InitialMessage is the first user message of a fresh item chat.
// description is the plain text of the item description.
func InitialMessage(title, description string) string {
	return fmt.Sprintf("I'm looking at the topic \"%s: %s\". Could you give me a detailed breakdown of best practices, common pitfalls, and some concrete first steps I can take? If there are any relevant CLI commands to get started, please include them.", title, description)
}

// TitleSuggestionPrompt asks for a shorter title.
func TitleSuggestionPrompt(title, description string) string {
	return fmt.Sprintf(`Based on the following title and description, generate a new, more concise and impactful title.

Current Title: "%s"
Current Description: "%s"

Respond with only the new title text, without any quotes.`, title, description)
}

// DescriptionSuggestionPrompt asks for an expanded, blockquote-rich description.
func DescriptionSuggestionPrompt(title, description string) string {
	return fmt.Sprintf(`Rewrite and expand upon the following description for the software development task titled "%s".
Your response should be a well-structured summary.
Crucially, you must:
1. Include at least three important points or a list of key considerations, with each point formatted as a markdown blockquote (e.g., "> This is a key point.").
2. Ensure there is a line break (a blank line) between each paragraph for readability.

Current Description: "%s"

New, detailed description:`, title, description)
}

// CleanTitle trims a suggested title and removes double quotes.
func CleanTitle(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

// PortraitPrompt describes the portrait generated for an item.
func PortraitPrompt(g Gender) string {
	return fmt.Sprintf("Professional executive portrait of a solo %s software engineering leader. The setting is a modern, minimalist tech office. The style should be photorealistic, with a shallow depth of field, sharp focus on the person, and cinematic lighting. High resolution, detailed, professional headshot.", strings.ToLower(string(g)))
}

// ReadAloudText is what gets spoken for an item.
func ReadAloudText(title, description string) string {
	return title + ". " + description
}
