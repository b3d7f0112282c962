package workflow_test

import (
	"testing"

	"github.com/fwojciec/workflow"
	"github.com/stretchr/testify/assert"
)

func TestWorkflowConversation(t *testing.T) {
	t.Parallel()

	c := workflow.WorkflowConversation(workflow.Item{ID: 4, Title: "Communication Channels"})
	assert.Equal(t, "workflow-4", c.Key)
	assert.Equal(t, "Communication Channels", c.Title)
	assert.Contains(t, c.SystemPrompt, "You are Adam")
	assert.Contains(t, c.SystemPrompt, `The user is starting a conversation about "Communication Channels".`)
}

func TestAgent_Conversation(t *testing.T) {
	t.Parallel()

	c := workflow.Agent{Name: "Lyra", Prompt: "You are Lyra."}.Conversation()
	assert.Equal(t, "agent-Lyra", c.Key)
	assert.Equal(t, "You are Lyra.", c.SystemPrompt)
}

func TestInitialMessage(t *testing.T) {
	t.Parallel()

	got := workflow.InitialMessage("Version Control Setup", "Set up a repository.")
	assert.Equal(t, `I'm looking at the topic "Version Control Setup: Set up a repository.". Could you give me a detailed breakdown of best practices, common pitfalls, and some concrete first steps I can take? If there are any relevant CLI commands to get started, please include them.`, got)
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Freeze Scope Early", workflow.CleanTitle("  \"Freeze Scope Early\"\n"))
}

func TestPortraitPrompt(t *testing.T) {
	t.Parallel()

	assert.Contains(t, workflow.PortraitPrompt(workflow.GenderFemale), "solo female software engineering leader")
}

func TestSuggestionPrompts(t *testing.T) {
	t.Parallel()

	title := workflow.TitleSuggestionPrompt("Old", "Desc")
	assert.Contains(t, title, `Current Title: "Old"`)
	assert.Contains(t, title, `Current Description: "Desc"`)

	desc := workflow.DescriptionSuggestionPrompt("Old", "Desc")
	assert.Contains(t, desc, `task titled "Old"`)
	assert.Contains(t, desc, "markdown blockquote")
}

func TestReadAloudText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Title. Body text", workflow.ReadAloudText("Title", "Body text"))
}
