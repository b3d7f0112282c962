package workflow

import (
	"context"
	"slices"
)

// Status is the progress state of a workflow item.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusDone}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// Options returns the statuses an item in state s can move to.
func (s Status) Options() []Status {
	var out []Status
	for _, o := range Statuses() {
		if o != s {
			out = append(out, o)
		}
	}
	return out
}

// Gender selects portrait prompts and speech voices.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Item is one project-setup task. Description is HTML from a rich editor.
type Item struct {
	ID          int
	Title       string
	Description string
	Status      Status
	ImageURL    string // data URL of the generated portrait, empty if none
	ImageGender Gender
	Bookmarked  bool
}

// ItemStore persists the ordered list of workflow items.
type ItemStore interface {
	// LoadItems returns the stored items, seeding DefaultItems when empty.
	LoadItems(ctx context.Context) ([]Item, error)
	SaveItems(ctx context.Context, items []Item) error
}

// HistoryStore persists chat histories by conversation key.
// LoadHistory returns an empty slice for an unknown key.
type HistoryStore interface {
	LoadHistory(ctx context.Context, key string) ([]Message, error)
	SaveHistory(ctx context.Context, key string, msgs []Message) error
	ClearHistory(ctx context.Context, key string) error
}

// KV is a byte-oriented key-value store. Get returns ErrNotFound for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// FilterBookmarked returns the bookmarked items, preserving order.
func FilterBookmarked(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Bookmarked {
			out = append(out, it)
		}
	}
	return out
}

// FindItem returns the index of the item with the given id, or -1.
func FindItem(items []Item, id int) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
}

// DefaultItems returns the seeded project-setup checklist.
func DefaultItems() []Item {
	return []Item{
		{
			ID:          1,
			Title:       "Requirement Definition & Scope Freezing",
			Description: "Start with a clear understanding of what you're building. Document core features and requirements to prevent scope creep.",
			Status:      StatusToDo,
		},
		{
			ID:          2,
			Title:       "Version Control Setup",
			Description: "Set up a repository (e.g., Git) and agree on a branching strategy like Git Flow or Trunk Based Development.",
			Status:      StatusToDo,
		},
		{
			ID:          3,
			Title:       "Issue Tracking System",
			Description: "Choose and configure a system (Jira, GitHub Issues, Trello) to track tasks, bugs, and features.",
			Status:      StatusToDo,
		},
		{
			ID:          4,
			Title:       "Communication Channels",
			Description: "Establish where team communication happens (Slack, Teams) and create channels for different topics.",
			Status:      StatusToDo,
		},
		{
			ID:          5,
			Title:       "Initial Architecture & Design Principles",
			Description: "Lay down core architectural decisions, technology stack choices, and fundamental design principles (e.g., DRY, KISS, SOLID).",
			Status:      StatusToDo,
		},
		{
			ID:          6,
			Title:       "Coding Standards & Linters",
			Description: "Define a style guide and implement linters/formatters (Prettier, ESLint) to ensure code consistency.",
			Status:      StatusToDo,
		},
		{
			ID:          7,
			Title:       "Development Environment Setup",
			Description: "Document or script the process for setting up a local development environment to make it easy for everyone.",
			Status:      StatusToDo,
		},
		{
			ID:          8,
			Title:       `Basic Definition of "Done"`,
			Description: "Establish criteria a task must meet to be considered complete (e.g., code written, reviewed, passes tests).",
			Status:      StatusToDo,
		},
		{
			ID:          9,
			Title:       "Iteration/Planning Structure (if Agile)",
			Description: "Decide on initial sprint length, planning meeting frequency, and how work will be prioritized.",
			Status:      StatusToDo,
		},
	}
}
