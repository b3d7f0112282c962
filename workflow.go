// Package workflow defines the domain types of a project-setup assistant:
// workflow items, chat conversations, agents, and the rendered nodes of a
// streamed model reply.
//
// Subpackages implement these types against concrete dependencies: markdown
// renders replies, gemini talks to the model API, sqlite and store persist
// state, chat drives streaming turns, and http and bubbletea present it all.
package workflow
