package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/workflow"
	bt "github.com/fwojciec/workflow/bubbletea"
	"github.com/fwojciec/workflow/fs"
	"github.com/fwojciec/workflow/htmltext"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var (
		itemID int
		agent  string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat about a task or with an agent in the terminal",
		Long: `Open a terminal chat. With --item, the conversation is the task's
architect chat shared with the web interface; a fresh chat starts by
sending the task to the model. With --agent, chat with a persona.

Ctrl+C cancels a reply in progress, or quits when idle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (itemID == 0) == (agent == "") {
				return errors.New("exactly one of --item or --agent is required")
			}
			return a.chat(cmd.Context(), itemID, agent)
		},
	}
	cmd.Flags().IntVar(&itemID, "item", 0, "Task ID")
	cmd.Flags().StringVar(&agent, "agent", "", "Agent name")
	return cmd
}

func (a *app) chat(ctx context.Context, itemID int, agentName string) error {
	db, items, histories, err := a.stores()
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		conv workflow.Conversation
		seed string
	)
	if itemID != 0 {
		it, err := items.Get(ctx, itemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", itemID, err)
		}
		conv = workflow.WorkflowConversation(it)
		seed = workflow.InitialMessage(it.Title, htmltext.MustText(it.Description))
	} else {
		agents, err := fs.NewAgents(a.cfg.Agents.Dir, a.cfg.Agents.Pattern, a.logger)
		if err != nil {
			return err
		}
		ag, err := agents.Agent(ctx, agentName)
		if err != nil {
			return fmt.Errorf("agent %q: %w", agentName, err)
		}
		conv = ag.Conversation()
	}

	client, err := a.client(ctx)
	if err != nil {
		return err
	}
	runner := a.runner(client, histories)
	history, err := runner.History(ctx, conv.Key)
	if err != nil {
		return err
	}

	m := bt.New(bt.RunnerTurn(runner, conv), workflow.DefaultTheme(),
		bt.WithTitle(conv.Title),
		bt.WithHistory(history),
		bt.WithSeed(seed),
	)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
