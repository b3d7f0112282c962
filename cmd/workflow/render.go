package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/workflow"
	bt "github.com/fwojciec/workflow/bubbletea"
	wfjson "github.com/fwojciec/workflow/json"
	"github.com/fwojciec/workflow/markdown"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		format string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render reply text into display nodes",
		Long: `Read model reply text from a file, or stdin when no file is given, and
print the rendered nodes.

Formats:
  html      reply markup as shown in the web chat
  json      node list
  terminal  styled text as shown in the terminal chat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return renderNodes(cmd.OutOrStdout(), markdown.Render(string(src)), format, width)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "Output format: html, json, terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for terminal output")
	return cmd
}

func renderNodes(w io.Writer, nodes []workflow.Node, format string, width int) error {
	var out string
	switch format {
	case "html":
		out = markdown.HTML(nodes)
	case "json":
		data, err := wfjson.MarshalNodes(nodes)
		if err != nil {
			return err
		}
		out = string(data)
	case "terminal":
		out = bt.RenderNodes(nodes, width, bt.NewStyles(workflow.DefaultTheme()))
	default:
		return fmt.Errorf("unknown format %q: must be html, json or terminal", format)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
