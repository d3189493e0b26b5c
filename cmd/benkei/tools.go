package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/harunnryd/benkei/internal/tool"
	_ "github.com/harunnryd/benkei/internal/tool/builtin"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the built-in tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := formatToolTable()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func formatToolTable() (string, error) {
	tools, err := tool.InstantiateBuiltins(tool.BuiltinOptions{})
	if err != nil {
		return "", err
	}

	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Align(lipgloss.Center).
		Padding(0, 1)
	oddRowStyle := lipgloss.NewStyle().
		Foreground(gray).
		Padding(0, 1)
	evenRowStyle := lipgloss.NewStyle().
		Foreground(lightGray).
		Padding(0, 1)
	borderStyle := lipgloss.NewStyle().
		Foreground(purple)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers("Name", "Description")

	for _, tl := range tools {
		t.Row(tl.Name(), truncateString(tl.Description(), 60))
	}

	return t.String(), nil
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
