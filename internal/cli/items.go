package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAddCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  minArgs(1, "todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Line breaks and tabs fold to single spaces so an item stays one line.
			title := strings.Join(strings.Fields(strings.Join(args, " ")), " ")
			it, ok := a.root.AddItem(title)
			if !ok {
				return usageError{"add: empty title"}
			}
			a.warnIfUnsaved()
			ui.OK(fmt.Sprintf("added %s", ui.ShortID(it.ID)))
			return nil
		},
	}
}

func newListCmd(a *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    exactArgs(0, "todo ls [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := a.root.Items()
			d, _ := model.Stats(items)

			var lines []string
			lines = append(lines, ui.Header(items))
			lines = append(lines, ui.MutedStyle.Render(ui.ProgressBar(d, len(items), 28)))
			lines = append(lines, "")
			if group {
				lines = append(lines, ui.GroupLines(items)...)
			} else {
				lines = append(lines, ui.FlatLines(items)...)
			}
			lines = append(lines, "")
			lines = append(lines, ui.MutedStyle.Render("Tip: add with `todo add Buy milk`"))
			ui.Panel(lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

// newDoneCmd builds `done` (completed=true) or `undone` (completed=false).
func newDoneCmd(a *App, completed bool) *cobra.Command {
	use, short, msg := "done", "Mark an item completed", "completed"
	if !completed {
		use, short, msg = "undone", "Mark an item pending again", "reopened"
	}
	return &cobra.Command{
		Use:   use + " <ref>",
		Short: short + " (ref: 1-based index, id or id prefix)",
		Args:  exactArgs(1, "todo "+use+" <ref>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := resolveRef(a.root.Items(), args[0])
			if err != nil {
				return err
			}
			a.root.ToggleItem(it.ID, completed)
			a.warnIfUnsaved()
			ui.OK(msg + ": " + it.Title)
			return nil
		},
	}
}

func newRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Remove an item (ref: 1-based index, id or id prefix)",
		Args:    exactArgs(1, "todo rm <ref>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := resolveRef(a.root.Items(), args[0])
			if err != nil {
				return err
			}
			a.root.DeleteItem(it.ID)
			a.warnIfUnsaved()
			ui.OK("removed: " + it.Title)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0, "todo version"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "todo "+Version)
		},
	}
}

// resolveRef finds an item by 1-based index, exact id, or unique id prefix.
func resolveRef(items []model.Item, ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Item{}, refError{ref: `""`, reason: "empty reference"}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return model.Item{}, refError{ref: ref, reason: fmt.Sprintf("index out of range (have %d)", len(items))}
		}
		return items[n-1], nil
	}
	var match []model.Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			match = append(match, it)
		}
	}
	switch len(match) {
	case 0:
		return model.Item{}, refError{ref: ref, reason: "no item matches"}
	case 1:
		return match[0], nil
	}
	return model.Item{}, refError{ref: ref, reason: fmt.Sprintf("ambiguous id prefix (%d matches)", len(match))}
}
