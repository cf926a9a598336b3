package cli

import (
	"errors"
	"sort"
	"time"

	"dayboard-cli/internal/format"
	"dayboard-cli/internal/model"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Scriptable item commands against the persistence service",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsCompleteCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items (incomplete only unless --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Client().FetchItems(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !all {
				kept := items[:0]
				for _, it := range items {
					if !it.Completed {
						kept = append(kept, it)
					}
				}
				items = kept
			}
			sort.SliceStable(items, func(i, j int) bool {
				di, dj := items[i].DueDate, items[j].DueDate
				if (di == nil) != (dj == nil) {
					return dj == nil // dated before undated
				}
				if di != nil && *di != *dj {
					return di.Before(*dj)
				}
				if items[i].Order != items[j].Order {
					return items[i].Order < items[j].Order
				}
				return items[i].ID < items[j].ID
			})
			return format.Write(cmd.OutOrStdout(), items, app.Format, app.PrettyJSON)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include completed items")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var typ string
	var priority string
	var category string
	var due string
	var notes string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			for _, a := range args[1:] {
				text += " " + a
			}
			now := time.Now()
			id, err := model.NewItemID(now)
			if err != nil {
				return writeErr(cmd, err)
			}
			it := model.Item{
				ID:        id,
				Text:      text,
				Notes:     notes,
				Type:      model.ItemType(typ),
				Category:  category,
				Priority:  model.Priority(priority),
				CreatedAt: now,
			}
			if !model.ValidItemType(it.Type) {
				return writeErr(cmd, errors.New("invalid --type (task|idea)"))
			}
			if !model.ValidPriority(it.Priority) {
				return writeErr(cmd, errors.New("invalid --priority (high|medium|low)"))
			}
			if due != "" {
				d, err := model.ParseDate(due)
				if err != nil {
					return writeErr(cmd, err)
				}
				it.DueDate = &d
			}
			created, err := app.Client().CreateItems(cmd.Context(), []model.Item{it})
			if err != nil {
				return writeErr(cmd, err)
			}
			return format.Write(cmd.OutOrStdout(), created, app.Format, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.ItemTypeTask), "item type: task|idea")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "priority: high|medium|low")
	cmd.Flags().StringVar(&category, "category", "", "category name (free-form)")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "notes (markdown)")
	return cmd
}

func newItemsCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <item-id>",
		Short: "Toggle an item's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client()
			items, err := client.FetchItems(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, it := range items {
				if it.ID != args[0] {
					continue
				}
				it.Completed = !it.Completed
				if err := client.UpdateItem(cmd.Context(), it); err != nil {
					return writeErr(cmd, err)
				}
				return format.Write(cmd.OutOrStdout(), it, app.Format, app.PrettyJSON)
			}
			return writeErr(cmd, errNotFound("item", args[0]))
		},
	}
}

func newItemsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Client().DeleteItem(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			cmd.Println("deleted", args[0])
			return nil
		},
	}
}
