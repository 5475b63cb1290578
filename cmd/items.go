package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/output"
	"github.com/marcus/catalog/internal/pagination"
	"github.com/marcus/catalog/internal/session"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List items one page at a time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("page-size")
		filter, _ := cmd.Flags().GetString("filter")
		tree, _ := cmd.Flags().GetBool("tree")
		jsonOut, _ := cmd.Flags().GetBool("json")
		if size <= 0 {
			size = cfg.PageSize
		}
		q := pagination.NewPageQuery(size).WithFilter(filter).WithPage(page)

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			res, err := c.ListItems(cmd.Context(), q)
			if err != nil {
				return err
			}
			if jsonOut {
				return output.JSON(res.Items)
			}
			if len(res.Items) == 0 {
				fmt.Println("No items")
				return nil
			}
			if tree {
				lines := output.RenderTreeLines(output.CategoryTree(res.Items),
					output.TreeRenderOptions{ShowCount: true, ShowDetail: true})
				fmt.Println(strings.Join(lines, "\n"))
			} else {
				for _, it := range res.Items {
					fmt.Println(output.ItemLine(it))
				}
			}
			footer := fmt.Sprintf("page %d", q.Page)
			if res.HasNext(q) {
				footer += fmt.Sprintf(" (more: --page %d)", q.Page+1)
			}
			fmt.Println(footer)
			return nil
		}))
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an item, optionally attaching a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		file, _ := cmd.Flags().GetString("file")

		if file != "" {
			if _, err := os.Stat(file); err != nil {
				return report(fmt.Errorf("file not found: %s", file))
			}
		}
		in := models.ItemInput{Title: title, Category: category, Description: description}.WithDefaults()

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			it, err := c.CreateItem(cmd.Context(), in)
			if err != nil {
				return err
			}
			output.Success("CREATED #%d %s", it.ID, it.Title)
			if file == "" {
				return nil
			}
			if _, err := c.UploadFile(cmd.Context(), it.ID, file); err != nil {
				output.Warning("upload failed: %s", api.UserMessage(err))
				return nil
			}
			output.Success("UPLOADED %s", file)
			return nil
		}))
	},
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit [item-id] --title T --category C --description D",
	Short: "Replace an item's title, category and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return report(err)
		}
		// The server replaces every field, so each one must be given.
		var missing []string
		for _, name := range []string{"title", "category", "description"} {
			if !cmd.Flags().Changed(name) {
				missing = append(missing, "--"+name)
			}
		}
		if len(missing) > 0 {
			return report(fmt.Errorf("edit replaces the whole item, missing %s", strings.Join(missing, ", ")))
		}
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		in := models.ItemInput{Title: title, Category: category, Description: description}.WithDefaults()

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			if err := c.UpdateItem(cmd.Context(), id, in); err != nil {
				return err
			}
			output.Success("UPDATED #%d", id)
			return nil
		}))
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete [item-id...]",
	Short: "Delete one or more items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		ids := make([]int64, 0, len(args))
		for _, a := range args {
			id, err := parseID(a)
			if err != nil {
				return report(err)
			}
			ids = append(ids, id)
		}
		if !yes {
			ok, err := confirm(fmt.Sprintf("Delete %d item(s)?", len(ids)))
			if err != nil {
				return report(err)
			}
			if !ok {
				return nil
			}
		}

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			for _, id := range ids {
				if err := c.DeleteItem(cmd.Context(), id); err != nil {
					if api.IsUnauthorized(err) {
						return err
					}
					output.Error("failed to delete #%d: %s", id, api.UserMessage(err))
					continue
				}
				fmt.Printf("DELETED #%d\n", id)
			}
			return nil
		}))
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments [item-id] [text]",
	Short: "List an item's comments, or add one",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return report(err)
		}
		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			if len(args) == 2 {
				if _, err := c.AddComment(cmd.Context(), id, args[1]); err != nil {
					return err
				}
				output.Success("Comment added")
				return nil
			}
			comments, err := c.ListComments(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println("No comments")
			}
			for _, cm := range comments {
				fmt.Printf("%s  %s\n", cm.CreatedAt.Display(), cm.Content)
			}
			return nil
		}))
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func init() {
	itemsCmd.Flags().Int("page", 1, "page number")
	itemsCmd.Flags().Int("page-size", 0, "items per page (default from config)")
	itemsCmd.Flags().StringP("filter", "f", "", "only items matching this text")
	itemsCmd.Flags().Bool("tree", false, "group the page by category")
	addJSONFlag(itemsCmd.Flags())

	for _, c := range []*cobra.Command{itemsAddCmd, itemsEditCmd} {
		c.Flags().String("title", "", "item title (default \""+models.DefaultItemTitle+"\")")
		c.Flags().String("category", "", "category (default \""+models.DefaultItemCategory+"\")")
		c.Flags().String("description", "", "markdown description")
	}
	itemsAddCmd.Flags().String("file", "", "file to attach after creating")
	itemsDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsEditCmd)
	itemsCmd.AddCommand(itemsDeleteCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(commentsCmd)
}
