package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/output"
	"github.com/marcus/catalog/internal/pagination"
	"github.com/marcus/catalog/internal/session"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users (admin only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return output.JSON(users)
			}
			for _, u := range users {
				fmt.Printf("#%-5d %-20s %s\n", u.ID, u.Username, u.Role)
			}
			return nil
		}))
	},
}

var roleCmd = &cobra.Command{
	Use:   "role [user-id] [role]",
	Short: "Change a user's role (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return report(err)
		}
		role := models.Role(args[1])
		if !models.IsValidRole(role) {
			return report(fmt.Errorf("invalid role %q (want one of %v)", role, models.Roles))
		}
		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			if err := c.UpdateUserRole(cmd.Context(), id, role); err != nil {
				return err
			}
			output.Success("Updated #%d to %s", id, role)
			return nil
		}))
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log (admin only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		filter, _ := cmd.Flags().GetString("filter")
		jsonOut, _ := cmd.Flags().GetBool("json")
		q := pagination.NewPageQuery(cfg.AuditPageSize).WithFilter(filter).WithPage(page)

		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			res, err := c.ListAudit(cmd.Context(), q)
			if err != nil {
				return err
			}
			if jsonOut {
				return output.JSON(res.Items)
			}
			for _, e := range res.Items {
				fmt.Printf("%s  %-12s %-10s %s\n", e.CreatedAt.Display(), e.Actor, e.Action, e.Target)
				if e.Detail != "" {
					fmt.Printf("    %s\n", e.Detail)
				}
			}
			if total := res.TotalPages(q.PageSize); total > 0 {
				fmt.Printf("page %d of %d\n", q.Page, total)
			}
			return nil
		}))
	},
}

func init() {
	addJSONFlag(usersCmd.Flags())
	auditCmd.Flags().Int("page", 1, "page number")
	auditCmd.Flags().StringP("filter", "f", "", "only entries matching this text")
	addJSONFlag(auditCmd.Flags())

	usersCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(auditCmd)
}
