package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jarch/internal/client"
)

func printProjects(cmd *cobra.Command, list []client.Project) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tDESCRIPTION")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Owner, p.Description)
	}
	return tw.Flush()
}

func newProjectsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Projects on the platform",
	}

	var joined bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List own (or --joined) projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			var ps []client.Project
			if joined {
				ps, err = c.JoinedProjects(cmd.Context())
			} else {
				ps, err = c.ListProjects(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printProjects(cmd, ps)
		},
	}
	list.Flags().BoolVar(&joined, "joined", false, "Projects where you are a team member")

	var description string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			if err := c.CreateProject(cmd.Context(), client.NewProject{Name: args[0], Description: description}); err != nil {
				return err
			}
			p, err := c.ProjectByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProjects(cmd, []client.Project{*p})
		},
	}
	create.Flags().StringVar(&description, "description", "", "Project description")

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a project by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			p, err := c.ProjectByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProjects(cmd, []client.Project{*p})
		},
	}

	cmd.AddCommand(list, create, get)
	return cmd
}

func newTeamCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Project team members",
	}

	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List team members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "PROJECT_ID")
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			members, err := c.Members(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, m := range members {
				cmd.Println(m.Username)
			}
			return nil
		},
	}

	member := func(use, short string, fn func(c *client.Client, cmd *cobra.Command, id int64, user string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " PROJECT_ID USERNAME",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "PROJECT_ID")
				if err != nil {
					return err
				}
				c, err := o.client()
				if err != nil {
					return err
				}
				return fn(c, cmd, id, args[1])
			},
		}
	}
	add := member("add", "Add a user to the team", func(c *client.Client, cmd *cobra.Command, id int64, user string) error {
		return c.AddMember(cmd.Context(), id, user)
	})
	remove := member("remove", "Remove a user from the team", func(c *client.Client, cmd *cobra.Command, id int64, user string) error {
		return c.RemoveMember(cmd.Context(), id, user)
	})

	cmd.AddCommand(list, add, remove)
	return cmd
}
