// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects that group library references",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.AddProject(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		projects, err := store.ListProjects(context.Background())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if projects == nil {
				projects = []types.Project{}
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(projects)
		}
		if len(projects) == 0 {
			fmt.Fprintln(w, "No projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Fprintf(w, "%-36s  %s\n", p.ID, p.Name)
		}
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Delete a project; its references stay in the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		detached, err := store.RemoveProject(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s (%d references detached)\n", args[0], detached)
		return nil
	},
}

func init() {
	projectListCmd.Flags().Bool("json", false, "output projects as JSON")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectRemoveCmd)

	rootCmd.AddCommand(projectCmd)
}
