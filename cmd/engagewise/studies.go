// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/engagewise/engagewise/internal/projects"
	"github.com/engagewise/engagewise/pkg/types"
)

var studiesCmd = &cobra.Command{
	Use:   "studies",
	Short: "Manage saved study projects (list, show, delete)",
	Long: `Studies manages the projects saved from recommendation shortlists.
Listings merge the local and remote stores: the remote copy wins for
projects present in both, local-only projects are kept and queued for
mirroring, and an outage of either store degrades to the other.`,
}

// --- list subcommand ---

var studiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects, newest first",
	RunE:  runStudiesList,
}

func runStudiesList(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	merged, err := eng.manager.LoadAllProjects(context.Background(), user.UID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(merged)
	}

	fmt.Printf("%-34s  %-28s  %-20s  %-8s  %s\n", "ID", "Name", "Created", "Starred", "Source")
	fmt.Println(strings.Repeat("-", 102))
	for _, p := range merged {
		name := truncate(p.Name, 28)
		fmt.Printf("%-34s  %-28s  %-20s  %3d/%-4d  %s\n",
			p.ID, name, p.CreatedAt, p.StarredCount(), len(p.Recommendations), p.Source)
	}
	fmt.Printf("\n%d projects\n", len(merged))
	return nil
}

// --- show subcommand ---

var studiesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a project's starred recommendations",
	Long: `Show prints the detail view of one project: its metadata, the form it
was scored against, and the starred subset of its recommendations. Use
--all to include unstarred recommendations.`,
	Args: cobra.ExactArgs(1),
	RunE: runStudiesShow,
}

func runStudiesShow(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	project, err := eng.manager.LoadProject(context.Background(), user.UID, args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(project)
	}

	fmt.Printf("%s (%s)\n", project.Name, project.ID)
	if project.Description != "" {
		fmt.Println(project.Description)
	}
	fmt.Printf("Created: %s\n", project.CreatedAt)
	if in := project.UserInput; in != nil {
		fmt.Printf("Form: disease area %q, gender %q, age group %q, setting %q\n",
			in.DiseaseArea, in.Gender, in.AgeGroup, in.StudySetting)
	}

	recs := projects.StarredRecommendations(*project)
	label := "starred"
	if all, _ := cmd.Flags().GetBool("all"); all {
		recs = project.Recommendations
		label = "total"
	}
	fmt.Printf("\n%d %s recommendations:\n", len(recs), label)
	for _, rec := range recs {
		printRecommendation(rec)
	}
	return nil
}

func printRecommendation(rec types.Recommendation) {
	star := " "
	if rec.IsStarred {
		star = "*"
	}
	fmt.Printf("%s %s\n", star, rec.Title())
	if len(rec.InterventionDetails) > 0 {
		iv := rec.InterventionDetails[0]
		fmt.Printf("    %s: %s\n", iv.Name, iv.Description)
	}
	if rec.Outcomes != nil && len(rec.Outcomes.Primary) > 0 {
		fmt.Printf("    Result: %s\n", rec.Outcomes.Primary[0].Result)
	}
}

// --- delete subcommand ---

var studiesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a project from both stores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}

		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		if err := eng.manager.DeleteProject(context.Background(), user.UID, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	studiesListCmd.Flags().Bool("json", false, "output the merged listing as JSON")

	studiesShowCmd.Flags().Bool("json", false, "output the project as JSON")
	studiesShowCmd.Flags().Bool("all", false, "include unstarred recommendations")

	studiesCmd.AddCommand(studiesListCmd)
	studiesCmd.AddCommand(studiesShowCmd)
	studiesCmd.AddCommand(studiesDeleteCmd)

	rootCmd.AddCommand(studiesCmd)
}
