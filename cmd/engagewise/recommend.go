// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/engagewise/engagewise/internal/projects"
	"github.com/engagewise/engagewise/internal/recommend"
	"github.com/engagewise/engagewise/internal/scoring"
	"github.com/engagewise/engagewise/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the study catalog against a study-configuration form",
	Long: `Recommend scores every catalog study against the study-configuration
form and prints the top matches, best first. Matching weighs disease area
heaviest, then setting, then age group and gender. Studies with nothing in
common with the form are never shown.

The form comes from flags or from a YAML file via --input. With --save the
shortlist is persisted as a named project; --star marks individual studies
by title before saving.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	input, err := formFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := engineConfig()
	ctx := context.Background()

	client := &http.Client{Timeout: cfg.Catalog.Timeout}
	catalog := recommend.LoadCatalog(ctx, client, cfg.Catalog, os.Stderr)

	shortlist := recommend.SelectTop(catalog, input, cfg.Catalog.TopK)
	if len(shortlist) == 0 {
		printPlaceholders(cfg.Catalog.TopK)
		return nil
	}
	printShortlist(shortlist)

	saveName, _ := cmd.Flags().GetString("save")
	starTitles, _ := cmd.Flags().GetStringArray("star")
	if saveName == "" && len(starTitles) == 0 {
		return nil
	}

	user, err := requireUser()
	if err != nil {
		return err
	}

	sess := projects.NewSession(user, input, recommend.Records(shortlist))
	for _, title := range starTitles {
		if _, ok := sess.FindRecommendation(title); !ok {
			return fmt.Errorf("cannot star %q: not in the shortlist", title)
		}
		sess.Star(title)
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	for _, title := range sess.StarredTitles() {
		study, _ := sess.FindRecommendation(title)
		if err := eng.manager.AddToStarred(ctx, sess, study); err != nil {
			return err
		}
		fmt.Printf("Starred %q\n", title)
	}

	if saveName != "" {
		description, _ := cmd.Flags().GetString("description")
		project, err := eng.manager.SaveProject(ctx, sess, saveName, description)
		if err != nil {
			return err
		}
		fmt.Printf("Saved project %s (%d recommendations, %d starred)\n",
			project.ID, len(project.Recommendations), project.StarredCount())
	}
	return nil
}

// formFromFlags builds the study-configuration form from --input or from
// the individual field flags.
func formFromFlags(cmd *cobra.Command) (types.UserInput, error) {
	var input types.UserInput

	if path, _ := cmd.Flags().GetString("input"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return input, fmt.Errorf("reading form file: %w", err)
		}
		if err := yaml.Unmarshal(data, &input); err != nil {
			return input, fmt.Errorf("parsing form file %s: %w", path, err)
		}
	}

	if v, _ := cmd.Flags().GetString("title"); v != "" {
		input.StudyTitle = v
	}
	if v, _ := cmd.Flags().GetString("disease-area"); v != "" {
		input.DiseaseArea = v
	}
	if v, _ := cmd.Flags().GetString("gender"); v != "" {
		input.Gender = types.Gender(strings.ToLower(v))
	}
	if v, _ := cmd.Flags().GetString("age-group"); v != "" {
		input.AgeGroup = v
	}
	if v, _ := cmd.Flags().GetString("setting"); v != "" {
		input.StudySetting = v
	}

	if input == (types.UserInput{}) {
		return input, fmt.Errorf("empty form: provide --input or at least one of --disease-area, --gender, --age-group, --setting")
	}
	return input, nil
}

func printShortlist(shortlist []types.ScoredStudy) {
	fmt.Printf("%-4s  %-6s  %-60s  %s\n", "Rank", "Score", "Study", "Strategy")
	fmt.Println(strings.Repeat("-", 110))
	for i, s := range shortlist {
		title := truncate(s.Study.Title(), 60)
		fmt.Printf("%-4d  %2d/%-3d  %-60s  %s\n",
			i+1, s.Score, scoring.MaxScore, title, s.Study.FirstIntervention().Name)
		if desc := s.Study.FirstIntervention().Description; desc != "" {
			fmt.Printf("%-14s%s\n", "", desc)
		}
		if result := s.Study.PrimaryResult(); result != "" {
			fmt.Printf("%-14sResult: %s\n", "", result)
		}
	}
	fmt.Printf("\n%d matching studies\n", len(shortlist))
}

func printPlaceholders(k int) {
	fmt.Println("No matching studies found.")
	for _, p := range recommend.Placeholders(k) {
		fmt.Printf("  %s\n", p.FirstIntervention().Name)
	}
}

func init() {
	recommendCmd.Flags().String("input", "", "study-configuration form as a YAML file")
	recommendCmd.Flags().String("title", "", "working title for your study")
	recommendCmd.Flags().String("disease-area", "", "disease area, matched exactly (e.g. \"Cancer\")")
	recommendCmd.Flags().String("gender", "", "target gender: male, female, or all")
	recommendCmd.Flags().String("age-group", "", "age group terms, comma- or space-separated")
	recommendCmd.Flags().String("setting", "", "study setting (e.g. \"hospital\")")
	recommendCmd.Flags().String("save", "", "persist the shortlist as a project with this name")
	recommendCmd.Flags().String("description", "", "project description used with --save")
	recommendCmd.Flags().StringArray("star", nil, "star a shortlist study by title (repeatable)")

	rootCmd.AddCommand(recommendCmd)
}
