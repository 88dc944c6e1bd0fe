// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/engagewise/engagewise/internal/projects"
	"github.com/engagewise/engagewise/internal/recommend"
	"github.com/engagewise/engagewise/pkg/types"
)

var starCmd = &cobra.Command{
	Use:   "star",
	Short: "Manage the standing starred-items bucket",
	Long: `Star adds catalog studies to, or removes them from, your standing
"Starred Items" collection. The bucket is created on first use, there is
one per user, and entries are deduplicated by study title.`,
}

var starAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Star a catalog study by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStar(args, true)
	},
}

var starRemoveCmd = &cobra.Command{
	Use:   "remove [title]",
	Short: "Remove a study from the starred bucket by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStar(args, false)
	},
}

func runStar(args []string, add bool) error {
	title := strings.Join(args, " ")

	user, err := requireUser()
	if err != nil {
		return err
	}

	cfg := engineConfig()
	ctx := context.Background()

	// Removal only needs the title; adding needs the full catalog record so
	// the stored entry carries the intervention and outcome projection.
	study := types.StudyRecord{Metadata: types.StudyMetadata{Title: title}}
	if add {
		client := &http.Client{Timeout: cfg.Catalog.Timeout}
		catalog := recommend.LoadCatalog(ctx, client, cfg.Catalog, os.Stderr)
		found := false
		for _, s := range catalog {
			if strings.EqualFold(s.Title(), title) {
				study = s
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no catalog study titled %q", title)
		}
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	sess := projects.NewSession(user, types.UserInput{}, nil)
	if add {
		if err := eng.manager.AddToStarred(ctx, sess, study); err != nil {
			return err
		}
		fmt.Printf("Starred %q\n", study.Title())
	} else {
		if err := eng.manager.RemoveFromStarred(ctx, sess, study); err != nil {
			return err
		}
		fmt.Printf("Removed %q from starred items\n", title)
	}
	return nil
}

func init() {
	starCmd.AddCommand(starAddCmd)
	starCmd.AddCommand(starRemoveCmd)

	rootCmd.AddCommand(starCmd)
}
