package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/ui"
)

var (
	relateNote   string
	relateRemove bool
)

var relateCmd = &cobra.Command{
	Use:   "relate <source> <kind> <target>",
	Short: "Add or remove a typed relation between notes",
	Long: `Adds an outbound relation from source to target. The target may be a
title or a permalink, and it does not have to exist yet: the edge stays
unresolved until the target note is created.

Examples:
  loam relate "Auth Service" implements "Security Requirements"
  loam relate project/alpha depends_on "Postgres Cluster" --note "primary datastore"
  loam relate "Auth Service" implements "Security Requirements" --remove`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		source, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "")
		}
		kind := model.RelationKind(args[1])
		targetRef := args[2]

		if relateRemove {
			if err := s.RemoveRelation(source.Permalink, kind, targetRef); err != nil {
				return handleError(ErrCodeRelationError, err, "")
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"source": source.Permalink,
					"kind":   string(kind),
					"target": targetRef,
					"action": "removed",
				}, nil)
				return nil
			}
			fmt.Println(ui.Successf("Removed %s --%s--> %s", source.Permalink, kind, targetRef))
			return nil
		}

		if err := s.AddRelation(source.Permalink, kind, targetRef, relateNote); err != nil {
			return handleError(ErrCodeRelationError, err, "")
		}

		resolved := false
		for _, e := range s.Index().OutboundEdges(source.Permalink, kind) {
			if e.Relation.TargetRef == targetRef && e.Resolved() {
				resolved = true
				break
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"source":   source.Permalink,
				"kind":     string(kind),
				"target":   targetRef,
				"resolved": resolved,
				"action":   "added",
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Related %s --%s--> %s", source.Permalink, kind, targetRef))
		if !resolved {
			fmt.Println(ui.Warningf("Target '%s' does not exist yet; the edge will resolve when it is created", targetRef))
		}
		if !kind.Known() {
			fmt.Println(ui.Hint(fmt.Sprintf("'%s' is not a well-known relation kind (kept as written)", kind)))
		}
		return nil
	},
}

func init() {
	relateCmd.Flags().StringVar(&relateNote, "note", "", "Optional note attached to the relation")
	relateCmd.Flags().BoolVar(&relateRemove, "remove", false, "Remove the relation instead of adding it")
	rootCmd.AddCommand(relateCmd)
}
