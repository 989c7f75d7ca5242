package cmd

import (
	"encoding/json"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomaskral/photo-engine/internal/signature"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes [directory]",
	Short: "Find near-duplicate photos by perceptual hash",
	Long: `Analyze a directory and group photos whose perceptual hashes are within
the duplicate threshold (Hamming distance). Pairs within the looser similar
threshold are reported as suggestions, never auto-deduped.

Examples:
  # Find duplicates with default thresholds (10 / 20)
  photo-engine dupes ~/Pictures

  # Stricter duplicate threshold
  photo-engine dupes ~/Pictures --duplicate-distance 5`,
	Args: cobra.ExactArgs(1),
	RunE: runDupes,
}

func init() {
	rootCmd.AddCommand(dupesCmd)

	dupesCmd.Flags().Int("duplicate-distance", signature.DefaultDuplicateDistance,
		"Maximum Hamming distance for the duplicate class")
	dupesCmd.Flags().Int("similar-distance", signature.DefaultSimilarDistance,
		"Maximum Hamming distance for the similar suggestion class")
	dupesCmd.Flags().Int("concurrency", 0, "Parallel analyses (default from PHOTO_ENGINE_CONCURRENCY)")
	dupesCmd.Flags().Bool("quiet", false, "Suppress the progress bar")
}

// DuplicateGroup is a set of photos classified as the same image.
type DuplicateGroup struct {
	Photos []string `json:"photos"`
}

// SimilarPair is a visually similar photo pair, surfaced as a suggestion.
type SimilarPair struct {
	PhotoA   string `json:"photo_a"`
	PhotoB   string `json:"photo_b"`
	Distance int    `json:"distance"`
}

// groupDuplicates partitions signatures into duplicate groups (union-find
// over the duplicate relation) and collects similar-but-not-duplicate pairs.
func groupDuplicates(sigs []*signature.Signature, thresholds signature.Thresholds) ([]DuplicateGroup, []SimilarPair) {
	parent := make([]int, len(sigs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	var similar []SimilarPair
	for i := range sigs {
		for j := i + 1; j < len(sigs); j++ {
			dist := signature.HammingDistance(sigs[i].PHashBits, sigs[j].PHashBits)
			switch thresholds.Classify(dist) {
			case signature.Identical, signature.Duplicate:
				parent[find(i)] = find(j)
			case signature.Similar:
				similar = append(similar, SimilarPair{
					PhotoA:   sigs[i].PhotoID,
					PhotoB:   sigs[j].PhotoID,
					Distance: dist,
				})
			}
		}
	}

	members := make(map[int][]string)
	for i := range sigs {
		root := find(i)
		members[root] = append(members[root], sigs[i].PhotoID)
	}

	var groups []DuplicateGroup
	for _, photos := range members {
		if len(photos) < 2 {
			continue
		}
		sort.Strings(photos)
		groups = append(groups, DuplicateGroup{Photos: photos})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Photos[0] < groups[j].Photos[0] })

	return groups, similar
}

func runDupes(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := collectSources(args[0])
	if err != nil {
		return err
	}

	results, _ := runBatch(ctx, sources, mustGetInt(cmd, "concurrency"), mustGetBool(cmd, "quiet"))

	var sigs []*signature.Signature
	for _, r := range results {
		if r.Err == nil {
			sigs = append(sigs, r.Signature)
		}
	}

	thresholds := signature.Thresholds{
		Duplicate: mustGetInt(cmd, "duplicate-distance"),
		Similar:   mustGetInt(cmd, "similar-distance"),
	}
	groups, similar := groupDuplicates(sigs, thresholds)

	output := struct {
		Groups   []DuplicateGroup `json:"duplicate_groups"`
		Similar  []SimilarPair    `json:"similar_suggestions,omitempty"`
		Analyzed int              `json:"analyzed"`
	}{
		Groups:   groups,
		Similar:  similar,
		Analyzed: len(sigs),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
