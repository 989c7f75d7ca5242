package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomaskral/photo-engine/internal/config"
	"github.com/tomaskral/photo-engine/internal/faces"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [detections.json]",
	Short: "Group face detections into persons",
	Long: `Cluster face detections into persons using density clustering over their
embedding distances.

The input file holds detections produced by an external face detector and
embedding generator: photo ID, normalized bounding box, confidence score,
photo dimensions and the embedding vector. Detections still waiting for an
embedding are skipped and reported as a count.

With --persons, new detections are first matched against the centroids of
existing persons (stricter match distance); only the remainder goes through
batch clustering.

Examples:
  # Cluster with the default profile
  photo-engine cluster detections.json

  # Higher accuracy profile
  photo-engine cluster detections.json --profile HIGH_ACCURACY

  # Match against known persons first, then cluster the rest
  photo-engine cluster detections.json --persons persons.json

  # Only show results for one person (case- and accent-insensitive)
  photo-engine cluster detections.json --persons persons.json --person "Jiri"`,
	Args: cobra.ExactArgs(1),
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)

	clusterCmd.Flags().String("profile", "", "Face profile: DEFAULT, HIGH_ACCURACY or FAST (default from PHOTO_ENGINE_FACE_PROFILE)")
	clusterCmd.Flags().String("persons", "", "JSON file with existing persons to match against before clustering")
	clusterCmd.Flags().String("person", "", "Filter output to one named person from --persons")
}

// Assignment records an incremental match of a new detection to an existing
// person.
type Assignment struct {
	Detection faces.Detection `json:"detection"`
	PersonID  string          `json:"person_id"`
	Distance  float64         `json:"distance"`
}

func loadDetections(path string) ([]faces.Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detections: %w", err)
	}
	var detections []faces.Detection
	if err := json.Unmarshal(data, &detections); err != nil {
		return nil, fmt.Errorf("failed to parse detections: %w", err)
	}
	return detections, nil
}

func loadPersons(path string) ([]faces.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persons: %w", err)
	}
	var persons []faces.Person
	if err := json.Unmarshal(data, &persons); err != nil {
		return nil, fmt.Errorf("failed to parse persons: %w", err)
	}
	return persons, nil
}

func runCluster(cmd *cobra.Command, args []string) error {
	profileName := mustGetString(cmd, "profile")
	if profileName == "" {
		profileName = config.Load().Faces.Profile
	}
	profile, err := faces.ProfileByName(profileName)
	if err != nil {
		return err
	}

	detections, err := loadDetections(args[0])
	if err != nil {
		return err
	}

	clusterer, err := faces.NewClusterer(profile)
	if err != nil {
		return err
	}

	var assignments []Assignment
	var existing []faces.Person

	if personsPath := mustGetString(cmd, "persons"); personsPath != "" {
		existing, err = loadPersons(personsPath)
		if err != nil {
			return err
		}

		index, err := faces.NewPersonIndex(profile)
		if err != nil {
			return err
		}
		index.Rebuild(existing)

		// Incremental pass: anything close enough to a known person is
		// assigned directly; the rest goes through batch clustering.
		var remaining []faces.Detection
		for _, det := range detections {
			if det.HasEmbedding() {
				if m, ok := index.Match(det.Embedding); ok {
					det.PersonID = m.PersonID
					assignments = append(assignments, Assignment{
						Detection: det,
						PersonID:  m.PersonID,
						Distance:  m.Distance,
					})
					continue
				}
			}
			remaining = append(remaining, det)
		}
		detections = remaining
	}

	result := clusterer.Cluster(detections)

	output := struct {
		Profile     string            `json:"profile"`
		Persons     []faces.Person    `json:"persons"`
		Unassigned  []faces.Detection `json:"unassigned"`
		Assignments []Assignment      `json:"assignments,omitempty"`
		Skipped     int               `json:"skipped_no_embedding"`
		Filtered    int               `json:"filtered_low_quality"`
		Suppressed  int               `json:"suppressed_overlaps"`
	}{
		Profile:     profileName,
		Persons:     result.Persons,
		Unassigned:  result.Unassigned,
		Assignments: assignments,
		Skipped:     result.SkippedNoEmbedding,
		Filtered:    result.FilteredLowQuality,
		Suppressed:  result.SuppressedOverlaps,
	}

	if personName := mustGetString(cmd, "person"); personName != "" {
		nameIndex := faces.NewNameIndex(existing)
		personID, ok := nameIndex.Lookup(personName)
		if !ok {
			return fmt.Errorf("unknown person %q in --persons file", personName)
		}

		var filtered []Assignment
		for _, a := range assignments {
			if a.PersonID == personID {
				filtered = append(filtered, a)
			}
		}
		output.Assignments = filtered
		output.Persons = nil
		output.Unassigned = nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
