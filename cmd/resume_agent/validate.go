package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate resume and job profile JSON files",
	Long:  "Checks files against the bundled JSON Schemas and the field rules the other commands enforce.",
	RunE:  runValidate,
}

var (
	validateResume  string
	validateProfile string
)

func init() {
	validateCmd.Flags().StringVarP(&validateResume, "resume", "r", "", "Path to resume JSON")
	validateCmd.Flags().StringVarP(&validateProfile, "profile", "p", "", "Path to job profile JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	resumePath := firstNonEmpty(validateResume, fileConfig.Resume)
	profilePath := firstNonEmpty(validateProfile, fileConfig.Profile)
	if resumePath == "" && profilePath == "" {
		return fmt.Errorf("provide --resume, --profile or both")
	}

	out := cmd.OutOrStdout()
	if resumePath != "" {
		resume, err := readResume(resumePath)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "✓ %s: valid resume (%d roles, %d bullets)\n",
			resumePath, len(resume.Experience), resume.ExperienceBulletCount())
	}
	if profilePath != "" {
		profile, err := readProfile(profilePath)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "✓ %s: valid job profile (%s, %d key skills)\n",
			profilePath, profile.RoleTitle, len(profile.KeySkills))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
