package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter resume JSON file",
	Long:  "Writes a starter resume in the JSON shape the other commands read. Edit it, then run validate.",
	RunE:  runInit,
}

var (
	initOut   string
	initForce bool
)

func init() {
	initCmd.Flags().StringVarP(&initOut, "out", "o", "resume.json", "Path to write the starter resume")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(initOut); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initOut)
	}

	if err := writeJSON(cmd.OutOrStdout(), initOut, starterResume()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter resume to %s\n", initOut)
	return nil
}

func starterResume() *types.Resume {
	return &types.Resume{
		Basics: &types.Basics{
			Name:     "Your Name",
			Email:    "you@example.com",
			Location: "City, Country",
			Links:    []string{"https://github.com/you"},
		},
		Summary: "Backend engineer with 5 years building distributed systems.",
		Experience: []types.Experience{
			{
				Company:   "Current Company",
				Role:      "Senior Software Engineer",
				StartDate: "2022-01",
				EndDate:   "Present",
				Bullets: []types.Bullet{
					types.NewBullet("Led migration of the billing service to Go, cutting p99 latency by 40%"),
					types.NewBullet("Designed an event pipeline processing 2M messages per day on Kafka"),
				},
			},
			{
				Company:   "Previous Company",
				Role:      "Software Engineer",
				StartDate: "2019-06",
				EndDate:   "2021-12",
				Bullets: []types.Bullet{
					types.NewBullet("Built REST APIs serving 500 requests per second for the mobile app"),
				},
			},
		},
		Education: []types.Education{
			{Institution: "State University", Degree: "B.S.", Field: "Computer Science"},
		},
		Skills: &types.Skills{
			LanguagesFrameworks: []string{"Go", "Python", "PostgreSQL"},
			Tools:               []string{"Docker", "Kubernetes", "Kafka"},
		},
	}
}
