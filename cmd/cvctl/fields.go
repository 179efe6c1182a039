package main

import (
	"github.com/spf13/cobra"

	"cv-polisher/internal/polish"
)

type fieldFlags struct {
	name       string
	email      string
	education  string
	experience string
	skills     string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address (optional)")
	cmd.Flags().StringVar(&f.education, "education", "", "Education summary")
	cmd.Flags().StringVar(&f.experience, "experience", "", "Work experience summary")
	cmd.Flags().StringVar(&f.skills, "skills", "", "Skills list")
}

// fields returns sanitized, validated inputs.
func (f *fieldFlags) fields(maxLen int) (polish.ResumeFields, error) {
	rf := polish.ResumeFields{
		Name:       f.name,
		Email:      f.email,
		Education:  f.education,
		Experience: f.experience,
		Skills:     f.skills,
	}.Sanitized()
	if err := rf.Validate(maxLen); err != nil {
		return polish.ResumeFields{}, err
	}
	return rf, nil
}
