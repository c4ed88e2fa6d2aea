package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// runInitForm collects scaffold settings with an interactive terminal form.
// opts carries the defaults in and the answers out.
func runInitForm(opts *scaffoldOptions) error {
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endpoint").
				Description("Taxonomy service URL the generator POSTs to").
				Placeholder("https://forms.example.com/graphql").
				Value(&opts.Endpoint).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("endpoint must start with http:// or https://")
					}
					return nil
				}),

			huh.NewInput().
				Title("Output directory").
				Description("Where the generated option files land").
				Placeholder("options").
				Value(&opts.OutputDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Package name").
				Description("Package the generated files declare").
				Placeholder("options").
				Value(&opts.Package).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("package name is required")
					}
					return nil
				}),

			huh.NewConfirm().
				Title("Scaffold the project?").
				Affirmative("Create").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		return huh.ErrUserAborted
	}
	return nil
}
