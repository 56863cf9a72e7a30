package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and backend availability",
	Long:  paragraph(fmt.Sprintf("\n%s the configuration, create the output and cache directories and report which synthesis backends can run.", keyword("Check"))),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("Config:", configFile)

		if err := application.Prepare(); err != nil {
			return err
		}
		fmt.Println("Output:", cfg.OutputDir())
		fmt.Println("Cache: ", cfg.TempDir())

		if _, err := cfg.Voice(nil); err != nil {
			return err
		}
		selected, err := cfg.Engine("")
		if err != nil {
			return err
		}
		fmt.Println()

		guide := lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("243"))
		usable := false
		for _, s := range application.Check(cmd.Context()) {
			mark := okStyle.Render("✓")
			if !s.Available {
				mark = failStyle.Render("✗")
			}
			current := ""
			if s.Engine == selected {
				current = keyword(" selected ")
				usable = s.Available
			}
			fmt.Printf("%s %-8s %s %s\n", mark, s.Engine, dimStyle.Render(s.Info.Binary), current)
			if s.Guidance != "" {
				fmt.Println(guide.Render(s.Guidance))
			}
		}

		if !usable {
			return fmt.Errorf("the selected backend %s is not available", selected)
		}
		return nil
	},
}
