package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the rvc config file",
	Long:    paragraph(fmt.Sprintf("\n%s the rvc config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("rvc config\nrvc config --config path/to/config.toml\nrvc config --path"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.EnsureFile(configFile); err != nil {
			return err
		}

		if printPath, _ := cmd.Flags().GetBool("path"); printPath {
			fmt.Println(configFile)
			return nil
		}

		c, err := editor.Cmd("rvc", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("path", false, "print the config file path and exit")
}
