package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/config"
	"github.com/mesh-intelligence/schemalab/internal/paths"
)

type initResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write a default config.yaml",
		Long:        "Create the configuration directory and write config.yaml with default values.\nAn existing config.yaml is left untouched.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := config.WriteDefault(a.configDir)
			if err != nil {
				return sysError(err)
			}
			res := initResult{Path: paths.ConfigFile(a.configDir), Created: created}
			return a.emit(cmd, res, func(w io.Writer) error {
				if created {
					_, err := fmt.Fprintf(w, "Wrote %s\n", res.Path)
					return err
				}
				_, err := fmt.Fprintf(w, "%s already exists\n", res.Path)
				return err
			})
		},
	}
}
