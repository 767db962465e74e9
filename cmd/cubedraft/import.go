package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/scryfall"
)

func newImportCmd(opts *options) *cobra.Command {
	var name, owner, baseURL string

	cmd := &cobra.Command{
		Use:   "import LIST_FILE",
		Short: "Resolve a plain-text card list through Scryfall and print the cube JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read list: %w", err)
			}

			sc := opts.cfg.Scryfall
			if baseURL != "" {
				sc.BaseURL = baseURL
			}
			importer := scryfall.NewImporter(scryfall.NewClient(scryfall.Options{
				BaseURL:           sc.BaseURL,
				UserAgent:         sc.UserAgent,
				RequestsPerSecond: sc.RequestsPerSecond,
			}))

			result, err := importer.Import(cmd.Context(), string(data))
			if err != nil {
				return err
			}
			for _, missing := range result.NotFound {
				fmt.Fprintln(cmd.ErrOrStderr(), "not found:", missing)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			return writeJSON(cmd.OutOrStdout(), &cube.Cube{Name: name, Owner: owner, Cards: result.Cards})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Cube name (default: list file name)")
	cmd.Flags().StringVar(&owner, "owner", "", "Cube owner")
	cmd.Flags().StringVar(&baseURL, "scryfall-url", "", "Scryfall API base URL (overrides config)")
	return cmd
}
