package main

import (
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/cubedraft/internal/draft"
)

func (o *options) generator() *draft.Generator {
	return draft.NewGenerator(draft.WithDefaultSeats(o.cfg.Draft.DefaultSeats))
}

func newGenerateCmd(opts *options) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "generate CUBE_FILE",
		Short: "Generate a draft and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCube(args[0])
			if err != nil {
				return err
			}
			f, err := opts.resolveFormat()
			if err != nil {
				return err
			}

			d, err := opts.generator().Generate(cmd.Context(), draft.GenerateRequest{
				CubeID: c.ID,
				Owner:  owner,
				Format: f,
				Cards:  c.Cards,
				Seats:  opts.seats,
				Seed:   opts.seed,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Name of the human seat")
	return cmd
}
