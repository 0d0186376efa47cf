package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every photo stored in the image service",
		Example: `  dronectl list
  dronectl list --backend 192.168.0.141:8084 --lang en`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			g := a.gallery()

			photos, err := g.Load(ctx)
			if err != nil {
				return errors.New(g.Status())
			}

			out := cmd.OutOrStdout()
			if len(photos) == 0 {
				_, err := fmt.Fprintln(out, a.messages().EmptyGallery)
				return err
			}

			m := a.messages()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tFILENAME\t%s\t%s\n", m.ProcessLabel, m.LocationLabel)
			for _, p := range photos {
				proc, loc := "-", "-"
				if p.ProcessID != nil {
					proc = m.ProcessText(*p.ProcessID)
				}
				if p.LocationID != nil {
					loc = m.LocationText(*p.LocationID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.OriginalFilename, proc, loc)
			}
			return tw.Flush()
		},
	}
}
