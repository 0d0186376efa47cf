package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch ID",
		Short: "Download the raw image bytes of a photo",
		Example: `  dronectl fetch 7 -o wing.jpg
  dronectl fetch 7 > wing.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := model.ParsePhotoID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			body, _, err := a.client.Image(ctx, id)
			if err != nil {
				return err
			}
			defer body.Close()

			var dst io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				dst = f
			}

			if _, err := io.Copy(dst, body); err != nil {
				return fmt.Errorf("write image %d: %w", id, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
