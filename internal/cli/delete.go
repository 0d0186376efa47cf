package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a photo after confirmation",
		Example: `  # Ask before deleting
  dronectl delete 7

  # No prompt
  dronectl delete 7 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := model.ParsePhotoID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			g := a.gallery()
			out := cmd.OutOrStdout()
			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				return askYesNo(cmd.InOrStdin(), out, prompt)
			}

			err = g.Delete(ctx, id, confirm)
			switch {
			case errors.Is(err, model.ErrDeleteCancelled):
				return nil
			case err != nil:
				return errors.New(g.Status())
			}

			fmt.Fprintln(out, g.Status())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
