package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	var process string
	var location string

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a photo to the image service",
		Long: `Upload a photo to the image service.

In extended mode (the default) both --process and --location are required.
In basic mode only the file is sent.`,
		Example: `  # Extended mode
  dronectl upload ./shots/wing.jpg --process paint --location 3

  # Basic mode, file only
  dronectl upload ./shots/wing.jpg --mode basic`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			m := a.messages()
			g := a.gallery()

			p, err := model.ParseProcessID(process)
			if err != nil {
				return fmt.Errorf("--process: %w", err)
			}
			l, err := model.ParseLocationID(location)
			if err != nil {
				return fmt.Errorf("--location: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			st, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", args[0], err)
			}
			ctype, err := detectContentType(f)
			if err != nil {
				return err
			}

			if err := g.SelectFile(ctx, filepath.Base(args[0]), ctype, st.Size(), f); err != nil {
				return err
			}

			if err := g.SetProcess(p); err != nil {
				return err
			}
			if err := g.SetLocation(l); err != nil {
				return err
			}

			if _, err := g.Upload(ctx); err != nil {
				switch {
				case errors.Is(err, model.ErrNoFileSelected):
					return errors.New(m.NoFile)
				case errors.Is(err, model.ErrMissingProcess), errors.Is(err, model.ErrMissingLocation):
					return errors.New(m.MissingFields)
				default:
					return errors.New(g.Status())
				}
			}

			snap := g.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), snap.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", m.GalleryHeading, len(snap.Photos))
			return nil
		},
	}

	cmd.Flags().StringVar(&process, "process", "", "Process id: cut, process, assemble, paint, load, launch (or PROC_*)")
	cmd.Flags().StringVar(&location, "location", "", "Location id, 1..6")

	return cmd
}

// detectContentType guesses from the extension first, then sniffs the header bytes
func detectContentType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind %s: %w", f.Name(), err)
	}
	return http.DetectContentType(head[:n]), nil
}
