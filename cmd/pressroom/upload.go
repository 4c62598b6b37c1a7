package main

import (
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload or remove stored files without touching announcements",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "file <path>...",
			Short: "Upload attachments in order, stopping at the first failure",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				files, closeFiles, err := openFiles(args)
				if err != nil {
					return err
				}
				defer closeFiles()

				client := opts.client()
				metas, err := attachment.NewManager(client).AddFiles(cmd.Context(), opts.password, files)
				if err != nil {
					return err
				}
				return writeMetas(opts, metas)
			},
		},
		&cobra.Command{
			Use:   "image <path>",
			Short: "Upload an inline image",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				files, closeFiles, err := openFiles(args)
				if err != nil {
					return err
				}
				defer closeFiles()

				url, err := attachment.NewImageHook(opts.client()).Upload(cmd.Context(), opts.password, files...)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(map[string]string{"url": url})
				}
				return writePlain("%s\n", url)
			},
		},
		&cobra.Command{
			Use:   "remove <storedName>",
			Short: "Delete a stored object by its stored name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.client().RemoveUpload(cmd.Context(), opts.password, args[0]); err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(map[string]bool{"success": true})
				}
				return writePlain("removed %s\n", args[0])
			},
		},
	)
	return cmd
}

func writeMetas(opts *clientOptions, metas []attachment.Meta) error {
	if opts.jsonOutput {
		return writeJSON(metas)
	}
	for _, m := range metas {
		if err := writePlain("%s\n", formatMeta(m)); err != nil {
			return err
		}
	}
	return nil
}
