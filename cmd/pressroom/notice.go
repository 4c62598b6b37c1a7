package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/authoring"
	"github.com/spf13/cobra"
)

func newNoticeCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notice",
		Aliases: []string{"announcement"},
		Short:   "Manage announcements through a running server",
	}

	cmd.AddCommand(
		newNoticeListCmd(opts),
		newNoticeShowCmd(opts),
		newNoticeCreateCmd(opts),
		newNoticeEditCmd(opts),
		newNoticeDeleteCmd(opts),
	)
	return cmd
}

func newNoticeListCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List announcements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.client().List(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(list)
			}
			return writeNoticeList(list)
		},
	}
}

func newNoticeShowCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(a)
			}
			return writeNoticeDetail(a)
		},
	}
}

type draftFlags struct {
	title       string
	content     string
	contentFile string
	attach      []string
	images      []string
	remove      []int
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "announcement title")
	cmd.Flags().StringVar(&f.content, "content", "", "rich-text content")
	cmd.Flags().StringVar(&f.contentFile, "content-file", "", "read rich-text content from a file")
	cmd.Flags().StringArrayVar(&f.attach, "attach", nil, "file to upload and attach (repeatable, kept in order)")
	cmd.Flags().StringArrayVar(&f.images, "image", nil, "image to upload and append inline to the content (repeatable)")
}

// apply runs the flag-driven edits against the session in a fixed order:
// fields, removals, new attachments, inline images.
func (f *draftFlags) apply(cmd *cobra.Command, s *authoring.Session) error {
	if cmd.Flags().Changed("title") {
		if err := s.SetTitle(f.title); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("content") || cmd.Flags().Changed("content-file") {
		content, err := readContent(f.content, f.contentFile)
		if err != nil {
			return err
		}
		if err := s.SetContent(announcement.Content(content)); err != nil {
			return err
		}
	}

	for _, index := range removalOrder(f.remove) {
		if _, err := s.RemoveAttachment(index); err != nil {
			return err
		}
	}

	if len(f.attach) > 0 {
		files, closeFiles, err := openFiles(f.attach)
		if err != nil {
			return err
		}
		defer closeFiles()
		if _, err := s.AddFiles(cmd.Context(), files); err != nil {
			return err
		}
	}

	if len(f.images) > 0 {
		images, closeImages, err := openFiles(f.images)
		if err != nil {
			return err
		}
		defer closeImages()
		for _, img := range images {
			draft := s.Draft()
			if _, err := s.InsertImage(cmd.Context(), len(draft.Content), img); err != nil {
				return err
			}
		}
	}
	return nil
}

func newNoticeCreateCmd(opts *clientOptions) *cobra.Command {
	flags := &draftFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an announcement, uploading attachments first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			s := authoring.NewDraft(opts.password, authoring.Deps{Publisher: client, Uploader: client, Images: client})
			if err := flags.apply(cmd, s); err != nil {
				return err
			}
			return submit(cmd, opts, s)
		},
	}
	flags.register(cmd)
	return cmd
}

func newNoticeEditCmd(opts *clientOptions) *cobra.Command {
	flags := &draftFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an announcement; unspecified fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			s, err := authoring.Open(cmd.Context(), opts.password, args[0], authoring.Deps{Publisher: client, Uploader: client, Images: client})
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, s); err != nil {
				return err
			}
			if s.State() == authoring.Loaded {
				return errors.New("nothing to change")
			}
			return submit(cmd, opts, s)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntSliceVar(&flags.remove, "remove", nil, "index of an attachment to drop from the list (repeatable)")
	return cmd
}

func newNoticeDeleteCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an announcement (its attachment files are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Delete(cmd.Context(), opts.password, args[0]); err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(map[string]bool{"success": true})
			}
			return writePlain("deleted %s\n", args[0])
		},
	}
}

func submit(cmd *cobra.Command, opts *clientOptions, s *authoring.Session) error {
	a, err := s.Submit(cmd.Context())
	if err != nil {
		return fmt.Errorf("submit (%s): %w", s.State(), err)
	}
	if opts.jsonOutput {
		return writeJSON(a)
	}
	return writeNoticeDetail(a)
}

// removalOrder dedupes indexes and sorts them highest first, so each removal
// addresses the entry the user saw and never one shifted into its place.
func removalOrder(indexes []int) []int {
	out := slices.Clone(indexes)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}
