package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"snip/internal/apperror"
	"snip/internal/config"
	"snip/internal/ident"
	"snip/internal/models"
	"snip/internal/store"
)

// attachmentView is the JSON shape of `attach show`.
type attachmentView struct {
	models.AttachmentInfo
	BLAKE3 string `json:"blake3"`
}

func newAttachCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "attach", Short: "Manage snippet attachments"}
	cmd.AddCommand(
		newAttachAddCmd(cfg, opts),
		newAttachListCmd(cfg, opts),
		newAttachShowCmd(cfg, opts),
		newAttachGetCmd(cfg, opts),
		newAttachRemoveCmd(cfg, opts),
	)
	return cmd
}

func newAttachAddCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <snippet-id-fragment> <path>",
		Short: "Store a file as an attachment of a snippet",
		Args:  requireExactlyArgs(2, "snippet id and path are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				owner, err := st.Resolve(args[0], store.Snippets)
				if err != nil {
					return err
				}
				attachment, err := st.AddAttachment(owner, args[1])
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(attachment)
				}
				return writePlain("%s\n", attachment.ID)
			})
		},
	}
}

func newAttachListCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [snippet-id-fragment]",
		Aliases: []string{"list"},
		Short:   "List attachment ids, or one snippet's attachments",
		Args:    requireAtMostArgs(1, "at most one snippet id is accepted"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				if len(args) == 0 {
					ids, err := st.ListAttachmentIDs()
					if err != nil {
						return err
					}
					if opts.jsonOutput {
						return writeJSON(ids)
					}
					return writeIDList(ids)
				}

				owner, err := st.Resolve(args[0], store.Snippets)
				if err != nil {
					return err
				}
				infos, err := st.ListAttachments(owner)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(infos)
				}
				return writeAttachmentList(infos)
			})
		},
	}
}

func newAttachShowCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <attachment-id-fragment>",
		Short: "Show attachment metadata and digest",
		Args:  requireExactlyArgs(1, "attachment id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				id, err := st.Resolve(args[0], store.Attachments)
				if err != nil {
					return err
				}
				attachment, err := st.GetAttachment(id)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(attachmentView{
						AttachmentInfo: attachment.Info(),
						BLAKE3:         attachment.Digest(),
					})
				}
				return writeAttachmentDetail(attachment)
			})
		},
	}
}

func newAttachGetCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	var (
		outPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "get <attachment-id-fragment>",
		Short: "Write attachment content to stdout or a file",
		Args:  requireExactlyArgs(1, "attachment id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && !force {
				if _, err := os.Stat(outPath); err == nil {
					return fmt.Errorf("output file exists (use --force to overwrite)")
				}
			}

			return withStore(cfg, opts, func(st *store.Store) error {
				id, err := st.Resolve(args[0], store.Attachments)
				if err != nil {
					return err
				}
				if strings.TrimSpace(outPath) == "" {
					_, err := st.CopyAttachmentData(id, stdout)
					return err
				}
				return copyAttachmentToFile(st, id, outPath)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output path (default stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite output path if it exists")
	return cmd
}

// copyAttachmentToFile writes the payload next to outPath and renames it
// into place, so a failed copy leaves any existing file untouched.
func copyAttachmentToFile(st *store.Store, id ident.ID, outPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+"-*.tmp")
	if err != nil {
		return apperror.IO(outPath, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := st.CopyAttachmentData(id, tmpFile); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return apperror.IO(outPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return apperror.IO(outPath, err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return apperror.IO(outPath, err)
	}

	success = true
	return writePlain("%s\n", outPath)
}

func newAttachRemoveCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <attachment-id-fragment>",
		Aliases: []string{"remove"},
		Short:   "Delete an attachment",
		Args:    requireExactlyArgs(1, "attachment id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				id, err := st.Resolve(args[0], store.Attachments)
				if err != nil {
					return err
				}
				attachment, err := st.GetAttachment(id)
				if err != nil {
					return err
				}
				if err := st.RemoveAttachment(attachment); err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(map[string]string{"deleted": id.String()})
				}
				return writePlain("%s\n", id)
			})
		},
	}
}
