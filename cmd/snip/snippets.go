package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"snip/internal/apperror"
	"snip/internal/config"
	"snip/internal/models"
	"snip/internal/store"
)

func newListCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all snippets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				snippets, err := st.ListSnippets()
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippets)
				}
				return writeSnippetList(snippets)
			})
		},
	}
}

func newGetCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the first snippet in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				snippet, err := st.GetFirstSnippet()
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippet)
				}
				return writeSnippetDetail(snippet, nil)
			})
		},
	}
}

func newShowCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-fragment>",
		Short: "Show a snippet and its attachments",
		Args:  requirePartialID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				snippet, err := resolveSnippet(st, args[0])
				if err != nil {
					return err
				}
				attachments, err := st.ListAttachments(snippet.ID)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippetView{Snippet: *snippet, Attachments: attachments})
				}
				return writeSnippetDetail(snippet, attachments)
			})
		},
	}
}

// snippetView is the JSON shape of `show`.
type snippetView struct {
	models.Snippet
	Attachments []models.AttachmentInfo `json:"attachments"`
}

func newAddCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "add <name> [text]",
		Short: "Add a snippet; text comes from the argument, --file or stdin",
		Args:  requireAtMostArgs(2, "at most a name and a text are accepted"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, text, err := snippetInput(args, filePath)
			if err != nil {
				return err
			}
			return withStore(cfg, opts, func(st *store.Store) error {
				snippet, err := st.CreateSnippet(name, text)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippet)
				}
				return writePlain("%s\n", snippet.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "markdown file with optional YAML front matter (name: ...)")
	return cmd
}

// snippetInput gathers name and text for `add`. A --file supplies the text
// and, failing an explicit name, the name from front matter or the first
// heading.
func snippetInput(args []string, filePath string) (string, string, error) {
	if strings.TrimSpace(filePath) != "" {
		if len(args) > 1 {
			return "", "", fmt.Errorf("text argument cannot be combined with --file")
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", apperror.IO(filePath, err)
		}
		frontMatter, body, err := parseMarkdown(string(data))
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", filePath, err)
		}
		name := firstNonEmpty(argAt(args, 0), frontMatter.Name, firstHeading(body))
		if name == "" {
			return "", "", fmt.Errorf("name is required (argument, front matter name, or a # heading)")
		}
		return name, body, nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", "", fmt.Errorf("name is required")
	}
	text, err := readAllInput(args[1:])
	if err != nil {
		return "", "", err
	}
	return args[0], text, nil
}

func newUpdateCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	var name, text string

	cmd := &cobra.Command{
		Use:   "update <id-fragment>",
		Short: "Change a snippet's name or text",
		Args:  requirePartialID,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := store.SnippetUpdate{}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("text") {
				update.Text = &text
			}
			if update.Name == nil && update.Text == nil {
				return fmt.Errorf("nothing to update; pass --name and/or --text")
			}
			return withStore(cfg, opts, func(st *store.Store) error {
				id, err := st.Resolve(args[0], store.Snippets)
				if err != nil {
					return err
				}
				snippet, err := st.UpdateSnippet(id, update)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippet)
				}
				return writePlain("%s\n", formatSnippetLine(*snippet))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&text, "text", "", "new text")
	return cmd
}

func newRemoveCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id-fragment>",
		Aliases: []string{"remove"},
		Short:   "Delete a snippet",
		Args:    requirePartialID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				id, err := st.Resolve(args[0], store.Snippets)
				if err != nil {
					return err
				}
				if err := st.DeleteSnippet(id); err != nil {
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

func newSearchCmd(cfg *config.Config, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <word> [<word>...]",
		Short: "Find snippets containing every word, after stemming",
		Args:  requireAtLeastArgs(1, "at least one search word is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, opts, func(st *store.Store) error {
				snippets, err := st.SearchSnippets(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(snippets)
				}
				return writeSnippetList(snippets)
			})
		},
	}
}

func resolveSnippet(st *store.Store, partial string) (*models.Snippet, error) {
	id, err := st.Resolve(partial, store.Snippets)
	if err != nil {
		return nil, err
	}
	return st.GetSnippet(id)
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
