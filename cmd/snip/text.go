package main

import (
	"github.com/spf13/cobra"

	"snip/internal/tokenize"
)

func newSplitCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "split [string]",
		Short: "Split a string, or all of stdin, into words",
		Args:  requireAtMostArgs(1, "at most one string is accepted; quote it"),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readAllInput(args)
			if err != nil {
				return err
			}
			words := tokenize.SplitWords(input)
			if opts.jsonOutput {
				return writeJSON(words)
			}
			for _, word := range words {
				if err := writePlain("%s\n", word); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newStemCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stem [word]",
		Short: "Stem a word, or the first line of stdin",
		Args:  requireAtMostArgs(1, "at most one word is accepted"),
		RunE: func(cmd *cobra.Command, args []string) error {
			word, err := readLineInput(args)
			if err != nil {
				return err
			}
			stem := tokenize.Stem(word)
			if opts.jsonOutput {
				return writeJSON(map[string]string{"word": word, "stem": stem})
			}
			return writePlain("%s -> %s\n", word, stem)
		},
	}
}
