package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/textrun"
	"github.com/tsawler/textrun/sections"
)

func newTOCCmd(a *app) *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "toc FILE",
		Short: "Find a table of contents entry and the page it points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.SectionOptions()
			if entry != "" {
				opts.Entry = entry
			}

			ext := textrun.Open(args[0]).WithOptions(a.cfg.TextOptions())
			defer ext.Close()

			label, tocPage, err := sections.FindTOCEntry(ext, opts)
			if err != nil {
				return err
			}
			page, err := sections.FindLabelledPage(ext, label, tocPage+1)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: label %q, listed on page %d, starts on page %d\n",
				opts.Entry, label, tocPage, page)
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry, "entry", "e", "", "table of contents entry (default from config: Index of Locations)")
	return cmd
}

func newIndexCmd(a *app) *cobra.Command {
	var entry, format string

	cmd := &cobra.Command{
		Use:   "index FILE",
		Short: "Collect the strings of a multi-page index",
		Long: `Finds the index through the table of contents and prints its strings,
following continuation pages until the layout changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.SectionOptions()
			if entry != "" {
				opts.Entry = entry
			}

			ext := textrun.Open(args[0]).WithOptions(a.cfg.TextOptions())
			defer ext.Close()

			idx, err := sections.CollectIndex(ext, opts)
			if err != nil {
				return err
			}

			return write(cmd.OutOrStdout(), format, idx, func(w io.Writer) error {
				fmt.Fprintf(w, "# %s (pages %d-%d)\n", opts.Entry, idx.FirstPage, idx.LastPage)
				for _, e := range idx.Entries {
					fmt.Fprintln(w, e)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&entry, "entry", "e", "", "table of contents entry (default from config: Index of Locations)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
