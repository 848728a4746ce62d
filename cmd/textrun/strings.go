package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/textrun"
)

func newStringsCmd(a *app) *cobra.Command {
	var pages, format string

	cmd := &cobra.Command{
		Use:   "strings FILE",
		Short: "Print the clustered strings of each page",
		Long: `Prints the strings of each selected page in reading order: top to bottom,
then left to right. Adjacent runs drawn with the same font on the same
baseline are merged into one string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := textrun.Open(args[0]).WithOptions(a.cfg.TextOptions())
			if pages != "" {
				selected, err := parsePages(pages)
				if err != nil {
					return err
				}
				ext = ext.Pages(selected...)
			}

			result, err := ext.Strings()
			if err != nil {
				return err
			}

			return write(cmd.OutOrStdout(), format, result, func(w io.Writer) error {
				for i, p := range result {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "--- page %d ---\n", p.Page)
					for _, s := range p.Strings {
						fmt.Fprintln(w, s)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&pages, "pages", "p", "", "pages to extract, e.g. 1,3-5 (default: all)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
