package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/textrun"
)

// runView is the printed form of a decoded run.
type runView struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Font     string  `json:"font" yaml:"font"`
	FontSize float64 `json:"font_size" yaml:"font_size"`
	AvgWidth float64 `json:"avg_width" yaml:"avg_width"`
	Raw      string  `json:"raw" yaml:"raw"`
	Text     string  `json:"text" yaml:"text"`
}

type pageRunsView struct {
	Page int       `json:"page" yaml:"page"`
	Runs []runView `json:"runs" yaml:"runs"`
}

func newRunsCmd(a *app) *cobra.Command {
	var pages, format string

	cmd := &cobra.Command{
		Use:   "runs FILE",
		Short: "Print the decoded text runs of a page before clustering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parsePages(pages)
			if err != nil {
				return err
			}

			result, err := textrun.Open(args[0]).
				WithOptions(a.cfg.TextOptions()).
				Pages(selected...).
				Runs()
			if err != nil {
				return err
			}

			views := make([]pageRunsView, 0, len(result))
			for _, p := range result {
				v := pageRunsView{Page: p.Page, Runs: make([]runView, 0, len(p.Runs))}
				for _, r := range p.Runs {
					v.Runs = append(v.Runs, runView{
						X:        r.X,
						Y:        r.Y,
						Font:     r.Font,
						FontSize: r.FontSize,
						AvgWidth: r.AvgWidth,
						Raw:      fmt.Sprintf("%X", r.Raw),
						Text:     r.Text,
					})
				}
				views = append(views, v)
			}

			return write(cmd.OutOrStdout(), format, views, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, p := range views {
					fmt.Fprintf(tw, "page %d\n", p.Page)
					fmt.Fprintln(tw, "X\tY\tFONT\tSIZE\tAVG WIDTH\tTEXT")
					for _, r := range p.Runs {
						fmt.Fprintf(tw, "%g\t%g\t/%s\t%g\t%g\t%q\n", r.X, r.Y, r.Font, r.FontSize, r.AvgWidth, r.Text)
					}
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&pages, "pages", "p", "", "pages to show, e.g. 4 or 2-3 (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("pages")
	return cmd
}
