package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [sheet...]",
		Short: "Print evaluated sheets (the sample sheet when none is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Show(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [sheet]",
		Short: "Report structural problems and failing rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Check(cmd.Context(), first(args))
		},
	}
}

func (c *CLI) newSaveCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Evaluate a sheet and write the result as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Save(cmd.Context(), in, out)
		},
	}
	cmd.Flags().StringVarP(&in, "infile", "i", "", "Sheet to evaluate (default: the sample sheet)")
	cmd.Flags().StringVarP(&out, "outfile", "o", "", "File to write")
	_ = cmd.MarkFlagRequired("outfile")
	return cmd
}

func (c *CLI) newSnapshotCmd() *cobra.Command {
	var digest string
	cmd := &cobra.Command{
		Use:   "snapshot [sheet]",
		Short: "Store an evaluated sheet and print its digest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if digest != "" {
				data, err := c.app.Fetch(cmd.Context(), digest)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			d, err := c.app.Snapshot(cmd.Context(), first(args))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), d)
			return err
		},
	}
	cmd.Flags().StringVar(&digest, "get", "", "Print the stored snapshot with this digest")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <sheet>",
		Short: "Print a sheet again whenever its file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
