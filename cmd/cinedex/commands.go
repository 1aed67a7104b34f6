package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/mcpserver"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScanCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Catalog new entries of the watched folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v, *cfgPath, logToStderr)
			if err != nil {
				return err
			}
			defer env.Close()

			res, err := env.lib.Scan()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range res.Added {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintf(out, "%d scanned, %d added, %d already cataloged\n",
				res.Scanned, len(res.Added), res.Existing)
			return nil
		},
	}
}

func newListCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	var sortName string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v, *cfgPath, logToStderr)
			if err != nil {
				return err
			}
			defer env.Close()

			field, err := env.lib.ParseSortLabel(sortName)
			if err != nil {
				return err
			}
			order := db.Ascending
			if desc {
				order = db.Descending
			}

			media, err := env.lib.List(db.Sort{Field: field, Order: order})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(media, env.lib.Reviewers()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sortName, "sort", "s", "", "sort by title, rating_a or rating_b")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func renderTable(media []db.Media, reviewers [2]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Filename",
			reviewers[0]+" rating", reviewers[1]+" rating",
			reviewers[0]+" seen", reviewers[1]+" seen", "Link")
	for _, m := range media {
		t.Row(
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.Filename,
			strconv.FormatFloat(m.RatingA, 'g', -1, 64),
			strconv.FormatFloat(m.RatingB, 'g', -1, 64),
			yesNo(m.WatchedA),
			yesNo(m.WatchedB),
			m.Link,
		)
	}
	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newAddCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	var title, filename, link string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record, creating an empty entry in the watched folder if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v, *cfgPath, logToStderr)
			if err != nil {
				return err
			}
			defer env.Close()

			id, err := env.lib.Add(title, filename, link)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "display title")
	cmd.Flags().StringVarP(&filename, "filename", "f", "", "entry name inside the watched folder")
	cmd.Flags().StringVarP(&link, "link", "l", "", "optional link")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newMCPCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the catalog as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(v, *cfgPath, logToFile)
			if err != nil {
				return err
			}
			defer env.Close()

			env.logger.Info("serving mcp over stdio")
			return mcpserver.ServeStdio(mcpserver.New(env.lib, version, env.logger.With("component", "mcp")))
		},
	}
}
