package main

import (
	"context"
	"strconv"

	"backoffice/internal/app"

	"github.com/spf13/cobra"
)

var filesListFiles bool

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Browse the document storage",
}

var filesLsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List folders under path (or files with --files)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if filesListFiles {
				files, err := a.API.FireBase.FilesInFolder(ctx, path)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{f.Name, strconv.FormatInt(f.Size, 10), f.URL})
				}
				return printTable(cmd.OutOrStdout(), []string{"Name", "Size", "URL"}, rows)
			}
			folders, err := a.API.FireBase.FoldersInPath(ctx, path)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(folders))
			for _, f := range folders {
				rows = append(rows, []string{f.Name, f.Path})
			}
			return printTable(cmd.OutOrStdout(), []string{"Name", "Path"}, rows)
		})
	},
}

func init() {
	filesLsCmd.Flags().BoolVar(&filesListFiles, "files", false, "list files instead of folders")
	filesCmd.AddCommand(filesLsCmd)
	rootCmd.AddCommand(filesCmd)
}
