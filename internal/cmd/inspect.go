package cmd

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dendrascience/brushsetmaker/brushset"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect subcommand, which describes an existing
// .brushset archive.
func NewInspectCmd(app *App) *cobra.Command {
	var (
		listEntries bool
		has         string
	)

	cmd := &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "Describe a .brushset archive",
		Long: `Print the size, SHA-256, entry count and embedded set name of a .brushset
archive. With --list every entry is shown; with --has the command fails unless
the archive contains that entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), app, args[0], listEntries, has)
		},
	}

	cmd.Flags().BoolVarP(&listEntries, "list", "l", false, "List every entry")
	cmd.Flags().StringVar(&has, "has", "", "Fail unless the archive contains this entry")

	return cmd
}

func runInspect(out io.Writer, app *App, path string, listEntries bool, has string) error {
	entries, err := brushset.ListEntries(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	sum, err := brushset.HashFile(path)
	if err != nil {
		return err
	}

	var total uint64
	for _, e := range entries {
		total += e.Size
	}

	fmt.Fprintf(out, "Archive: %s\n", path)
	fmt.Fprintf(out, "Size:    %d bytes (%d uncompressed)\n", info.Size(), total)
	fmt.Fprintf(out, "SHA-256: %s\n", sum)
	fmt.Fprintf(out, "Entries: %d\n", len(entries))

	m, err := brushset.ArchiveMetadata(path)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Name:    %s (%d brushes)\n", m.Name, len(m.Brushes))
	case errors.Is(err, brushset.ErrNotFound):
		fmt.Fprintf(out, "Name:    (no %s)\n", brushset.MetadataFile)
	default:
		app.Logger.Warn("embedded metadata unreadable", "err", err)
	}

	if listEntries {
		fmt.Fprintln(out)
		renderEntries(out, entries)
	}

	if has != "" {
		ok, err := brushset.HasEntry(path, has)
		if err != nil {
			return err
		}
		if !ok {
			return &brushset.PathError{Op: "find", Path: path + ":" + has, Err: brushset.ErrNotFound}
		}
		fmt.Fprintf(out, "Contains %s\n", has)
	}
	return nil
}

func renderEntries(w io.Writer, entries []brushset.EntryInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Entry", "Size", "Compressed", "Method", "Modified"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})
	for _, e := range entries {
		table.Append([]string{
			e.Name,
			strconv.FormatUint(e.Size, 10),
			strconv.FormatUint(e.CompressedSize, 10),
			methodName(e.Method),
			e.Modified.Local().Format(time.DateTime),
		})
	}
	table.Render()
}

func methodName(m uint16) string {
	switch m {
	case zip.Store:
		return "stored"
	case zip.Deflate:
		return "deflate"
	}
	return strconv.Itoa(int(m))
}
