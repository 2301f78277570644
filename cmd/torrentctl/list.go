package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"torrentctl/internal/domain"
	"torrentctl/internal/domain/ports"
	"torrentctl/internal/filter"
)

func newListCmd(env *cliEnv) *cobra.Command {
	var fieldsFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List torrents",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := splitFields(fieldsFlag)
			var (
				resp domain.Response
				err  error
			)
			if env.filterExpr != "" {
				var f ports.TorrentFilter
				if f, err = filter.NewTorrent(env.filterExpr); err != nil {
					return err
				}
				resp, err = env.client.GetByFilter(cmd.Context(), fields, f)
			} else {
				sel, serr := env.selector()
				if serr != nil {
					return serr
				}
				ids, _ := sel.([]domain.TorrentID)
				resp, err = env.client.GetByIDs(cmd.Context(), fields, ids)
			}
			if err != nil {
				return err
			}
			printTorrents(resp.Torrents, fields)
			// Informational listing output is the table itself; only failure
			// messages are worth repeating.
			return report(domain.Response{Success: resp.Success, Messages: resp.Errors()}, nil)
		},
	}
	cmd.Flags().StringVar(&fieldsFlag, "fields", "id,name,status,%downloaded,rate-down,rate-up,ratio",
		"comma-separated fields to show, or ALL")
	return cmd
}

func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == domain.AllFieldsToken {
		return []string{domain.AllFieldsToken}
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func printTorrents(torrents []*domain.Torrent, fields []string) {
	if len(torrents) == 0 {
		return
	}
	if fields[0] == domain.AllFieldsToken {
		fields = domain.AllFields()
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(fields, "\t")))
	for _, t := range torrents {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = t.Display(f)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}
