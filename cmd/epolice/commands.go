package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"epolice/internal/epolice"
	"epolice/internal/logger"
	"epolice/internal/metrics"
	"epolice/pkg/editsession"
	"epolice/pkg/export"
	"epolice/pkg/formspec"
	"epolice/pkg/listctrl"
	"epolice/pkg/mutation"
	"epolice/pkg/notify"
)

// pageFlags registers the list command's pagination and search flags.
func pageFlags(fs *pflag.FlagSet) {
	fs.Int("page", 1, "1-based page number")
	fs.Int("limit", 10, "rows per page")
	fs.String("search", "", "search term")
}

// columnsFor derives export/table columns from the resource's form
// descriptors: id first, then every scalar field.
func columnsFor(resource string) []export.Column {
	cols := []export.Column{{Header: "ID", Key: "id"}}
	for _, f := range epolice.Form(resource).Fields {
		if f.Kind == formspec.File {
			continue
		}
		cols = append(cols, export.Column{Header: f.Label, Key: f.Name})
	}
	return cols
}

func printRows(resource string, rows []epolice.Row, total int) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	cols := columnsFor(resource)
	var heads []string
	for _, c := range cols {
		heads = append(heads, c.Header)
	}
	fmt.Fprintln(w, strings.Join(heads, "\t"))
	for _, r := range rows {
		var cells []string
		for _, c := range cols {
			v := r[c.Key]
			if v == nil {
				cells = append(cells, "")
				continue
			}
			if f, ok := v.(float64); ok && f == float64(int64(f)) {
				cells = append(cells, fmt.Sprintf("%d", int64(f)))
				continue
			}
			cells = append(cells, fmt.Sprint(v))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	fmt.Printf("%d of %d record(s)\n", len(rows), total)
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List one page of a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			search, _ := cmd.Flags().GetString("search")
			if page < 1 {
				page = 1
			}
			result, err := a.res.ListPage(resource)(cmd.Context(), listctrl.Query{
				PageIndex: page - 1,
				PageSize:  limit,
				Search:    search,
			})
			if err != nil {
				return err
			}
			if col, _ := cmd.Flags().GetString("sort"); col != "" {
				desc, _ := cmd.Flags().GetBool("desc")
				sortRows(result.Rows, col, desc)
			}
			printRows(resource, result.Rows, result.Total)
			return nil
		},
	}
	pageFlags(cmd.Flags())
	cmd.Flags().String("sort", "", "column key to sort the page by")
	cmd.Flags().Bool("desc", false, "sort descending")
	return cmd
}

// sortRows orders one fetched page by a column, numerically when both sides
// are numbers.
func sortRows(rows []epolice.Row, col string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][col], rows[j][col]
		less := false
		if fa, ok := a.(float64); ok {
			if fb, ok := b.(float64); ok {
				less = fa < fb
			}
		} else {
			less = strings.ToLower(fmt.Sprint(a)) < strings.ToLower(fmt.Sprint(b))
		}
		if desc {
			return !less
		}
		return less
	})
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record's full detail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			d, err := a.res.Detail(resource)(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(d.Values))
			for k := range d.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, d.Values[k])
			}
			_ = w.Flush()
			if len(d.Chain) > 0 {
				var parts []string
				for _, s := range d.Chain {
					parts = append(parts, fmt.Sprintf("%s=%s", s.Level, s.Label))
				}
				fmt.Println("chain:", strings.Join(parts, " > "))
			}
			return nil
		},
	}
}

// setValues parses repeated --set k=v flags.
func setValues(cmd *cobra.Command) (map[string]string, error) {
	pairs, _ := cmd.Flags().GetStringArray("set")
	values := map[string]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("bad --set %q, want key=value", p)
		}
		values[k] = v
	}
	return values, nil
}

// screen wires the full pattern for one resource the way a dashboard page
// does: list controller, add-form cascade, mutation coordinator.
func (a *app) screen(resource string) (*listctrl.Controller[epolice.Row], *mutation.Coordinator) {
	ctl := listctrl.New(a.res.ListPage(resource), listctrl.WithDebounce[epolice.Row](0))
	coord := mutation.New(
		a.res.Ops(resource),
		ctl,
		epolice.Form(resource),
		mutation.WithAddResolver(a.res.NewCascade()),
	)
	return ctl, coord
}

// settle waits for the controller's in-flight fetch so one-shot commands do
// not exit mid-request.
func settle(ctl *listctrl.Controller[epolice.Row]) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !ctl.Snapshot().Loading {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <resource> --set k=v ...",
		Short: "Create a record",
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			values, err := setValues(cmd)
			if err != nil {
				return err
			}
			if photo, _ := cmd.Flags().GetString("photo"); photo != "" {
				if resource != epolice.ResPoliceUsers {
					return fmt.Errorf("--photo only applies to %s", epolice.ResPoliceUsers)
				}
				// The multipart path skips the coordinator, so it validates
				// here; nothing goes over the wire on a bad form.
				if errs := epolice.Form(resource).Validate(values); len(errs) > 0 {
					return describeValidation(&mutation.ValidationError{Fields: errs})
				}
				f, err := os.Open(photo)
				if err != nil {
					return err
				}
				defer f.Close()
				return a.res.CreatePoliceUser(cmd.Context(), values, filepath.Base(photo), f)
			}
			ctl, coord := a.screen(resource)
			defer ctl.Close()
			if err := coord.Add(cmd.Context(), values); err != nil {
				return describeValidation(err)
			}
			settle(ctl)
			return nil
		},
	}
	cmd.Flags().StringArray("set", nil, "field value as key=value; repeatable")
	cmd.Flags().String("photo", "", "photo file, police-users only; switches to multipart")
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <resource> <id> --set k=v ...",
		Short: "Replace a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			values, err := setValues(cmd)
			if err != nil {
				return err
			}
			session := editsession.New(a.res.Detail(resource), a.res.NewCascade, nil)
			if err := session.Open(cmd.Context(), args[1]); err != nil {
				return err
			}
			for k, v := range values {
				session.SetValue(k, v)
			}
			if photo, _ := cmd.Flags().GetString("photo"); photo != "" {
				if resource != epolice.ResPoliceUsers {
					return fmt.Errorf("--photo only applies to %s", epolice.ResPoliceUsers)
				}
				if errs := epolice.Form(resource).Validate(session.Values()); len(errs) > 0 {
					return describeValidation(&mutation.ValidationError{Fields: errs})
				}
				f, err := os.Open(photo)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := a.res.UpdatePoliceUser(cmd.Context(), args[1], session.Values(), filepath.Base(photo), f); err != nil {
					return err
				}
				session.Close()
				return nil
			}
			ctl, coord := a.screen(resource)
			defer ctl.Close()
			if err := coord.Update(cmd.Context(), session); err != nil {
				return describeValidation(err)
			}
			settle(ctl)
			return nil
		},
	}
	cmd.Flags().StringArray("set", nil, "field value as key=value; repeatable")
	cmd.Flags().String("photo", "", "photo file, police-users only; switches to multipart")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			ctl, coord := a.screen(resource)
			defer ctl.Close()
			if err := coord.Remove(cmd.Context(), args[1]); err != nil {
				return err
			}
			settle(ctl)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm the delete")
	return cmd
}

// describeValidation expands field-level validation messages for the
// terminal; other errors pass through.
func describeValidation(err error) error {
	if vErr, ok := err.(*mutation.ValidationError); ok {
		var lines []string
		for f, msg := range vErr.Fields {
			lines = append(lines, fmt.Sprintf("  %s: %s", f, msg))
		}
		sort.Strings(lines)
		return fmt.Errorf("validation failed:\n%s", strings.Join(lines, "\n"))
	}
	return err
}

func (a *app) cascadeCmd() *cobra.Command {
	levels := []string{
		epolice.LevelCountry, epolice.LevelState, epolice.LevelDistrict,
		epolice.LevelCity, epolice.LevelSDPO, epolice.LevelStation,
	}
	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Drill down the location chain, printing options at the deepest unselected level",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.res.NewCascade()
			for _, lvl := range levels {
				id, _ := cmd.Flags().GetString(lvl)
				if id == "" {
					opts, err := r.Open(cmd.Context(), lvl)
					if err != nil {
						return err
					}
					fmt.Printf("%s options:\n", lvl)
					for _, o := range opts {
						fmt.Printf("  %s\t%s\n", o.ID, o.Label)
					}
					return nil
				}
				if err := r.Select(lvl, id); err != nil {
					return err
				}
			}
			for _, s := range r.SelectedChain() {
				fmt.Printf("%s: %s\n", s.Level, s.ID)
			}
			return nil
		},
	}
	for _, lvl := range levels {
		cmd.Flags().String(lvl, "", "selected "+lvl+" id")
	}
	return cmd
}

// fetchAll pulls every page of a filtered collection for export, capped to
// keep a typo'd search from downloading the world.
func (a *app) fetchAll(ctx context.Context, resource, search string) ([]epolice.Row, int, error) {
	const pageSize = 50
	const maxPages = 40
	fetch := a.res.ListPage(resource)
	var rows []epolice.Row
	total := 0
	for page := 0; page < maxPages; page++ {
		p, err := fetch(ctx, listctrl.Query{PageIndex: page, PageSize: pageSize, Search: search})
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, p.Rows...)
		total = p.Total
		if len(p.Rows) < pageSize || len(rows) >= total {
			break
		}
	}
	return rows, total, nil
}

// titleCase turns a resource slug into a report heading, e.g.
// "police-users" into "Police Users".
func titleCase(resource string) string {
	words := strings.Split(resource, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export a collection to PDF or Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			search, _ := cmd.Flags().GetString("search")
			server, _ := cmd.Flags().GetBool("server")
			if out == "" {
				if format == "pdf" {
					out = resource + ".pdf"
				} else {
					out = resource + ".xlsx"
				}
			}

			var data []byte
			if server {
				data, err = a.res.ExportExcel(cmd.Context(), resource)
				if err != nil {
					return err
				}
			} else {
				rows, total, err := a.fetchAll(cmd.Context(), resource, search)
				if err != nil {
					return err
				}
				opts := export.Options{
					Columns: columnsFor(resource),
					Meta: export.Meta{
						Title:       titleCase(resource),
						TotalCount:  total,
						SearchTerm:  search,
						Role:        a.cfg.Role,
						GeneratedAt: time.Now(),
					},
					ShowSerialNumber: true,
				}
				switch format {
				case "pdf":
					data, err = export.PDF(opts, rows)
				case "excel", "xlsx", "":
					data, err = export.Excel(opts, rows)
				default:
					return fmt.Errorf("unknown format %q", format)
				}
				if err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().String("format", "excel", "pdf or excel")
	cmd.Flags().String("out", "", "output file; defaults to <resource>.<ext>")
	cmd.Flags().String("search", "", "filter before exporting")
	cmd.Flags().Bool("server", false, "fetch the backend-rendered workbook instead")
	return cmd
}

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <resource>",
		Short: "Download the bulk-import template workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = resource + "-template.xlsx"
			}
			data, err := a.res.DownloadTemplate(cmd.Context(), resource)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file")
	return cmd
}

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <resource> <file.xlsx>",
		Short: "Bulk-import records from a workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			if err := a.res.UploadExcel(cmd.Context(), resource, filepath.Base(args[1]), f); err != nil {
				return err
			}
			fmt.Println("uploaded", args[1])
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <resource>",
		Short: "Poll a collection and serve Prometheus metrics while running",
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := resourceArg(args)
			if err != nil {
				return err
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			search, _ := cmd.Flags().GetString("search")
			addr, _ := cmd.Flags().GetString("metrics-addr")
			if addr == "" {
				addr = a.cfg.MetricsAddr
			}
			l := logger.L()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				l.Info("metrics_listen", "addr", addr)
				if err := http.ListenAndServe(addr, mux); err != nil {
					l.Error("metrics_listen_error", "err", err)
				}
			}()

			ctl := listctrl.New(a.res.ListPage(resource),
				listctrl.WithDebounce[epolice.Row](a.cfg.SearchDebounce),
				listctrl.WithPageSize[epolice.Row](a.cfg.PageSize),
				listctrl.WithNotifier[epolice.Row](&notify.LogNotifier{L: l}),
			)
			defer ctl.Close()
			if search != "" {
				ctl.SetSearch(ctx, search)
			} else {
				ctl.Refresh(ctx)
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					ctl.Refresh(ctx)
					s := ctl.Snapshot()
					l.Info("watch_tick", "resource", resource, "rows", len(s.Rows), "total", s.Total, "err", s.Err)
				}
			}
		},
	}
	cmd.Flags().Duration("interval", 30*time.Second, "refresh interval")
	cmd.Flags().String("search", "", "search term")
	cmd.Flags().String("metrics-addr", "", "metrics listen address; defaults to EPOLICE_METRICS_ADDR")
	return cmd
}
