package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bigkaa/fileinfo/internal/domain/report"
	"github.com/bigkaa/fileinfo/internal/service"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
	"github.com/bigkaa/fileinfo/internal/ui/pages"
)

// reportRunner — построитель отчётов (реализуется *service.ReportService).
type reportRunner interface {
	Run(ctx context.Context, req service.Request) (*service.Result, error)
}

// reportOptions — флаги команды report.
type reportOptions struct {
	kind    string
	userID  int64
	hasUser bool
	lang    string
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Построить один отчёт и вывести таблицу в терминал",
		Example: `  fileinfo report --kind files
  fileinfo report --kind userfiles --userid 42 --lang ru`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.hasUser = cmd.Flags().Changed("userid")

			cfg, logger, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := newReportService(cfg, pool, logger)
			return runReport(cmd.Context(), svc, i18n.MustLoad(logger), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "вид отчёта: files, users, areas, userfiles")
	cmd.Flags().Int64Var(&opts.userID, "userid", 0, "владелец файлов для отчёта userfiles")
	cmd.Flags().StringVar(&opts.lang, "lang", i18n.DefaultLang, "язык заголовков: en, ru")
	return cmd
}

// runReport строит отчёт и печатает его таблицей.
// Неизвестный вид отчёта печатает список доступных отчётов.
func runReport(ctx context.Context, runner reportRunner, tr pages.Translator, opts *reportOptions, out io.Writer) error {
	lang := opts.lang
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	kind := report.ParseKind(opts.kind)
	view := pages.NewView(tr, lang, kind)
	if kind == report.KindMenu {
		printMenu(out, view)
		return nil
	}

	req := service.Request{Kind: kind}
	if opts.hasUser {
		id := opts.userID
		req.UserID = &id
	}

	res, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}

	return printView(out, view.Fill(res))
}

func printMenu(out io.Writer, v *pages.View) {
	fmt.Fprintln(out, v.T("menu.prompt"))
	for i, k := range report.MenuKinds() {
		fmt.Fprintf(out, "  --kind %-6s %s\n", k, v.Menu[i].Label)
	}
}

// printView печатает заголовок и выровненную таблицу отчёта.
func printView(out io.Writer, v *pages.View) error {
	fmt.Fprintln(out, v.Heading)
	if v.Empty() {
		fmt.Fprintln(out, v.T("report.empty"))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(cells ...string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	switch {
	case len(v.Files) > 0:
		row(v.T("col.file_id"), v.T("col.date"), v.T("col.filename"), v.T("col.filesize"),
			v.T("col.user_id"), v.T("col.username"), v.T("col.component"), v.T("col.filearea"), v.T("col.item_id"))
		for _, f := range v.Files {
			row(f.ID, f.Date, f.Filename, f.Size, f.UserID, f.Username, f.Component, f.FileArea, f.ItemID)
		}
	case len(v.Users) > 0:
		row(v.T("col.user_id"), v.T("col.username"), v.T("col.files"), v.T("col.total_size"))
		for _, u := range v.Users {
			row(u.UserID, u.Username, u.Files, u.TotalSize)
		}
	case len(v.Areas) > 0:
		row(v.T("col.component"), v.T("col.section"), v.T("col.context_id"), v.T("col.context"),
			v.T("col.files"), v.T("col.total_size"))
		for _, a := range v.Areas {
			row(a.Component, a.FileArea, a.ContextID, strings.Join(a.Context, " / "), a.Files, a.TotalSize)
		}
	}
	return tw.Flush()
}
