package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/domain/report"
	"github.com/bigkaa/fileinfo/internal/service"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
)

// mockRunner — мок reportRunner с функциональным полем.
type mockRunner struct {
	runFn func(ctx context.Context, req service.Request) (*service.Result, error)
	calls []service.Request
}

func (m *mockRunner) Run(ctx context.Context, req service.Request) (*service.Result, error) {
	m.calls = append(m.calls, req)
	if m.runFn != nil {
		return m.runFn(ctx, req)
	}
	return &service.Result{Kind: req.Kind}, nil
}

func testBundle() *i18n.Bundle {
	return i18n.MustLoad(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string { return &s }

func TestRunReport_Users(t *testing.T) {
	runner := &mockRunner{runFn: func(_ context.Context, req service.Request) (*service.Result, error) {
		return &service.Result{Kind: req.Kind, Users: []*model.UserAggregate{
			{UserID: 1, Username: strPtr("alice"), FileCount: 2, TotalSize: 3145728},
			{UserID: 2, FileCount: 1, TotalSize: 524288},
		}}, nil
	}}

	var out bytes.Buffer
	err := runReport(context.Background(), runner, testBundle(), &reportOptions{kind: "users", lang: "en"}, &out)
	if err != nil {
		t.Fatalf("runReport: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("строк = %d, ожидается 4:\n%s", len(lines), out.String())
	}
	if lines[0] != "100 Largest Users" {
		t.Errorf("заголовок = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "User ID") {
		t.Errorf("шапка таблицы = %q", lines[1])
	}
	if !strings.Contains(lines[2], "alice") || !strings.Contains(lines[2], "3.00 MB") {
		t.Errorf("первая строка = %q", lines[2])
	}
	if !strings.Contains(lines[3], "0.50 MB") {
		t.Errorf("вторая строка = %q", lines[3])
	}
}

func TestRunReport_AreasContextJoined(t *testing.T) {
	runner := &mockRunner{runFn: func(_ context.Context, req service.Request) (*service.Result, error) {
		return &service.Result{Kind: req.Kind, Areas: []*model.AreaAggregate{{
			Component: "mod_forum", FileArea: "attachment", ContextID: 15,
			FileCount: 1, TotalSize: 1048576,
			ContextLabel: model.ContextLabel{InstanceID: 7, Name: "Forum: News", ParentName: "Course: Biology"},
		}}}, nil
	}}

	var out bytes.Buffer
	if err := runReport(context.Background(), runner, testBundle(), &reportOptions{kind: "areas", lang: "en"}, &out); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if !strings.Contains(out.String(), "Instance ID 7 / Forum: News / Course: Biology") {
		t.Errorf("подпись контекста не найдена:\n%s", out.String())
	}
}

func TestRunReport_UserFilesFlags(t *testing.T) {
	runner := &mockRunner{}

	var out bytes.Buffer
	opts := &reportOptions{kind: "userfiles", userID: 42, hasUser: true, lang: "ru"}
	if err := runReport(context.Background(), runner, testBundle(), opts, &out); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0].Kind != report.KindUserFiles {
		t.Fatalf("вызовы = %+v", runner.calls)
	}
	if id := runner.calls[0].UserID; id == nil || *id != 42 {
		t.Errorf("UserID = %v, ожидается 42", id)
	}
	if !strings.Contains(out.String(), "Файлы пользователя") {
		t.Errorf("заголовок на русском не найден:\n%s", out.String())
	}
}

func TestRunReport_MissingUserID(t *testing.T) {
	runner := &mockRunner{runFn: func(_ context.Context, req service.Request) (*service.Result, error) {
		if req.UserID == nil {
			return nil, service.ErrMissingParameter
		}
		return &service.Result{Kind: req.Kind}, nil
	}}

	var out bytes.Buffer
	err := runReport(context.Background(), runner, testBundle(), &reportOptions{kind: "userfiles"}, &out)
	if !errors.Is(err, service.ErrMissingParameter) {
		t.Errorf("ошибка = %v, ожидается ErrMissingParameter", err)
	}
}

func TestRunReport_UnknownKindPrintsMenu(t *testing.T) {
	runner := &mockRunner{}

	var out bytes.Buffer
	if err := runReport(context.Background(), runner, testBundle(), &reportOptions{kind: "bogus", lang: "xx"}, &out); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Error("для меню сервис не должен вызываться")
	}
	for _, want := range []string{"--kind files", "--kind users", "--kind areas", "Largest Areas"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("меню не содержит %q:\n%s", want, out.String())
		}
	}
}

func TestRunReport_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := runReport(context.Background(), &mockRunner{}, testBundle(), &reportOptions{kind: "files", lang: "en"}, &out); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if !strings.Contains(out.String(), "No files found.") {
		t.Errorf("нет сообщения о пустом отчёте:\n%s", out.String())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "report"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("подкоманда %s не найдена: %v", name, err)
		}
	}
	reportCmd, _, _ := root.Find([]string{"report"})
	for _, flag := range []string{"kind", "userid", "lang"} {
		if reportCmd.Flags().Lookup(flag) == nil {
			t.Errorf("флаг --%s не определён", flag)
		}
	}
}
