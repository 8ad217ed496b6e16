package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/repository"
)

// lmsContexts — каталог контекстов:
// система(1) → категория(2) → курс(3) → модуль forum(4), блок(5);
// пользователь(6) под системой; главная страница(7); контекст 8 с неизвестным уровнем.
func lmsContexts() *mockContextRepo {
	return &mockContextRepo{
		contexts: map[int64]*model.ContextRecord{
			1: {ID: 1, Level: model.ContextLevelSystem, InstanceID: 0, Path: "/1"},
			2: {ID: 2, Level: model.ContextLevelCategory, InstanceID: 11, Path: "/1/2"},
			3: {ID: 3, Level: model.ContextLevelCourse, InstanceID: 21, Path: "/1/2/3"},
			4: {ID: 4, Level: model.ContextLevelModule, InstanceID: 31, Path: "/1/2/3/4"},
			5: {ID: 5, Level: model.ContextLevelBlock, InstanceID: 41, Path: "/1/2/3/5"},
			6: {ID: 6, Level: model.ContextLevelUser, InstanceID: 51, Path: "/1/6"},
			7: {ID: 7, Level: model.ContextLevelCourse, InstanceID: 1, Path: "/1/7"},
			8: {ID: 8, Level: model.ContextLevel(99), InstanceID: 1, Path: "/1/8"},
			9: {ID: 9, Level: model.ContextLevelModule, InstanceID: 32, Path: "/1/2/77/9"},
		},
		names: map[model.ContextLevel]map[int64]*repository.ContextInstance{
			model.ContextLevelCategory: {11: {Name: "Science"}},
			model.ContextLevelCourse:   {21: {Name: "Biology 101"}},
			model.ContextLevelModule: {
				31: {ModName: "forum", Name: "Announcements"},
				32: {ModName: "resource", Name: "Syllabus"},
			},
			model.ContextLevelBlock: {41: {Name: "html"}},
			model.ContextLevelUser:  {51: {Name: "Ada Lovelace"}},
		},
	}
}

func TestDBContextResolver_Names(t *testing.T) {
	tests := []struct {
		name       string
		id         int64
		wantName   string
		wantParent string
		wantInst   int64
	}{
		{name: "система", id: 1, wantName: "System"},
		{name: "категория", id: 2, wantName: "Category: Science", wantParent: "System", wantInst: 11},
		{name: "курс", id: 3, wantName: "Course: Biology 101", wantParent: "Category: Science", wantInst: 21},
		{name: "модуль", id: 4, wantName: "Forum: Announcements", wantParent: "Course: Biology 101", wantInst: 31},
		{name: "блок", id: 5, wantName: "Block: html", wantParent: "Course: Biology 101", wantInst: 41},
		{name: "пользователь", id: 6, wantName: "User: Ada Lovelace", wantParent: "System", wantInst: 51},
		{name: "главная страница", id: 7, wantName: "Front page", wantParent: "System", wantInst: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDBContextResolver(lmsContexts(), slog.Default())
			c, err := r.Resolve(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("Resolve(%d) ошибка: %v", tt.id, err)
			}
			if c.Name() != tt.wantName {
				t.Errorf("Name() = %q, ожидалось %q", c.Name(), tt.wantName)
			}
			if c.InstanceID() != tt.wantInst {
				t.Errorf("InstanceID() = %d, ожидалось %d", c.InstanceID(), tt.wantInst)
			}
			parent, ok := c.Parent()
			if tt.wantParent == "" {
				if ok {
					t.Errorf("Parent() = %q, ожидалось отсутствие родителя", parent.Name())
				}
				return
			}
			if !ok || parent.Name() != tt.wantParent {
				t.Errorf("Parent() = %v, ожидался %q", parent, tt.wantParent)
			}
		})
	}
}

// TestDBContextResolver_OneLevelOnly — разрешается только непосредственный родитель.
func TestDBContextResolver_OneLevelOnly(t *testing.T) {
	repo := lmsContexts()
	r := NewDBContextResolver(repo, slog.Default())

	c, err := r.Resolve(context.Background(), 4)
	if err != nil {
		t.Fatalf("Resolve() ошибка: %v", err)
	}
	parent, _ := c.Parent()
	if _, ok := parent.Parent(); ok {
		t.Error("у родителя не должно быть разрешённого родителя")
	}
	if repo.lookups != 2 {
		t.Errorf("обращений к каталогу: %d, ожидалось 2", repo.lookups)
	}
}

func TestDBContextResolver_Errors(t *testing.T) {
	r := NewDBContextResolver(lmsContexts(), slog.Default())

	if _, err := r.Resolve(context.Background(), 404); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Resolve(404) ошибка = %v, ожидалась ErrNotFound", err)
	}
	if _, err := r.Resolve(context.Background(), 8); err == nil {
		t.Error("Resolve() для неизвестного уровня должен вернуть ошибку")
	}
}

// TestDBContextResolver_ParentMissing — родитель не найден: контекст без родителя.
func TestDBContextResolver_ParentMissing(t *testing.T) {
	r := NewDBContextResolver(lmsContexts(), slog.Default())

	c, err := r.Resolve(context.Background(), 9)
	if err != nil {
		t.Fatalf("Resolve(9) ошибка: %v", err)
	}
	if c.Name() != "Resource: Syllabus" {
		t.Errorf("Name() = %q", c.Name())
	}
	if _, ok := c.Parent(); ok {
		t.Error("родитель 9 отсутствует в каталоге, ожидался контекст без родителя")
	}
}

func TestLabelFor(t *testing.T) {
	c := fakeContext(31, "Forum: Announcements", fakeContext(21, "Course: Biology 101", nil))
	got := LabelFor(c)
	want := model.ContextLabel{InstanceID: 31, Name: "Forum: Announcements", ParentName: "Course: Biology 101"}
	if got != want {
		t.Errorf("LabelFor() = %+v, ожидалось %+v", got, want)
	}
}
