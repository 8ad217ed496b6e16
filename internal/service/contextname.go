// contextname.go — разрешение id контекста в человекочитаемое имя.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/repository"
)

// siteCourseID — курс главной страницы сайта.
const siteCourseID = 1

// Context — разрешённый контекст LMS.
type Context interface {
	// InstanceID — id объекта, которому принадлежит контекст
	InstanceID() int64
	// Name — имя контекста с префиксом уровня ("Course: Biology")
	Name() string
	// Parent — родительский контекст, если он есть
	Parent() (Context, bool)
}

// ContextResolver разрешает id контекста. Ошибка означает, что контекст
// не удалось определить; вызывающий решает, как деградировать.
type ContextResolver interface {
	Resolve(ctx context.Context, id int64) (Context, error)
}

// resolvedContext — Context, полученный из каталога.
type resolvedContext struct {
	instanceID int64
	name       string
	parent     *resolvedContext
}

func (c *resolvedContext) InstanceID() int64 { return c.instanceID }
func (c *resolvedContext) Name() string      { return c.name }

func (c *resolvedContext) Parent() (Context, bool) {
	if c.parent == nil {
		return nil, false
	}
	return c.parent, true
}

// DBContextResolver — ContextResolver поверх таблиц LMS.
type DBContextResolver struct {
	repo   repository.ContextRepository
	logger *slog.Logger
}

// NewDBContextResolver создаёт резолвер контекстов.
func NewDBContextResolver(repo repository.ContextRepository, logger *slog.Logger) *DBContextResolver {
	return &DBContextResolver{
		repo:   repo,
		logger: logger.With(slog.String("component", "context_resolver")),
	}
}

// Resolve возвращает контекст с именем и родителем (только один уровень вверх).
// Не удалось определить родителя — контекст возвращается без него.
func (r *DBContextResolver) Resolve(ctx context.Context, id int64) (Context, error) {
	c, rec, err := r.resolveOne(ctx, id)
	if err != nil {
		return nil, err
	}

	parentID, ok := rec.ParentID()
	if !ok {
		return c, nil
	}
	parent, _, err := r.resolveOne(ctx, parentID)
	if err != nil {
		r.logger.Debug("Родительский контекст не определён",
			slog.Int64("context_id", id),
			slog.Int64("parent_id", parentID),
			slog.String("error", err.Error()),
		)
		return c, nil
	}
	c.parent = parent
	return c, nil
}

func (r *DBContextResolver) resolveOne(ctx context.Context, id int64) (*resolvedContext, *model.ContextRecord, error) {
	rec, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("контекст %d: %w", id, err)
		}
		return nil, nil, err
	}

	name, err := r.contextName(ctx, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("имя контекста %d: %w", id, err)
	}
	return &resolvedContext{instanceID: rec.InstanceID, name: name}, rec, nil
}

// contextName — имя контекста с префиксом уровня.
func (r *DBContextResolver) contextName(ctx context.Context, rec *model.ContextRecord) (string, error) {
	if rec.Level == model.ContextLevelSystem {
		return model.ContextLevelSystem.String(), nil
	}
	if rec.Level == model.ContextLevelCourse && rec.InstanceID == siteCourseID {
		return "Front page", nil
	}

	inst, err := r.repo.InstanceName(ctx, rec.Level, rec.InstanceID)
	if err != nil {
		return "", err
	}

	if rec.Level == model.ContextLevelModule {
		// cases.Caser хранит состояние, поэтому создаётся на каждый вызов
		return cases.Title(language.English).String(inst.ModName) + ": " + inst.Name, nil
	}
	return rec.Level.String() + ": " + inst.Name, nil
}
