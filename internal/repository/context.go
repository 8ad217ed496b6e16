package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/fileinfo/internal/domain/model"
)

// ContextInstance — объект, которому принадлежит контекст.
type ContextInstance struct {
	// ModName — имя модуля (forum, resource, ...); только для уровня модуля
	ModName string
	// Name — человекочитаемое имя экземпляра
	Name string
}

// ContextRepository — чтение каталога контекстов и имён их экземпляров.
type ContextRepository interface {
	// GetByID возвращает контекст по id или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.ContextRecord, error)
	// InstanceName возвращает имя экземпляра контекста заданного уровня.
	// Системный контекст экземпляра не имеет: для него возвращается ошибка.
	InstanceName(ctx context.Context, level model.ContextLevel, instanceID int64) (*ContextInstance, error)
}

// modNamePattern — допустимое имя модуля (подставляется в имя таблицы).
var modNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// contextRepo — реализация ContextRepository.
type contextRepo struct {
	db     DBTX
	tables Tables
}

// NewContextRepository создаёт репозиторий контекстов.
func NewContextRepository(db DBTX, tables Tables) ContextRepository {
	return &contextRepo{db: db, tables: tables}
}

func (r *contextRepo) GetByID(ctx context.Context, id int64) (*model.ContextRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, contextlevel, instanceid, COALESCE(path, ''), depth
		FROM %s
		WHERE id = $1`, r.tables.Name("context"))

	c := &model.ContextRecord{}
	var level int64
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &level, &c.InstanceID, &c.Path, &c.Depth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения контекста %d: %w", id, err)
	}
	c.Level = model.ContextLevel(level)
	return c, nil
}

func (r *contextRepo) InstanceName(ctx context.Context, level model.ContextLevel, instanceID int64) (*ContextInstance, error) {
	switch level {
	case model.ContextLevelUser:
		return r.userName(ctx, instanceID)
	case model.ContextLevelCategory:
		return r.singleName(ctx, "course_categories", "name", instanceID)
	case model.ContextLevelCourse:
		return r.singleName(ctx, "course", "fullname", instanceID)
	case model.ContextLevelModule:
		return r.moduleName(ctx, instanceID)
	case model.ContextLevelBlock:
		return r.singleName(ctx, "block_instances", "blockname", instanceID)
	default:
		return nil, fmt.Errorf("неизвестный уровень контекста %d", level)
	}
}

// singleName читает одну текстовую колонку таблицы по id.
func (r *contextRepo) singleName(ctx context.Context, table, column string, id int64) (*ContextInstance, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		pgx.Identifier{column}.Sanitize(), r.tables.Name(table))

	var name string
	if err := r.db.QueryRow(ctx, query, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения %s.%s (id=%d): %w", table, column, id, err)
	}
	return &ContextInstance{Name: name}, nil
}

// userName возвращает полное имя пользователя, при пустом — username.
func (r *contextRepo) userName(ctx context.Context, id int64) (*ContextInstance, error) {
	query := fmt.Sprintf(`SELECT username, firstname, lastname FROM %s WHERE id = $1`,
		r.tables.Name("user"))

	var username, firstname, lastname string
	if err := r.db.QueryRow(ctx, query, id).Scan(&username, &firstname, &lastname); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя %d: %w", id, err)
	}

	name := strings.TrimSpace(firstname + " " + lastname)
	if name == "" {
		name = username
	}
	return &ContextInstance{Name: name}, nil
}

// moduleName разрешает course_modules.id → имя модуля и имя экземпляра
// из таблицы модуля ({prefix}{modname}).
func (r *contextRepo) moduleName(ctx context.Context, cmID int64) (*ContextInstance, error) {
	query := fmt.Sprintf(`
		SELECT m.name, cm.instance
		FROM %s cm
		JOIN %s m ON m.id = cm.module
		WHERE cm.id = $1`, r.tables.Name("course_modules"), r.tables.Name("modules"))

	var modName string
	var instance int64
	if err := r.db.QueryRow(ctx, query, cmID).Scan(&modName, &instance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения модуля курса %d: %w", cmID, err)
	}
	if !modNamePattern.MatchString(modName) {
		return nil, fmt.Errorf("недопустимое имя модуля %q", modName)
	}

	inst, err := r.singleName(ctx, modName, "name", instance)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("таблица модуля %s отсутствует: %w", modName, ErrNotFound)
		}
		return nil, err
	}
	inst.ModName = modName
	return inst, nil
}
