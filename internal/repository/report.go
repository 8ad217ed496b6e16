package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/fileinfo/internal/domain/model"
)

// ReportRepository — агрегирующие запросы к таблице files.
type ReportRepository interface {
	// LargestFiles возвращает limit самых больших файлов.
	LargestFiles(ctx context.Context, limit int) ([]*model.FileRecord, error)
	// UserFiles возвращает все файлы пользователя, от больших к меньшим.
	UserFiles(ctx context.Context, userID int64) ([]*model.FileRecord, error)
	// LargestUsers возвращает limit пользователей с наибольшим объёмом файлов.
	LargestUsers(ctx context.Context, limit int) ([]*model.UserAggregate, error)
	// LargestAreas возвращает limit областей хранения с наибольшим объёмом.
	LargestAreas(ctx context.Context, limit int) ([]*model.AreaAggregate, error)
}

// reportRepo — реализация ReportRepository.
type reportRepo struct {
	db     DBTX
	tables Tables
}

// NewReportRepository создаёт репозиторий отчётов.
func NewReportRepository(db DBTX, tables Tables) ReportRepository {
	return &reportRepo{db: db, tables: tables}
}

// fileColumns — колонки files + username в порядке scanFile.
const fileColumns = `f.id, f.timecreated, f.filename, f.filesize, f.userid, u.username,
			f.component, f.filearea, f.itemid, f.contextid`

func largestFilesQuery(t Tables) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s f
		LEFT JOIN %s u ON u.id = f.userid
		ORDER BY f.filesize DESC, f.id
		LIMIT $1`, fileColumns, t.Name("files"), t.Name("user"))
}

func userFilesQuery(t Tables) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s f
		LEFT JOIN %s u ON u.id = f.userid
		WHERE f.userid = $1
		ORDER BY f.filesize DESC, f.id`, fileColumns, t.Name("files"), t.Name("user"))
}

func largestUsersQuery(t Tables) string {
	return fmt.Sprintf(`
		SELECT f.userid, MAX(u.username), COUNT(f.id), COALESCE(SUM(f.filesize), 0)::bigint AS totalsize
		FROM %s f
		LEFT JOIN %s u ON u.id = f.userid
		GROUP BY f.userid
		ORDER BY totalsize DESC, f.userid
		LIMIT $1`, t.Name("files"), t.Name("user"))
}

func largestAreasQuery(t Tables) string {
	return fmt.Sprintf(`
		SELECT f.component, f.filearea, f.contextid, f.itemid,
			COALESCE(ctx.contextlevel, 0) AS contextlevel,
			COALESCE(ctx.instanceid, 0) AS instanceid,
			COUNT(f.id), COALESCE(SUM(f.filesize), 0)::bigint AS totalsize
		FROM %s f
		LEFT JOIN %s ctx ON ctx.id = f.contextid
		GROUP BY f.component, f.filearea, f.contextid, ctx.contextlevel, ctx.instanceid, f.itemid
		ORDER BY totalsize DESC, f.contextid, f.component, f.filearea, f.itemid
		LIMIT $1`, t.Name("files"), t.Name("context"))
}

func (r *reportRepo) LargestFiles(ctx context.Context, limit int) ([]*model.FileRecord, error) {
	rows, err := r.db.Query(ctx, largestFilesQuery(r.tables), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса самых больших файлов: %w", err)
	}
	return collectFiles(rows)
}

func (r *reportRepo) UserFiles(ctx context.Context, userID int64) ([]*model.FileRecord, error) {
	rows, err := r.db.Query(ctx, userFilesQuery(r.tables), userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса файлов пользователя %d: %w", userID, err)
	}
	return collectFiles(rows)
}

func (r *reportRepo) LargestUsers(ctx context.Context, limit int) ([]*model.UserAggregate, error) {
	rows, err := r.db.Query(ctx, largestUsersQuery(r.tables), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей по объёму: %w", err)
	}
	defer rows.Close()

	var result []*model.UserAggregate
	for rows.Next() {
		u := &model.UserAggregate{}
		var userID *int64
		if err := rows.Scan(&userID, &u.Username, &u.FileCount, &u.TotalSize); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		if userID != nil {
			u.UserID = *userID
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации пользователей: %w", err)
	}
	return result, nil
}

func (r *reportRepo) LargestAreas(ctx context.Context, limit int) ([]*model.AreaAggregate, error) {
	rows, err := r.db.Query(ctx, largestAreasQuery(r.tables), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса областей по объёму: %w", err)
	}
	defer rows.Close()

	var result []*model.AreaAggregate
	for rows.Next() {
		a := &model.AreaAggregate{}
		var level int64
		if err := rows.Scan(
			&a.Component, &a.FileArea, &a.ContextID, &a.ItemID,
			&level, &a.ContextInstanceID, &a.FileCount, &a.TotalSize,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования области: %w", err)
		}
		a.ContextLevel = model.ContextLevel(level)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации областей: %w", err)
	}
	return result, nil
}

// collectFiles сканирует строки files + username и закрывает rows.
func collectFiles(rows pgx.Rows) ([]*model.FileRecord, error) {
	defer rows.Close()

	var result []*model.FileRecord
	for rows.Next() {
		f := &model.FileRecord{}
		var userID *int64
		if err := rows.Scan(
			&f.ID, &f.TimeCreated, &f.Filename, &f.Filesize, &userID, &f.Username,
			&f.Component, &f.FileArea, &f.ItemID, &f.ContextID,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла: %w", err)
		}
		if userID != nil {
			f.UserID = *userID
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации файлов: %w", err)
	}
	return result, nil
}
