package service

import (
	"context"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/repository"
)

// --- Mock repositories ---

// mockReportRepo — мок ReportRepository для unit-тестов.
type mockReportRepo struct {
	largestFilesFn func(ctx context.Context, limit int) ([]*model.FileRecord, error)
	userFilesFn    func(ctx context.Context, userID int64) ([]*model.FileRecord, error)
	largestUsersFn func(ctx context.Context, limit int) ([]*model.UserAggregate, error)
	largestAreasFn func(ctx context.Context, limit int) ([]*model.AreaAggregate, error)
	calls          int
}

func (m *mockReportRepo) LargestFiles(ctx context.Context, limit int) ([]*model.FileRecord, error) {
	m.calls++
	if m.largestFilesFn != nil {
		return m.largestFilesFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockReportRepo) UserFiles(ctx context.Context, userID int64) ([]*model.FileRecord, error) {
	m.calls++
	if m.userFilesFn != nil {
		return m.userFilesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockReportRepo) LargestUsers(ctx context.Context, limit int) ([]*model.UserAggregate, error) {
	m.calls++
	if m.largestUsersFn != nil {
		return m.largestUsersFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockReportRepo) LargestAreas(ctx context.Context, limit int) ([]*model.AreaAggregate, error) {
	m.calls++
	if m.largestAreasFn != nil {
		return m.largestAreasFn(ctx, limit)
	}
	return nil, nil
}

// mockContextRepo — мок ContextRepository: контексты и имена по id.
type mockContextRepo struct {
	contexts map[int64]*model.ContextRecord
	names    map[model.ContextLevel]map[int64]*repository.ContextInstance
	lookups  int
}

func (m *mockContextRepo) GetByID(_ context.Context, id int64) (*model.ContextRecord, error) {
	m.lookups++
	if c, ok := m.contexts[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockContextRepo) InstanceName(_ context.Context, level model.ContextLevel, instanceID int64) (*repository.ContextInstance, error) {
	if inst, ok := m.names[level][instanceID]; ok {
		return inst, nil
	}
	return nil, repository.ErrNotFound
}

// mockResolver — мок ContextResolver.
type mockResolver struct {
	resolveFn func(ctx context.Context, id int64) (Context, error)
	calls     []int64
}

func (m *mockResolver) Resolve(ctx context.Context, id int64) (Context, error) {
	m.calls = append(m.calls, id)
	return m.resolveFn(ctx, id)
}

// fakeContext — Context для тестов.
func fakeContext(instanceID int64, name string, parent *resolvedContext) *resolvedContext {
	return &resolvedContext{instanceID: instanceID, name: name, parent: parent}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
