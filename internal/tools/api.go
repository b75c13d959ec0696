// Package tools implements the MCP tool handlers.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes Definition() for registration plus Handle() matching
// mcp-go's handler signature. One file per tool family.
//
// Tools never touch a global client: the API client, retry policy, and
// audit store are injected through Deps, which keeps handlers testable
// with a fake API.
package tools

import (
	"context"
	"log/slog"

	"github.com/openproject-community/openproject-mcp/internal/audit"
	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

// API is the surface of the OpenProject client the tools depend on.
// *op.Client satisfies it; tests substitute a fake.
type API interface {
	TestConnection(ctx context.Context) (op.Resource, error)

	ListWorkPackages(ctx context.Context, opts op.ListWorkPackagesOptions) (op.Resource, error)
	GetWorkPackage(ctx context.Context, id int64) (op.Resource, error)
	CreateWorkPackage(ctx context.Context, wp op.NewWorkPackage) (op.Resource, error)
	UpdateWorkPackage(ctx context.Context, id int64, u op.WorkPackageUpdate) (op.Resource, error)
	DeleteWorkPackage(ctx context.Context, id int64) error
	AddComment(ctx context.Context, id int64, comment string, internal bool) (op.Resource, error)
	SetParent(ctx context.Context, id, parentID int64) (op.Resource, error)
	RemoveParent(ctx context.Context, id int64) (op.Resource, error)
	ListChildren(ctx context.Context, parentID int64) (op.Resource, error)

	CreateRelation(ctx context.Context, rel op.NewRelation) (op.Resource, error)
	GetRelation(ctx context.Context, id int64) (op.Resource, error)
	DeleteRelation(ctx context.Context, id int64) error
	ListRelations(ctx context.Context, filters string) (op.Resource, error)

	ListProjects(ctx context.Context, filters string) (op.Resource, error)
	GetProject(ctx context.Context, id int64) (op.Resource, error)
	CreateProject(ctx context.Context, p op.NewProject) (op.Resource, error)
	UpdateProject(ctx context.Context, id int64, name, description string, active *bool) (op.Resource, error)

	ListUsers(ctx context.Context, filters string) (op.Resource, error)
	GetUser(ctx context.Context, id int64) (op.Resource, error)

	ListMemberships(ctx context.Context, projectID, userID int64) (op.Resource, error)
	GetMembership(ctx context.Context, id int64) (op.Resource, error)
	CreateMembership(ctx context.Context, m op.NewMembership) (op.Resource, error)
	UpdateMembership(ctx context.Context, id int64, roleIDs []int64, message string) (op.Resource, error)
	DeleteMembership(ctx context.Context, id int64) error

	ListTimeEntries(ctx context.Context, filters string) (op.Resource, error)
	CreateTimeEntry(ctx context.Context, e op.NewTimeEntry) (op.Resource, error)
	DeleteTimeEntry(ctx context.Context, id int64) error
	GetTimeEntryActivities(ctx context.Context) (op.Resource, error)

	ListVersions(ctx context.Context, projectID int64) (op.Resource, error)
	CreateVersion(ctx context.Context, projectID int64, v op.NewVersion) (op.Resource, error)

	ListNews(ctx context.Context, projectID int64, pageSize int) (op.Resource, error)
	GetNews(ctx context.Context, id int64) (op.Resource, error)
}

// Deps carries the shared dependencies injected into every tool.
type Deps struct {
	API   API
	Retry bulk.RetryConfig

	// Audit may be nil (history disabled); recordRun is nil-safe.
	Audit *audit.Store

	Log *slog.Logger
}

// recordRun logs a finished bulk batch to the audit store, best-effort.
func (d Deps) recordRun(ctx context.Context, r *bulk.Result) {
	if d.Audit == nil {
		return
	}
	_, err := d.Audit.Record(ctx, audit.Entry{
		Operation: string(r.Operation),
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Duration:  r.Duration,
	})
	if err != nil && d.Log != nil {
		d.Log.Warn("audit record failed", "error", err)
	}
}
