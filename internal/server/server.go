// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the OpenProject client, the
// retry policy, and the audit store, and injects them into the tools and
// resources that depend on them. No business logic lives here.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/openproject-community/openproject-mcp/internal/audit"
	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/config"
	"github.com/openproject-community/openproject-mcp/internal/op"
	"github.com/openproject-community/openproject-mcp/internal/resources"
	"github.com/openproject-community/openproject-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and resources
// registered. This is the single place where all dependencies are
// resolved.
//
// The returned cleanup function closes the audit store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if audit init failed.
func New(cfg *config.Config, log *slog.Logger) (*server.MCPServer, func(), error) {
	client, err := op.New(op.Options{
		BaseURL: cfg.URL,
		APIKey:  cfg.APIKey,
		Proxy:   cfg.Proxy,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("creating OpenProject client: %w", err)
	}

	retry := bulk.RetryConfig{
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: cfg.RetryInitialDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		Multiplier:   2.0,
	}

	// The audit log is an independent subsystem: if it fails to
	// initialize, every other tool keeps working. We log a warning and
	// skip bulk_history registration.
	cleanup := noop
	var store *audit.Store
	if cfg.AuditDBPath != "" {
		store, err = audit.Open(cfg.AuditDBPath)
		if err != nil {
			log.Warn("audit log disabled", "error", err)
			store = nil
		} else {
			cleanup = func() {
				if err := store.Close(); err != nil {
					log.Warn("audit store close", "error", err)
				}
			}
		}
	}

	deps := tools.Deps{
		API:   client,
		Retry: retry,
		Audit: store,
		Log:   log,
	}

	s := server.NewMCPServer(
		"openproject-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, deps, store != nil)

	resourceHandler := resources.NewHandler(client)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.MetadataResource(), resourceHandler.HandleMetadata)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the audit
// log is disabled or hasn't been initialized.
func noop() {}

// registerTools registers every MCP tool with the server.
func registerTools(s *server.MCPServer, deps tools.Deps, auditEnabled bool) {
	// --- Connection ---

	testConnection := tools.NewTestConnectionTool(deps)
	s.AddTool(testConnection.Definition(), testConnection.Handle)

	// --- Work package read ---

	listWPs := tools.NewListWorkPackagesTool(deps)
	s.AddTool(listWPs.Definition(), listWPs.Handle)

	getWP := tools.NewGetWorkPackageTool(deps)
	s.AddTool(getWP.Definition(), getWP.Handle)

	// --- Work package write ---

	createWP := tools.NewCreateWorkPackageTool(deps)
	s.AddTool(createWP.Definition(), createWP.Handle)

	updateWP := tools.NewUpdateWorkPackageTool(deps)
	s.AddTool(updateWP.Definition(), updateWP.Handle)

	deleteWP := tools.NewDeleteWorkPackageTool(deps)
	s.AddTool(deleteWP.Definition(), deleteWP.Handle)

	addComment := tools.NewAddCommentTool(deps)
	s.AddTool(addComment.Definition(), addComment.Handle)

	// --- Hierarchy ---

	setParent := tools.NewSetParentTool(deps)
	s.AddTool(setParent.Definition(), setParent.Handle)

	removeParent := tools.NewRemoveParentTool(deps)
	s.AddTool(removeParent.Definition(), removeParent.Handle)

	listChildren := tools.NewListChildrenTool(deps)
	s.AddTool(listChildren.Definition(), listChildren.Handle)

	// --- Relations ---

	createRelation := tools.NewCreateRelationTool(deps)
	s.AddTool(createRelation.Definition(), createRelation.Handle)

	getRelation := tools.NewGetRelationTool(deps)
	s.AddTool(getRelation.Definition(), getRelation.Handle)

	deleteRelation := tools.NewDeleteRelationTool(deps)
	s.AddTool(deleteRelation.Definition(), deleteRelation.Handle)

	listRelations := tools.NewListRelationsTool(deps)
	s.AddTool(listRelations.Definition(), listRelations.Handle)

	// --- Projects, users, memberships, time, versions, news ---

	listProjects := tools.NewListProjectsTool(deps)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	getProject := tools.NewGetProjectTool(deps)
	s.AddTool(getProject.Definition(), getProject.Handle)

	createProject := tools.NewCreateProjectTool(deps)
	s.AddTool(createProject.Definition(), createProject.Handle)

	updateProject := tools.NewUpdateProjectTool(deps)
	s.AddTool(updateProject.Definition(), updateProject.Handle)

	listUsers := tools.NewListUsersTool(deps)
	s.AddTool(listUsers.Definition(), listUsers.Handle)

	getUser := tools.NewGetUserTool(deps)
	s.AddTool(getUser.Definition(), getUser.Handle)

	listMemberships := tools.NewListMembershipsTool(deps)
	s.AddTool(listMemberships.Definition(), listMemberships.Handle)

	getMembership := tools.NewGetMembershipTool(deps)
	s.AddTool(getMembership.Definition(), getMembership.Handle)

	createMembership := tools.NewCreateMembershipTool(deps)
	s.AddTool(createMembership.Definition(), createMembership.Handle)

	updateMembership := tools.NewUpdateMembershipTool(deps)
	s.AddTool(updateMembership.Definition(), updateMembership.Handle)

	deleteMembership := tools.NewDeleteMembershipTool(deps)
	s.AddTool(deleteMembership.Definition(), deleteMembership.Handle)

	listTimeEntries := tools.NewListTimeEntriesTool(deps)
	s.AddTool(listTimeEntries.Definition(), listTimeEntries.Handle)

	createTimeEntry := tools.NewCreateTimeEntryTool(deps)
	s.AddTool(createTimeEntry.Definition(), createTimeEntry.Handle)

	deleteTimeEntry := tools.NewDeleteTimeEntryTool(deps)
	s.AddTool(deleteTimeEntry.Definition(), deleteTimeEntry.Handle)

	listTimeEntryActivities := tools.NewListTimeEntryActivitiesTool(deps)
	s.AddTool(listTimeEntryActivities.Definition(), listTimeEntryActivities.Handle)

	listVersions := tools.NewListVersionsTool(deps)
	s.AddTool(listVersions.Definition(), listVersions.Handle)

	createVersion := tools.NewCreateVersionTool(deps)
	s.AddTool(createVersion.Definition(), createVersion.Handle)

	listNews := tools.NewListNewsTool(deps)
	s.AddTool(listNews.Definition(), listNews.Handle)

	getNews := tools.NewGetNewsTool(deps)
	s.AddTool(getNews.Definition(), getNews.Handle)

	// --- Bulk operations ---
	//
	// The bulk tools share one engine (internal/bulk): batch ceiling,
	// bounded concurrency, per-item retry, partial-failure aggregation.

	bulkUpdate := tools.NewBulkUpdateTool(deps)
	s.AddTool(bulkUpdate.Definition(), bulkUpdate.Handle)

	bulkDelete := tools.NewBulkDeleteTool(deps)
	s.AddTool(bulkDelete.Definition(), bulkDelete.Handle)

	bulkCreate := tools.NewBulkCreateTool(deps)
	s.AddTool(bulkCreate.Definition(), bulkCreate.Handle)

	bulkComment := tools.NewBulkCommentTool(deps)
	s.AddTool(bulkComment.Definition(), bulkComment.Handle)

	bulkSetParents := tools.NewBulkSetParentsTool(deps)
	s.AddTool(bulkSetParents.Definition(), bulkSetParents.Handle)

	bulkRemoveParents := tools.NewBulkRemoveParentsTool(deps)
	s.AddTool(bulkRemoveParents.Definition(), bulkRemoveParents.Handle)

	bulkCreateRelations := tools.NewBulkCreateRelationsTool(deps)
	s.AddTool(bulkCreateRelations.Definition(), bulkCreateRelations.Handle)

	bulkDeleteRelations := tools.NewBulkDeleteRelationsTool(deps)
	s.AddTool(bulkDeleteRelations.Definition(), bulkDeleteRelations.Handle)

	bulkFiltered := tools.NewBulkUpdateFilteredTool(deps)
	s.AddTool(bulkFiltered.Definition(), bulkFiltered.Handle)

	if auditEnabled {
		history := tools.NewBulkHistoryTool(deps)
		s.AddTool(history.Definition(), history.Handle)
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the server effectively.
func serverInstructions() string {
	return `You have access to an OpenProject MCP server: project management
tools for work packages, relations, time tracking, and bulk operations.

## Single vs bulk tools

Use the single-item tools (create_work_package, update_work_package, ...)
for one or two items. When the user wants the same change applied to many
items, ALWAYS prefer the bulk tools:

- bulk_update_work_packages: same field changes on up to 50 work packages
- bulk_create_work_packages: up to 30 new work packages in one call
- bulk_delete_work_packages: up to 30 deletions (PERMANENT, confirm first)
- bulk_add_comment: same comment on up to 50 work packages
- bulk_set_parents / bulk_remove_parents: hierarchy changes on up to 50
- bulk_create_relations / bulk_delete_relations: up to 30 relations
- bulk_update_filtered_work_packages: update everything matching a filter

Bulk calls run items concurrently and retry transient failures per item.
A bulk call can PARTIALLY succeed: read the result summary, report the
per-item failures to the user, and only retry the failed items.

## Filtered updates and dry runs

bulk_update_filtered_work_packages defaults to dry_run=true. Run the dry
run first, show the user the preview (how many matched, what changes),
and call again with dry_run=false only after they confirm.

## Destructive operations

bulk_delete_work_packages and bulk_delete_relations are permanent. Ask
the user for explicit confirmation, listing the affected ids, before
calling them. The single-item delete tools (delete_work_package,
delete_relation, delete_time_entry, delete_membership) are permanent
too.

## IDs and metadata

Most write calls need numeric ids (type_id, status_id, priority_id,
assignee_id). Read the openproject://instance/metadata resource, or use
list_projects / list_users, to resolve names to ids before writing.

## History

If the bulk_history tool is available, use it to answer questions like
"what bulk changes were made recently".`
}
