package tools

import (
	"fmt"
	"strings"

	"github.com/openproject-community/openproject-mcp/internal/bulk"
	"github.com/openproject-community/openproject-mcp/internal/op"
)

const (
	maxErrorsShown    = 5
	maxSuccessesShown = 5
)

// formatBulkResult renders the aggregate of a bulk operation. Both
// counts are always shown; failures are never silently dropped.
func formatBulkResult(title string, r *bulk.Result) string {
	var b strings.Builder

	marker := "✅"
	if r.Failed > 0 {
		marker = "⚠️"
	}
	fmt.Fprintf(&b, "%s **%s**\n\n", marker, title)
	fmt.Fprintf(&b, "**Total**: %d | **Success**: %d | **Failed**: %d\n", r.Total, r.Succeeded, r.Failed)
	fmt.Fprintf(&b, "**Success Rate**: %.1f%%\n", r.SuccessRate())
	fmt.Fprintf(&b, "**Duration**: %.2fs\n", r.Duration.Seconds())

	if r.Failed > 0 {
		fmt.Fprintf(&b, "\n**Errors** (first %d):\n", min(r.Failed, maxErrorsShown))
		for i, e := range r.Errors {
			if i == maxErrorsShown {
				fmt.Fprintf(&b, "... and %d more\n", r.Failed-maxErrorsShown)
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, e)
		}
	}

	return b.String()
}

// appendSuccessPreview lists the first few successful items that carry a
// work package resource (id + subject).
func appendSuccessPreview(b *strings.Builder, r *bulk.Result) {
	if r.Succeeded == 0 {
		return
	}
	fmt.Fprintf(b, "\n**Succeeded** (first %d):\n", min(r.Succeeded, maxSuccessesShown))
	for i, item := range r.Successes {
		if i == maxSuccessesShown {
			fmt.Fprintf(b, "... and %d more\n", r.Succeeded-maxSuccessesShown)
			break
		}
		if res, ok := item.Value.(op.Resource); ok && res.Subject() != "" {
			fmt.Fprintf(b, "- #%d: %s\n", res.ID(), res.Subject())
		} else {
			fmt.Fprintf(b, "- %s\n", item.Key)
		}
	}
}

// formatWorkPackageList renders a HAL work package collection.
func formatWorkPackageList(collection op.Resource) string {
	elements := collection.Elements()
	if len(elements) == 0 {
		return "No work packages found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Found %d work package(s):\n\n", len(elements))
	for _, wp := range elements {
		fmt.Fprintf(&b, "- **#%d: %s**\n", wp.ID(), wp.Subject())
		fmt.Fprintf(&b, "  Status: %s | Type: %s", orUnknown(wp.LinkTitle("status")), orUnknown(wp.LinkTitle("type")))
		if assignee := wp.LinkTitle("assignee"); assignee != "" {
			fmt.Fprintf(&b, " | Assignee: %s", assignee)
		}
		b.WriteString("\n")
		if due := wp.Str("dueDate"); due != "" {
			fmt.Fprintf(&b, "  Due: %s\n", due)
		}
	}
	if total := collection.Total(); total > len(elements) {
		fmt.Fprintf(&b, "\n(%d of %d total — narrow the filter or raise page_size)\n", len(elements), total)
	}
	return b.String()
}

// formatWorkPackageDetail renders one work package.
func formatWorkPackageDetail(wp op.Resource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# #%d: %s\n\n", wp.ID(), wp.Subject())
	fmt.Fprintf(&b, "**Project**: %s\n", orUnknown(wp.LinkTitle("project")))
	fmt.Fprintf(&b, "**Type**: %s | **Status**: %s | **Priority**: %s\n",
		orUnknown(wp.LinkTitle("type")), orUnknown(wp.LinkTitle("status")), orUnknown(wp.LinkTitle("priority")))
	if assignee := wp.LinkTitle("assignee"); assignee != "" {
		fmt.Fprintf(&b, "**Assignee**: %s\n", assignee)
	}
	if start, due := wp.Str("startDate"), wp.Str("dueDate"); start != "" || due != "" {
		fmt.Fprintf(&b, "**Dates**: %s → %s\n", orUnknown(start), orUnknown(due))
	}
	fmt.Fprintf(&b, "**Progress**: %d%%\n", wp.Int("percentageDone"))
	if desc := wp.Raw("description"); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", truncate(desc, 500))
	}
	return b.String()
}

// formatError renders a user-facing failure message.
func formatError(msg string) string {
	return "❌ " + msg
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
