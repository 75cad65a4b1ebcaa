package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatRecordsTable renders the known records as a markdown table for model
// prompts.
func FormatRecordsTable(records []Record) string {
	if len(records) == 0 {
		return "No FPAs are currently in the system."
	}
	var buf strings.Builder
	buf.WriteString("# Known FPAs:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("FPA Number", "Landowner", "Timber Sale", "Status")
	for _, r := range records {
		status := string(r.ApplicationStatus)
		if status == "" {
			status = "Unassigned"
		}
		_ = table.Append(r.FPANumber, r.Landowner, r.TimberSaleName, status)
	}
	_ = table.Render()
	return buf.String()
}

// ContextSummary is the one-line fleet summary handed to the free-form reply
// path.
func ContextSummary(records []Record) string {
	if len(records) == 0 {
		return "No FPAs are currently in the system."
	}
	counts := map[string]int{}
	for _, r := range records {
		status := string(r.ApplicationStatus)
		if status == "" {
			status = "Unassigned"
		}
		counts[status]++
	}
	parts := make([]string, 0, len(counts))
	for _, status := range append([]ApplicationStatus{StatusUnassigned}, AllStatuses...) {
		label := string(status)
		if label == "" {
			label = "Unassigned"
		}
		if n := counts[label]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	return fmt.Sprintf("The system has %d FPA(s): %s.", len(records), strings.Join(parts, ", "))
}

// FormatRecordSummary is the single-record line used for summary replies.
func FormatRecordSummary(r *Record) string {
	if r == nil {
		return "I could not find that FPA."
	}
	status := string(r.ApplicationStatus)
	if status == "" {
		status = "Unassigned"
	}
	landowner := r.Landowner
	if landowner == "" {
		landowner = "Unknown landowner"
	}
	sale := r.TimberSaleName
	if sale == "" {
		sale = "Unknown timber sale"
	}
	return fmt.Sprintf("FPA %s: %s - %s (%s).", r.FPANumber, landowner, sale, status)
}

// FormatStatusSummary is the fleet-wide count breakdown.
func FormatStatusSummary(records []Record) string {
	if len(records) == 0 {
		return "No FPAs available to summarize."
	}
	unassigned := 0
	counts := map[ApplicationStatus]int{}
	for _, r := range records {
		if r.ApplicationStatus == StatusUnassigned {
			unassigned++
			continue
		}
		counts[r.ApplicationStatus]++
	}
	parts := make([]string, 0, len(AllStatuses))
	for _, status := range AllStatuses {
		parts = append(parts, fmt.Sprintf("%s: %d", status, counts[status]))
	}
	return fmt.Sprintf("Total: %d. Unassigned: %d. %s.", len(records), unassigned, strings.Join(parts, " | "))
}
