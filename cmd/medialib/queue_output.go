package main

import (
	"fmt"
	"io"
	"strings"

	"medialib/internal/api"
	"medialib/internal/textutil"
)

func queueListRow(item api.QueueItem) []string {
	return []string{
		fmt.Sprintf("%d", item.ID),
		item.Owner,
		textutil.Label(item.Status),
		item.Source,
		formatQueueTime(item.CreatedAt),
		truncate(item.ErrorMessage, 60),
	}
}

func printQueueItem(out io.Writer, item api.QueueItem) {
	fmt.Fprintf(out, "Request %d\n", item.ID)
	fmt.Fprintf(out, "  Owner:    %s\n", item.Owner)
	fmt.Fprintf(out, "  Source:   %s\n", item.Source)
	fmt.Fprintf(out, "  Status:   %s\n", textutil.Label(item.Status))
	fmt.Fprintf(out, "  Created:  %s\n", formatQueueTime(item.CreatedAt))
	if item.StartedAt != "" {
		fmt.Fprintf(out, "  Started:  %s\n", formatQueueTime(item.StartedAt))
	}
	if item.FinishedAt != "" {
		fmt.Fprintf(out, "  Finished: %s\n", formatQueueTime(item.FinishedAt))
	}
	if item.DurationSeconds > 0 {
		fmt.Fprintf(out, "  Duration: %.1fs\n", item.DurationSeconds)
	}
	if item.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error:    %s\n", item.ErrorMessage)
	}
}

func printRequeueResult(out io.Writer, result api.RequeueItemsResult) {
	for _, item := range result.Items {
		switch item.Outcome {
		case api.RequeueCreated:
			fmt.Fprintf(out, "Request %d requeued as %d\n", item.ID, item.NewID)
		case api.RequeueNotFound:
			fmt.Fprintf(out, "Request %d not found\n", item.ID)
		case api.RequeueNotTerminal:
			fmt.Fprintf(out, "Request %d is %s; only done or failed requests can be requeued\n", item.ID, textutil.Label(item.Status))
		}
	}
	fmt.Fprintf(out, "Requeued %d of %d\n", result.CreatedCount, len(result.Items))
}

func formatQueueTime(value string) string {
	t := api.ParseQueueTime(value)
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
