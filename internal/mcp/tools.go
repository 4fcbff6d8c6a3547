package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"impuls/internal/cluster"
	"impuls/internal/diagnose"
	"impuls/internal/focus"
	"impuls/internal/impulse"
	"impuls/internal/logarchive"
	"impuls/internal/logtags"
	"impuls/internal/stats"
)

type RegisterImpulseInput struct {
	Room string `json:"room" jsonschema:"room the impulse belongs to: impulse-center, earth, water, fire, wind or aether"`
	Note string `json:"note,omitempty" jsonschema:"optional free text"`
}

type ImpulseStatsInput struct{}

type FocusInput struct{}

type ListLogsInput struct {
	PrimaryTag string `json:"primaryTag,omitempty" jsonschema:"restrict to a primary tag such as #MUSIK"`
	Cycle      string `json:"cycle,omitempty" jsonschema:"restrict to a cycle tag such as #Zyklus-1"`
}

type SummarizeClusterInput struct {
	PrimaryTag string `json:"primaryTag" jsonschema:"primary tag of the cluster"`
	Cycle      string `json:"cycle,omitempty" jsonschema:"optional cycle tag"`
}

type ImpulseOutput struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Room         string    `json:"room"`
	Zone         string    `json:"zone"`
	Note         string    `json:"note"`
	DeltaF       float64   `json:"deltaF"`
	ArchivRoom   string    `json:"archivRoom"`
	ChronikLevel string    `json:"chronikLevel"`
}

type FocusOutput struct {
	Total          int            `json:"total"`
	Counts         map[string]int `json:"counts"`
	DominantRoom   string         `json:"dominantRoom,omitempty"`
	CurrentRoom    string         `json:"currentRoom,omitempty"`
	Recommendation string         `json:"recommendation"`
}

type LogEntryOutput struct {
	ID        string   `json:"id"`
	File      string   `json:"file"`
	Label     string   `json:"label"`
	Primary   string   `json:"primary"`
	Cycle     string   `json:"cycle,omitempty"`
	Processes []string `json:"processes"`
}

type ListLogsOutput struct {
	Entries []LogEntryOutput `json:"entries"`
}

type SummarizeClusterOutput struct {
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "register_impulse",
		Description: "Log an impulse in a room and return it with its derived meta",
	}, s.handleRegisterImpulse)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "impulse_stats",
		Description: "Aggregate statistics over all logged impulses",
	}, s.handleImpulseStats)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "focus",
		Description: "Recommend where to focus based on the rooms impulses were logged in",
	}, s.handleFocus)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_logs",
		Description: "List valid log documents with optional tag filters",
	}, s.handleListLogs)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "summarize_cluster",
		Description: "Summarize the log cluster for a primary tag and optional cycle",
	}, s.handleSummarizeCluster)
}

func (s *Server) handleRegisterImpulse(ctx context.Context, req *sdk.CallToolRequest, input RegisterImpulseInput) (*sdk.CallToolResult, ImpulseOutput, error) {
	if input.Room == "" {
		return nil, ImpulseOutput{}, fmt.Errorf("room is required")
	}
	room, err := impulse.ParseRoom(input.Room)
	if err != nil {
		return nil, ImpulseOutput{}, err
	}
	e, err := s.journal.Register(ctx, room, input.Note)
	if err != nil {
		return nil, ImpulseOutput{}, err
	}
	s.logger.Info("impulse registered", zap.String("id", e.ID), zap.String("room", string(e.Room)))
	return nil, impulseOutput(e), nil
}

func (s *Server) handleImpulseStats(ctx context.Context, req *sdk.CallToolRequest, input ImpulseStatsInput) (*sdk.CallToolResult, diagnose.Summary, error) {
	return nil, diagnose.NewSummary(stats.Aggregate(s.journal.Snapshot())), nil
}

func (s *Server) handleFocus(ctx context.Context, req *sdk.CallToolRequest, input FocusInput) (*sdk.CallToolResult, FocusOutput, error) {
	summary := focus.Evaluate(s.journal.Snapshot(), s.journal.Current())

	output := FocusOutput{
		Total:          summary.Total,
		Counts:         make(map[string]int, impulse.NumRooms),
		Recommendation: summary.Recommendation,
	}
	for i, room := range impulse.Rooms {
		output.Counts[string(room)] = summary.Counts[i]
	}
	if summary.DominantRoom != nil {
		output.DominantRoom = string(*summary.DominantRoom)
	}
	if summary.Current != nil {
		output.CurrentRoom = string(summary.Current.Room)
	}
	return nil, output, nil
}

func (s *Server) handleListLogs(ctx context.Context, req *sdk.CallToolRequest, input ListLogsInput) (*sdk.CallToolResult, ListLogsOutput, error) {
	entries, err := s.loadCorpus(ctx)
	if err != nil {
		return nil, ListLogsOutput{}, err
	}
	if input.PrimaryTag != "" {
		primary, ok := logtags.ParsePrimary(input.PrimaryTag)
		if !ok {
			return nil, ListLogsOutput{}, fmt.Errorf("unknown primary tag: %s", input.PrimaryTag)
		}
		entries = cluster.FilterByPrimaryAndCycle(entries, primary, logtags.CycleTag(input.Cycle))
	} else if input.Cycle != "" {
		return nil, ListLogsOutput{}, fmt.Errorf("cycle filter requires primaryTag")
	}

	output := make([]LogEntryOutput, 0, len(entries))
	for _, entry := range entries {
		output = append(output, logEntryOutput(entry))
	}
	return nil, ListLogsOutput{Entries: output}, nil
}

func (s *Server) handleSummarizeCluster(ctx context.Context, req *sdk.CallToolRequest, input SummarizeClusterInput) (*sdk.CallToolResult, SummarizeClusterOutput, error) {
	if input.PrimaryTag == "" {
		return nil, SummarizeClusterOutput{}, fmt.Errorf("primaryTag is required")
	}
	primary, ok := logtags.ParsePrimary(input.PrimaryTag)
	if !ok {
		return nil, SummarizeClusterOutput{}, fmt.Errorf("unknown primary tag: %s", input.PrimaryTag)
	}
	entries, err := s.loadCorpus(ctx)
	if err != nil {
		return nil, SummarizeClusterOutput{}, err
	}

	cycle := logtags.CycleTag(input.Cycle)
	return nil, SummarizeClusterOutput{
		Count:   len(cluster.FilterByPrimaryAndCycle(entries, primary, cycle)),
		Summary: cluster.Summarize(entries, primary, cycle),
	}, nil
}

func impulseOutput(e impulse.Enriched) ImpulseOutput {
	return ImpulseOutput{
		ID:           e.ID,
		Timestamp:    e.Timestamp,
		Room:         string(e.Room),
		Zone:         string(e.Zone),
		Note:         e.Note,
		DeltaF:       e.Meta.DeltaF,
		ArchivRoom:   string(e.Meta.ArchivRoom),
		ChronikLevel: string(e.Meta.Chronik.Level),
	}
}

func logEntryOutput(entry *logarchive.Entry) LogEntryOutput {
	processes := make([]string, 0, len(entry.Header.Process))
	for _, p := range entry.Header.Process {
		processes = append(processes, string(p))
	}
	return LogEntryOutput{
		ID:        entry.ID,
		File:      filepath.Base(entry.FilePath),
		Label:     entry.Header.Label(),
		Primary:   string(entry.Header.Primary),
		Cycle:     string(entry.Header.Cycle),
		Processes: processes,
	}
}
