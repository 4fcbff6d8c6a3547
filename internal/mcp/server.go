// Package mcp exposes the journal and the log corpus as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"impuls/internal/journal"
	"impuls/internal/logarchive"
	"impuls/internal/metrics"
)

type Server struct {
	journal *journal.Journal
	loader  *logarchive.Loader
	logsDir string
	metrics *metrics.Metrics
	logger  *zap.Logger
	mcp     *sdk.Server
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewServer(j *journal.Journal, loader *logarchive.Loader, logsDir, version string, opts ...Option) *Server {
	s := &Server{
		journal: j,
		loader:  loader,
		logsDir: logsDir,
		logger:  zap.NewNop(),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "impuls",
			Version: version,
		}, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// loadCorpus reads the log directory fresh for every call so edits show up
// without restarting the server.
func (s *Server) loadCorpus(ctx context.Context) ([]*logarchive.Entry, error) {
	result, err := s.loader.LoadDir(ctx, s.logsDir)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveCorpus(result)
	}
	if len(result.Errors) > 0 {
		s.logger.Warn("corpus loaded with read errors", zap.Int("errors", len(result.Errors)))
	}
	return result.Entries, nil
}
