package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
	applogger "MarketLens/pkg/logger"
)

// CHAssessmentStore implements AssessmentStore backed by ClickHouse.
type CHAssessmentStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHAssessmentStore(ch *pkgch.Client, table string) *CHAssessmentStore {
	if table == "" {
		table = "marketlens.assessments"
	}
	return &CHAssessmentStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHAssessmentStore) SetLogger(l *applogger.Logger) { s.l = l }

// database returns the database part of the qualified table name.
func (s *CHAssessmentStore) database() string {
	if i := strings.IndexByte(s.table, '.'); i > 0 {
		return s.table[:i]
	}
	return ""
}

func (s *CHAssessmentStore) Init(ctx context.Context) error {
	var stmts []string
	if db := s.database(); db != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db))
	}
	stmts = append(stmts,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            ts DateTime64(3),
            symbol LowCardinality(String),
            bias LowCardinality(String),
            strength LowCardinality(String),
            intensity LowCardinality(String),
            composite Float64,
            confidence Float64,
            conflicting UInt8,
            headline String,
            narrative String,
            investor_type LowCardinality(String)
        ) ENGINE = MergeTree()
        PARTITION BY toYYYYMM(ts)
        ORDER BY (symbol, ts)`, s.table),
	)
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init assessments schema: %w", err)
		}
	}
	return nil
}

func (s *CHAssessmentStore) Store(ctx context.Context, a *models.Assessment) error {
	return s.StoreBatch(ctx, []*models.Assessment{a})
}

func (s *CHAssessmentStore) StoreBatch(ctx context.Context, as []*models.Assessment) error {
	if len(as) == 0 {
		return nil
	}
	start := time.Now()

	values := make([]string, 0, len(as))
	args := make([]interface{}, 0, len(as)*11)
	for _, a := range as {
		if a == nil || a.Symbol == "" {
			continue
		}
		conflicting := uint8(0)
		if a.Conflicting {
			conflicting = 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			a.Timestamp,
			a.Symbol,
			string(a.Signals.MarketBias),
			string(a.Signals.SignalStrength),
			string(a.Intensity),
			a.Composite,
			a.Confidence,
			conflicting,
			a.Narrative.Headline,
			a.Narrative.Text,
			a.Narrative.InvestorType,
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, bias, strength, intensity, composite, confidence, conflicting, headline, narrative, investor_type) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_assessments error",
				applogger.String("table", s.table),
				applogger.Int("rows", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store assessments: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store_assessments ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHAssessmentStore) Recent(ctx context.Context, symbol string, limit int) ([]*models.Assessment, error) {
	start := time.Now()
	q := fmt.Sprintf(`SELECT ts, symbol, bias, strength, intensity, composite, confidence, conflicting, headline, narrative, investor_type
        FROM %s
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_assessments query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent assessments: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Assessment, 0, limit)
	for rows.Next() {
		var (
			a           models.Assessment
			bias        string
			strength    string
			intensity   string
			conflicting uint8
		)
		if err := rows.Scan(&a.Timestamp, &a.Symbol, &bias, &strength, &intensity,
			&a.Composite, &a.Confidence, &conflicting,
			&a.Narrative.Headline, &a.Narrative.Text, &a.Narrative.InvestorType); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.Signals.MarketBias = models.MarketBias(bias)
		a.Signals.SignalStrength = models.SignalStrength(strength)
		a.Intensity = models.LanguageIntensity(intensity)
		a.Conflicting = conflicting != 0
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse recent_assessments ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHAssessmentStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHAssessmentStore) Close() error {
	return nil // Managed by pkg
}

var _ domrepo.AssessmentStore = (*CHAssessmentStore)(nil)
