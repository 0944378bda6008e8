// Package numerator provides document auto-numbering backed by PostgreSQL.
//
// Numbers follow the pattern PREFIX-YYYYMMDD-XXXXX (e.g. PO-20250114-00042).
// The date segment is the document date; the counter is a single atomic
// sequence per document type that never resets, so numbers stay unique even
// across date boundaries and concurrent writers.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix identifies the document type (e.g. "PO", "GRN", "INV")
	Prefix string

	// PadWidth is the minimum counter width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 5,
	}
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering functionality.
type Service struct {
	querier Querier

	// cacheMu protects ranges
	cacheMu sync.Mutex
	// ranges stores active in-memory ranges keyed by prefix
	ranges map[string]*cachedRange
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next generates the next document number for the given type and document date.
func (s *Service) Next(ctx context.Context, cfg Config, opts *Options, date time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	var num int64
	var err error

	switch opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, cfg.Prefix, opts)
	case StrategyStrict:
		fallthrough
	default:
		num, err = s.nextStrict(ctx, cfg.Prefix)
	}

	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, date, num), nil
}

// nextStrict fetches the next counter value directly from DB using UPSERT + RETURNING.
// The UPSERT serializes concurrent callers on the sequence row, so two
// documents of the same type can never draw the same value.
func (s *Service) nextStrict(ctx context.Context, prefix string) (int64, error) {
	var num int64

	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, prefix).Scan(&num)

	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached fetches next counter value from memory, refilling from DB if needed.
func (s *Service) nextCached(ctx context.Context, prefix string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[prefix]
	if !exists {
		rng = &cachedRange{}
		s.ranges[prefix] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64

		// current_val tracks the last allocated value, so bumping it by 'size'
		// reserves the range (newMax-size, newMax].
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, prefix, size).Scan(&newMax)

		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext sets the counter value (for migration purposes).
func (s *Service) SetNext(ctx context.Context, prefix string, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, prefix, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, prefix)
	s.cacheMu.Unlock()

	return err
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg Config, date time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, date.Format("20060102"), padWidth, num)
}

// ParseNumber extracts the counter part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	if _, err := fmt.Sscanf(formatted, "%*[^-]-%*d-%d", &num); err == nil {
		return num
	}
	return -1
}
