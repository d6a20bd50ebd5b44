package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-sv/internal/genome"
	"github.com/inodb/vibe-sv/internal/vcf"
)

// Call is a structural variant call as stored in DuckDB. End and CIEnd are
// nil when the end position could not be resolved (e.g. unlinked breakend).
type Call struct {
	Source    string
	ID        string
	Start     genome.Position
	End       *genome.Position
	SVType    string
	Ref       string
	Alt       string
	Qual      string
	Filter    string
	CIStart   genome.Interval
	CIEnd     *genome.Interval
	MateID    string
	Supported bool
	Info      string
}

// NewCall derives a Call from a parsed variant. supportedKey names the INFO
// flag marking contig support.
func NewCall(source string, v *vcf.Variant, supportedKey string) (Call, error) {
	ciStart, err := v.CIStart()
	if err != nil {
		return Call{}, err
	}

	c := Call{
		Source:    source,
		ID:        v.ID,
		Start:     v.Start(),
		SVType:    v.SVType(),
		Ref:       v.Ref,
		Alt:       v.Alt,
		Qual:      v.Qual,
		Filter:    v.Filter,
		CIStart:   ciStart,
		Supported: v.HasInfo(supportedKey),
		Info:      v.Info().String(),
	}

	if mate, ok := v.Mate(); ok {
		c.MateID = mate.ID
	}
	end, err := v.End()
	switch {
	case err == nil:
		c.End = &end
		ciEnd, err := v.CIEnd()
		if err != nil {
			return Call{}, err
		}
		c.CIEnd = &ciEnd
	case errors.Is(err, vcf.ErrMissingMate), errors.Is(err, vcf.ErrInfoFieldNotFound):
		// stored without an end
	default:
		return Call{}, err
	}

	return c, nil
}

// WriteCalls replaces all calls of source with the variants of set, using
// the Appender API.
func (s *Store) WriteCalls(source string, set *vcf.VariantSet, supportedKey string) (int, error) {
	calls := make([]Call, 0, set.Len())
	for _, v := range set.Variants() {
		c, err := NewCall(source, v, supportedKey)
		if err != nil {
			return 0, fmt.Errorf("convert variant %s: %w", v.ID, err)
		}
		calls = append(calls, c)
	}

	if err := s.DeleteCalls(source); err != nil {
		return 0, err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "sv_calls")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, c := range calls {
		var endChrom, endPos, ciEndLeft, ciEndRight any
		if c.End != nil {
			endChrom, endPos = c.End.Chrom, c.End.Pos
		}
		if c.CIEnd != nil {
			ciEndLeft, ciEndRight = c.CIEnd.Left, c.CIEnd.Right
		}
		var mateID any
		if c.MateID != "" {
			mateID = c.MateID
		}

		if err := appender.AppendRow(
			c.Source, c.ID, c.Start.Chrom, c.Start.Pos, endChrom, endPos,
			c.SVType, c.Ref, c.Alt, c.Qual, c.Filter,
			c.CIStart.Left, c.CIStart.Right, ciEndLeft, ciEndRight,
			mateID, c.Supported, c.Info,
		); err != nil {
			return 0, fmt.Errorf("append call %s: %w", c.ID, err)
		}
	}

	if err := appender.Flush(); err != nil {
		return 0, fmt.Errorf("flush appender: %w", err)
	}
	return len(calls), nil
}

// DeleteCalls removes all calls of source.
func (s *Store) DeleteCalls(source string) error {
	if _, err := s.db.Exec("DELETE FROM sv_calls WHERE source = ?", source); err != nil {
		return fmt.Errorf("delete calls: %w", err)
	}
	return nil
}

const callColumns = `source, id, chrom, pos, end_chrom, end_pos,
		svtype, ref, alt, qual, filter,
		ci_start_left, ci_start_right, ci_end_left, ci_end_right,
		mate_id, supported, info`

// LookupCall returns the call with the given source and ID.
func (s *Store) LookupCall(source, id string) (*Call, error) {
	rows, err := s.db.Query(`SELECT `+callColumns+`
		FROM sv_calls
		WHERE source=? AND id=?`, source, id)
	if err != nil {
		return nil, fmt.Errorf("query call: %w", err)
	}
	defer rows.Close()

	calls, err := scanCalls(rows)
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, nil
	}
	return &calls[0], nil
}

// SearchByType returns all calls of the given SVTYPE.
func (s *Store) SearchByType(svtype string) ([]Call, error) {
	rows, err := s.db.Query(`SELECT `+callColumns+`
		FROM sv_calls
		WHERE svtype=?
		ORDER BY source, chrom, pos, id`, svtype)
	if err != nil {
		return nil, fmt.Errorf("query by type: %w", err)
	}
	defer rows.Close()

	return scanCalls(rows)
}

// SearchRegion returns calls with either breakpoint confidence interval
// overlapping region.
func (s *Store) SearchRegion(region genome.Interval) ([]Call, error) {
	rows, err := s.db.Query(`SELECT `+callColumns+`
		FROM sv_calls
		WHERE (chrom=? AND ci_start_right >= ? AND ci_start_left <= ?)
		   OR (end_chrom=? AND ci_end_right >= ? AND ci_end_left <= ?)
		ORDER BY source, chrom, pos, id`,
		region.Chrom, region.Left, region.Right,
		region.Chrom, region.Left, region.Right)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanCalls(rows)
}

// CountByType returns the number of calls per SVTYPE.
func (s *Store) CountByType() (map[string]int, error) {
	rows, err := s.db.Query("SELECT svtype, COUNT(*) FROM sv_calls GROUP BY svtype")
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var svtype string
		var n int64
		if err := rows.Scan(&svtype, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[svtype] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// scanCalls scans rows selected with callColumns.
func scanCalls(rows *sql.Rows) ([]Call, error) {
	var calls []Call
	for rows.Next() {
		var c Call
		var endChrom, mateID sql.NullString
		var endPos, ciEndLeft, ciEndRight sql.NullInt64

		if err := rows.Scan(
			&c.Source, &c.ID, &c.Start.Chrom, &c.Start.Pos, &endChrom, &endPos,
			&c.SVType, &c.Ref, &c.Alt, &c.Qual, &c.Filter,
			&c.CIStart.Left, &c.CIStart.Right, &ciEndLeft, &ciEndRight,
			&mateID, &c.Supported, &c.Info,
		); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}

		c.CIStart.Chrom = c.Start.Chrom
		if endChrom.Valid && endPos.Valid {
			c.End = &genome.Position{Chrom: endChrom.String, Pos: endPos.Int64}
		}
		if c.End != nil && ciEndLeft.Valid && ciEndRight.Valid {
			c.CIEnd = &genome.Interval{Chrom: c.End.Chrom, Left: ciEndLeft.Int64, Right: ciEndRight.Int64}
		}
		c.MateID = mateID.String
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}
