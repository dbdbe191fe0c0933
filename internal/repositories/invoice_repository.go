package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"invoice-extractor/internal/classification"
	"invoice-extractor/internal/decoder"
	"invoice-extractor/internal/models"
	"invoice-extractor/internal/probe"
)

var ErrInvalidTableName = errors.New("invalid table name")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Cursor yields the rows of one extraction query in source order
type Cursor interface {
	Next(ctx context.Context) (models.RawRow, error)
	Close() error
}

type InvoiceRepository interface {
	OpenCursor(ctx context.Context, table string, direction models.Direction) (Cursor, error)
	ColumnMetadata(ctx context.Context, table string) ([]probe.ColumnMetadata, error)
}

type invoiceRepository struct {
	db      *sqlx.DB
	layout  decoder.Layout
	decoder TextDecoder
}

// NewInvoiceRepository reads invoice rows through db. The layout names the
// type-code and issue-date columns used for filtering and ordering.
func NewInvoiceRepository(db *sqlx.DB, layout decoder.Layout, textDecoder TextDecoder) InvoiceRepository {
	if textDecoder == nil {
		textDecoder = UTF8Decoder
	}
	return &invoiceRepository{db: db, layout: layout, decoder: textDecoder}
}

func (r *invoiceRepository) OpenCursor(ctx context.Context, table string, direction models.Direction) (Cursor, error) {
	const op = "OpenCursor"

	if err := validateTable(table); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args := r.selectQuery(table, direction)
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query %s: %w", op, table, err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("%s: failed to read columns of %s: %w", op, table, err)
	}

	return &rowCursor{rows: rows, columns: columns, decode: r.decoder}, nil
}

func (r *invoiceRepository) selectQuery(table string, direction models.Direction) (string, []interface{}) {
	typeCol := r.quote(r.layout.TypeCode)

	var where string
	var args []interface{}
	switch direction {
	case "":
	case models.DirectionUnknown:
		where = fmt.Sprintf(" WHERE %s IS NULL OR %s NOT IN (%d, %d)", typeCol, typeCol,
			classification.TypeCodeIssued, classification.TypeCodeReceived)
	default:
		if code, ok := classification.TypeCodeFor(direction); ok {
			where = fmt.Sprintf(" WHERE %s = ?", typeCol)
			args = append(args, code)
		}
	}

	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s DESC", r.quote(table), where, r.quote(r.layout.IssueDate))
	return r.db.Rebind(query), args
}

func (r *invoiceRepository) ColumnMetadata(ctx context.Context, table string) ([]probe.ColumnMetadata, error) {
	const op = "ColumnMetadata"

	if err := validateTable(table); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", r.quote(table)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query %s: %w", op, table, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read column types of %s: %w", op, table, err)
	}

	columns := make([]probe.ColumnMetadata, 0, len(types))
	for _, ct := range types {
		nullable, known := ct.Nullable()
		columns = append(columns, probe.ColumnMetadata{
			Name:          ct.Name(),
			DatabaseType:  ct.DatabaseTypeName(),
			Nullable:      nullable,
			NullableKnown: known,
		})
	}
	return columns, nil
}

func (r *invoiceRepository) quote(identifier string) string {
	if r.db.DriverName() == "mysql" {
		return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func validateTable(table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	return nil
}

type rowCursor struct {
	rows    *sqlx.Rows
	columns []string
	decode  TextDecoder
	index   int
}

// Next returns io.EOF when the query is exhausted. A row that fails to scan
// is reported as a *decoder.DecodeError and iteration may continue.
func (c *rowCursor) Next(_ context.Context) (models.RawRow, error) {
	const op = "Next"

	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, io.EOF
	}
	c.index++

	values := make(map[string]interface{}, len(c.columns))
	if err := c.rows.MapScan(values); err != nil {
		return nil, decoder.NewDecodeError(c.index, err, "failed to scan row")
	}

	row := make(models.RawRow, 0, len(c.columns))
	for _, name := range c.columns {
		v := values[name]
		if b, ok := v.([]byte); ok {
			s, err := c.decode(b)
			if err != nil {
				return nil, decoder.NewDecodeError(c.index, err, fmt.Sprintf("failed to decode column %s", name))
			}
			v = s
		}
		row = append(row, models.Column{Name: name, Value: v})
	}
	return row, nil
}

func (c *rowCursor) Close() error {
	return c.rows.Close()
}
