package normalize

import (
	"go.uber.org/zap"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/loader"
	"github.com/rerite/openscience-explorer/internal/record"
)

// MetadataSource resolves side-file metadata by DOI.
// *loader.MetaCache satisfies it.
type MetadataSource interface {
	Lookup(doi string) record.Metadata
}

// SkippedRow describes a table row that could not become a record.
type SkippedRow struct {
	Line   int    `json:"line"`
	DOI    string `json:"doi"`
	Reason string `json:"reason"`
}

// Result is the output of Builder.Build.
type Result struct {
	Records []record.Record
	Skipped []SkippedRow
}

// Builder turns table rows into records.
type Builder struct {
	Columns config.Columns
	Meta    MetadataSource
	Logger  *zap.Logger
}

// Build normalizes every row of table, in table order. Rows whose
// coordinates cannot be plotted are skipped and reported in Result.Skipped.
func (b *Builder) Build(table *loader.Table) Result {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Result{Records: make([]record.Record, 0, len(table.Rows))}
	for _, row := range table.Rows {
		rec, err := b.Record(row)
		if err != nil {
			skip := SkippedRow{Line: row.Line, DOI: Text(row.Get(b.Columns.DOI)), Reason: err.Error()}
			logger.Warn("skipping row",
				zap.Int("line", skip.Line),
				zap.String("doi", skip.DOI),
				zap.Error(err))
			res.Skipped = append(res.Skipped, skip)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// Record normalizes a single row.
func (b *Builder) Record(row loader.Row) (record.Record, error) {
	cols := b.Columns

	x, err := Coordinate(row.Get(cols.X))
	if err != nil {
		return record.Record{}, err
	}
	y, err := Coordinate(row.Get(cols.Y))
	if err != nil {
		return record.Record{}, err
	}

	doi := Text(row.Get(cols.DOI))
	rec := record.Record{
		DOI:           doi,
		DOIURL:        Text(row.Get(cols.DOIURL)),
		Year:          Year(row.Get(cols.Year)),
		Journal:       Text(row.Get(cols.Journal)),
		Topic:         Topic(row.Get(cols.Topic)),
		X:             x,
		Y:             y,
		CodeAvailable: Bool(row.Get(cols.CodeAvailable)),
		DataAvailable: Bool(row.Get(cols.DataAvailable)),
		CodeLinks:     Links(row.Get(cols.CodeLinks)),
		DataLinks:     Links(row.Get(cols.DataLinks)),
		OpenAccess:    "False",
	}

	if b.Meta != nil && doi != "" {
		applyMetadata(&rec, b.Meta.Lookup(doi))
	}
	return rec, nil
}

// applyMetadata copies display fields from a side-file.
func applyMetadata(rec *record.Record, m record.Metadata) {
	rec.Title = m.Title.String()
	rec.Abstract = m.Abstract.String()
	rec.Institution = m.PrimaryInstitution.String()
	rec.Keywords = m.Keywords.String()
	rec.Funding = m.FundingAgencies.String()
	rec.Acknowledgement = m.Acknowledgement.String()
	rec.OpenAccess = m.OpenAccessText()
}
