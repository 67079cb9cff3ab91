package services

import (
	"context"
	"fmt"
	"slices"

	"chinook_crud/internal/models"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

// SchemaInspector is implemented by repositories.SchemaRepository.
type SchemaInspector interface {
	Columns(ctx context.Context, table string) ([]models.ColumnInfo, error)
	PrimaryKeys(ctx context.Context, table string) ([]string, error)
	ForeignKeys(ctx context.Context, table string) ([]models.ForeignKeyInfo, error)
}

type SchemaService struct {
	inspector SchemaInspector
}

func NewSchemaService(inspector SchemaInspector) *SchemaService {
	return &SchemaService{inspector: inspector}
}

// Verify compares the descriptors with the live database. Every mismatch
// is reported in the returned error; nil means the record shapes, and the
// statements built from them, agree with the database.
func (s *SchemaService) Verify(ctx context.Context, tables ...models.Table) error {
	var result *multierror.Error
	for _, t := range tables {
		mismatches, err := s.verifyTable(ctx, t)
		if err != nil {
			return err
		}
		result = multierror.Append(result, mismatches...)
		if len(mismatches) == 0 {
			log.WithField("table", t.Name).Debug("Table matches descriptor")
		}
	}
	return result.ErrorOrNil()
}

func (s *SchemaService) verifyTable(ctx context.Context, t models.Table) ([]error, error) {
	columns, err := s.inspector.Columns(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return []error{fmt.Errorf("table %s does not exist", t.Name)}, nil
	}

	var mismatches []error
	live := make(map[string]models.ColumnInfo, len(columns))
	for _, c := range columns {
		live[c.Name] = c
		if _, ok := t.Column(c.Name); !ok {
			mismatches = append(mismatches, fmt.Errorf("%s.%s is not described", t.Name, c.Name))
		}
	}

	for _, col := range t.Columns {
		info, ok := live[col.Name]
		if !ok {
			mismatches = append(mismatches, fmt.Errorf("%s.%s is missing", t.Name, col.Name))
			continue
		}
		if !col.Type.Matches(info.DataType) {
			mismatches = append(mismatches, fmt.Errorf("%s.%s has type %s, expected %s", t.Name, col.Name, info.DataType, col.Type))
		}
		if !col.PrimaryKey && !col.Nullable && info.Nullable {
			mismatches = append(mismatches, fmt.Errorf("%s.%s allows NULL", t.Name, col.Name))
		}
	}

	pks, err := s.inspector.PrimaryKeys(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(pks, t.PrimaryKeys()) {
		mismatches = append(mismatches, fmt.Errorf("%s has primary key %v, expected %v", t.Name, pks, t.PrimaryKeys()))
	}

	fks, err := s.inspector.ForeignKeys(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	for column, ref := range t.ForeignKeys() {
		if !hasForeignKey(fks, column, ref) {
			mismatches = append(mismatches, fmt.Errorf("%s.%s does not reference %s.%s", t.Name, column, ref.Table, ref.Column))
		}
	}
	return mismatches, nil
}

func hasForeignKey(fks []models.ForeignKeyInfo, column string, ref models.ForeignKey) bool {
	for _, fk := range fks {
		if fk.FromColumn == column && fk.ToTable == ref.Table && fk.ToColumn == ref.Column {
			return true
		}
	}
	return false
}

