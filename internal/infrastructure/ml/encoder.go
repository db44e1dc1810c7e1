package ml

import (
	"fmt"
	"math"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
)

// encoder turns a FeatureRecord row into the dense column vector the models
// index into. Numeric fields keep their name as the column; categorical fields
// expand to one "field=value" column per known category.
type encoder struct {
	index   map[string]int
	fields  []fieldEncoding
	columns []string
}

type fieldEncoding struct {
	categories map[string]int
	name       string
	kind       model.FieldKind
	offset     int
}

func newEncoder(specs map[string]EncoderSpec) (*encoder, error) {
	e := &encoder{index: make(map[string]int)}

	for _, f := range model.FeatureSchema() {
		fe := fieldEncoding{name: f.Name, kind: f.Kind, offset: len(e.columns)}

		if f.Kind == model.FieldCategorical {
			fe.categories = make(map[string]int)
			for _, c := range specs[f.Name].Categories {
				if _, dup := fe.categories[c]; dup {
					return nil, fmt.Errorf("%w: duplicate category %q for %q", ErrArtifact, c, f.Name)
				}
				fe.categories[c] = len(fe.categories)
				e.addColumn(f.Name + "=" + c)
			}
		} else {
			e.addColumn(f.Name)
		}

		e.fields = append(e.fields, fe)
	}

	return e, nil
}

func (e *encoder) addColumn(name string) {
	e.index[name] = len(e.columns)
	e.columns = append(e.columns, name)
}

// column returns the vector index of an encoded column name.
func (e *encoder) column(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

func (e *encoder) width() int {
	return len(e.columns)
}

// encode builds the column vector for a row. Category values the artifact has
// never seen encode to all zeros.
func (e *encoder) encode(row []model.Field) ([]float64, error) {
	if len(row) != len(e.fields) {
		return nil, fmt.Errorf("%w: row has %d fields, expected %d", ErrSchemaMismatch, len(row), len(e.fields))
	}

	x := make([]float64, len(e.columns))
	for i, fe := range e.fields {
		f := row[i]
		if f.Name != fe.name || f.Kind != fe.kind {
			return nil, fmt.Errorf("%w: row field %d is %q, expected %q", ErrSchemaMismatch, i, f.Name, fe.name)
		}

		if fe.kind == model.FieldCategorical {
			if c, ok := fe.categories[f.Text]; ok {
				x[fe.offset+c] = 1
			}
			continue
		}

		if math.IsNaN(f.Number) || math.IsInf(f.Number, 0) {
			return nil, fmt.Errorf("non-finite value for %q", f.Name)
		}
		x[fe.offset] = f.Number
	}

	return x, nil
}
