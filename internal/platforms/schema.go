package platforms

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a logical column of a trade execution
type Field string

const (
	FieldSymbol    Field = "symbol"
	FieldSide      Field = "side"
	FieldQuantity  Field = "quantity"
	FieldPrice     Field = "price"
	FieldTimestamp Field = "timestamp"
	FieldFees      Field = "fees"
	FieldAccount   Field = "account"
	FieldOrderType Field = "order_type"
)

// RequiredFields must resolve on every row.
var RequiredFields = []Field{FieldSymbol, FieldSide, FieldQuantity, FieldPrice, FieldTimestamp}

// Schema declares how one platform's export maps onto executions.
type Schema struct {
	ID              string             `yaml:"id" json:"id" validate:"required"`
	Name            string             `yaml:"name" json:"name" validate:"required"`
	Description     string             `yaml:"description" json:"description"`
	RequiresDate    bool               `yaml:"requires_date" json:"requires_date"`
	GroupExecutions bool               `yaml:"group_executions" json:"group_executions"`
	Columns         map[Field][]string `yaml:"columns" json:"columns"`
	Transforms      map[Field]string   `yaml:"transforms" json:"transforms"`
	RowFilter       string             `yaml:"row_filter,omitempty" json:"row_filter,omitempty"`
}

// Aliases returns the header aliases for a field in priority order.
func (s Schema) Aliases(f Field) []string {
	return s.Columns[f]
}

// Validate checks the parts of a schema that do not depend on the catalog.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("schema id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("schema %s: name is required", s.ID)
	}

	var missing []string
	for _, f := range RequiredFields {
		if len(s.Columns[f]) == 0 {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("schema %s: missing columns for %s", s.ID, strings.Join(missing, ", "))
	}

	for _, f := range []Field{FieldSide, FieldTimestamp} {
		if s.Transforms[f] == "" {
			return fmt.Errorf("schema %s: %s transform is required", s.ID, f)
		}
	}
	return nil
}
