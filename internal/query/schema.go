package query

// Kind describes how a raw query-string value is converted before it reaches the database.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInt
	KindBool
	KindTime
	KindUUID
)

// Field is one API-visible attribute of an entity.
type Field struct {
	Column     string
	Kind       Kind
	Filterable bool
	Sortable   bool
}

// Schema is the allow-list of fields a list endpoint accepts. Anything not listed is rejected.
type Schema struct {
	Fields        map[string]Field
	DefaultSort   string
	PrimaryKey    string
	VersionColumn string
}

func (s Schema) lookup(name string) (Field, bool) {
	f, ok := s.Fields[name]
	return f, ok
}
