// Package extract defines the boundary types produced by the extraction
// layer: structural facts about a repository (UI components, outbound API
// calls, backend endpoints, database queries, table schemas). clg never
// parses source code itself; it consumes snapshots of these facts.
package extract

// Component is a UI component detected in frontend code.
type Component struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	File  string   `json:"file" yaml:"file" toml:"file"`
	Line  int      `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Props []string `json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`
}

// APICall is an outbound HTTP call made from frontend code.
type APICall struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	File   string `json:"file" yaml:"file" toml:"file"`
	Method string `json:"method" yaml:"method" toml:"method"`
	// URL is the literal call target when statically known.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	// URLPattern is a templated form (e.g. "/api/users/${id}") when the
	// extractor could only recover the shape of the URL.
	URLPattern string `json:"urlPattern,omitempty" yaml:"urlPattern,omitempty" toml:"urlPattern,omitempty"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
}

// Endpoint is a backend HTTP route definition.
type Endpoint struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	File   string `json:"file" yaml:"file" toml:"file"`
	Method string `json:"method" yaml:"method" toml:"method"`
	Path   string `json:"path" yaml:"path" toml:"path"`
	// PathPattern keeps parameter markers (e.g. "/api/users/:id").
	PathPattern string   `json:"pathPattern,omitempty" yaml:"pathPattern,omitempty" toml:"pathPattern,omitempty"`
	Handler     string   `json:"handler,omitempty" yaml:"handler,omitempty" toml:"handler,omitempty"`
	Parameters  []string `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	Line        int      `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
}

// DatabaseQuery is a database access detected in backend code.
type DatabaseQuery struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	File     string `json:"file" yaml:"file" toml:"file"`
	Function string `json:"function,omitempty" yaml:"function,omitempty" toml:"function,omitempty"`
	// Type is the statement kind (select, insert, update, delete, ...).
	Type  string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Table string   `json:"table,omitempty" yaml:"table,omitempty" toml:"table,omitempty"`
	// Tables lists all referenced tables when the query touches several.
	Tables []string `json:"tables,omitempty" yaml:"tables,omitempty" toml:"tables,omitempty"`
	Line   int      `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
}

// Column describes a single table column.
type Column struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty" toml:"nullable,omitempty"`
}

// ForeignKey describes a foreign key relation between tables.
type ForeignKey struct {
	Column           string `json:"column" yaml:"column" toml:"column"`
	ReferencesTable  string `json:"referencesTable" yaml:"referencesTable" toml:"referencesTable"`
	ReferencesColumn string `json:"referencesColumn,omitempty" yaml:"referencesColumn,omitempty" toml:"referencesColumn,omitempty"`
}

// Table is a database table schema.
type Table struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	File        string       `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Columns     []Column     `json:"columns,omitempty" yaml:"columns,omitempty" toml:"columns,omitempty"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty" toml:"foreignKeys,omitempty"`
}

// TestFile is a test file together with the source files it covers,
// as reported by the external test-detection collaborator.
type TestFile struct {
	Path      string   `json:"path" yaml:"path" toml:"path"`
	TestNames []string `json:"testNames,omitempty" yaml:"testNames,omitempty" toml:"testNames,omitempty"`
	Covers    []string `json:"covers,omitempty" yaml:"covers,omitempty" toml:"covers,omitempty"`
}

// Snapshot is one complete set of extracted facts for a repository at a
// point in time. Every analysis run rebuilds the lineage graph from a
// fresh snapshot; snapshots are never incrementally mutated.
type Snapshot struct {
	Repository string          `json:"repository,omitempty" yaml:"repository,omitempty" toml:"repository,omitempty"`
	Components []Component     `json:"components,omitempty" yaml:"components,omitempty" toml:"components,omitempty"`
	APICalls   []APICall       `json:"apiCalls,omitempty" yaml:"apiCalls,omitempty" toml:"apiCalls,omitempty"`
	Endpoints  []Endpoint      `json:"endpoints,omitempty" yaml:"endpoints,omitempty" toml:"endpoints,omitempty"`
	Queries    []DatabaseQuery `json:"queries,omitempty" yaml:"queries,omitempty" toml:"queries,omitempty"`
	Tables     []Table         `json:"tables,omitempty" yaml:"tables,omitempty" toml:"tables,omitempty"`
	TestFiles  []TestFile      `json:"testFiles,omitempty" yaml:"testFiles,omitempty" toml:"testFiles,omitempty"`
}

// IsEmpty reports whether the snapshot carries no facts at all.
func (s *Snapshot) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.Components) == 0 && len(s.APICalls) == 0 && len(s.Endpoints) == 0 &&
		len(s.Queries) == 0 && len(s.Tables) == 0
}
