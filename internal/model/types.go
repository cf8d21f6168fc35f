package model

// EntityKind classifies an extracted structural entity
type EntityKind string

const (
	KindFunction      EntityKind = "function"
	KindClass         EntityKind = "class"
	KindImport        EntityKind = "import"
	KindExport        EntityKind = "export"
	KindVariable      EntityKind = "variable"
	KindHookCall      EntityKind = "hook_call"
	KindComponent     EntityKind = "component"
	KindSelector      EntityKind = "selector"
	KindDeclaration   EntityKind = "declaration"
	KindAtRule        EntityKind = "at_rule"
	KindMarkupElement EntityKind = "markup_element"
)

// SourceLocation is a line/column span in the original text.
// Retained for diagnostics; never used for matching.
type SourceLocation struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// Param describes one function parameter
type Param struct {
	Name             string   `json:"name"`
	HasDefault       bool     `json:"has_default"`
	DefaultIsLiteral bool     `json:"default_is_literal"`
	IsRest           bool     `json:"is_rest"`
	IsDestructured   bool     `json:"is_destructured"`
	Members          []string `json:"members,omitempty"` // destructured member names
}

// Entity is one extracted structural element. Matching between versions
// uses IdentityKey; keys are NOT unique within a model (multiset semantics).
type Entity struct {
	Kind        EntityKind     `json:"kind"`
	IdentityKey string         `json:"identity_key"`
	Location    SourceLocation `json:"location"`

	// Function / method attributes
	Params      []Param `json:"params,omitempty"`
	Async       bool    `json:"async,omitempty"`
	Generator   bool    `json:"generator,omitempty"`
	HasReturn   bool    `json:"has_return,omitempty"`
	CallsAPI    bool    `json:"calls_api,omitempty"`
	Complexity  int     `json:"complexity,omitempty"`
	MethodOwner string  `json:"method_owner,omitempty"` // class name for methods

	// Class attributes
	Superclass  string `json:"superclass,omitempty"`
	IsComponent bool   `json:"is_component,omitempty"`
	IsStatic    bool   `json:"is_static,omitempty"`

	// Import / export attributes
	Source      string   `json:"source,omitempty"` // module specifier
	Bindings    []string `json:"bindings,omitempty"`
	IsFramework bool     `json:"is_framework,omitempty"`
	IsDefault   bool     `json:"is_default,omitempty"`

	// Hook call attributes
	CallCount int `json:"call_count,omitempty"`

	// Stylesheet attributes
	Property string `json:"property,omitempty"` // declaration property name
	Value    string `json:"value,omitempty"`    // raw declaration value
	AtKind   string `json:"at_kind,omitempty"`  // media, keyframes, import, font-face, supports, container

	// Markup attributes
	Tag        string            `json:"tag,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// Auxiliary prose lines attached by extractors (layout-system
	// companion analysis). Carried into change-record details.
	SubDetails []string `json:"sub_details,omitempty"`

	// Warning set by extractors for malformed-but-parsed nodes
	// (empty selector, empty declaration value). Reported, never fatal.
	Warning string `json:"warning,omitempty"`
}

// StructuralModel is the ordered multiset of entities extracted from one
// version of one artifact. Built fresh per extraction, discarded after
// diffing; holds no cross-call state.
type StructuralModel struct {
	Path     string   `json:"path"`
	Grammar  string   `json:"grammar"`
	Entities []Entity `json:"entities"`

	// MaxNesting is the lexical brace-nesting depth of a stylesheet,
	// computed by counting outside strings and comments. Approximate.
	MaxNesting int `json:"max_nesting,omitempty"`
}

// Add appends an entity preserving source order
func (m *StructuralModel) Add(e Entity) {
	m.Entities = append(m.Entities, e)
}

// ByKind returns the entities of one kind in source order
func (m *StructuralModel) ByKind(kind EntityKind) []Entity {
	var out []Entity
	for _, e := range m.Entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Kinds returns every kind present in either this model or other,
// in a stable order
func (m *StructuralModel) Kinds(other *StructuralModel) []EntityKind {
	order := []EntityKind{
		KindImport, KindExport, KindFunction, KindClass, KindComponent,
		KindVariable, KindHookCall, KindSelector, KindDeclaration,
		KindAtRule, KindMarkupElement,
	}
	present := map[EntityKind]bool{}
	for _, e := range m.Entities {
		present[e.Kind] = true
	}
	if other != nil {
		for _, e := range other.Entities {
			present[e.Kind] = true
		}
	}
	var out []EntityKind
	for _, k := range order {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}
