package endpoints

// Tier identifies which detection strategy produced a record.
type Tier string

const (
	// TierDecorator composes controller and method decorators (typed
	// dialects only).
	TierDecorator Tier = "decorator"
	// TierStructural matches route-object method calls on the syntax tree.
	TierStructural Tier = "structural"
	// TierPattern is the permissive raw-text fallback.
	TierPattern Tier = "pattern"
)

// Record is one detected HTTP endpoint declaration. Route is empty when the
// path could not be determined (e.g. a template literal with interpolation).
// Lines are 1-based and cover the handler registration or method body.
type Record struct {
	Method    string `json:"method"`
	Route     string `json:"route"`
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Tier      Tier   `json:"tier"`
}

type recordKey struct {
	method    string
	route     string
	startLine int
}

// recordSet accumulates records across tiers, keeping the first record for
// each (method, route, start line) identity and preserving insertion order.
type recordSet struct {
	seen    map[recordKey]bool
	records []Record
}

func newRecordSet() *recordSet {
	return &recordSet{seen: make(map[recordKey]bool)}
}

func (s *recordSet) add(r Record) {
	key := recordKey{method: r.Method, route: r.Route, startLine: r.StartLine}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.records = append(s.records, r)
}

func (s *recordSet) addAll(records []Record) {
	for _, r := range records {
		s.add(r)
	}
}
