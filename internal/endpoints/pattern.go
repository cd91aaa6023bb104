package endpoints

import (
	"regexp"
	"strings"
)

// fallbackEndpointPattern matches object.METHOD( with an optional quoted
// route immediately after the parenthesis. Used only when structural parsing
// of the whole file failed: some files carry syntax no grammar accepts, and
// a best-effort scan still beats returning nothing.
var fallbackEndpointPattern = regexp.MustCompile(
	`(?is)([A-Za-z_$][\w$]*)\s*\.\s*(GET|POST|PUT|DELETE|PATCH|OPTIONS|HEAD|ALL)\s*\(\s*(["'].*?["'])?`)

// patternEndpoints is the tier-3 text scan over raw source.
func patternEndpoints(source, filePath string) []Record {
	var records []Record
	for _, m := range fallbackEndpointPattern.FindAllStringSubmatchIndex(source, -1) {
		object := source[m[2]:m[3]]
		if !IsRouteObject(object) {
			continue
		}
		method := strings.ToUpper(source[m[4]:m[5]])
		route := ""
		if m[6] >= 0 {
			literal := source[m[6]:m[7]]
			if len(literal) >= 2 {
				route = literal[1 : len(literal)-1]
			}
		}
		records = append(records, Record{
			Method:    method,
			Route:     route,
			FilePath:  filePath,
			StartLine: strings.Count(source[:m[0]], "\n") + 1,
			EndLine:   strings.Count(source[:m[1]], "\n") + 1,
			Tier:      TierPattern,
		})
	}
	return records
}

// Decorator fallback patterns, used when a typed file yields no
// decorator-based endpoints through the structural query. Intentionally
// permissive to avoid empty output on complex syntax.
var (
	controllerDecoratorPattern = regexp.MustCompile("@Controller\\s*\\(\\s*((?:`[^`]*`|\"[^\"]*\"|'[^']*'|[^)]*)?)\\s*\\)")
	classHeaderPattern         = regexp.MustCompile(`class\s+[A-Za-z_]\w*\s*[^{]*\{`)
	methodDecoratorPattern     = regexp.MustCompile("(?i)@(Get|Post|Put|Delete|Patch|Options|Head|All)\\s*\\(\\s*((?:`[^`]*`|\"[^\"]*\"|'[^']*'|[^)]*)?)\\s*\\)")
)

// decoratorPatternEndpoints extracts controller/method decorator routes from
// raw text.
func decoratorPatternEndpoints(source, filePath string) []Record {
	var records []Record
	for _, cm := range controllerDecoratorPattern.FindAllStringSubmatchIndex(source, -1) {
		prefix := "/"
		if cm[2] >= 0 {
			if cleaned := cleanPathLiteral(source[cm[2]:cm[3]]); cleaned != "" {
				prefix = cleaned
			}
		}

		classLoc := classHeaderPattern.FindStringIndex(source[cm[1]:])
		if classLoc == nil {
			continue
		}
		braceStart := strings.Index(source[cm[1]+classLoc[0]:], "{")
		if braceStart == -1 {
			continue
		}
		braceStart += cm[1] + classLoc[0]
		braceEnd := findMatchingBrace(source, braceStart)
		if braceEnd == -1 {
			continue
		}
		body := source[braceStart:braceEnd]
		baseLine := strings.Count(source[:braceStart], "\n") + 1

		for _, mm := range methodDecoratorPattern.FindAllStringSubmatchIndex(body, -1) {
			method := strings.ToUpper(body[mm[2]:mm[3]])
			path := "/"
			if mm[4] >= 0 {
				if cleaned := cleanPathLiteral(body[mm[4]:mm[5]]); cleaned != "" {
					path = cleaned
				}
			}
			line := baseLine + strings.Count(body[:mm[0]], "\n")
			records = append(records, Record{
				Method:    method,
				Route:     combineRoutes(prefix, path),
				FilePath:  filePath,
				StartLine: line,
				EndLine:   line,
				Tier:      TierDecorator,
			})
		}
	}
	return records
}

// findMatchingBrace returns the index of the closing brace matching
// source[start] == '{', or -1.
func findMatchingBrace(source string, start int) int {
	depth := 0
	for i := start; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// cleanPathLiteral strips surrounding quotes or backticks from a decorator
// argument.
func cleanPathLiteral(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '\'' || first == '"' || first == '`') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

var multiSlashPattern = regexp.MustCompile(`//+`)

// combineRoutes concatenates a controller prefix and a method path into one
// route with a single leading slash and no doubled slashes.
func combineRoutes(prefix, path string) string {
	if prefix == "" {
		prefix = "/"
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	combined := multiSlashPattern.ReplaceAllString(strings.TrimRight(prefix, "/")+path, "/")
	if !strings.HasPrefix(combined, "/") {
		combined = "/" + combined
	}
	return combined
}
