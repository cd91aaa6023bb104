package swagger

import "regexp"

// colonParamPattern matches Express-style :param path segments.
var colonParamPattern = regexp.MustCompile(`:([A-Za-z_][\w-]*)`)

// NormalizeRoute rewrites each colon-prefixed path segment to the OpenAPI
// bracket convention: /widgets/:id becomes /widgets/{id}.
func NormalizeRoute(route string) string {
	if route == "" {
		return route
	}
	return colonParamPattern.ReplaceAllString(route, "{${1}}")
}

// Merge folds one fragment into the document. Path keys are normalized
// before keying so /:name and /{name} land on the same entry. When two
// fragments target the same (path, method), the last writer wins; merge
// order equals worker completion order and is non-deterministic.
func Merge(doc *Document, fragment *Fragment) {
	if fragment == nil {
		return
	}
	for pathKey, methods := range fragment.Paths {
		normalized := NormalizeRoute(pathKey)
		if doc.Paths[normalized] == nil {
			doc.Paths[normalized] = PathItem{}
		}
		for method, operation := range methods {
			doc.Paths[normalized][method] = operation
		}
	}
}
