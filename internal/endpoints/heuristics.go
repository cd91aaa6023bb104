// Package endpoints finds HTTP route declarations in source files using a
// tiered strategy: decorator-based controller composition, structural
// call-pattern matching, and a permissive text pattern for files the grammar
// cannot parse. Tier outputs are unioned and deduplicated by
// (method, route, start line).
package endpoints

import (
	"regexp"
	"strings"
)

// httpMethods are the member names treated as HTTP verb registrations.
var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "options": true, "head": true, "all": true,
}

var routeObjectKeywords = map[string]bool{
	"app": true, "router": true, "route": true,
	"api": true, "controller": true, "server": true,
}

var routeObjectSuffixes = []string{
	"router", "routes", "route", "app", "server", "controller", "api",
}

// IsRouteObject reports whether an identifier plausibly names a route
// registrar (app, router, userRoutes, apiV2, ...). Every detection tier uses
// this same predicate so classification stays consistent across tiers.
func IsRouteObject(name string) bool {
	low := strings.ToLower(name)
	if routeObjectKeywords[low] {
		return true
	}
	for _, suffix := range routeObjectSuffixes {
		if strings.HasSuffix(low, suffix) {
			return true
		}
	}
	return strings.HasPrefix(low, "app") || strings.HasPrefix(low, "api")
}

// Prescan patterns: a file is only fed to the detector when its raw text
// shows either a route-object method call or an API-ish decorator.
var (
	routeMethodPattern = regexp.MustCompile(
		`(?i)\b(?:app|router|route|api|controller|server|[A-Za-z_$][\w$]*?(?:Router|Routes|Api|Controller|App|Server))\s*\.\s*(?:get|post|put|delete|patch|options|head)\s*\(`)
	decoratorPattern = regexp.MustCompile(
		`(?i)@\s*(route|get|post|put|delete|patch|options|head|all|api|endpoint|router|controller|module|middleware|rest)\b`)
)

// ContainsAPIDefinitions reports whether the raw source plausibly declares
// HTTP endpoints. Cheap text check used to filter the directory walk.
func ContainsAPIDefinitions(source []byte) bool {
	return routeMethodPattern.Match(source) || decoratorPattern.Match(source)
}
