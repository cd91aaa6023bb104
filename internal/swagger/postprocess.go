package swagger

// PostProcess cleans the merged document:
//   - drops bare wildcard paths that come from generic middleware
//   - re-keys any lingering colon-style paths
//   - repairs conventional collection/resource endpoint shapes: create
//     returns 201 with the best available schema and an optional body,
//     list/read endpoints never advertise a 400, and a delete-by-id
//     endpoint's optional dependent-resource parameter accepts either a
//     single string or an array of strings.
func PostProcess(doc *Document) {
	paths := doc.Paths

	delete(paths, "/*")
	delete(paths, "*")

	for original, methods := range paths {
		normalized := NormalizeRoute(original)
		if normalized == original {
			continue
		}
		delete(paths, original)
		if existing, ok := paths[normalized]; ok {
			for method, operation := range methods {
				existing[method] = operation
			}
		} else {
			paths[normalized] = methods
		}
	}

	repairCreate(paths)
	repairRead(paths)
	repairDelete(paths)
}

// repairCreate rewrites POST /{name}: the body becomes optional and the
// response set collapses to 201 (reusing an existing schema when one is
// available) plus 404.
func repairCreate(paths map[string]PathItem) {
	post, ok := paths["/{name}"]["post"]
	if !ok {
		return
	}

	if body, ok := asMap(post["requestBody"]); ok {
		body["required"] = false
	}

	schema := findResponseSchema(post, "201", "200")
	if schema == nil {
		schema = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "string"},
			},
			"additionalProperties": true,
		}
	}

	post["responses"] = map[string]any{
		"201": map[string]any{
			"description": "Resource created successfully.",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": schema,
				},
			},
		},
		"404": map[string]any{"description": "Collection not found."},
	}
}

// repairRead removes the spurious 400 from GET /{name}.
func repairRead(paths map[string]PathItem) {
	get, ok := paths["/{name}"]["get"]
	if !ok {
		return
	}
	if responses, ok := asMap(get["responses"]); ok {
		delete(responses, "400")
	}
}

// repairDelete widens the _dependent parameter on DELETE /{name}/{id} to
// accept a string or an array of strings.
func repairDelete(paths map[string]PathItem) {
	del, ok := paths["/{name}/{id}"]["delete"]
	if !ok {
		return
	}
	params, ok := del["parameters"].([]any)
	if !ok {
		return
	}
	for _, raw := range params {
		param, ok := asMap(raw)
		if !ok || param["name"] != "_dependent" {
			continue
		}
		param["schema"] = map[string]any{
			"oneOf": []any{
				map[string]any{"type": "string"},
				map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		}
		break
	}
}

// findResponseSchema returns the application/json schema of the first listed
// status code that carries one.
func findResponseSchema(op Operation, codes ...string) any {
	responses, ok := asMap(op["responses"])
	if !ok {
		return nil
	}
	for _, code := range codes {
		response, ok := asMap(responses[code])
		if !ok {
			continue
		}
		content, ok := asMap(response["content"])
		if !ok {
			continue
		}
		appJSON, ok := asMap(content["application/json"])
		if !ok {
			continue
		}
		if schema := appJSON["schema"]; schema != nil {
			return schema
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
