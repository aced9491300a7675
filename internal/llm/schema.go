package llm

// keywords is the subset of JSON Schema that the Gemini SDKs can express.
type keywords struct {
	Type        string
	Description string
	Properties  map[string]map[string]any
	Required    []string
	Enum        []string
	Items       map[string]any
}

func readKeywords(def map[string]any) keywords {
	var k keywords
	k.Type, _ = def["type"].(string)
	k.Description, _ = def["description"].(string)
	k.Required = stringList(def["required"])
	k.Enum = stringList(def["enum"])
	k.Items, _ = def["items"].(map[string]any)

	if props, ok := def["properties"].(map[string]any); ok {
		k.Properties = make(map[string]map[string]any, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				k.Properties[name] = sub
			}
		}
	}
	return k
}

// stringList reads a []any or []string schema keyword as strings.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
