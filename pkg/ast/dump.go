package ast

// Dump converts a tree into nested maps and slices suitable for JSON or YAML
// encoding. Zero-valued payload fields are omitted; positions are included
// unless withPos is false.
func Dump(n *Node, withPos bool) map[string]any {
	if n == nil {
		return nil
	}

	out := map[string]any{"kind": n.Kind.String()}
	if withPos {
		out["pos"] = n.Pos
		if n.End.IsValid() {
			out["end"] = n.End
		}
	}

	setString(out, "value", n.Value)
	setString(out, "name", n.Name)
	setString(out, "marker", n.Marker)
	setString(out, "lang", n.Lang)
	setString(out, "url", n.URL)
	setString(out, "title", n.Title)
	if n.Level > 0 {
		out["level"] = n.Level
	}
	if n.Ordered {
		out["ordered"] = true
	}
	if n.Flagged {
		out["flagged"] = true
	}
	if len(n.Lines) > 0 {
		out["lines"] = n.Lines
	}
	if len(n.Cells) > 0 {
		out["cells"] = n.Cells
	}
	if len(n.Pairs) > 0 {
		pairs := make([]map[string]any, 0, len(n.Pairs))
		for _, kv := range n.Pairs {
			pairs = append(pairs, map[string]any{"key": kv.Key, "value": kv.Value})
		}
		out["pairs"] = pairs
	}
	if len(n.Inline) > 0 {
		out["inline"] = dumpAll(n.Inline, withPos)
	}
	if len(n.Children) > 0 {
		out["children"] = dumpAll(n.Children, withPos)
	}
	return out
}

func dumpAll(nodes []*Node, withPos bool) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Dump(n, withPos))
	}
	return out
}

func setString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
