package webhook

import "fmt"

// Resolve converts an arbitrarily-shaped automation response into a Result.
// The payload may be the response object itself or wrapped in a {data: ...}
// envelope. No input shape is an error: absent or mistyped fields degrade to
// the empty value for that piece.
func Resolve(payload any) Result {
	root := unwrap(payload)
	return Result{
		Insights: resolveInsights(root),
		Bids:     resolveBids(root),
	}
}

// ResolveBytes decodes a raw webhook body and resolves it.
func ResolveBytes(body []byte) (Result, error) {
	payload, err := Decode(body)
	if err != nil {
		return Result{}, fmt.Errorf("invalid JSON from automation webhook: %w", err)
	}
	return Resolve(payload), nil
}

// unwrap strips a {data: ...} envelope when the wrapped value is an object.
func unwrap(payload any) *Object {
	root := asObject(payload)
	if root == nil {
		return nil
	}
	if data, ok := root.Get("data"); ok {
		if inner := asObject(data); inner != nil {
			return inner
		}
	}
	return root
}

// resolveInsights probes insights, then ai_insights, then the nested
// project.ai_insights; the first non-null hit wins.
func resolveInsights(root *Object) InsightBundle {
	var bundle InsightBundle
	if root == nil {
		return bundle
	}

	source, ok := firstValue(root, "insights", "ai_insights")
	if !ok {
		if project, has := root.Get("project"); has {
			source, ok = firstValue(asObject(project), "ai_insights")
		}
	}
	if !ok {
		return bundle
	}

	switch v := source.(type) {
	case string:
		bundle.Summary = v
	case []any:
		for _, item := range v {
			bundle.Highlights = append(bundle.Highlights, stringifyItem(item))
		}
	case *Object:
		if s, has := v.Get("summary"); has {
			if str, isStr := s.(string); isStr {
				bundle.Summary = str
			}
		}
		if highlights, has := v.Get("highlights"); has {
			for _, item := range asArray(highlights) {
				bundle.Highlights = append(bundle.Highlights, stringifyItem(item))
			}
		}
		if metrics, has := v.Get("metrics"); has {
			bundle.Metrics = resolveMetrics(metrics)
		}
		// Falsy overviews (0, false, "") never become a summary.
		if bundle.Summary == "" {
			if overview, has := v.Get("overview"); has && truthy(overview) {
				bundle.Summary = stringify(overview)
			}
		}
	}

	return bundle
}

// resolveMetrics accepts either a list of metric-like objects or a plain
// key/value object and returns ordered label/value pairs. Key order of a
// plain object is preserved from the wire.
func resolveMetrics(v any) []Metric {
	if list := asArray(v); list != nil {
		metrics := make([]Metric, 0, len(list))
		for i, entry := range list {
			obj := asObject(entry)
			label := fmt.Sprintf("Metric %d", i+1)
			if v, ok := firstValue(obj, "label", "name", "title"); ok {
				label = stringify(v)
			}
			value := "-"
			if v, ok := firstValue(obj, "value", "score", "amount", "percentage"); ok {
				value = stringify(v)
			}
			metrics = append(metrics, Metric{Label: label, Value: value})
		}
		return metrics
	}

	if obj := asObject(v); obj != nil {
		metrics := make([]Metric, 0, obj.Len())
		for _, label := range obj.Keys() {
			value, _ := obj.Get(label)
			metrics = append(metrics, Metric{Label: label, Value: stringify(value)})
		}
		return metrics
	}

	return nil
}

// resolveBids probes the bid-list aliases in order; the first array wins.
func resolveBids(root *Object) []NormalizedBid {
	if root == nil {
		return nil
	}

	var list []any
	for _, key := range []string{"top_bids", "topBids", "bids", "opportunities"} {
		if v, ok := root.Get(key); ok {
			if arr := asArray(v); arr != nil {
				list = arr
				break
			}
		}
	}
	if list == nil {
		return nil
	}

	bids := make([]NormalizedBid, 0, len(list))
	for i, item := range list {
		bids = append(bids, NormalizeBid(asObject(item), i))
	}
	return bids
}

// stringifyItem renders a highlight entry: strings pass through, anything
// else gets its JSON encoding.
func stringifyItem(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}
