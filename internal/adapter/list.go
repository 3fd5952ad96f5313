package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// listShapes are tried in order; the first match wins. New backend shapes go
// at the end.
var listShapes = []func(gjson.Result) (gjson.Result, bool){
	// {success: true, data: [...]}
	func(root gjson.Result) (gjson.Result, bool) {
		data := root.Get("data")
		return data, root.Get("success").Bool() && data.IsArray()
	},
	// [...]
	func(root gjson.Result) (gjson.Result, bool) {
		return root, root.IsArray()
	},
	// {data: [...]}
	func(root gjson.Result) (gjson.Result, bool) {
		data := root.Get("data")
		return data, data.IsArray()
	},
	// {data: {data: [...]}}
	func(root gjson.Result) (gjson.Result, bool) {
		data := root.Get("data.data")
		return data, data.IsArray()
	},
}

// NormalizeList extracts the item list from any known list envelope. Unknown
// shapes yield an empty list.
func NormalizeList(body []byte) []json.RawMessage {
	if !gjson.ValidBytes(body) {
		return []json.RawMessage{}
	}
	return normalize(gjson.ParseBytes(body), listShapes)
}

func normalize(root gjson.Result, shapes []func(gjson.Result) (gjson.Result, bool)) []json.RawMessage {
	for _, shape := range shapes {
		if list, ok := shape(root); ok {
			items := list.Array()
			out := make([]json.RawMessage, 0, len(items))
			for _, item := range items {
				out = append(out, json.RawMessage(item.Raw))
			}
			return out
		}
	}
	return []json.RawMessage{}
}

// DecodeList normalizes body and decodes every item into T.
func DecodeList[T any](body []byte) ([]T, error) {
	const op = "adapter.DecodeList"

	raw := NormalizeList(body)
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("%s: item %d: %w", op, i, err)
		}
		out = append(out, v)
	}

	return out, nil
}

// DecodeRecord decodes a single record, unwrapping {success, data: {...}}
// and {data: {...}} envelopes.
func DecodeRecord[T any](body []byte) (*T, error) {
	const op = "adapter.DecodeRecord"

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: invalid json", op)
	}

	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.IsObject() {
		root = data
	}

	v := new(T)
	if err := json.Unmarshal([]byte(root.Raw), v); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}
