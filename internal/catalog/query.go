package catalog

import (
	"strings"
)

// q の1項目（key:value）。valueは小文字化済み
type Term struct {
	Key   string
	Value string
}

var valueCleaner = strings.NewReplacer(`"`, "", "*", "")

// "name:char* types:fire" のような空白区切りの条件を読む。
// keyかvalueが空の項目は捨てる
func ParseQuery(q string) []Term {
	var terms []Term
	for _, part := range strings.Split(q, " ") {
		key, value, ok := strings.Cut(part, ":")
		if !ok || key == "" || value == "" {
			continue
		}
		// "a:b:c" は "a" と "b" として読む
		value, _, _ = strings.Cut(value, ":")
		value = strings.ToLower(valueCleaner.Replace(value))
		terms = append(terms, Term{Key: key, Value: value})
	}
	return terms
}

// select=id,name,set.name のような射影
func ParseSelect(sel string) []string {
	var fields []string
	for _, f := range strings.Split(sel, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// 指定フィールドだけを持つmapを作る。"obj.prop" は1段だけ辿る
func Project(card Card, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		obj, prop, nested := strings.Cut(f, ".")
		if !nested {
			out[f] = card.raw[f]
			continue
		}
		// ".." 以降は捨てる
		prop, _, _ = strings.Cut(prop, ".")

		src, ok := card.raw[obj].(map[string]any)
		if !ok {
			continue
		}
		dst, ok := out[obj].(map[string]any)
		if !ok {
			dst = map[string]any{}
			out[obj] = dst
		}
		dst[prop] = src[prop]
	}
	return out
}

// ページ切り出し。範囲外は空
func Page[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
