// Package stockupload は在庫アップロード（CSV由来のJSON配列）を読む。
package stockupload

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"cardstash/internal/domain/model"
)

var (
	// 配列ではない
	ErrNotArray = errors.New("expected an array")
	// 空の配列
	ErrEmpty = errors.New("empty upload")
)

// 在庫アップロードの検証結果
type Upload struct {
	Levels   []model.StockLevel
	Received int
	// 形式不正でスキップした行数
	Invalid int
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse はJSON配列を読む。
// 数値は文字列でもよい。IDは product_id か id。
// id不正・数量が整数でない・数量が負かINTEGERに収まらない行はスキップする。
func Parse(body []byte) (Upload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Upload{}, ErrNotArray
	}
	rows, ok := raw.([]any)
	if !ok {
		return Upload{}, ErrNotArray
	}
	if len(rows) == 0 {
		return Upload{}, ErrEmpty
	}

	out := Upload{Received: len(rows), Levels: make([]model.StockLevel, 0, len(rows))}
	for _, r := range rows {
		level, ok := parseStockRow(r)
		if !ok {
			out.Invalid++
			continue
		}
		out.Levels = append(out.Levels, level)
	}
	return out, nil
}

func parseStockRow(r any) (model.StockLevel, bool) {
	obj, ok := r.(map[string]any)
	if !ok {
		return model.StockLevel{}, false
	}

	idVal, has := obj["product_id"]
	if !has || isBlank(idVal) {
		idVal = obj["id"]
	}
	id, ok := toInt(idVal)
	if !ok || id <= 0 {
		return model.StockLevel{}, false
	}

	qty, ok := toInt(obj["quantity"])
	// inventory.quantity はINTEGER
	if !ok || qty < 0 || qty > math.MaxInt32 {
		return model.StockLevel{}, false
	}

	level := model.StockLevel{ProductID: id, Quantity: qty}
	// 日時が読めなければ現在時刻にまかせる
	if s, ok := obj["last_updated"].(string); ok {
		if t, ok := parseTime(s); ok {
			level.LastUpdated = &t
		}
	}
	return level, true
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// 整数かその文字列だけ受け付ける
func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
