package mealplan

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// 模型常把數字寫成字串，或把字串寫成數字；以下函式盡量取值，取不到就回傳零值

type object map[string]json.RawMessage

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
)

// lookup 依序嘗試別名，回傳第一個存在且非 null 的欄位
func (o object) lookup(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := o[k]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

func (o object) str(keys ...string) string {
	raw, ok := o.lookup(keys...)
	if !ok {
		return ""
	}
	return lenientString(raw)
}

func (o object) integer(keys ...string) *int {
	raw, ok := o.lookup(keys...)
	if !ok {
		return nil
	}
	return lenientInt(raw)
}

func (o object) dec(keys ...string) *decimal.Decimal {
	raw, ok := o.lookup(keys...)
	if !ok {
		return nil
	}
	return lenientDecimal(raw)
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func asObject(raw json.RawMessage) (object, bool) {
	if firstByte(raw) != '{' {
		return nil, false
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false
	}
	return o, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if firstByte(raw) != '[' {
		return nil, false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func lenientString(raw json.RawMessage) string {
	switch c := firstByte(raw); {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case c == '-' || (c >= '0' && c <= '9'):
		return string(bytes.TrimSpace(raw))
	default:
		return ""
	}
}

func lenientInt(raw json.RawMessage) *int {
	d := lenientDecimal(raw)
	if d == nil {
		// "15 minutes" 之類的字串取開頭數字
		digits := leadingDigits(lenientString(raw))
		if digits == "" {
			return nil
		}
		n, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return nil
		}
		v := int(n)
		return &v
	}
	// 超出 int32 範圍視為無效
	if d.LessThan(minInt32) || d.GreaterThan(maxInt32) {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

func lenientDecimal(raw json.RawMessage) *decimal.Decimal {
	s := lenientString(raw)
	if s == "" {
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return &d
	}
	// 支援 "1/2" 這類分數
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := decimal.NewFromString(strings.TrimSpace(num))
		m, err2 := decimal.NewFromString(strings.TrimSpace(den))
		if err1 == nil && err2 == nil && !m.IsZero() {
			d := n.DivRound(m, 4)
			return &d
		}
	}
	return nil
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
