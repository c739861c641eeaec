package common

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ParseJSONPrefix 只解析第一個 JSON 值，忽略其後的文字（模型常在 JSON 後附上說明）
func ParseJSONPrefix(data string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// Truncate 截斷長字串供日誌預覽，截點落在字元邊界上
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
