package mealplan

import "strings"

// SanitizeJSON 將字串常值內未跳脫的換行、歸位與 tab 改寫為跳脫序列。
// 其他語法錯誤（尾逗號、未加引號的鍵）保持原樣，交由解析階段回報。
func SanitizeJSON(json string) string {
	var sb strings.Builder
	sb.Grow(len(json) + 16)

	inString := false
	escaped := false

	for i := 0; i < len(json); i++ {
		c := json[i]

		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}

		switch c {
		case '\\':
			sb.WriteByte(c)
			escaped = true
			continue
		case '"':
			sb.WriteByte(c)
			inString = !inString
			continue
		}

		if !inString {
			sb.WriteByte(c)
			continue
		}

		switch c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}
