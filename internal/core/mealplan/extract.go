package mealplan

import (
	"strings"

	"github.com/tidwall/gjson"
)

const fenceMarker = "```"

// ExtractJSON 從模型輸出中取出 JSON 片段，只做字串切割，不驗證語法。
// 優先順序：```json 區塊 → 任一 ``` 區塊 → 第一個 { 到結尾 → 原文。
func ExtractJSON(text string) string {
	response := strings.TrimSpace(text)

	if body, ok := fencedBlock(response, fenceMarker+"json"); ok {
		return body
	}
	if body, ok := fencedBlock(response, fenceMarker); ok {
		return body
	}
	if start := strings.IndexByte(response, '{'); start != -1 {
		return strings.TrimSpace(response[start:])
	}
	return response
}

// fencedBlock 回傳 marker 所在行之後、下一個 ``` 之前的內容
func fencedBlock(response, marker string) (string, bool) {
	start := strings.Index(response, marker)
	if start == -1 {
		return "", false
	}

	contentStart := len(response)
	if nl := strings.IndexByte(response[start:], '\n'); nl != -1 {
		contentStart = start + nl + 1
	}

	end := strings.Index(response[contentStart:], fenceMarker)
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(response[contentStart : contentStart+end]), true
}

// ExtractArray 從模型輸出讀取 JSON 陣列。
// 先看擷取並清理後的結果；不是合法 JSON 時改取第一個 [ 到最後一個 ] 之間的文字。
// 合法但不是陣列的 JSON 回傳 false。
func ExtractArray(text string) (gjson.Result, bool) {
	payload := strings.TrimSpace(SanitizeJSON(ExtractJSON(text)))
	if !gjson.Valid(payload) {
		sanitized := SanitizeJSON(text)
		start, end := strings.IndexByte(sanitized, '['), strings.LastIndexByte(sanitized, ']')
		if start == -1 || end < start {
			return gjson.Result{}, false
		}
		payload = sanitized[start : end+1]
		if !gjson.Valid(payload) {
			return gjson.Result{}, false
		}
	}

	r := gjson.Parse(payload)
	if !r.IsArray() {
		return gjson.Result{}, false
	}
	return r, true
}
