// Package utils 提供 slug/pagination 等通用工具
package utils

import (
	"strings"
	"unicode"
)

// translitTable 常用西里尔字符到拉丁字符的映射，URL slug 统一使用拉丁字符
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify 将任意文本转换成 URL-safe 的 slug：小写、转写、非字母数字折叠为连字符
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // 避免前导连字符

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.Is(unicode.Cyrillic, r):
			if t, ok := translitTable[r]; ok {
				b.WriteString(t)
				if t != "" {
					lastDash = false
				}
			}
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Paginate 规范化分页参数，返回 offset 与 limit
func Paginate(page, size, maxSize int) (int, int) {
	if size <= 0 {
		size = 20
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * size, size
}
