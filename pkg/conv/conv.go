// Package conv 提供 slice / map 转换的泛型工具，用于简化各模块中的重复逻辑。
package conv

import "strconv"

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
// nil 输入返回 nil；非 nil 的空输入返回非 nil 的空切片。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// ToAnySlice 将 []T 转为 []any，表达式求值时作为 list 传入。nil 视为空列表。
func ToAnySlice[T any](s []T) []any {
	if s == nil {
		return []any{}
	}
	return ConvertSlice(s, func(v T) (any, bool) { return v, true })
}

// ConvertKeys 将 map[K1]V 的 key 按 convert 转换，convert 返回 false 的条目被跳过。
func ConvertKeys[K1, K2 comparable, V any](m map[K1]V, convert func(K1) (K2, bool)) map[K2]V {
	if m == nil {
		return nil
	}
	out := make(map[K2]V, len(m))
	for k, v := range m {
		if k2, ok := convert(k); ok {
			out[k2] = v
		}
	}
	return out
}

// ParseInt64 是 strconv.ParseInt 的 (value, ok) 形式，便于配合 ConvertKeys 使用。
func ParseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}
