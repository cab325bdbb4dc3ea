package feature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/empowerverse/feedkit/pkg/conv"
)

// FlattenText 将任意嵌套的 JSON 负载（map/list/标量）递归展平为
// "key: value" 文本片段列表，供文本编码器消费。
//
// 规则：
//   - 标量：输出 "prefix: value"（prefix 为空时只输出值）
//   - map：按 key 字典序递归，路径用 "." 连接（保证输出确定性）
//   - list：逐元素递归，路径不追加下标
//
// 用于 Post.Summary / Post.Topic 等结构不固定的上游字段。
func FlattenText(prefix string, v any) []string {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out []string
		for _, k := range keys {
			out = append(out, FlattenText(joinPath(prefix, k), val[k])...)
		}
		return out
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, FlattenText(prefix, item)...)
		}
		return out
	case []string:
		var out []string
		for _, item := range val {
			out = append(out, FlattenText(prefix, item)...)
		}
		return out
	default:
		s := scalarText(val)
		if s == "" {
			return nil
		}
		if prefix == "" {
			return []string{s}
		}
		return []string{fmt.Sprintf("%s: %s", prefix, s)}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// scalarText 格式化标量；整值浮点不带小数位（JSON 数字统一是 float64）。
func scalarText(v any) string {
	if s, ok := conv.ToString(v); ok {
		return strings.TrimSpace(s)
	}
	if f, ok := conv.ToFloat64(v); ok {
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%g", f)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
