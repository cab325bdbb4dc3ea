package feature

import (
	"strings"

	"github.com/empowerverse/feedkit/core"
)

// ComposePostText 拼出内容条目的描述文本：
// 标题、slug、类目、标签，再接上 topic/summary 的递归展平结果。
// 字段缺失直接跳过，不产生占位符。
func ComposePostText(post *core.Post) string {
	parts := make([]string, 0, 8)

	if post.Title != "" {
		parts = append(parts, post.Title)
	}
	if post.Slug != "" {
		parts = append(parts, strings.ReplaceAll(post.Slug, "-", " "))
	}
	if post.CategoryName != "" {
		parts = append(parts, post.CategoryName)
	}
	if len(post.Tags) > 0 {
		parts = append(parts, strings.Join(post.Tags, " "))
	}
	parts = append(parts, FlattenText("topic", post.Topic)...)
	parts = append(parts, FlattenText("summary", post.Summary)...)

	return strings.Join(parts, ". ")
}

// ComposeUserText 拼出用户的画像文本：bio、角色、用户类型。
func ComposeUserText(user *core.User) string {
	parts := make([]string, 0, 3)

	if user.Bio != "" {
		parts = append(parts, user.Bio)
	}
	if user.Role != "" {
		parts = append(parts, user.Role)
	}
	if user.UserType != "" {
		parts = append(parts, user.UserType)
	}

	return strings.Join(parts, ". ")
}
