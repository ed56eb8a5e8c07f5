package utils

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// 易记短码的词表（形容词-名词-两位数，如 happy-tree-42）
var codeAdjectives = []string{
	"happy", "bright", "calm", "swift", "quiet", "bold", "wise", "kind",
	"cool", "warm", "soft", "wild", "free", "pure", "clear", "fair",
	"blue", "red", "green", "gold", "pink", "teal", "jade", "ruby",
}

var codeNouns = []string{
	"star", "moon", "sun", "wind", "wave", "tree", "leaf", "bird",
	"fish", "bear", "wolf", "lion", "eagle", "hawk", "owl", "fox",
	"river", "ocean", "forest", "mountain", "valley", "meadow", "garden",
}

// maxCodeAttempts 短码生成最多重试次数，超过后追加时间戳兜底
const maxCodeAttempts = 100

// GenerateCode 生成一个随机短码，格式 adjective-noun-NN
func GenerateCode() string {
	adjective := codeAdjectives[rand.Intn(len(codeAdjectives))]
	noun := codeNouns[rand.Intn(len(codeNouns))]
	number := rand.Intn(100)
	return fmt.Sprintf("%s-%s-%d", adjective, noun, number)
}

// GenerateUniqueCode 生成未被占用的短码
// exists 回调查询占用情况；重试 maxCodeAttempts 次仍冲突时，
// 在末尾追加时间戳后四位保证唯一（词表空间有限，撞满是可能的）。
func GenerateUniqueCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	code := GenerateCode()
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		code = GenerateCode()
	}

	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("%s-%s", code, ts[len(ts)-4:]), nil
}
