package shortcode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet 短码字符集，去掉了容易混淆的 I O l o 0 1，共 56 个字符
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// Length 短码固定长度
const Length = 6

// Generate 生成一个随机短码
//
// 每个随机字节对字符集长度取模，前 256%56 个字符的概率略高，
// 这是既有的分布特征，不在这里修正。
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	code := make([]byte, Length)
	for i, b := range buf {
		code[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(code), nil
}

// IsValid 校验短码长度以及每个字符是否都在字符集内
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
