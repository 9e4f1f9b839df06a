package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var ErrEmptyCheckWord = errors.New("check word is empty")

// HashCheckWord 生成校验词的 bcrypt 哈希，写入配置 check-word-hash 后配置文件中不再需要明文
func HashCheckWord(word string) (string, error) {
	if word == "" {
		return "", ErrEmptyCheckWord
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(word), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}
