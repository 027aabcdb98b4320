package game

import (
	"crypto/rand"
	"math/big"
)

// ShellCount 每次掷出的贝壳数
const ShellCount = 4

// Source 随机源，便于测试时替换为确定性实现
type Source interface {
	// Intn 返回 [0, n) 内的整数
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource 基于 crypto/rand 的随机源
func NewCryptoSource() Source { return cryptoSource{} }

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("game: Intn called with n <= 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}

// RollShells 掷四枚贝壳，返回点数与朝下的枚数
// 全部朝上记 8，全部朝下记 4，其余按朝下枚数计
func RollShells(src Source) (value, down int) {
	for i := 0; i < ShellCount; i++ {
		if src.Intn(2) == 1 {
			down++
		}
	}
	return shellValue(down), down
}

func shellValue(down int) int {
	switch down {
	case 0:
		return 8
	case ShellCount:
		return 4
	default:
		return down
	}
}
