// Package digest формирует краткую сводку входных данных для журнала предсказаний.
// В журнал пишется только sha256-дайджест, а не сами медицинские данные.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum возвращает hex-представление sha256-дайджеста входных данных.
func Sum(input []byte) string {
	h := sha256.Sum256(input)
	return hex.EncodeToString(h[:])
}
