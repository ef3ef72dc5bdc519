package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash 全量状态的内容哈希，取 sha256 前 16 个十六进制字符。
// encoding/json 对 struct 字段按声明序、对 map 按键排序输出，
// 相同字段值必然得到相同哈希；回合推进、任何一处状态变化都会改变它。
func (s *GameState) Hash() string {
	raw, err := json.Marshal(s)
	if err != nil {
		// GameState 全部是可序列化的纯数据，到这里只可能是编程错误。
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}
