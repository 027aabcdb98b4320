package game

import "strings"

const (
	roomIDLength = 5
	// 去掉易混淆字符 I O 0 1
	roomIDChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

func newRoomID(src Source) string {
	b := make([]byte, roomIDLength)
	for i := range b {
		b[i] = roomIDChars[src.Intn(len(roomIDChars))]
	}
	return string(b)
}

// ValidRoomID 判断字符串是否符合房间号格式
func ValidRoomID(id string) bool {
	if len(id) != roomIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(roomIDChars, id[i]) < 0 {
			return false
		}
	}
	return true
}
