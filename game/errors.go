package game

import "errors"

// Kind 错误分类
type Kind int

const (
	// KindUserInput 用户输入错误：只回报给发起连接，不影响其他房间
	KindUserInput Kind = iota + 1
)

// Error 携带分类与面向用户文本的领域错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// 哨兵错误，直接用 errors.Is 比较
var (
	ErrNameRequired  = &Error{Kind: KindUserInput, Message: "Name is required."}
	ErrRoomNotFound  = &Error{Kind: KindUserInput, Message: "Room not found."}
	ErrGameStarted   = &Error{Kind: KindUserInput, Message: "Game already started."}
	ErrRoomFull      = &Error{Kind: KindUserInput, Message: "Game is full."}
	ErrAlreadySeated = &Error{Kind: KindUserInput, Message: "Already in a room."}
)

// IsUserInput 判断错误是否应回报给客户端
func IsUserInput(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUserInput
}
