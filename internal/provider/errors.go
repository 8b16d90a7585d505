package provider

import "github.com/gofiber/fiber/v3"

// Error 表示对当前请求终止性的处理错误，直接映射为 HTTP 状态码加可读消息。
// 流水线没有任何重试：错误一律向上传播并结束请求。
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

func badRequest(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

func internalError(message string) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: message}
}
