package api

import "statsboard/pkg/errx"

// Response 是所有前后端通信的统一响应格式
type Response[T any] struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OK 构造成功响应
func OK[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

// OKWithMessage 构造带提示信息的成功响应
func OKWithMessage[T any](data T, message string) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail 构造失败响应
func Fail[T any](code errx.Code, message string) Response[T] {
	return Response[T]{
		Success: false,
		Code:    string(code),
		Message: message,
	}
}

// FailWithData 构造携带视图数据的失败响应（例如重定向信息）
func FailWithData[T any](code errx.Code, message string, data T) Response[T] {
	return Response[T]{
		Success: false,
		Code:    string(code),
		Message: message,
		Data:    data,
	}
}

// EmptyData 用于无业务数据返回的场景
type EmptyData struct{}
