package gui

import (
	"errors"

	"statsboard/pkg/domain"
	"statsboard/pkg/errx"
)

// CodeUnknown 未识别的错误
const CodeUnknown errx.Code = "UNKNOWN_ERROR"

// 未携带错误码时按领域错误映射
var errorMappings = map[error]errx.Code{
	domain.ErrNoToken:                errx.CodeMissingCredential,
	domain.ErrTokenInvalid:           errx.CodeInvalidCredential,
	domain.ErrStatsUnavailable:       errx.CodeStatsUnavailable,
	domain.ErrBackendUnreachable:     errx.CodeNetwork,
	domain.ErrInvalidResponse:        errx.CodeInvalidResponse,
	domain.ErrInvalidInput:           errx.CodeInvalidInput,
	domain.ErrChartNotFound:          errx.CodeInvalidInput,
	domain.ErrRejected:               errx.CodeRejected,
	domain.ErrDatabaseNotInitialized: errx.CodeStorage,
	domain.ErrRecordNotFound:         errx.CodeStorage,
}

// translateError 将错误转换为错误码与展示文本
func (a *App) translateError(err error) (errx.Code, string) {
	if err == nil {
		return "", ""
	}

	if code := errx.CodeOf(err); code != "" {
		a.log.Debug("业务错误", "code", code, "error", err.Error())
		return code, errx.MessageOf(err)
	}

	for domainErr, code := range errorMappings {
		if errors.Is(err, domainErr) {
			a.log.Err(err, "业务错误", "code", code)
			return code, ""
		}
	}

	a.log.Err(err, "未知错误")
	return CodeUnknown, err.Error()
}
