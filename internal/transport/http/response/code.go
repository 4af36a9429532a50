package response

// 业务码：0 成功，其余直接沿用 HTTP 状态码
const (
	CodeOK                  = 0
	CodeBadRequest          = 400
	CodeUnauthorized        = 401
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeNotAcceptable       = 406
	CodeConflict            = 409
	CodeRequestTooLarge     = 413
	CodeUnprocessableEntity = 422
	CodeServerError         = 500
	CodeUnavailable         = 503
	CodeTimeout             = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:                  "OK",
	CodeBadRequest:          "Bad Request",
	CodeUnauthorized:        "Unauthorized",
	CodeForbidden:           "Forbidden",
	CodeNotFound:            "Not Found",
	CodeNotAcceptable:       "Not Acceptable",
	CodeConflict:            "Conflict",
	CodeRequestTooLarge:     "Request Entity Too Large",
	CodeUnprocessableEntity: "Unprocessable Entity",
	CodeServerError:         "Internal Server Error",
	CodeUnavailable:         "Service Unavailable",
	CodeTimeout:             "Gateway Timeout",
}
