package utils

import "github.com/gofiber/fiber/v2"

// Error codes carried in failure responses. They mirror the service error
// taxonomy so clients can branch without parsing messages.
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDependencyFailure = "DEPENDENCY_FAILURE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code. The
// error code defaults from the status when not supplied.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendErrorCode(c, status, codeForStatus(status), message)
}

// SendErrorCode sends an error JSON response carrying an explicit error code.
func SendErrorCode(c *fiber.Ctx, status int, code, message string) error {
	if message == "" {
		message = "error"
	}
	if code == "" {
		code = codeForStatus(status)
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return CodeUnauthenticated
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusBadRequest:
		return CodeValidationError
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusBadGateway:
		return CodeDependencyFailure
	default:
		return CodeInternalError
	}
}
