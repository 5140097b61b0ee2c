package models

// Response is the JSON envelope written by every endpoint.
type Response struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	ID         string      `json:"id,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

func NewMessageResponse(statusCode int, message string) Response {
	return Response{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewValidationResponse(statusCode int, errors interface{}) Response {
	return Response{
		Success:    false,
		StatusCode: statusCode,
		Message:    "Validation failed",
		Errors:     errors,
	}
}

func NewDataResponse(statusCode int, message string, data interface{}) Response {
	return Response{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

func NewCreatedResponse(message, id string, data interface{}) Response {
	return Response{
		Success:    true,
		StatusCode: 201,
		Message:    message,
		Data:       data,
		ID:         id,
	}
}
