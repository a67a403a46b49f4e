package model

// ActionResult is the uniform return shape of every mutation entry point.
// When Success is false exactly one of Errors (field-level validation) or
// Message (store/dependency failure) is populated; on success Errors is nil.
type ActionResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func ActionOK(message string) *ActionResult {
	return &ActionResult{Success: true, Message: message}
}

func ActionFailed(message string) *ActionResult {
	return &ActionResult{Success: false, Message: message}
}

func ActionInvalid(errors map[string][]string) *ActionResult {
	return &ActionResult{Success: false, Errors: errors}
}
