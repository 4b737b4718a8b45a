package models

// AIError is the error body shape shared by the supported provider APIs.
type AIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
