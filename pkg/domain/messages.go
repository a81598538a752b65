package domain

// 展示给用户的提示文本
const (
	MsgNotAuthorized   = "Not authorized. Redirecting..."
	MsgSessionExpired  = "Session expired. Redirecting..."
	MsgLoadingCharts   = "Loading charts..."
	MsgStatsFailed     = "Failed to load statistics"
	MsgConnectFailed   = "Failed to connect to the server"
	MsgLoginSuccess    = "Login successful"
	MsgLoginFailed     = "Login failed"
	MsgServerError     = "Server error"
	MsgRegisterSuccess = "Registration successful. Scan the QR code to set up MFA."
	MsgRegisterFailed  = "Registration failed"
	MsgWelcomePrefix   = "Welcome, "
	MsgMissingFields   = "All fields are required"
	MsgInvalidMFACode  = "The MFA code must be numeric"
)
