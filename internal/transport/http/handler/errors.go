package handler

const (
	errInternalServer     = "Internal server error"
	errAlreadyRegistered  = "Email already registered"
	errInvalidCode        = "Verification code is invalid or expired"
	errContextExpired     = "Code expired, restart registration"
	errDuplicateUser      = "User with this email already exists"
	errInvalidCredentials = "Invalid email or password"
	errNotification       = "Failed to send verification code"
	errCityTooShort       = "City name must be at least 2 characters"
	errCityNotFound       = "City not found"
	errHistoryNotFound    = "History record not found"
	errWeatherUnavailable = "Weather service temporarily unavailable"
)
